package services

import (
	"context"
	"fmt"

	"github.com/winmanuel/eduhub/internal/events"
	"github.com/winmanuel/eduhub/internal/models"
	"github.com/winmanuel/eduhub/internal/seed"
)

// Defaults applied by CreateCourse to unset fields.
const (
	defaultCategory      = "General"
	defaultLevel         = models.LevelBeginner
	defaultDuration      = 5
	defaultFullTextLimit = 20
)

type courseService struct {
	serviceBase
}

func NewCourseService(deps Dependencies) CourseService {
	return &courseService{serviceBase: newServiceBase(deps, "course")}
}

// CreateCourse creates an unpublished course owned by an existing
// instructor.
func (s *courseService) CreateCourse(ctx context.Context, req *CreateCourseRequest) (*models.Course, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	instructor, err := s.repo.User().GetByID(ctx, nil, req.InstructorID)
	if err != nil {
		return nil, mapRepoError(err, ErrUserNotFound, req.InstructorID)
	}
	if instructor.Role != models.RoleInstructor {
		return nil, fmt.Errorf("%w: %s", ErrNotAnInstructor, req.InstructorID)
	}

	courseID := req.CourseID
	if courseID == "" {
		courseID = newID(seed.PrefixCourse)
	}

	now := s.timestamp()
	course := &models.Course{
		CourseID:     courseID,
		Title:        req.Title,
		Description:  req.Description,
		InstructorID: req.InstructorID,
		Category:     req.Category,
		Level:        models.CourseLevel(req.Level),
		Price:        req.Price,
		Duration:     req.Duration,
		Tags:         []string{},
		IsPublished:  false,
		CreatedAt:    now,
		UpdatedAt:    &now,
	}
	if course.Category == "" {
		course.Category = defaultCategory
	}
	if course.Level == "" {
		course.Level = defaultLevel
	}
	if course.Duration == 0 {
		course.Duration = defaultDuration
	}
	course.MergeTags(req.Tags...)

	if errs := s.validator.Validate(course); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.Course().Create(ctx, nil, course); err != nil {
		return nil, mapRepoError(err, ErrCourseNotFound, courseID)
	}

	s.cache.InvalidateReports(ctx)
	s.logger.Info().Str("course_id", course.CourseID).Str("instructor_id", course.InstructorID).Msg("course created")
	s.publish(ctx, events.CourseCreated, events.EntityCourse, course.CourseID, map[string]any{
		"title":        course.Title,
		"instructorId": course.InstructorID,
		"price":        course.Price,
	})
	return course, nil
}

func (s *courseService) GetCourse(ctx context.Context, courseID string) (*models.Course, error) {
	course, err := s.repo.Course().GetByID(ctx, nil, courseID)
	if err != nil {
		return nil, mapRepoError(err, ErrCourseNotFound, courseID)
	}
	return course, nil
}

func (s *courseService) GetCourseWithInstructor(ctx context.Context, courseID string) (*models.Course, error) {
	course, err := s.repo.Course().GetWithInstructor(ctx, nil, courseID)
	if err != nil {
		return nil, mapRepoError(err, ErrCourseNotFound, courseID)
	}
	return course, nil
}

func (s *courseService) ListByCategory(ctx context.Context, category string) ([]*models.Course, error) {
	courses, err := s.repo.Course().ListByCategory(ctx, nil, category)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses by category: %w", err)
	}
	return courses, nil
}

func (s *courseService) SearchByTitle(ctx context.Context, term string) ([]*models.Course, error) {
	courses, err := s.repo.Course().SearchByTitle(ctx, nil, term)
	if err != nil {
		return nil, fmt.Errorf("failed to search courses by title: %w", err)
	}
	return courses, nil
}

func (s *courseService) FullTextSearch(ctx context.Context, query string, limit int) ([]*models.Course, error) {
	if query == "" {
		return nil, fmt.Errorf("%w: search query is required", ErrBadRequest)
	}
	if limit <= 0 {
		limit = defaultFullTextLimit
	}

	courses, err := s.repo.Course().FullTextSearch(ctx, nil, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search courses: %w", err)
	}
	return courses, nil
}

func (s *courseService) ListByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]*models.Course, error) {
	if minPrice < 0 || maxPrice < minPrice {
		return nil, fmt.Errorf("%w: invalid price range [%v, %v]", ErrBadRequest, minPrice, maxPrice)
	}

	courses, err := s.repo.Course().ListByPriceRange(ctx, nil, minPrice, maxPrice)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses by price: %w", err)
	}
	return courses, nil
}

func (s *courseService) ListByTags(ctx context.Context, tags []string) ([]*models.Course, error) {
	if len(tags) == 0 {
		return []*models.Course{}, nil
	}

	courses, err := s.repo.Course().ListByTags(ctx, nil, tags)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses by tags: %w", err)
	}
	return courses, nil
}

func (s *courseService) Publish(ctx context.Context, courseID string) error {
	if err := s.repo.Course().Publish(ctx, nil, courseID, s.timestamp()); err != nil {
		return mapRepoError(err, ErrCourseNotFound, courseID)
	}

	s.logger.Info().Str("course_id", courseID).Msg("course published")
	s.publish(ctx, events.CoursePublished, events.EntityCourse, courseID, nil)
	return nil
}

// AddTags adds the tags the course does not carry yet and returns how many
// were new.
func (s *courseService) AddTags(ctx context.Context, courseID string, tags ...string) (int, error) {
	if errs := s.validator.ValidateTags(tags); len(errs) > 0 {
		return 0, errs
	}

	added, err := s.repo.Course().AddTags(ctx, nil, courseID, tags)
	if err != nil {
		return 0, mapRepoError(err, ErrCourseNotFound, courseID)
	}

	if added > 0 {
		s.publish(ctx, events.CourseTagsAdded, events.EntityCourse, courseID, map[string]any{"tags": tags})
	}
	return added, nil
}
