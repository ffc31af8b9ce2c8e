package services

import (
	"context"
	"fmt"
	"time"

	"github.com/winmanuel/eduhub/internal/events"
	"github.com/winmanuel/eduhub/internal/models"
	"github.com/winmanuel/eduhub/internal/repositories"
	"github.com/winmanuel/eduhub/internal/seed"
)

const (
	defaultDueWithinDays = 7
	defaultMaxScore      = 100
)

type courseworkService struct {
	serviceBase
}

func NewCourseworkService(deps Dependencies) CourseworkService {
	return &courseworkService{serviceBase: newServiceBase(deps, "coursework")}
}

// ===== ENROLLMENTS =====

// Enroll creates an enrollment with zero progress for an existing student
// and course.
func (s *courseworkService) Enroll(ctx context.Context, req *EnrollRequest) (*models.Enrollment, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}
	if err := s.requireStudent(ctx, req.StudentID); err != nil {
		return nil, err
	}
	if err := s.requireCourse(ctx, req.CourseID); err != nil {
		return nil, err
	}

	enrollmentID := req.EnrollmentID
	if enrollmentID == "" {
		enrollmentID = newID(seed.PrefixEnrollment)
	}

	enrollment := &models.Enrollment{
		EnrollmentID: enrollmentID,
		StudentID:    req.StudentID,
		CourseID:     req.CourseID,
		EnrolledAt:   s.timestamp(),
		Progress:     0,
		Completed:    false,
	}
	if err := s.repo.Enrollment().Create(ctx, nil, enrollment); err != nil {
		return nil, mapRepoError(err, ErrEnrollmentNotFound, enrollmentID)
	}

	s.cache.InvalidateReports(ctx)
	s.logger.Info().Str("student_id", req.StudentID).Str("course_id", req.CourseID).Msg("student enrolled")
	s.publish(ctx, events.EnrollmentCreated, events.EntityEnrollment, enrollmentID, map[string]any{
		"studentId": enrollment.StudentID,
		"courseId":  enrollment.CourseID,
	})
	return enrollment, nil
}

func (s *courseworkService) Unenroll(ctx context.Context, enrollmentID string) error {
	if err := s.repo.Enrollment().Delete(ctx, nil, enrollmentID); err != nil {
		return mapRepoError(err, ErrEnrollmentNotFound, enrollmentID)
	}

	s.cache.InvalidateReports(ctx)
	s.publish(ctx, events.EnrollmentDeleted, events.EntityEnrollment, enrollmentID, nil)
	return nil
}

func (s *courseworkService) ListEnrollmentsByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error) {
	enrollments, err := s.repo.Enrollment().ListByStudent(ctx, nil, studentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments of student: %w", err)
	}
	return enrollments, nil
}

func (s *courseworkService) ListEnrollmentsByCourse(ctx context.Context, courseID string) ([]*models.Enrollment, error) {
	enrollments, err := s.repo.Enrollment().ListByCourse(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments of course: %w", err)
	}
	return enrollments, nil
}

// ===== LESSONS =====

func (s *courseworkService) CreateLesson(ctx context.Context, req *CreateLessonRequest) (*models.Lesson, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}
	if err := s.requireCourse(ctx, req.CourseID); err != nil {
		return nil, err
	}

	lessonID := req.LessonID
	if lessonID == "" {
		lessonID = newID(seed.PrefixLesson)
	}

	lesson := &models.Lesson{
		LessonID: lessonID,
		CourseID: req.CourseID,
		Title:    req.Title,
		Content:  req.Content,
		Order:    req.Order,
		Duration: req.Duration,
	}
	if err := s.repo.Lesson().Create(ctx, nil, lesson); err != nil {
		return nil, mapRepoError(err, ErrLessonNotFound, lessonID)
	}

	s.publish(ctx, events.LessonCreated, events.EntityLesson, lessonID, map[string]any{"courseId": lesson.CourseID})
	return lesson, nil
}

func (s *courseworkService) RemoveLesson(ctx context.Context, lessonID string) error {
	if err := s.repo.Lesson().Delete(ctx, nil, lessonID); err != nil {
		return mapRepoError(err, ErrLessonNotFound, lessonID)
	}

	s.publish(ctx, events.LessonDeleted, events.EntityLesson, lessonID, nil)
	return nil
}

func (s *courseworkService) ListLessons(ctx context.Context, courseID string) ([]*models.Lesson, error) {
	lessons, err := s.repo.Lesson().ListByCourse(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons: %w", err)
	}
	return lessons, nil
}

// ===== ASSIGNMENTS =====

func (s *courseworkService) CreateAssignment(ctx context.Context, req *CreateAssignmentRequest) (*models.Assignment, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	now := s.timestamp()
	if errs := s.validator.ValidateAssignmentDates(now, req.DueDate); len(errs) > 0 {
		return nil, errs
	}
	if err := s.requireCourse(ctx, req.CourseID); err != nil {
		return nil, err
	}

	assignmentID := req.AssignmentID
	if assignmentID == "" {
		assignmentID = newID(seed.PrefixAssignment)
	}
	maxScore := req.MaxScore
	if maxScore == 0 {
		maxScore = defaultMaxScore
	}

	assignment := &models.Assignment{
		AssignmentID: assignmentID,
		CourseID:     req.CourseID,
		Title:        req.Title,
		Description:  req.Description,
		DueDate:      req.DueDate.UTC(),
		MaxScore:     maxScore,
		CreatedAt:    now,
	}
	if err := s.repo.Assignment().Create(ctx, nil, assignment); err != nil {
		return nil, mapRepoError(err, ErrAssignmentNotFound, assignmentID)
	}

	s.publish(ctx, events.AssignmentCreated, events.EntityAssignment, assignmentID, map[string]any{
		"courseId": assignment.CourseID,
		"dueDate":  assignment.DueDate,
	})
	return assignment, nil
}

func (s *courseworkService) ListDueWithin(ctx context.Context, days int) ([]*models.Assignment, error) {
	if days <= 0 {
		days = defaultDueWithinDays
	}
	now := s.timestamp()

	assignments, err := s.repo.Assignment().ListDueBetween(ctx, nil, now, now.Add(time.Duration(days)*24*time.Hour))
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments due within %d days: %w", days, err)
	}
	return assignments, nil
}

// ===== SUBMISSIONS =====

// SubmitAssignment stores an ungraded submission.
func (s *courseworkService) SubmitAssignment(ctx context.Context, req *SubmitAssignmentRequest) (*models.Submission, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}
	if _, err := s.repo.Assignment().GetByID(ctx, nil, req.AssignmentID); err != nil {
		return nil, mapRepoError(err, ErrAssignmentNotFound, req.AssignmentID)
	}
	if err := s.requireStudent(ctx, req.StudentID); err != nil {
		return nil, err
	}

	submissionID := req.SubmissionID
	if submissionID == "" {
		submissionID = newID(seed.PrefixSubmission)
	}

	submission := &models.Submission{
		SubmissionID: submissionID,
		AssignmentID: req.AssignmentID,
		StudentID:    req.StudentID,
		SubmittedAt:  s.timestamp(),
		Content:      req.Content,
	}
	if err := s.repo.Submission().Create(ctx, nil, submission); err != nil {
		return nil, mapRepoError(err, ErrSubmissionNotFound, submissionID)
	}

	s.publish(ctx, events.SubmissionCreated, events.EntitySubmission, submissionID, map[string]any{
		"assignmentId": submission.AssignmentID,
		"studentId":    submission.StudentID,
	})
	return submission, nil
}

// Grade scores a submission against its assignment's max score. Existing
// feedback is kept when req.Feedback is nil.
func (s *courseworkService) Grade(ctx context.Context, submissionID string, req *GradeRequest) error {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return errs
	}

	// The max score check and the write see the same assignment row.
	var submission *models.Submission
	err := s.repo.WithTransaction(ctx, func(repo repositories.Repository) error {
		var err error
		submission, err = repo.Submission().GetByID(ctx, nil, submissionID)
		if err != nil {
			return mapRepoError(err, ErrSubmissionNotFound, submissionID)
		}
		assignment, err := repo.Assignment().GetByID(ctx, nil, submission.AssignmentID)
		if err != nil {
			return mapRepoError(err, ErrAssignmentNotFound, submission.AssignmentID)
		}
		if errs := s.validator.ValidateGrade(req.Score, assignment.MaxScore); len(errs) > 0 {
			return errs
		}
		if err := repo.Submission().Grade(ctx, nil, submissionID, req.Score, req.Feedback); err != nil {
			return mapRepoError(err, ErrSubmissionNotFound, submissionID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.cache.InvalidateReports(ctx)
	s.logger.Info().Str("submission_id", submissionID).Float64("score", req.Score).Msg("submission graded")
	s.publish(ctx, events.SubmissionGraded, events.EntitySubmission, submissionID, map[string]any{
		"studentId": submission.StudentID,
		"score":     req.Score,
	})
	return nil
}

func (s *courseworkService) ListSubmissions(ctx context.Context, assignmentID string) ([]*models.Submission, error) {
	submissions, err := s.repo.Submission().ListByAssignment(ctx, nil, assignmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions: %w", err)
	}
	return submissions, nil
}

// ===== HELPERS =====

func (s *courseworkService) requireStudent(ctx context.Context, userID string) error {
	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		return mapRepoError(err, ErrUserNotFound, userID)
	}
	if user.Role != models.RoleStudent {
		return fmt.Errorf("%w: %s", ErrNotAStudent, userID)
	}
	return nil
}

func (s *courseworkService) requireCourse(ctx context.Context, courseID string) error {
	if _, err := s.repo.Course().GetByID(ctx, nil, courseID); err != nil {
		return mapRepoError(err, ErrCourseNotFound, courseID)
	}
	return nil
}
