package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/winmanuel/eduhub/internal/models"
	"github.com/winmanuel/eduhub/internal/repositories"
)

// courseSearchDocument must match the expression of the full-text index so
// the planner can use it.
const courseSearchDocument = "to_tsvector('english', coalesce(title, '') || ' ' || coalesce(description, ''))"

type CoursePostgreSQL struct {
	db        *gorm.DB
	batchSize int
}

func NewCoursePostgreSQL(db *gorm.DB, batchSize int) repositories.CourseRepository {
	return &CoursePostgreSQL{db: db, batchSize: batchSize}
}

func (c *CoursePostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return c.db
}

func (c *CoursePostgreSQL) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	if course.Tags == nil {
		course.Tags = []string{}
	}
	if err := c.getDB(tx).WithContext(ctx).Omit(clause.Associations).Create(course).Error; err != nil {
		return fmt.Errorf("failed to create course %s: %w", course.CourseID, classifyError(err))
	}
	return nil
}

func (c *CoursePostgreSQL) CreateMany(ctx context.Context, tx *gorm.DB, courses []*models.Course) (repositories.BatchResult, error) {
	for _, course := range courses {
		if course.Tags == nil {
			course.Tags = []string{}
		}
	}
	result, err := insertMany(ctx, c.getDB(tx).Omit(clause.Associations), courses, c.batchSize)
	if err != nil {
		return result, fmt.Errorf("failed to insert courses: %w", err)
	}
	return result, nil
}

func (c *CoursePostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, courseID string) (*models.Course, error) {
	var course models.Course
	if err := c.getDB(tx).WithContext(ctx).Where("course_id = ?", courseID).First(&course).Error; err != nil {
		return nil, fmt.Errorf("failed to get course %s: %w", courseID, classifyError(err))
	}
	return &course, nil
}

func (c *CoursePostgreSQL) GetWithInstructor(ctx context.Context, tx *gorm.DB, courseID string) (*models.Course, error) {
	var course models.Course
	err := c.getDB(tx).WithContext(ctx).
		InnerJoins("Instructor").
		Where("courses.course_id = ?", courseID).
		First(&course).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get course %s with instructor: %w", courseID, classifyError(err))
	}
	return &course, nil
}

func (c *CoursePostgreSQL) ListByCategory(ctx context.Context, tx *gorm.DB, category string) ([]*models.Course, error) {
	var courses []*models.Course
	err := c.getDB(tx).WithContext(ctx).
		Where("category = ?", category).
		Order("created_at DESC, course_id ASC").
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list courses in category %s: %w", category, err)
	}
	return courses, nil
}

func (c *CoursePostgreSQL) SearchByTitle(ctx context.Context, tx *gorm.DB, term string) ([]*models.Course, error) {
	var courses []*models.Course
	err := c.getDB(tx).WithContext(ctx).
		Where("title ILIKE ?", likePattern(term)).
		Order("title ASC, course_id ASC").
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search courses by title: %w", err)
	}
	return courses, nil
}

func (c *CoursePostgreSQL) FullTextSearch(ctx context.Context, tx *gorm.DB, query string, limit int) ([]*models.Course, error) {
	var courses []*models.Course
	tsQuery := "plainto_tsquery('english', ?)"
	q := c.getDB(tx).WithContext(ctx).
		Where(courseSearchDocument+" @@ "+tsQuery, query).
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                "ts_rank(" + courseSearchDocument + ", " + tsQuery + ") DESC, course_id ASC",
			Vars:               []interface{}{query},
			WithoutParentheses: true,
		}})
	if err := applyPagination(q, limit, 0).Find(&courses).Error; err != nil {
		return nil, fmt.Errorf("failed to run full-text search: %w", err)
	}
	return courses, nil
}

func (c *CoursePostgreSQL) ListByPriceRange(ctx context.Context, tx *gorm.DB, min, max float64) ([]*models.Course, error) {
	var courses []*models.Course
	err := c.getDB(tx).WithContext(ctx).
		Where("price BETWEEN ? AND ?", min, max).
		Order("price ASC, course_id ASC").
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list courses by price: %w", err)
	}
	return courses, nil
}

func (c *CoursePostgreSQL) ListByTags(ctx context.Context, tx *gorm.DB, tags []string) ([]*models.Course, error) {
	if len(tags) == 0 {
		return []*models.Course{}, nil
	}

	var courses []*models.Course
	err := c.getDB(tx).WithContext(ctx).
		Where("EXISTS (SELECT 1 FROM jsonb_array_elements_text(courses.tags) AS t(tag) WHERE t.tag IN ?)", tags).
		Order("course_id ASC").
		Find(&courses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list courses by tags: %w", err)
	}
	return courses, nil
}

func (c *CoursePostgreSQL) Publish(ctx context.Context, tx *gorm.DB, courseID string, at time.Time) error {
	res := c.getDB(tx).WithContext(ctx).
		Model(&models.Course{}).
		Where("course_id = ?", courseID).
		Updates(map[string]interface{}{
			"is_published": true,
			"updated_at":   at,
		})
	if err := requireAffected(res, "course", courseID); err != nil {
		return fmt.Errorf("failed to publish course: %w", err)
	}
	return nil
}

// AddTags locks the course row so concurrent additions cannot drop each
// other's tags.
func (c *CoursePostgreSQL) AddTags(ctx context.Context, tx *gorm.DB, courseID string, tags []string) (int, error) {
	added := 0
	err := c.getDB(tx).WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var course models.Course
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("course_id = ?", courseID).
			First(&course).Error
		if err != nil {
			return classifyError(err)
		}

		added = course.MergeTags(tags...)
		if added == 0 {
			return nil
		}

		return tx.Model(&models.Course{}).
			Where("course_id = ?", courseID).
			UpdateColumn("tags", course.Tags).Error
	})
	if err != nil {
		return 0, fmt.Errorf("failed to add tags to course %s: %w", courseID, err)
	}
	return added, nil
}
