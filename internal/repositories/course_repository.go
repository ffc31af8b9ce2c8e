package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/winmanuel/eduhub/internal/models"
)

type CourseRepository interface {
	Create(ctx context.Context, tx *gorm.DB, course *models.Course) error
	CreateMany(ctx context.Context, tx *gorm.DB, courses []*models.Course) (BatchResult, error)

	GetByID(ctx context.Context, tx *gorm.DB, courseID string) (*models.Course, error)
	// GetWithInstructor loads the course joined with its instructor. A course
	// whose instructor does not exist is reported as not found.
	GetWithInstructor(ctx context.Context, tx *gorm.DB, courseID string) (*models.Course, error)
	ListByCategory(ctx context.Context, tx *gorm.DB, category string) ([]*models.Course, error)
	// SearchByTitle matches term as a case-insensitive substring of the title.
	SearchByTitle(ctx context.Context, tx *gorm.DB, term string) ([]*models.Course, error)
	// FullTextSearch matches query against title and description.
	FullTextSearch(ctx context.Context, tx *gorm.DB, query string, limit int) ([]*models.Course, error)
	// ListByPriceRange is inclusive on both bounds.
	ListByPriceRange(ctx context.Context, tx *gorm.DB, min, max float64) ([]*models.Course, error)
	// ListByTags returns courses carrying any of tags.
	ListByTags(ctx context.Context, tx *gorm.DB, tags []string) ([]*models.Course, error)

	Publish(ctx context.Context, tx *gorm.DB, courseID string, at time.Time) error
	// AddTags adds the tags missing from the course and returns how many were
	// added.
	AddTags(ctx context.Context, tx *gorm.DB, courseID string, tags []string) (int, error)
}
