package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/winmanuel/eduhub/internal/models"
)

// UserFilters narrows a user listing. Nil fields are not applied.
type UserFilters struct {
	Role        *models.UserRole
	IsActive    *bool
	JoinedSince *time.Time
	Limit       int
	Offset      int
}

type UserRepository interface {
	Create(ctx context.Context, tx *gorm.DB, user *models.User) error
	CreateMany(ctx context.Context, tx *gorm.DB, users []*models.User) (BatchResult, error)

	GetByID(ctx context.Context, tx *gorm.DB, userID string) (*models.User, error)
	List(ctx context.Context, tx *gorm.DB, filters UserFilters) ([]*models.User, error)
	ListActiveStudents(ctx context.Context, tx *gorm.DB) ([]*models.User, error)
	ListJoinedSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]*models.User, error)
	// ListStudentsInCourse returns one user per enrollment in the course.
	ListStudentsInCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*models.User, error)

	UpdateProfile(ctx context.Context, tx *gorm.DB, userID string, profile models.UserProfile) error
	// SoftDelete clears the active flag; the row is kept.
	SoftDelete(ctx context.Context, tx *gorm.DB, userID string) error
}
