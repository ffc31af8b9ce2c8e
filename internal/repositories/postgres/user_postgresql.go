package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/winmanuel/eduhub/internal/models"
	"github.com/winmanuel/eduhub/internal/repositories"
)

type UserPostgreSQL struct {
	db        *gorm.DB
	batchSize int
}

func NewUserPostgreSQL(db *gorm.DB, batchSize int) repositories.UserRepository {
	return &UserPostgreSQL{db: db, batchSize: batchSize}
}

// getDB returns the transaction DB if provided, otherwise returns the default DB
func (u *UserPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return u.db
}

func (u *UserPostgreSQL) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	if err := u.getDB(tx).WithContext(ctx).Create(user).Error; err != nil {
		return fmt.Errorf("failed to create user %s: %w", user.UserID, classifyError(err))
	}
	return nil
}

func (u *UserPostgreSQL) CreateMany(ctx context.Context, tx *gorm.DB, users []*models.User) (repositories.BatchResult, error) {
	result, err := insertMany(ctx, u.getDB(tx), users, u.batchSize)
	if err != nil {
		return result, fmt.Errorf("failed to insert users: %w", err)
	}
	return result, nil
}

func (u *UserPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, userID string) (*models.User, error) {
	var user models.User
	if err := u.getDB(tx).WithContext(ctx).Where("user_id = ?", userID).First(&user).Error; err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userID, classifyError(err))
	}
	return &user, nil
}

func (u *UserPostgreSQL) List(ctx context.Context, tx *gorm.DB, filters repositories.UserFilters) ([]*models.User, error) {
	query := u.getDB(tx).WithContext(ctx).Model(&models.User{})

	if filters.Role != nil {
		query = query.Where("role = ?", *filters.Role)
	}
	if filters.IsActive != nil {
		query = query.Where("is_active = ?", *filters.IsActive)
	}
	if filters.JoinedSince != nil {
		query = query.Where("date_joined >= ?", *filters.JoinedSince)
	}

	var users []*models.User
	err := applyPagination(query.Order("date_joined DESC, user_id ASC"), filters.Limit, filters.Offset).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

func (u *UserPostgreSQL) ListActiveStudents(ctx context.Context, tx *gorm.DB) ([]*models.User, error) {
	role := models.RoleStudent
	active := true
	return u.List(ctx, tx, repositories.UserFilters{Role: &role, IsActive: &active})
}

func (u *UserPostgreSQL) ListJoinedSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]*models.User, error) {
	return u.List(ctx, tx, repositories.UserFilters{JoinedSince: &since})
}

func (u *UserPostgreSQL) ListStudentsInCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*models.User, error) {
	var users []*models.User
	err := u.getDB(tx).WithContext(ctx).
		Model(&models.User{}).
		Select("users.*").
		Joins("JOIN enrollments ON enrollments.student_id = users.user_id").
		Joins("JOIN courses ON courses.course_id = enrollments.course_id").
		Where("courses.course_id = ?", courseID).
		Order("enrollments.enrolled_at ASC, users.user_id ASC").
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list students in course %s: %w", courseID, err)
	}
	return users, nil
}

func (u *UserPostgreSQL) UpdateProfile(ctx context.Context, tx *gorm.DB, userID string, profile models.UserProfile) error {
	if profile.Skills == nil {
		profile.Skills = []string{}
	}

	res := u.getDB(tx).WithContext(ctx).
		Model(&models.User{}).
		Where("user_id = ?", userID).
		Update("profile", datatypes.NewJSONType(profile))
	if err := requireAffected(res, "user", userID); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	return nil
}

func (u *UserPostgreSQL) SoftDelete(ctx context.Context, tx *gorm.DB, userID string) error {
	res := u.getDB(tx).WithContext(ctx).
		Model(&models.User{}).
		Where("user_id = ?", userID).
		Update("is_active", false)
	if err := requireAffected(res, "user", userID); err != nil {
		return fmt.Errorf("failed to deactivate user: %w", err)
	}
	return nil
}
