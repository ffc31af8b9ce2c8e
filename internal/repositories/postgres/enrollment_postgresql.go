package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/winmanuel/eduhub/internal/models"
	"github.com/winmanuel/eduhub/internal/repositories"
)

type EnrollmentPostgreSQL struct {
	db        *gorm.DB
	batchSize int
}

func NewEnrollmentPostgreSQL(db *gorm.DB, batchSize int) repositories.EnrollmentRepository {
	return &EnrollmentPostgreSQL{db: db, batchSize: batchSize}
}

func (e *EnrollmentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return e.db
}

func (e *EnrollmentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	if err := e.getDB(tx).WithContext(ctx).Create(enrollment).Error; err != nil {
		return fmt.Errorf("failed to create enrollment %s: %w", enrollment.EnrollmentID, classifyError(err))
	}
	return nil
}

func (e *EnrollmentPostgreSQL) CreateMany(ctx context.Context, tx *gorm.DB, enrollments []*models.Enrollment) (repositories.BatchResult, error) {
	result, err := insertMany(ctx, e.getDB(tx), enrollments, e.batchSize)
	if err != nil {
		return result, fmt.Errorf("failed to insert enrollments: %w", err)
	}
	return result, nil
}

func (e *EnrollmentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, enrollmentID string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	if err := e.getDB(tx).WithContext(ctx).Where("enrollment_id = ?", enrollmentID).First(&enrollment).Error; err != nil {
		return nil, fmt.Errorf("failed to get enrollment %s: %w", enrollmentID, classifyError(err))
	}
	return &enrollment, nil
}

func (e *EnrollmentPostgreSQL) ListByStudent(ctx context.Context, tx *gorm.DB, studentID string) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	err := e.getDB(tx).WithContext(ctx).
		Where("student_id = ?", studentID).
		Order("enrolled_at DESC").
		Find(&enrollments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments for student %s: %w", studentID, err)
	}
	return enrollments, nil
}

func (e *EnrollmentPostgreSQL) ListByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*models.Enrollment, error) {
	var enrollments []*models.Enrollment
	err := e.getDB(tx).WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("enrolled_at ASC").
		Find(&enrollments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list enrollments for course %s: %w", courseID, err)
	}
	return enrollments, nil
}

func (e *EnrollmentPostgreSQL) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	var count int64
	if err := e.getDB(tx).WithContext(ctx).Model(&models.Enrollment{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count enrollments: %w", err)
	}
	return count, nil
}

func (e *EnrollmentPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, enrollmentID string) error {
	res := e.getDB(tx).WithContext(ctx).
		Where("enrollment_id = ?", enrollmentID).
		Delete(&models.Enrollment{})
	if err := requireAffected(res, "enrollment", enrollmentID); err != nil {
		return fmt.Errorf("failed to delete enrollment: %w", err)
	}
	return nil
}
