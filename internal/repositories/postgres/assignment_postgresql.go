package postgres

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/winmanuel/eduhub/internal/models"
	"github.com/winmanuel/eduhub/internal/repositories"
)

type AssignmentPostgreSQL struct {
	db        *gorm.DB
	batchSize int
}

func NewAssignmentPostgreSQL(db *gorm.DB, batchSize int) repositories.AssignmentRepository {
	return &AssignmentPostgreSQL{db: db, batchSize: batchSize}
}

func (a *AssignmentPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return a.db
}

func (a *AssignmentPostgreSQL) Create(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error {
	if err := a.getDB(tx).WithContext(ctx).Create(assignment).Error; err != nil {
		return fmt.Errorf("failed to create assignment %s: %w", assignment.AssignmentID, classifyError(err))
	}
	return nil
}

func (a *AssignmentPostgreSQL) CreateMany(ctx context.Context, tx *gorm.DB, assignments []*models.Assignment) (repositories.BatchResult, error) {
	result, err := insertMany(ctx, a.getDB(tx), assignments, a.batchSize)
	if err != nil {
		return result, fmt.Errorf("failed to insert assignments: %w", err)
	}
	return result, nil
}

func (a *AssignmentPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, assignmentID string) (*models.Assignment, error) {
	var assignment models.Assignment
	if err := a.getDB(tx).WithContext(ctx).Where("assignment_id = ?", assignmentID).First(&assignment).Error; err != nil {
		return nil, fmt.Errorf("failed to get assignment %s: %w", assignmentID, classifyError(err))
	}
	return &assignment, nil
}

func (a *AssignmentPostgreSQL) ListByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*models.Assignment, error) {
	var assignments []*models.Assignment
	err := a.getDB(tx).WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("due_date ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments for course %s: %w", courseID, err)
	}
	return assignments, nil
}

func (a *AssignmentPostgreSQL) ListDueBetween(ctx context.Context, tx *gorm.DB, from, to time.Time) ([]*models.Assignment, error) {
	var assignments []*models.Assignment
	err := a.getDB(tx).WithContext(ctx).
		Where("due_date BETWEEN ? AND ?", from, to).
		Order("due_date ASC, assignment_id ASC").
		Find(&assignments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments due between %s and %s: %w",
			from.Format(time.RFC3339), to.Format(time.RFC3339), err)
	}
	return assignments, nil
}
