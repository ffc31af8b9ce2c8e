package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/winmanuel/eduhub/internal/models"
	"github.com/winmanuel/eduhub/internal/repositories"
)

type SubmissionPostgreSQL struct {
	db        *gorm.DB
	batchSize int
}

func NewSubmissionPostgreSQL(db *gorm.DB, batchSize int) repositories.SubmissionRepository {
	return &SubmissionPostgreSQL{db: db, batchSize: batchSize}
}

func (s *SubmissionPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return s.db
}

func (s *SubmissionPostgreSQL) Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	if err := s.getDB(tx).WithContext(ctx).Create(submission).Error; err != nil {
		return fmt.Errorf("failed to create submission %s: %w", submission.SubmissionID, classifyError(err))
	}
	return nil
}

func (s *SubmissionPostgreSQL) CreateMany(ctx context.Context, tx *gorm.DB, submissions []*models.Submission) (repositories.BatchResult, error) {
	result, err := insertMany(ctx, s.getDB(tx), submissions, s.batchSize)
	if err != nil {
		return result, fmt.Errorf("failed to insert submissions: %w", err)
	}
	return result, nil
}

func (s *SubmissionPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, submissionID string) (*models.Submission, error) {
	var submission models.Submission
	if err := s.getDB(tx).WithContext(ctx).Where("submission_id = ?", submissionID).First(&submission).Error; err != nil {
		return nil, fmt.Errorf("failed to get submission %s: %w", submissionID, classifyError(err))
	}
	return &submission, nil
}

func (s *SubmissionPostgreSQL) ListByAssignment(ctx context.Context, tx *gorm.DB, assignmentID string) ([]*models.Submission, error) {
	var submissions []*models.Submission
	err := s.getDB(tx).WithContext(ctx).
		Where("assignment_id = ?", assignmentID).
		Order("submitted_at ASC").
		Find(&submissions).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list submissions for assignment %s: %w", assignmentID, err)
	}
	return submissions, nil
}

func (s *SubmissionPostgreSQL) Grade(ctx context.Context, tx *gorm.DB, submissionID string, score float64, feedback *string) error {
	updates := map[string]interface{}{"score": score}
	if feedback != nil {
		updates["feedback"] = *feedback
	}

	res := s.getDB(tx).WithContext(ctx).
		Model(&models.Submission{}).
		Where("submission_id = ?", submissionID).
		Updates(updates)
	if err := requireAffected(res, "submission", submissionID); err != nil {
		return fmt.Errorf("failed to grade submission: %w", err)
	}
	return nil
}
