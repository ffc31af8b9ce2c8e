package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/winmanuel/eduhub/internal/models"
	"github.com/winmanuel/eduhub/internal/repositories"
)

type LessonPostgreSQL struct {
	db        *gorm.DB
	batchSize int
}

func NewLessonPostgreSQL(db *gorm.DB, batchSize int) repositories.LessonRepository {
	return &LessonPostgreSQL{db: db, batchSize: batchSize}
}

func (l *LessonPostgreSQL) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return l.db
}

func (l *LessonPostgreSQL) Create(ctx context.Context, tx *gorm.DB, lesson *models.Lesson) error {
	if err := l.getDB(tx).WithContext(ctx).Create(lesson).Error; err != nil {
		return fmt.Errorf("failed to create lesson %s: %w", lesson.LessonID, classifyError(err))
	}
	return nil
}

func (l *LessonPostgreSQL) CreateMany(ctx context.Context, tx *gorm.DB, lessons []*models.Lesson) (repositories.BatchResult, error) {
	result, err := insertMany(ctx, l.getDB(tx), lessons, l.batchSize)
	if err != nil {
		return result, fmt.Errorf("failed to insert lessons: %w", err)
	}
	return result, nil
}

func (l *LessonPostgreSQL) GetByID(ctx context.Context, tx *gorm.DB, lessonID string) (*models.Lesson, error) {
	var lesson models.Lesson
	if err := l.getDB(tx).WithContext(ctx).Where("lesson_id = ?", lessonID).First(&lesson).Error; err != nil {
		return nil, fmt.Errorf("failed to get lesson %s: %w", lessonID, classifyError(err))
	}
	return &lesson, nil
}

func (l *LessonPostgreSQL) ListByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*models.Lesson, error) {
	var lessons []*models.Lesson
	err := l.getDB(tx).WithContext(ctx).
		Where("course_id = ?", courseID).
		Order("lesson_order ASC, lesson_id ASC").
		Find(&lessons).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list lessons for course %s: %w", courseID, err)
	}
	return lessons, nil
}

func (l *LessonPostgreSQL) Delete(ctx context.Context, tx *gorm.DB, lessonID string) error {
	res := l.getDB(tx).WithContext(ctx).
		Where("lesson_id = ?", lessonID).
		Delete(&models.Lesson{})
	if err := requireAffected(res, "lesson", lessonID); err != nil {
		return fmt.Errorf("failed to delete lesson: %w", err)
	}
	return nil
}
