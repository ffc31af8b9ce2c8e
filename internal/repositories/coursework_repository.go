package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/winmanuel/eduhub/internal/models"
)

type EnrollmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error
	CreateMany(ctx context.Context, tx *gorm.DB, enrollments []*models.Enrollment) (BatchResult, error)
	GetByID(ctx context.Context, tx *gorm.DB, enrollmentID string) (*models.Enrollment, error)
	ListByStudent(ctx context.Context, tx *gorm.DB, studentID string) ([]*models.Enrollment, error)
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*models.Enrollment, error)
	Count(ctx context.Context, tx *gorm.DB) (int64, error)
	Delete(ctx context.Context, tx *gorm.DB, enrollmentID string) error
}

type LessonRepository interface {
	Create(ctx context.Context, tx *gorm.DB, lesson *models.Lesson) error
	CreateMany(ctx context.Context, tx *gorm.DB, lessons []*models.Lesson) (BatchResult, error)
	GetByID(ctx context.Context, tx *gorm.DB, lessonID string) (*models.Lesson, error)
	// ListByCourse orders lessons by their order index.
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*models.Lesson, error)
	Delete(ctx context.Context, tx *gorm.DB, lessonID string) error
}

type AssignmentRepository interface {
	Create(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error
	CreateMany(ctx context.Context, tx *gorm.DB, assignments []*models.Assignment) (BatchResult, error)
	GetByID(ctx context.Context, tx *gorm.DB, assignmentID string) (*models.Assignment, error)
	ListByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*models.Assignment, error)
	// ListDueBetween returns assignments with from <= dueDate <= to, soonest
	// first.
	ListDueBetween(ctx context.Context, tx *gorm.DB, from, to time.Time) ([]*models.Assignment, error)
}

type SubmissionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error
	CreateMany(ctx context.Context, tx *gorm.DB, submissions []*models.Submission) (BatchResult, error)
	GetByID(ctx context.Context, tx *gorm.DB, submissionID string) (*models.Submission, error)
	ListByAssignment(ctx context.Context, tx *gorm.DB, assignmentID string) ([]*models.Submission, error)
	// Grade sets the score, and the feedback only when feedback is non-nil.
	Grade(ctx context.Context, tx *gorm.DB, submissionID string, score float64, feedback *string) error
}
