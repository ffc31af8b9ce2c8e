package postgres

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/winmanuel/eduhub/internal/repositories"
)

const defaultReportLimit = 20

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) repositories.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) getDB(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

func reportLimit(limit int) int {
	if limit <= 0 {
		return defaultReportLimit
	}
	return limit
}

func (r *reportRepository) EnrollmentsPerCourse(ctx context.Context, tx *gorm.DB, limit int) ([]repositories.CourseEnrollmentCount, error) {
	var rows []repositories.CourseEnrollmentCount
	err := r.getDB(tx).WithContext(ctx).
		Table("enrollments").
		Select("course_id, COUNT(*) AS total_enrollments").
		Group("course_id").
		Order("total_enrollments DESC, course_id ASC").
		Limit(reportLimit(limit)).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollments per course: %w", err)
	}
	return rows, nil
}

// AverageGradePerStudent ignores ungraded submissions.
func (r *reportRepository) AverageGradePerStudent(ctx context.Context, tx *gorm.DB, limit int) ([]repositories.StudentAverageGrade, error) {
	var rows []repositories.StudentAverageGrade
	err := r.getDB(tx).WithContext(ctx).
		Table("submissions").
		Select("student_id, AVG(score)::float8 AS avg_score").
		Where("score IS NOT NULL").
		Group("student_id").
		Order("avg_score DESC, student_id ASC").
		Limit(reportLimit(limit)).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get average grade per student: %w", err)
	}
	return rows, nil
}

func (r *reportRepository) RevenuePerInstructor(ctx context.Context, tx *gorm.DB) ([]repositories.InstructorRevenue, error) {
	var rows []repositories.InstructorRevenue
	err := r.getDB(tx).WithContext(ctx).
		Table("enrollments").
		Select("courses.instructor_id, SUM(courses.price)::float8 AS revenue").
		Joins("JOIN courses ON courses.course_id = enrollments.course_id").
		Group("courses.instructor_id").
		Order("revenue DESC, courses.instructor_id ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get revenue per instructor: %w", err)
	}
	return rows, nil
}
