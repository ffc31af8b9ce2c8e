package services

import (
	"context"
	"fmt"

	"github.com/winmanuel/eduhub/internal/cache"
	"github.com/winmanuel/eduhub/internal/repositories"
)

const defaultReportLimit = 20

type reportService struct {
	serviceBase
}

func NewReportService(deps Dependencies) ReportService {
	return &reportService{serviceBase: newServiceBase(deps, "report")}
}

func reportLimit(limit int) int {
	if limit <= 0 {
		return defaultReportLimit
	}
	return limit
}

func (s *reportService) EnrollmentsPerCourse(ctx context.Context, limit int) ([]repositories.CourseEnrollmentCount, error) {
	limit = reportLimit(limit)
	return cache.CacheOrExecute(ctx, s.cache.Stats, cache.EnrollmentsPerCourseKey(limit), s.cache.ReportTTL(),
		func(ctx context.Context) ([]repositories.CourseEnrollmentCount, error) {
			rows, err := s.repo.Report().EnrollmentsPerCourse(ctx, nil, limit)
			if err != nil {
				return nil, fmt.Errorf("enrollments per course report failed: %w", err)
			}
			return rows, nil
		})
}

func (s *reportService) AverageGradePerStudent(ctx context.Context, limit int) ([]repositories.StudentAverageGrade, error) {
	limit = reportLimit(limit)
	return cache.CacheOrExecute(ctx, s.cache.Stats, cache.AverageGradesKey(limit), s.cache.ReportTTL(),
		func(ctx context.Context) ([]repositories.StudentAverageGrade, error) {
			rows, err := s.repo.Report().AverageGradePerStudent(ctx, nil, limit)
			if err != nil {
				return nil, fmt.Errorf("average grade report failed: %w", err)
			}
			return rows, nil
		})
}

func (s *reportService) RevenuePerInstructor(ctx context.Context) ([]repositories.InstructorRevenue, error) {
	return cache.CacheOrExecute(ctx, s.cache.Stats, cache.RevenuePerInstructorKey(), s.cache.ReportTTL(),
		func(ctx context.Context) ([]repositories.InstructorRevenue, error) {
			rows, err := s.repo.Report().RevenuePerInstructor(ctx, nil)
			if err != nil {
				return nil, fmt.Errorf("revenue per instructor report failed: %w", err)
			}
			return rows, nil
		})
}

// All runs the three reports with the same limit.
func (s *reportService) All(ctx context.Context, limit int) (*Reports, error) {
	enrollments, err := s.EnrollmentsPerCourse(ctx, limit)
	if err != nil {
		return nil, err
	}
	grades, err := s.AverageGradePerStudent(ctx, limit)
	if err != nil {
		return nil, err
	}
	revenue, err := s.RevenuePerInstructor(ctx)
	if err != nil {
		return nil, err
	}
	total, err := s.repo.Enrollment().Count(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to count enrollments: %w", err)
	}

	return &Reports{
		EnrollmentsPerCourse: enrollments,
		AverageGrades:        grades,
		RevenuePerInstructor: revenue,
		TotalEnrollments:     total,
	}, nil
}
