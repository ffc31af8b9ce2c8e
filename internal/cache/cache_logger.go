package cache

import (
	"context"
	"fmt"
)

// Report cache keys, relative to the stats prefix.
const (
	reportPattern              = "report:*"
	reportEnrollmentsPerCourse = "report:enrollments_per_course:limit:%d"
	reportAverageGrades        = "report:average_grade_per_student:limit:%d"
	reportRevenuePerInstructor = "report:revenue_per_instructor"
)

func EnrollmentsPerCourseKey(limit int) string {
	return fmt.Sprintf(reportEnrollmentsPerCourse, limit)
}

func AverageGradesKey(limit int) string {
	return fmt.Sprintf(reportAverageGrades, limit)
}

func RevenuePerInstructorKey() string {
	return reportRevenuePerInstructor
}

// SafeInvalidatePattern invalidates a cache pattern, logging failures
func SafeInvalidatePattern(ctx context.Context, helper *CacheHelper, pattern string) {
	if err := helper.InvalidatePattern(ctx, pattern); err != nil {
		helper.log.Error().Err(err).Str("pattern", pattern).Msg("failed to invalidate cache pattern")
	}
}

// InvalidateReports drops every cached report. Called after writes that
// change enrollments, submissions or course prices.
func (cm *CacheManager) InvalidateReports(ctx context.Context) {
	SafeInvalidatePattern(ctx, cm.Stats, reportPattern)
}
