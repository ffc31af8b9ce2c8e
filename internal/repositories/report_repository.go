package repositories

import (
	"context"
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// ReportRepository runs the fixed reporting aggregations. Rows with equal
// sort keys come back ordered by their key; callers must not rely on it.
type ReportRepository interface {
	EnrollmentsPerCourse(ctx context.Context, tx *gorm.DB, limit int) ([]CourseEnrollmentCount, error)
	AverageGradePerStudent(ctx context.Context, tx *gorm.DB, limit int) ([]StudentAverageGrade, error)
	// RevenuePerInstructor counts each course's price once per enrollment.
	RevenuePerInstructor(ctx context.Context, tx *gorm.DB) ([]InstructorRevenue, error)
}

type CourseEnrollmentCount struct {
	CourseID         string `json:"courseId"`
	TotalEnrollments int64  `json:"totalEnrollments"`
}

type StudentAverageGrade struct {
	StudentID string  `json:"studentId"`
	AvgScore  float64 `json:"avgScore"`
}

type InstructorRevenue struct {
	InstructorID string  `json:"instructorId"`
	Revenue      float64 `json:"revenue"`
}

// DiagnosticsRepository exposes plan inspection and raw collection dumps.
type DiagnosticsRepository interface {
	// Explain executes an equality-filter query under EXPLAIN ANALYZE.
	// Filter keys may be JSON field names or column names.
	Explain(ctx context.Context, collection Collection, filter map[string]any) (*QueryPlan, error)
	// FetchAll returns every record of the collection as a typed slice, e.g.
	// []models.User for users, together with the record count.
	FetchAll(ctx context.Context, collection Collection) (any, int, error)
}

type QueryPlan struct {
	Collection    Collection      `json:"collection"`
	Query         string          `json:"query"`
	Args          []any           `json:"args"`
	Plan          json.RawMessage `json:"plan"`
	ExecutionTime time.Duration   `json:"executionTime"`
}

// Provisioner creates the collections, validators and indexes.
type Provisioner interface {
	Provision(ctx context.Context, resetExisting bool) (*ProvisionResult, error)
}

type ProvisionResult struct {
	Dropped        []Collection `json:"dropped"`
	Created        []Collection `json:"created"`
	Existing       []Collection `json:"existing"`
	IndexesEnsured []string     `json:"indexesEnsured"`
	Failures       []string     `json:"failures,omitempty"`
}
