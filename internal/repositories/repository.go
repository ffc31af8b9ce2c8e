package repositories

import "context"

// Repository aggregates the per-collection repositories over one store
// handle.
type Repository interface {
	User() UserRepository
	Course() CourseRepository
	Enrollment() EnrollmentRepository
	Lesson() LessonRepository
	Assignment() AssignmentRepository
	Submission() SubmissionRepository

	// Reporting and diagnostics
	Report() ReportRepository
	Diagnostics() DiagnosticsRepository
	Provisioner() Provisioner

	// WithTransaction runs fn against repositories bound to one transaction.
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	Ping(ctx context.Context) error
	Close() error
}

// RepositoryManager owns the repository lifecycle.
type RepositoryManager interface {
	Initialize(ctx context.Context) error
	GetRepository() Repository
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
