package services

import (
	"context"
	"time"

	"github.com/winmanuel/eduhub/internal/models"
	"github.com/winmanuel/eduhub/internal/repositories"
	"github.com/winmanuel/eduhub/internal/seed"
	"github.com/winmanuel/eduhub/internal/validator"
)

// ===== REQUEST/RESPONSE DTOs =====

// Use business validator types
type AddStudentRequest = validator.AddStudentRequest
type CreateCourseRequest = validator.CreateCourseRequest
type EnrollRequest = validator.EnrollRequest
type CreateLessonRequest = validator.CreateLessonRequest
type CreateAssignmentRequest = validator.CreateAssignmentRequest
type SubmitAssignmentRequest = validator.SubmitAssignmentRequest
type GradeRequest = validator.GradeRequest
type UpdateProfileRequest = validator.UpdateProfileRequest

// Reports bundles the three canonical reports.
type Reports struct {
	EnrollmentsPerCourse []repositories.CourseEnrollmentCount `json:"enrollmentsPerCourse"`
	AverageGrades        []repositories.StudentAverageGrade   `json:"averageGradePerStudent"`
	RevenuePerInstructor []repositories.InstructorRevenue     `json:"revenuePerInstructor"`

	// TotalEnrollments bounds the per-course counts, which are truncated
	// by the limit.
	TotalEnrollments int64 `json:"totalEnrollments"`
}

// SeedResult is the outcome of inserting one generated dataset.
type SeedResult struct {
	Users       repositories.BatchResult `json:"users"`
	Courses     repositories.BatchResult `json:"courses"`
	Enrollments repositories.BatchResult `json:"enrollments"`
	Lessons     repositories.BatchResult `json:"lessons"`
	Assignments repositories.BatchResult `json:"assignments"`
	Submissions repositories.BatchResult `json:"submissions"`
}

// InitResult is the outcome of a full --init run.
type InitResult struct {
	Provision *repositories.ProvisionResult   `json:"provision"`
	Seed      *SeedResult                     `json:"seed"`
	Exported  map[repositories.Collection]int `json:"exported"`
	Elapsed   time.Duration                   `json:"elapsed"`
}

// ===== SERVICE INTERFACES =====

type UserService interface {
	AddStudent(ctx context.Context, req *AddStudentRequest) (*models.User, error)
	GetUser(ctx context.Context, userID string) (*models.User, error)
	ListActiveStudents(ctx context.Context) ([]*models.User, error)
	// ListJoinedSince returns users who joined within the last months*30 days.
	ListJoinedSince(ctx context.Context, months int) ([]*models.User, error)
	ListStudentsInCourse(ctx context.Context, courseID string) ([]*models.User, error)
	UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) error
	SoftDelete(ctx context.Context, userID string) error
}

type CourseService interface {
	CreateCourse(ctx context.Context, req *CreateCourseRequest) (*models.Course, error)
	GetCourse(ctx context.Context, courseID string) (*models.Course, error)
	GetCourseWithInstructor(ctx context.Context, courseID string) (*models.Course, error)
	ListByCategory(ctx context.Context, category string) ([]*models.Course, error)
	SearchByTitle(ctx context.Context, term string) ([]*models.Course, error)
	FullTextSearch(ctx context.Context, query string, limit int) ([]*models.Course, error)
	ListByPriceRange(ctx context.Context, minPrice, maxPrice float64) ([]*models.Course, error)
	ListByTags(ctx context.Context, tags []string) ([]*models.Course, error)
	Publish(ctx context.Context, courseID string) error
	AddTags(ctx context.Context, courseID string, tags ...string) (int, error)
}

type CourseworkService interface {
	Enroll(ctx context.Context, req *EnrollRequest) (*models.Enrollment, error)
	Unenroll(ctx context.Context, enrollmentID string) error
	ListEnrollmentsByStudent(ctx context.Context, studentID string) ([]*models.Enrollment, error)
	ListEnrollmentsByCourse(ctx context.Context, courseID string) ([]*models.Enrollment, error)

	CreateLesson(ctx context.Context, req *CreateLessonRequest) (*models.Lesson, error)
	RemoveLesson(ctx context.Context, lessonID string) error
	ListLessons(ctx context.Context, courseID string) ([]*models.Lesson, error)

	CreateAssignment(ctx context.Context, req *CreateAssignmentRequest) (*models.Assignment, error)
	// ListDueWithin returns assignments due between now and now+days.
	ListDueWithin(ctx context.Context, days int) ([]*models.Assignment, error)

	SubmitAssignment(ctx context.Context, req *SubmitAssignmentRequest) (*models.Submission, error)
	Grade(ctx context.Context, submissionID string, req *GradeRequest) error
	ListSubmissions(ctx context.Context, assignmentID string) ([]*models.Submission, error)
}

type ReportService interface {
	EnrollmentsPerCourse(ctx context.Context, limit int) ([]repositories.CourseEnrollmentCount, error)
	AverageGradePerStudent(ctx context.Context, limit int) ([]repositories.StudentAverageGrade, error)
	RevenuePerInstructor(ctx context.Context) ([]repositories.InstructorRevenue, error)
	All(ctx context.Context, limit int) (*Reports, error)
}

type ExportService interface {
	ExplainQuery(ctx context.Context, collection repositories.Collection, filter map[string]any) (*repositories.QueryPlan, error)
	// ExportCollectionToJSON writes every record of collection to path and
	// returns the record count.
	ExportCollectionToJSON(ctx context.Context, collection repositories.Collection, path string) (int, error)
	// ExportAll writes sample_<collection>.json for every collection into dir.
	ExportAll(ctx context.Context, dir string) (map[repositories.Collection]int, error)
	ExportReportsToXLSX(ctx context.Context, path string, limit int) error
}

type SetupService interface {
	Provision(ctx context.Context, resetExisting bool) (*repositories.ProvisionResult, error)
	Seed(ctx context.Context, counts seed.Counts) (*SeedResult, error)
	// Init provisions the store, inserts a generated dataset and exports
	// every collection to exportDir.
	Init(ctx context.Context, resetExisting bool, counts seed.Counts, exportDir string) (*InitResult, error)
}

// ===== SERVICE MANAGER =====

type ServiceManager interface {
	User() UserService
	Course() CourseService
	Coursework() CourseworkService
	Report() ReportService
	Export() ExportService
	Setup() SetupService

	// Health and lifecycle
	Initialize(ctx context.Context) error
	HealthCheck(ctx context.Context) error
	Shutdown(ctx context.Context) error
}
