package validator

import "time"

// AddStudentRequest registers a new student. An empty UserID is generated.
type AddStudentRequest struct {
	UserID    string `json:"userId" validate:"entity_id"`
	Email     string `json:"email" validate:"required,edu_email,max=255"`
	FirstName string `json:"firstName" validate:"required,max=100"`
	LastName  string `json:"lastName" validate:"required,max=100"`
}

// CreateCourseRequest creates a course. Zero values fall back to the course
// defaults (category General, level beginner, duration 5, price 0).
type CreateCourseRequest struct {
	CourseID     string   `json:"courseId" validate:"entity_id"`
	Title        string   `json:"title" validate:"required,max=200"`
	InstructorID string   `json:"instructorId" validate:"required,max=64"`
	Description  string   `json:"description" validate:"max=5000"`
	Category     string   `json:"category" validate:"max=100"`
	Level        string   `json:"level" validate:"omitempty,oneof=beginner intermediate advanced"`
	Duration     int      `json:"duration" validate:"gte=0"`
	Price        float64  `json:"price" validate:"gte=0"`
	Tags         []string `json:"tags" validate:"max=20,dive,min=1,max=50"`
}

type EnrollRequest struct {
	EnrollmentID string `json:"enrollmentId" validate:"entity_id"`
	StudentID    string `json:"studentId" validate:"required,max=64"`
	CourseID     string `json:"courseId" validate:"required,max=64"`
}

type CreateLessonRequest struct {
	LessonID string `json:"lessonId" validate:"entity_id"`
	CourseID string `json:"courseId" validate:"required,max=64"`
	Title    string `json:"title" validate:"required,max=200"`
	Content  string `json:"content"`
	Order    int    `json:"order" validate:"gte=0"`
	Duration int    `json:"duration" validate:"gte=0"`
}

type CreateAssignmentRequest struct {
	AssignmentID string    `json:"assignmentId" validate:"entity_id"`
	CourseID     string    `json:"courseId" validate:"required,max=64"`
	Title        string    `json:"title" validate:"required,max=200"`
	Description  string    `json:"description"`
	DueDate      time.Time `json:"dueDate" validate:"required"`
	MaxScore     int       `json:"maxScore" validate:"omitempty,gt=0"`
}

type SubmitAssignmentRequest struct {
	SubmissionID string `json:"submissionId" validate:"entity_id"`
	AssignmentID string `json:"assignmentId" validate:"required,max=64"`
	StudentID    string `json:"studentId" validate:"required,max=64"`
	Content      string `json:"content" validate:"required"`
}

// GradeRequest sets a score; Feedback is only written when non-nil.
type GradeRequest struct {
	Score    float64 `json:"score" validate:"gte=0"`
	Feedback *string `json:"feedback" validate:"omitempty,max=5000"`
}

type UpdateProfileRequest struct {
	Bio    string   `json:"bio" validate:"max=1000"`
	Avatar *string  `json:"avatar" validate:"omitempty,url"`
	Skills []string `json:"skills" validate:"max=50,dive,min=1,max=50"`
}
