package models

import "time"

type Enrollment struct {
	ID           uint      `json:"-" gorm:"primaryKey"`
	EnrollmentID string    `json:"enrollmentId" gorm:"not null;size:64" validate:"required,max=64"`
	StudentID    string    `json:"studentId" gorm:"not null;size:64" validate:"required,max=64"`
	CourseID     string    `json:"courseId" gorm:"not null;size:64" validate:"required,max=64"`
	EnrolledAt   time.Time `json:"enrolledAt" gorm:"not null" validate:"required"`
	Progress     int       `json:"progress" gorm:"not null;check:chk_enrollments_progress,progress BETWEEN 0 AND 100" validate:"progress"`
	Completed    bool      `json:"completed" gorm:"not null"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}

type Lesson struct {
	ID       uint   `json:"-" gorm:"primaryKey"`
	LessonID string `json:"lessonId" gorm:"not null;size:64" validate:"required,max=64"`
	CourseID string `json:"courseId" gorm:"not null;size:64" validate:"required,max=64"`
	Title    string `json:"title" gorm:"not null;size:200" validate:"required,max=200"`
	Content  string `json:"content" gorm:"type:text"`
	Order    int    `json:"order" gorm:"column:lesson_order;not null" validate:"gte=0"`
	Duration int    `json:"duration" gorm:"not null" validate:"gte=0"`
}

func (Lesson) TableName() string {
	return "lessons"
}

type Assignment struct {
	ID           uint      `json:"-" gorm:"primaryKey"`
	AssignmentID string    `json:"assignmentId" gorm:"not null;size:64" validate:"required,max=64"`
	CourseID     string    `json:"courseId" gorm:"not null;size:64" validate:"required,max=64"`
	Title        string    `json:"title" gorm:"not null;size:200" validate:"required,max=200"`
	Description  string    `json:"description" gorm:"type:text"`
	DueDate      time.Time `json:"dueDate" gorm:"not null" validate:"required"`
	MaxScore     int       `json:"maxScore" gorm:"not null" validate:"gt=0"`
	CreatedAt    time.Time `json:"createdAt" gorm:"not null"`
}

func (Assignment) TableName() string {
	return "assignments"
}

type Submission struct {
	ID           uint      `json:"-" gorm:"primaryKey"`
	SubmissionID string    `json:"submissionId" gorm:"not null;size:64" validate:"required,max=64"`
	AssignmentID string    `json:"assignmentId" gorm:"not null;size:64" validate:"required,max=64"`
	StudentID    string    `json:"studentId" gorm:"not null;size:64" validate:"required,max=64"`
	SubmittedAt  time.Time `json:"submittedAt" gorm:"not null" validate:"required"`
	Content      string    `json:"content" gorm:"type:text"`
	Score        *float64  `json:"score" validate:"omitempty,gte=0"`
	Feedback     *string   `json:"feedback" gorm:"type:text"`
}

func (Submission) TableName() string {
	return "submissions"
}

// IsGraded reports whether a score has been recorded.
func (s *Submission) IsGraded() bool {
	return s.Score != nil
}
