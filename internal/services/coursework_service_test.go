package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/winmanuel/eduhub/internal/cache"
	"github.com/winmanuel/eduhub/internal/models"
	"github.com/winmanuel/eduhub/internal/validator"
)

func newCourseworkEnv(t *testing.T) (*testEnv, CourseworkService) {
	t.Helper()
	env := newTestEnv(t)
	env.addUser(t, "ins_1", models.RoleInstructor, testNow)
	env.addUser(t, "stu_1", models.RoleStudent, testNow)
	env.addCourse(t, "course_1", "ins_1", 100)
	return env, NewCourseworkService(env.deps)
}

func TestCourseworkService_Enroll(t *testing.T) {
	env, svc := newCourseworkEnv(t)
	ctx := context.Background()

	key := env.deps.Cache.Stats.GetCacheKey(cache.EnrollmentsPerCourseKey(20))
	env.redis.Set(key, "[]")

	enrollment, err := svc.Enroll(ctx, &EnrollRequest{StudentID: "stu_1", CourseID: "course_1"})
	if err != nil {
		t.Fatalf("Enroll() error = %v", err)
	}
	if enrollment.Progress != 0 || enrollment.Completed || !enrollment.EnrolledAt.Equal(testNow) {
		t.Errorf("enrollment = %+v, want fresh enrollment at %v", enrollment, testNow)
	}
	if env.redis.Exists(key) {
		t.Error("enrollment report still cached after enrolling")
	}

	tests := []struct {
		name    string
		req     *EnrollRequest
		wantErr error
	}{
		{name: "instructor cannot enroll", req: &EnrollRequest{StudentID: "ins_1", CourseID: "course_1"}, wantErr: ErrNotAStudent},
		{name: "unknown student", req: &EnrollRequest{StudentID: "stu_missing", CourseID: "course_1"}, wantErr: ErrUserNotFound},
		{name: "unknown course", req: &EnrollRequest{StudentID: "stu_1", CourseID: "course_missing"}, wantErr: ErrCourseNotFound},
		{name: "duplicate id", req: &EnrollRequest{EnrollmentID: enrollment.EnrollmentID, StudentID: "stu_1", CourseID: "course_1"}, wantErr: ErrConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Enroll(ctx, tt.req); !errors.Is(err, tt.wantErr) {
				t.Errorf("Enroll() error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if err := svc.Unenroll(ctx, enrollment.EnrollmentID); err != nil {
		t.Fatalf("Unenroll() error = %v", err)
	}
	if err := svc.Unenroll(ctx, enrollment.EnrollmentID); !errors.Is(err, ErrEnrollmentNotFound) {
		t.Errorf("second Unenroll() error = %v, want ErrEnrollmentNotFound", err)
	}
}

func TestCourseworkService_Lessons(t *testing.T) {
	_, svc := newCourseworkEnv(t)
	ctx := context.Background()

	for _, order := range []int{3, 1, 2} {
		if _, err := svc.CreateLesson(ctx, &CreateLessonRequest{CourseID: "course_1", Title: "Lesson", Order: order, Duration: 10}); err != nil {
			t.Fatalf("CreateLesson() error = %v", err)
		}
	}
	if _, err := svc.CreateLesson(ctx, &CreateLessonRequest{CourseID: "course_missing", Title: "Lesson"}); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("CreateLesson(unknown course) error = %v, want ErrCourseNotFound", err)
	}

	lessons, err := svc.ListLessons(ctx, "course_1")
	if err != nil {
		t.Fatalf("ListLessons() error = %v", err)
	}
	for i, l := range lessons {
		if l.Order != i+1 {
			t.Errorf("lessons[%d].Order = %d, want %d", i, l.Order, i+1)
		}
	}

	if err := svc.RemoveLesson(ctx, lessons[0].LessonID); err != nil {
		t.Fatalf("RemoveLesson() error = %v", err)
	}
	if lessons, _ := svc.ListLessons(ctx, "course_1"); len(lessons) != 2 {
		t.Errorf("%d lessons left, want 2", len(lessons))
	}
}

func TestCourseworkService_Assignments(t *testing.T) {
	_, svc := newCourseworkEnv(t)
	ctx := context.Background()
	day := 24 * time.Hour

	a, err := svc.CreateAssignment(ctx, &CreateAssignmentRequest{CourseID: "course_1", Title: "Essay", DueDate: testNow.Add(3 * day)})
	if err != nil {
		t.Fatalf("CreateAssignment() error = %v", err)
	}
	if a.MaxScore != 100 || !a.CreatedAt.Equal(testNow) {
		t.Errorf("assignment = %+v, want max score 100 created at %v", a, testNow)
	}
	if _, err := svc.CreateAssignment(ctx, &CreateAssignmentRequest{CourseID: "course_1", Title: "Late", DueDate: testNow.Add(20 * day), MaxScore: 50}); err != nil {
		t.Fatalf("CreateAssignment() error = %v", err)
	}

	var verrs validator.ValidationErrors
	_, err = svc.CreateAssignment(ctx, &CreateAssignmentRequest{CourseID: "course_1", Title: "Past", DueDate: testNow.Add(-day)})
	if !errors.As(err, &verrs) || verrs[0].Field != "dueDate" {
		t.Errorf("past due date error = %v, want dueDate validation error", err)
	}

	due, err := svc.ListDueWithin(ctx, 0)
	if err != nil {
		t.Fatalf("ListDueWithin() error = %v", err)
	}
	if len(due) != 1 || due[0].AssignmentID != a.AssignmentID {
		t.Errorf("ListDueWithin(7) = %d assignments, want only %s", len(due), a.AssignmentID)
	}
	if due, _ := svc.ListDueWithin(ctx, 30); len(due) != 2 {
		t.Errorf("ListDueWithin(30) = %d assignments, want 2", len(due))
	}
}

func TestCourseworkService_SubmitAndGrade(t *testing.T) {
	env, svc := newCourseworkEnv(t)
	ctx := context.Background()

	a, err := svc.CreateAssignment(ctx, &CreateAssignmentRequest{CourseID: "course_1", Title: "Quiz", DueDate: testNow.Add(time.Hour), MaxScore: 50})
	if err != nil {
		t.Fatalf("CreateAssignment() error = %v", err)
	}
	sub, err := svc.SubmitAssignment(ctx, &SubmitAssignmentRequest{AssignmentID: a.AssignmentID, StudentID: "stu_1", Content: "answer"})
	if err != nil {
		t.Fatalf("SubmitAssignment() error = %v", err)
	}
	if sub.IsGraded() || sub.Feedback != nil {
		t.Errorf("new submission = %+v, want ungraded", sub)
	}

	if _, err := svc.SubmitAssignment(ctx, &SubmitAssignmentRequest{AssignmentID: "asgn_missing", StudentID: "stu_1", Content: "x"}); !errors.Is(err, ErrAssignmentNotFound) {
		t.Errorf("submit to unknown assignment error = %v, want ErrAssignmentNotFound", err)
	}

	feedback := "Well done"
	tests := []struct {
		name         string
		req          *GradeRequest
		wantErr      bool
		wantScore    float64
		wantFeedback string
	}{
		{name: "above max score", req: &GradeRequest{Score: 51}, wantErr: true},
		{name: "negative", req: &GradeRequest{Score: -1}, wantErr: true},
		{name: "with feedback", req: &GradeRequest{Score: 50, Feedback: &feedback}, wantScore: 50, wantFeedback: feedback},
		{name: "nil feedback keeps previous", req: &GradeRequest{Score: 42}, wantScore: 42, wantFeedback: feedback},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := env.store.transactions
			err := svc.Grade(ctx, sub.SubmissionID, tt.req)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Grade() succeeded, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Grade() error = %v", err)
			}
			if got := env.store.transactions - before; got != 1 {
				t.Errorf("Grade() ran in %d transactions, want 1", got)
			}
			stored := env.store.submissions[0]
			if stored.Score == nil || *stored.Score != tt.wantScore {
				t.Errorf("score = %v, want %v", stored.Score, tt.wantScore)
			}
			if stored.Feedback == nil || *stored.Feedback != tt.wantFeedback {
				t.Errorf("feedback = %v, want %q", stored.Feedback, tt.wantFeedback)
			}
		})
	}

	if err := svc.Grade(ctx, "sub_missing", &GradeRequest{Score: 1}); !errors.Is(err, ErrSubmissionNotFound) {
		t.Errorf("Grade(missing) error = %v, want ErrSubmissionNotFound", err)
	}

	subs, err := svc.ListSubmissions(ctx, a.AssignmentID)
	if err != nil || len(subs) != 1 {
		t.Errorf("ListSubmissions() = %d, %v; want 1", len(subs), err)
	}
}
