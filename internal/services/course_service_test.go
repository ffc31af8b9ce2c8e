package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/winmanuel/eduhub/internal/cache"
	"github.com/winmanuel/eduhub/internal/events"
	"github.com/winmanuel/eduhub/internal/models"
)

func TestCourseService_CreateCourse_Defaults(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "ins_1", models.RoleInstructor, testNow)
	svc := NewCourseService(env.deps)

	course, err := svc.CreateCourse(context.Background(), &CreateCourseRequest{
		Title:        "Intro to Go",
		InstructorID: "ins_1",
		Tags:         []string{"go", "go", "backend"},
	})
	if err != nil {
		t.Fatalf("CreateCourse() error = %v", err)
	}

	if !strings.HasPrefix(course.CourseID, "course_") {
		t.Errorf("CourseID = %q, want course_ prefix", course.CourseID)
	}
	if course.Category != "General" || course.Level != models.LevelBeginner || course.Duration != 5 || course.Price != 0 {
		t.Errorf("defaults = %q/%q/%d/%v, want General/beginner/5/0", course.Category, course.Level, course.Duration, course.Price)
	}
	if course.IsPublished {
		t.Error("new course must be unpublished")
	}
	if len(course.Tags) != 2 {
		t.Errorf("Tags = %v, want duplicates collapsed", course.Tags)
	}
	if !course.CreatedAt.Equal(testNow) || course.UpdatedAt == nil || !course.UpdatedAt.Equal(testNow) {
		t.Errorf("timestamps = %v/%v, want %v", course.CreatedAt, course.UpdatedAt, testNow)
	}
	if types := env.eventTypes(); len(types) != 1 || types[0] != events.CourseCreated {
		t.Errorf("events = %v, want [course.created]", types)
	}
}

func TestCourseService_CreateCourse_Errors(t *testing.T) {
	tests := []struct {
		name    string
		req     *CreateCourseRequest
		wantErr error
	}{
		{name: "unknown instructor", req: &CreateCourseRequest{Title: "T", InstructorID: "ins_missing"}, wantErr: ErrUserNotFound},
		{name: "student as instructor", req: &CreateCourseRequest{Title: "T", InstructorID: "stu_1"}, wantErr: ErrNotAnInstructor},
		{name: "duplicate id", req: &CreateCourseRequest{CourseID: "course_1", Title: "T", InstructorID: "ins_1"}, wantErr: ErrConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.addUser(t, "ins_1", models.RoleInstructor, testNow)
			env.addUser(t, "stu_1", models.RoleStudent, testNow)
			env.addCourse(t, "course_1", "ins_1", 10)
			svc := NewCourseService(env.deps)

			if _, err := svc.CreateCourse(context.Background(), tt.req); !errors.Is(err, tt.wantErr) {
				t.Fatalf("CreateCourse() error = %v, want %v", err, tt.wantErr)
			}
			if len(env.store.courses) != 1 {
				t.Errorf("store has %d courses, want 1", len(env.store.courses))
			}
		})
	}
}

func TestCourseService_CreateCourse_InvalidatesReports(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "ins_1", models.RoleInstructor, testNow)
	key := env.deps.Cache.Stats.GetCacheKey(cache.RevenuePerInstructorKey())
	env.redis.Set(key, "[]")

	svc := NewCourseService(env.deps)
	if _, err := svc.CreateCourse(context.Background(), &CreateCourseRequest{Title: "T", InstructorID: "ins_1"}); err != nil {
		t.Fatalf("CreateCourse() error = %v", err)
	}
	if env.redis.Exists(key) {
		t.Error("revenue report still cached after course creation")
	}
}

func TestCourseService_Queries(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "ins_1", models.RoleInstructor, testNow)
	env.addCourse(t, "course_1", "ins_1", 10)
	env.addCourse(t, "course_2", "ins_1", 100)
	env.addCourse(t, "course_3", "ins_missing", 50)
	env.store.courses[0].Title = "Python Basics 1"
	env.store.courses[1].Tags = []string{"python", "data"}
	svc := NewCourseService(env.deps)
	ctx := context.Background()

	t.Run("with instructor", func(t *testing.T) {
		course, err := svc.GetCourseWithInstructor(ctx, "course_1")
		if err != nil {
			t.Fatalf("GetCourseWithInstructor() error = %v", err)
		}
		if course.Instructor == nil || course.Instructor.UserID != "ins_1" {
			t.Errorf("Instructor = %+v, want ins_1", course.Instructor)
		}
		if _, err := svc.GetCourseWithInstructor(ctx, "course_3"); !errors.Is(err, ErrCourseNotFound) {
			t.Errorf("orphan course error = %v, want ErrCourseNotFound", err)
		}
	})

	t.Run("title search is case insensitive", func(t *testing.T) {
		courses, err := svc.SearchByTitle(ctx, "python")
		if err != nil || len(courses) != 1 || courses[0].CourseID != "course_1" {
			t.Errorf("SearchByTitle() = %v, %v", courses, err)
		}
	})

	t.Run("full text search requires a query", func(t *testing.T) {
		if _, err := svc.FullTextSearch(ctx, "", 0); !errors.Is(err, ErrBadRequest) {
			t.Errorf("FullTextSearch(\"\") error = %v, want ErrBadRequest", err)
		}
	})

	t.Run("price range is inclusive", func(t *testing.T) {
		courses, err := svc.ListByPriceRange(ctx, 10, 50)
		if err != nil || len(courses) != 2 {
			t.Errorf("ListByPriceRange(10, 50) = %d courses, %v; want 2", len(courses), err)
		}
		if _, err := svc.ListByPriceRange(ctx, 50, 10); !errors.Is(err, ErrBadRequest) {
			t.Errorf("inverted range error = %v, want ErrBadRequest", err)
		}
	})

	t.Run("tags", func(t *testing.T) {
		courses, err := svc.ListByTags(ctx, []string{"data", "unused"})
		if err != nil || len(courses) != 1 || courses[0].CourseID != "course_2" {
			t.Errorf("ListByTags() = %v, %v", courses, err)
		}
		if courses, _ := svc.ListByTags(ctx, nil); len(courses) != 0 {
			t.Errorf("ListByTags(nil) = %d courses, want 0", len(courses))
		}
	})
}

func TestCourseService_PublishAndAddTags(t *testing.T) {
	env := newTestEnv(t)
	env.addUser(t, "ins_1", models.RoleInstructor, testNow)
	env.addCourse(t, "course_1", "ins_1", 10)
	env.store.courses[0].Tags = []string{"go"}
	svc := NewCourseService(env.deps)
	ctx := context.Background()

	if err := svc.Publish(ctx, "course_1"); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	if !env.store.courses[0].IsPublished {
		t.Error("course not published")
	}

	added, err := svc.AddTags(ctx, "course_1", "go", "cloud")
	if err != nil || added != 1 {
		t.Fatalf("AddTags() = %d, %v; want 1, nil", added, err)
	}
	added, err = svc.AddTags(ctx, "course_1", "cloud")
	if err != nil || added != 0 {
		t.Fatalf("AddTags(existing) = %d, %v; want 0, nil", added, err)
	}
	if _, err := svc.AddTags(ctx, "course_1", " "); err == nil {
		t.Error("AddTags(blank) succeeded, want validation error")
	}
	if err := svc.Publish(ctx, "course_missing"); !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("Publish(missing) error = %v, want ErrCourseNotFound", err)
	}

	want := []events.EventType{events.CoursePublished, events.CourseTagsAdded}
	if got := env.eventTypes(); len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("events = %v, want %v", got, want)
	}
}
