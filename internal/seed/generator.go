// Package seed generates internally consistent sample records. Child
// records only reference ids from parent batches produced by the same
// generator, so a dataset is valid without consulting the store.
package seed

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/winmanuel/eduhub/internal/models"
)

var ErrEmptyParent = errors.New("parent batch is empty")

var (
	firstNames = []string{"Alex", "Maria", "John", "Sara", "Liam", "Olivia", "Noah", "Emma", "Ava", "Mason"}
	lastNames  = []string{"Smith", "Kovács", "Nagy", "Brown", "Garcia", "Wang", "Patel", "Dubois", "Rossi", "Müller"}
	categories = []string{"Data Science", "Web Development", "Design", "Business", "Math", "Physics", "Language", "Arts"}
	tags       = []string{"python", "mongodb", "beginner", "advanced", "react", "ml", "statistics", "ux"}
	prices     = []float64{0, 19.99, 49.99, 99.99, 149.99, 199.99}
	levels     = []models.CourseLevel{models.LevelBeginner, models.LevelIntermediate, models.LevelAdvanced}
)

// Id prefixes per entity.
const (
	PrefixStudent    = "stu"
	PrefixInstructor = "ins"
	PrefixCourse     = "course"
	PrefixEnrollment = "enr"
	PrefixLesson     = "les"
	PrefixAssignment = "asgn"
	PrefixSubmission = "sub"
)

// Counts is the number of records generated per entity.
type Counts struct {
	Students    int
	Instructors int
	Courses     int
	Enrollments int
	Lessons     int
	Assignments int
	Submissions int
}

func DefaultCounts() Counts {
	return Counts{
		Students:    15,
		Instructors: 5,
		Courses:     8,
		Enrollments: 15,
		Lessons:     25,
		Assignments: 10,
		Submissions: 12,
	}
}

// Dataset is one generated batch per entity.
type Dataset struct {
	Students    []*models.User
	Instructors []*models.User
	Courses     []*models.Course
	Enrollments []*models.Enrollment
	Lessons     []*models.Lesson
	Assignments []*models.Assignment
	Submissions []*models.Submission
}

// Users returns students followed by instructors.
func (d *Dataset) Users() []*models.User {
	users := make([]*models.User, 0, len(d.Students)+len(d.Instructors))
	users = append(users, d.Students...)
	return append(users, d.Instructors...)
}

// Generator is not safe for concurrent use.
type Generator struct {
	rng *rand.Rand
	now func() time.Time
}

type Option func(*Generator)

// WithRand sets the random source. Ids are drawn from it too.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		g.rng = rng
	}
}

func WithSeed(seed int64) Option {
	return WithRand(rand.New(rand.NewSource(seed)))
}

// WithClock sets the reference time used for every generated timestamp.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		g.now = now
	}
}

func NewGenerator(opts ...Option) *Generator {
	g := &Generator{now: time.Now}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return g
}

// Generate builds a full dataset, parents before children.
func (g *Generator) Generate(c Counts) (*Dataset, error) {
	d := &Dataset{
		Students:    g.Students(c.Students),
		Instructors: g.Instructors(c.Instructors),
	}

	var err error
	if d.Courses, err = g.Courses(c.Courses, d.Instructors); err != nil {
		return nil, fmt.Errorf("courses: %w", err)
	}
	if d.Enrollments, err = g.Enrollments(c.Enrollments, d.Students, d.Courses); err != nil {
		return nil, fmt.Errorf("enrollments: %w", err)
	}
	if d.Lessons, err = g.Lessons(c.Lessons, d.Courses); err != nil {
		return nil, fmt.Errorf("lessons: %w", err)
	}
	if d.Assignments, err = g.Assignments(c.Assignments, d.Courses); err != nil {
		return nil, fmt.Errorf("assignments: %w", err)
	}
	if d.Submissions, err = g.Submissions(c.Submissions, d.Assignments, d.Students); err != nil {
		return nil, fmt.Errorf("submissions: %w", err)
	}
	return d, nil
}

func (g *Generator) Students(n int) []*models.User {
	return g.users(n, PrefixStudent, models.RoleStudent, "Learner", 2, 0, 400)
}

func (g *Generator) Instructors(n int) []*models.User {
	return g.users(n, PrefixInstructor, models.RoleInstructor, "Instructor", 3, 30, 800)
}

func (g *Generator) users(n int, prefix string, role models.UserRole, bio string, skills, minDays, maxDays int) []*models.User {
	now := g.reference()
	users := make([]*models.User, 0, max(n, 0))
	for i := 0; i < n; i++ {
		id := g.ID(prefix)
		users = append(users, &models.User{
			UserID:     id,
			Email:      id + "@example.com",
			FirstName:  pick(g.rng, firstNames),
			LastName:   pick(g.rng, lastNames),
			Role:       role,
			DateJoined: now.AddDate(0, 0, -g.between(minDays, maxDays)),
			IsActive:   true,
			Profile:    models.NewProfile(bio, nil, g.sample(tags, skills)),
		})
	}
	return users
}

func (g *Generator) Courses(n int, instructors []*models.User) ([]*models.Course, error) {
	if n <= 0 {
		return []*models.Course{}, nil
	}
	if len(instructors) == 0 {
		return nil, fmt.Errorf("%w: no instructors", ErrEmptyParent)
	}

	now := g.reference()
	courses := make([]*models.Course, 0, n)
	for i := 0; i < n; i++ {
		title := fmt.Sprintf("%s Basics %d", pick(g.rng, categories), i+1)
		updated := now
		courses = append(courses, &models.Course{
			CourseID:     g.ID(PrefixCourse),
			Title:        title,
			Description:  "A practical course on " + title,
			InstructorID: pick(g.rng, instructors).UserID,
			Category:     pick(g.rng, categories),
			Level:        pick(g.rng, levels),
			Price:        pick(g.rng, prices),
			Duration:     g.between(2, 40),
			Tags:         g.sample(tags, 3),
			IsPublished:  g.rng.Intn(2) == 1,
			CreatedAt:    now.AddDate(0, 0, -g.between(0, 1000)),
			UpdatedAt:    &updated,
		})
	}
	return courses, nil
}

func (g *Generator) Enrollments(n int, students []*models.User, courses []*models.Course) ([]*models.Enrollment, error) {
	if n <= 0 {
		return []*models.Enrollment{}, nil
	}
	if len(students) == 0 || len(courses) == 0 {
		return nil, fmt.Errorf("%w: need students and courses", ErrEmptyParent)
	}

	now := g.reference()
	enrollments := make([]*models.Enrollment, 0, n)
	for i := 0; i < n; i++ {
		enrollments = append(enrollments, &models.Enrollment{
			EnrollmentID: g.ID(PrefixEnrollment),
			StudentID:    pick(g.rng, students).UserID,
			CourseID:     pick(g.rng, courses).CourseID,
			EnrolledAt:   now.AddDate(0, 0, -g.between(0, 300)),
			Progress:     g.between(0, 100),
			Completed:    g.rng.Intn(2) == 1,
		})
	}
	return enrollments, nil
}

func (g *Generator) Lessons(n int, courses []*models.Course) ([]*models.Lesson, error) {
	if n <= 0 {
		return []*models.Lesson{}, nil
	}
	if len(courses) == 0 {
		return nil, fmt.Errorf("%w: no courses", ErrEmptyParent)
	}

	lessons := make([]*models.Lesson, 0, n)
	for i := 0; i < n; i++ {
		courseID := pick(g.rng, courses).CourseID
		id := g.ID(PrefixLesson)
		lessons = append(lessons, &models.Lesson{
			LessonID: id,
			CourseID: courseID,
			Title:    fmt.Sprintf("Lesson for %s - %s", courseID, id[len(id)-4:]),
			Content:  "Lesson content sample...",
			Order:    g.between(1, 12),
			Duration: g.between(5, 60),
		})
	}
	return lessons, nil
}

func (g *Generator) Assignments(n int, courses []*models.Course) ([]*models.Assignment, error) {
	if n <= 0 {
		return []*models.Assignment{}, nil
	}
	if len(courses) == 0 {
		return nil, fmt.Errorf("%w: no courses", ErrEmptyParent)
	}

	now := g.reference()
	assignments := make([]*models.Assignment, 0, n)
	for i := 0; i < n; i++ {
		id := g.ID(PrefixAssignment)
		assignments = append(assignments, &models.Assignment{
			AssignmentID: id,
			CourseID:     pick(g.rng, courses).CourseID,
			Title:        "Assignment " + id[len(id)-4:],
			Description:  "Please complete...",
			DueDate:      now.AddDate(0, 0, g.between(1, 30)),
			MaxScore:     100,
			CreatedAt:    now,
		})
	}
	return assignments, nil
}

func (g *Generator) Submissions(n int, assignments []*models.Assignment, students []*models.User) ([]*models.Submission, error) {
	if n <= 0 {
		return []*models.Submission{}, nil
	}
	if len(assignments) == 0 || len(students) == 0 {
		return nil, fmt.Errorf("%w: need assignments and students", ErrEmptyParent)
	}

	now := g.reference()
	submissions := make([]*models.Submission, 0, n)
	for i := 0; i < n; i++ {
		score := float64(g.between(40, 100))
		feedback := "Well done"
		submissions = append(submissions, &models.Submission{
			SubmissionID: g.ID(PrefixSubmission),
			AssignmentID: pick(g.rng, assignments).AssignmentID,
			StudentID:    pick(g.rng, students).UserID,
			SubmittedAt:  now.AddDate(0, 0, -g.between(0, 20)),
			Content:      "Answer file or text...",
			Score:        &score,
			Feedback:     &feedback,
		})
	}
	return submissions, nil
}

// ID returns "<prefix>_" followed by 8 hex characters from the generator's
// random source.
func (g *Generator) ID(prefix string) string {
	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		// *rand.Rand reads never fail
		panic(err)
	}
	return prefix + "_" + id.String()[:8]
}

// reference is the clock reading truncated to what the store keeps.
func (g *Generator) reference() time.Time {
	return g.now().UTC().Truncate(time.Microsecond)
}

func (g *Generator) between(lo, hi int) int {
	return lo + g.rng.Intn(hi-lo+1)
}

// sample returns k distinct elements in random order.
func (g *Generator) sample(from []string, k int) []string {
	perm := g.rng.Perm(len(from))
	out := make([]string, 0, k)
	for _, i := range perm[:min(k, len(from))] {
		out = append(out, from[i])
	}
	return out
}

func pick[T any](rng *rand.Rand, from []T) T {
	return from[rng.Intn(len(from))]
}
