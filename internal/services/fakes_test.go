package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/winmanuel/eduhub/internal/models"
	"github.com/winmanuel/eduhub/internal/repositories"
)

// fakeStore is an in-memory Repository. Records are kept in insertion
// order and unique keys are enforced like the real store.
type fakeStore struct {
	mu          sync.Mutex
	users       []*models.User
	courses     []*models.Course
	enrollments []*models.Enrollment
	lessons     []*models.Lesson
	assignments []*models.Assignment
	submissions []*models.Submission

	reportCalls  int
	transactions int
	provisioned  int
	failWith     error
	closed       bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func notFound(entity, id string) error {
	return fmt.Errorf("%s %q: %w", entity, id, repositories.ErrNotFound)
}

func duplicate(key string) error {
	return fmt.Errorf("%w on %s", repositories.ErrDuplicateKey, key)
}

func (f *fakeStore) User() repositories.UserRepository             { return fakeUsers{f} }
func (f *fakeStore) Course() repositories.CourseRepository         { return fakeCourses{f} }
func (f *fakeStore) Enrollment() repositories.EnrollmentRepository { return fakeEnrollments{f} }
func (f *fakeStore) Lesson() repositories.LessonRepository         { return fakeLessons{f} }
func (f *fakeStore) Assignment() repositories.AssignmentRepository { return fakeAssignments{f} }
func (f *fakeStore) Submission() repositories.SubmissionRepository { return fakeSubmissions{f} }
func (f *fakeStore) Report() repositories.ReportRepository         { return fakeReports{f} }
func (f *fakeStore) Diagnostics() repositories.DiagnosticsRepository {
	return fakeDiagnostics{f}
}
func (f *fakeStore) Provisioner() repositories.Provisioner { return fakeProvisioner{f} }
func (f *fakeStore) WithTransaction(ctx context.Context, fn func(repositories.Repository) error) error {
	f.mu.Lock()
	f.transactions++
	f.mu.Unlock()
	return fn(f)
}
func (f *fakeStore) Ping(ctx context.Context) error { return f.failWith }
func (f *fakeStore) Close() error {
	f.closed = true
	return nil
}

// ===== USERS =====

type fakeUsers struct{ f *fakeStore }

func (r fakeUsers) Create(ctx context.Context, tx *gorm.DB, user *models.User) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, u := range r.f.users {
		if u.UserID == user.UserID {
			return duplicate("uidx_users_user_id")
		}
		if u.Email == user.Email {
			return duplicate("uidx_users_email")
		}
	}
	cp := *user
	r.f.users = append(r.f.users, &cp)
	return nil
}

func (r fakeUsers) CreateMany(ctx context.Context, tx *gorm.DB, users []*models.User) (repositories.BatchResult, error) {
	res := repositories.BatchResult{Attempted: len(users)}
	if r.f.failWith != nil {
		return res, r.f.failWith
	}
	for _, u := range users {
		if err := r.Create(ctx, tx, u); err == nil {
			res.Inserted++
		}
	}
	res.Duplicates = res.Attempted - res.Inserted
	return res, nil
}

func (r fakeUsers) GetByID(ctx context.Context, tx *gorm.DB, userID string) (*models.User, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, u := range r.f.users {
		if u.UserID == userID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, notFound("user", userID)
}

func (r fakeUsers) List(ctx context.Context, tx *gorm.DB, filters repositories.UserFilters) ([]*models.User, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.User
	for _, u := range r.f.users {
		if filters.Role != nil && u.Role != *filters.Role {
			continue
		}
		if filters.IsActive != nil && u.IsActive != *filters.IsActive {
			continue
		}
		if filters.JoinedSince != nil && u.DateJoined.Before(*filters.JoinedSince) {
			continue
		}
		out = append(out, u)
	}
	return out, nil
}

func (r fakeUsers) ListActiveStudents(ctx context.Context, tx *gorm.DB) ([]*models.User, error) {
	role, active := models.RoleStudent, true
	return r.List(ctx, tx, repositories.UserFilters{Role: &role, IsActive: &active})
}

func (r fakeUsers) ListJoinedSince(ctx context.Context, tx *gorm.DB, since time.Time) ([]*models.User, error) {
	return r.List(ctx, tx, repositories.UserFilters{JoinedSince: &since})
}

func (r fakeUsers) ListStudentsInCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*models.User, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.User
	for _, e := range r.f.enrollments {
		if e.CourseID != courseID {
			continue
		}
		for _, u := range r.f.users {
			if u.UserID == e.StudentID {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

func (r fakeUsers) UpdateProfile(ctx context.Context, tx *gorm.DB, userID string, profile models.UserProfile) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, u := range r.f.users {
		if u.UserID == userID {
			u.Profile = models.NewProfile(profile.Bio, profile.Avatar, profile.Skills)
			return nil
		}
	}
	return notFound("user", userID)
}

func (r fakeUsers) SoftDelete(ctx context.Context, tx *gorm.DB, userID string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, u := range r.f.users {
		if u.UserID == userID {
			u.IsActive = false
			return nil
		}
	}
	return notFound("user", userID)
}

// ===== COURSES =====

type fakeCourses struct{ f *fakeStore }

func (r fakeCourses) Create(ctx context.Context, tx *gorm.DB, course *models.Course) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, c := range r.f.courses {
		if c.CourseID == course.CourseID {
			return duplicate("uidx_courses_course_id")
		}
	}
	cp := *course
	cp.Tags = append([]string(nil), course.Tags...)
	r.f.courses = append(r.f.courses, &cp)
	return nil
}

func (r fakeCourses) CreateMany(ctx context.Context, tx *gorm.DB, courses []*models.Course) (repositories.BatchResult, error) {
	res := repositories.BatchResult{Attempted: len(courses)}
	for _, c := range courses {
		if err := r.Create(ctx, tx, c); err == nil {
			res.Inserted++
		}
	}
	res.Duplicates = res.Attempted - res.Inserted
	return res, nil
}

func (r fakeCourses) find(courseID string) *models.Course {
	for _, c := range r.f.courses {
		if c.CourseID == courseID {
			return c
		}
	}
	return nil
}

func (r fakeCourses) GetByID(ctx context.Context, tx *gorm.DB, courseID string) (*models.Course, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	if c := r.find(courseID); c != nil {
		cp := *c
		return &cp, nil
	}
	return nil, notFound("course", courseID)
}

func (r fakeCourses) GetWithInstructor(ctx context.Context, tx *gorm.DB, courseID string) (*models.Course, error) {
	course, err := r.GetByID(ctx, tx, courseID)
	if err != nil {
		return nil, err
	}
	instructor, err := fakeUsers{r.f}.GetByID(ctx, tx, course.InstructorID)
	if err != nil {
		return nil, notFound("course", courseID)
	}
	course.Instructor = instructor
	return course, nil
}

func (r fakeCourses) filter(keep func(*models.Course) bool) []*models.Course {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.Course
	for _, c := range r.f.courses {
		if keep(c) {
			out = append(out, c)
		}
	}
	return out
}

func (r fakeCourses) ListByCategory(ctx context.Context, tx *gorm.DB, category string) ([]*models.Course, error) {
	return r.filter(func(c *models.Course) bool { return c.Category == category }), nil
}

func (r fakeCourses) SearchByTitle(ctx context.Context, tx *gorm.DB, term string) ([]*models.Course, error) {
	term = strings.ToLower(term)
	return r.filter(func(c *models.Course) bool { return strings.Contains(strings.ToLower(c.Title), term) }), nil
}

func (r fakeCourses) FullTextSearch(ctx context.Context, tx *gorm.DB, query string, limit int) ([]*models.Course, error) {
	query = strings.ToLower(query)
	out := r.filter(func(c *models.Course) bool {
		return strings.Contains(strings.ToLower(c.Title+" "+c.Description), query)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r fakeCourses) ListByPriceRange(ctx context.Context, tx *gorm.DB, min, max float64) ([]*models.Course, error) {
	return r.filter(func(c *models.Course) bool { return c.Price >= min && c.Price <= max }), nil
}

func (r fakeCourses) ListByTags(ctx context.Context, tx *gorm.DB, tags []string) ([]*models.Course, error) {
	return r.filter(func(c *models.Course) bool {
		for _, t := range tags {
			if c.HasTag(t) {
				return true
			}
		}
		return false
	}), nil
}

func (r fakeCourses) Publish(ctx context.Context, tx *gorm.DB, courseID string, at time.Time) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	c := r.find(courseID)
	if c == nil {
		return notFound("course", courseID)
	}
	c.IsPublished = true
	c.UpdatedAt = &at
	return nil
}

func (r fakeCourses) AddTags(ctx context.Context, tx *gorm.DB, courseID string, tags []string) (int, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	c := r.find(courseID)
	if c == nil {
		return 0, notFound("course", courseID)
	}
	return c.MergeTags(tags...), nil
}

// ===== ENROLLMENTS =====

type fakeEnrollments struct{ f *fakeStore }

func (r fakeEnrollments) Create(ctx context.Context, tx *gorm.DB, enrollment *models.Enrollment) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, e := range r.f.enrollments {
		if e.EnrollmentID == enrollment.EnrollmentID {
			return duplicate("enrollment_id")
		}
	}
	cp := *enrollment
	r.f.enrollments = append(r.f.enrollments, &cp)
	return nil
}

func (r fakeEnrollments) CreateMany(ctx context.Context, tx *gorm.DB, enrollments []*models.Enrollment) (repositories.BatchResult, error) {
	res := repositories.BatchResult{Attempted: len(enrollments)}
	for _, e := range enrollments {
		if err := r.Create(ctx, tx, e); err == nil {
			res.Inserted++
		}
	}
	res.Duplicates = res.Attempted - res.Inserted
	return res, nil
}

func (r fakeEnrollments) GetByID(ctx context.Context, tx *gorm.DB, enrollmentID string) (*models.Enrollment, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, e := range r.f.enrollments {
		if e.EnrollmentID == enrollmentID {
			cp := *e
			return &cp, nil
		}
	}
	return nil, notFound("enrollment", enrollmentID)
}

func (r fakeEnrollments) list(keep func(*models.Enrollment) bool) []*models.Enrollment {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.Enrollment
	for _, e := range r.f.enrollments {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

func (r fakeEnrollments) ListByStudent(ctx context.Context, tx *gorm.DB, studentID string) ([]*models.Enrollment, error) {
	return r.list(func(e *models.Enrollment) bool { return e.StudentID == studentID }), nil
}

func (r fakeEnrollments) ListByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*models.Enrollment, error) {
	return r.list(func(e *models.Enrollment) bool { return e.CourseID == courseID }), nil
}

func (r fakeEnrollments) Count(ctx context.Context, tx *gorm.DB) (int64, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	return int64(len(r.f.enrollments)), nil
}

func (r fakeEnrollments) Delete(ctx context.Context, tx *gorm.DB, enrollmentID string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for i, e := range r.f.enrollments {
		if e.EnrollmentID == enrollmentID {
			r.f.enrollments = append(r.f.enrollments[:i], r.f.enrollments[i+1:]...)
			return nil
		}
	}
	return notFound("enrollment", enrollmentID)
}

// ===== LESSONS =====

type fakeLessons struct{ f *fakeStore }

func (r fakeLessons) Create(ctx context.Context, tx *gorm.DB, lesson *models.Lesson) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, l := range r.f.lessons {
		if l.LessonID == lesson.LessonID {
			return duplicate("lesson_id")
		}
	}
	cp := *lesson
	r.f.lessons = append(r.f.lessons, &cp)
	return nil
}

func (r fakeLessons) CreateMany(ctx context.Context, tx *gorm.DB, lessons []*models.Lesson) (repositories.BatchResult, error) {
	res := repositories.BatchResult{Attempted: len(lessons)}
	for _, l := range lessons {
		if err := r.Create(ctx, tx, l); err == nil {
			res.Inserted++
		}
	}
	res.Duplicates = res.Attempted - res.Inserted
	return res, nil
}

func (r fakeLessons) GetByID(ctx context.Context, tx *gorm.DB, lessonID string) (*models.Lesson, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, l := range r.f.lessons {
		if l.LessonID == lessonID {
			cp := *l
			return &cp, nil
		}
	}
	return nil, notFound("lesson", lessonID)
}

func (r fakeLessons) ListByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*models.Lesson, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.Lesson
	for _, l := range r.f.lessons {
		if l.CourseID == courseID {
			out = append(out, l)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r fakeLessons) Delete(ctx context.Context, tx *gorm.DB, lessonID string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for i, l := range r.f.lessons {
		if l.LessonID == lessonID {
			r.f.lessons = append(r.f.lessons[:i], r.f.lessons[i+1:]...)
			return nil
		}
	}
	return notFound("lesson", lessonID)
}

// ===== ASSIGNMENTS =====

type fakeAssignments struct{ f *fakeStore }

func (r fakeAssignments) Create(ctx context.Context, tx *gorm.DB, assignment *models.Assignment) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, a := range r.f.assignments {
		if a.AssignmentID == assignment.AssignmentID {
			return duplicate("uidx_assignments_assignment_id")
		}
	}
	cp := *assignment
	r.f.assignments = append(r.f.assignments, &cp)
	return nil
}

func (r fakeAssignments) CreateMany(ctx context.Context, tx *gorm.DB, assignments []*models.Assignment) (repositories.BatchResult, error) {
	res := repositories.BatchResult{Attempted: len(assignments)}
	for _, a := range assignments {
		if err := r.Create(ctx, tx, a); err == nil {
			res.Inserted++
		}
	}
	res.Duplicates = res.Attempted - res.Inserted
	return res, nil
}

func (r fakeAssignments) GetByID(ctx context.Context, tx *gorm.DB, assignmentID string) (*models.Assignment, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, a := range r.f.assignments {
		if a.AssignmentID == assignmentID {
			cp := *a
			return &cp, nil
		}
	}
	return nil, notFound("assignment", assignmentID)
}

func (r fakeAssignments) ListByCourse(ctx context.Context, tx *gorm.DB, courseID string) ([]*models.Assignment, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.Assignment
	for _, a := range r.f.assignments {
		if a.CourseID == courseID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r fakeAssignments) ListDueBetween(ctx context.Context, tx *gorm.DB, from, to time.Time) ([]*models.Assignment, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.Assignment
	for _, a := range r.f.assignments {
		if !a.DueDate.Before(from) && !a.DueDate.After(to) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DueDate.Before(out[j].DueDate) })
	return out, nil
}

// ===== SUBMISSIONS =====

type fakeSubmissions struct{ f *fakeStore }

func (r fakeSubmissions) Create(ctx context.Context, tx *gorm.DB, submission *models.Submission) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, s := range r.f.submissions {
		if s.SubmissionID == submission.SubmissionID {
			return duplicate("submission_id")
		}
	}
	cp := *submission
	r.f.submissions = append(r.f.submissions, &cp)
	return nil
}

func (r fakeSubmissions) CreateMany(ctx context.Context, tx *gorm.DB, submissions []*models.Submission) (repositories.BatchResult, error) {
	res := repositories.BatchResult{Attempted: len(submissions)}
	for _, s := range submissions {
		if err := r.Create(ctx, tx, s); err == nil {
			res.Inserted++
		}
	}
	res.Duplicates = res.Attempted - res.Inserted
	return res, nil
}

func (r fakeSubmissions) GetByID(ctx context.Context, tx *gorm.DB, submissionID string) (*models.Submission, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, s := range r.f.submissions {
		if s.SubmissionID == submissionID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, notFound("submission", submissionID)
}

func (r fakeSubmissions) ListByAssignment(ctx context.Context, tx *gorm.DB, assignmentID string) ([]*models.Submission, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	var out []*models.Submission
	for _, s := range r.f.submissions {
		if s.AssignmentID == assignmentID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r fakeSubmissions) Grade(ctx context.Context, tx *gorm.DB, submissionID string, score float64, feedback *string) error {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	for _, s := range r.f.submissions {
		if s.SubmissionID == submissionID {
			s.Score = &score
			if feedback != nil {
				fb := *feedback
				s.Feedback = &fb
			}
			return nil
		}
	}
	return notFound("submission", submissionID)
}

// ===== REPORTS =====

type fakeReports struct{ f *fakeStore }

func (r fakeReports) EnrollmentsPerCourse(ctx context.Context, tx *gorm.DB, limit int) ([]repositories.CourseEnrollmentCount, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.reportCalls++
	counts := map[string]int64{}
	for _, e := range r.f.enrollments {
		counts[e.CourseID]++
	}
	var out []repositories.CourseEnrollmentCount
	for id, n := range counts {
		out = append(out, repositories.CourseEnrollmentCount{CourseID: id, TotalEnrollments: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].TotalEnrollments != out[j].TotalEnrollments {
			return out[i].TotalEnrollments > out[j].TotalEnrollments
		}
		return out[i].CourseID < out[j].CourseID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r fakeReports) AverageGradePerStudent(ctx context.Context, tx *gorm.DB, limit int) ([]repositories.StudentAverageGrade, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.reportCalls++
	sums, counts := map[string]float64{}, map[string]int{}
	for _, s := range r.f.submissions {
		if s.Score == nil {
			continue
		}
		sums[s.StudentID] += *s.Score
		counts[s.StudentID]++
	}
	var out []repositories.StudentAverageGrade
	for id, sum := range sums {
		out = append(out, repositories.StudentAverageGrade{StudentID: id, AvgScore: sum / float64(counts[id])})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgScore != out[j].AvgScore {
			return out[i].AvgScore > out[j].AvgScore
		}
		return out[i].StudentID < out[j].StudentID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r fakeReports) RevenuePerInstructor(ctx context.Context, tx *gorm.DB) ([]repositories.InstructorRevenue, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.reportCalls++
	revenue := map[string]float64{}
	for _, e := range r.f.enrollments {
		for _, c := range r.f.courses {
			if c.CourseID == e.CourseID {
				revenue[c.InstructorID] += c.Price
			}
		}
	}
	var out []repositories.InstructorRevenue
	for id, total := range revenue {
		out = append(out, repositories.InstructorRevenue{InstructorID: id, Revenue: total})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Revenue != out[j].Revenue {
			return out[i].Revenue > out[j].Revenue
		}
		return out[i].InstructorID < out[j].InstructorID
	})
	return out, nil
}

// ===== DIAGNOSTICS / PROVISIONING =====

type fakeDiagnostics struct{ f *fakeStore }

func (r fakeDiagnostics) Explain(ctx context.Context, collection repositories.Collection, filter map[string]any) (*repositories.QueryPlan, error) {
	if _, err := repositories.ParseCollection(string(collection)); err != nil {
		return nil, err
	}
	return &repositories.QueryPlan{Collection: collection, Plan: []byte(`[{"Plan":{}}]`)}, nil
}

func (r fakeDiagnostics) FetchAll(ctx context.Context, collection repositories.Collection) (any, int, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	switch collection {
	case repositories.CollectionUsers:
		return r.f.users, len(r.f.users), nil
	case repositories.CollectionCourses:
		return r.f.courses, len(r.f.courses), nil
	case repositories.CollectionEnrollments:
		return r.f.enrollments, len(r.f.enrollments), nil
	case repositories.CollectionLessons:
		return r.f.lessons, len(r.f.lessons), nil
	case repositories.CollectionAssignments:
		return r.f.assignments, len(r.f.assignments), nil
	case repositories.CollectionSubmissions:
		return r.f.submissions, len(r.f.submissions), nil
	}
	return nil, 0, fmt.Errorf("%w: %q", repositories.ErrUnknownCollection, collection)
}

type fakeProvisioner struct{ f *fakeStore }

func (r fakeProvisioner) Provision(ctx context.Context, resetExisting bool) (*repositories.ProvisionResult, error) {
	r.f.mu.Lock()
	defer r.f.mu.Unlock()
	r.f.provisioned++
	if r.f.failWith != nil {
		return &repositories.ProvisionResult{Failures: []string{r.f.failWith.Error()}}, r.f.failWith
	}
	result := &repositories.ProvisionResult{}
	if resetExisting {
		r.f.users, r.f.courses, r.f.enrollments = nil, nil, nil
		r.f.lessons, r.f.assignments, r.f.submissions = nil, nil, nil
		result.Dropped = repositories.Collections()
	}
	result.Created = repositories.Collections()
	return result, nil
}
