package services

import (
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/winmanuel/eduhub/internal/cache"
	"github.com/winmanuel/eduhub/internal/events"
	"github.com/winmanuel/eduhub/internal/models"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	store     *fakeStore
	publisher *events.MockEventPublisher
	redis     *miniredis.Miniredis
	deps      Dependencies
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	logger := zerolog.Nop()
	env := &testEnv{
		store:     newFakeStore(),
		publisher: events.NewMockEventPublisher(logger),
		redis:     mr,
	}
	env.deps = Dependencies{
		Repo:      env.store,
		Publisher: env.publisher,
		Cache:     cache.NewCacheManager(client, time.Minute, logger),
		Logger:    logger,
		Clock:     func() time.Time { return testNow },
	}
	return env
}

func (e *testEnv) addUser(t *testing.T, id string, role models.UserRole, joined time.Time) {
	t.Helper()
	e.store.users = append(e.store.users, &models.User{
		UserID:     id,
		Email:      id + "@example.com",
		FirstName:  "Test",
		LastName:   "User",
		Role:       role,
		DateJoined: joined,
		IsActive:   true,
		Profile:    models.NewProfile("", nil, nil),
	})
}

func (e *testEnv) addCourse(t *testing.T, id, instructorID string, price float64) {
	t.Helper()
	e.store.courses = append(e.store.courses, &models.Course{
		CourseID:     id,
		Title:        "Course " + id,
		InstructorID: instructorID,
		Category:     "General",
		Level:        models.LevelBeginner,
		Price:        price,
		Duration:     5,
		Tags:         []string{},
		CreatedAt:    testNow,
	})
}

func (e *testEnv) eventTypes() []events.EventType {
	var types []events.EventType
	for _, ev := range e.publisher.GetPublishedEvents() {
		types = append(types, ev.Type)
	}
	return types
}
