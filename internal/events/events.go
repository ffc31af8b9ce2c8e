package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	eventSource  = "eduhub"
	eventVersion = "1.0"
)

type EventType string

const (
	UserRegistered     EventType = "user.registered"
	UserProfileUpdated EventType = "user.profile_updated"
	UserDeactivated    EventType = "user.deactivated"
	CourseCreated      EventType = "course.created"
	CoursePublished    EventType = "course.published"
	CourseTagsAdded    EventType = "course.tags_added"
	EnrollmentCreated  EventType = "enrollment.created"
	EnrollmentDeleted  EventType = "enrollment.deleted"
	LessonCreated      EventType = "lesson.created"
	LessonDeleted      EventType = "lesson.deleted"
	AssignmentCreated  EventType = "assignment.created"
	SubmissionCreated  EventType = "submission.created"
	SubmissionGraded   EventType = "submission.graded"
)

// Entity names used as topic suffixes.
const (
	EntityUser       = "user"
	EntityCourse     = "course"
	EntityEnrollment = "enrollment"
	EntityLesson     = "lesson"
	EntityAssignment = "assignment"
	EntitySubmission = "submission"
)

// Event is the envelope published for every write.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Entity    string    `json:"entity"`
	EntityID  string    `json:"entityId"`
	Data      any       `json:"data,omitempty"`
}

func NewEvent(eventType EventType, entity, entityID string, data any) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    eventSource,
		Version:   eventVersion,
		Timestamp: time.Now().UTC(),
		Entity:    entity,
		EntityID:  entityID,
		Data:      data,
	}
}

// Publisher delivers domain events. Implementations are safe for
// concurrent use.
type Publisher interface {
	Publish(ctx context.Context, event *Event) error
	Close() error
}
