package repositories

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound            = errors.New("record not found")
	ErrDuplicateKey        = errors.New("duplicate key")
	ErrConstraintViolation = errors.New("constraint violation")
	ErrUnknownCollection   = errors.New("unknown collection")
	ErrUnknownField        = errors.New("unknown field")
)

// BatchResult summarises an unordered insert-many. Duplicates are rows the
// store skipped because a unique key already existed.
type BatchResult struct {
	Attempted  int `json:"attempted"`
	Inserted   int `json:"inserted"`
	Duplicates int `json:"duplicates"`
}

func (r BatchResult) String() string {
	return fmt.Sprintf("%d/%d inserted, %d duplicates", r.Inserted, r.Attempted, r.Duplicates)
}

// Collection names one of the six stored entity sets.
type Collection string

const (
	CollectionUsers       Collection = "users"
	CollectionCourses     Collection = "courses"
	CollectionEnrollments Collection = "enrollments"
	CollectionLessons     Collection = "lessons"
	CollectionAssignments Collection = "assignments"
	CollectionSubmissions Collection = "submissions"
)

// Collections lists every collection in parent-before-child order.
func Collections() []Collection {
	return []Collection{
		CollectionUsers,
		CollectionCourses,
		CollectionEnrollments,
		CollectionLessons,
		CollectionAssignments,
		CollectionSubmissions,
	}
}

func ParseCollection(name string) (Collection, error) {
	for _, c := range Collections() {
		if string(c) == name {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCollection, name)
}
