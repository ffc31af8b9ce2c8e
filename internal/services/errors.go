package services

import (
	"errors"
	"fmt"

	"github.com/winmanuel/eduhub/internal/repositories"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrCourseNotFound     = errors.New("course not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrLessonNotFound     = errors.New("lesson not found")
	ErrAssignmentNotFound = errors.New("assignment not found")
	ErrSubmissionNotFound = errors.New("submission not found")

	ErrNotAStudent     = errors.New("user is not a student")
	ErrNotAnInstructor = errors.New("user is not an instructor")

	ErrConflict         = errors.New("resource already exists")
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")
)

// mapRepoError converts repository errors into service errors. Apart from
// not-found the repository error stays in the chain.
func mapRepoError(err error, notFound error, id string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrNotFound):
		return fmt.Errorf("%w: %s", notFound, id)
	case errors.Is(err, repositories.ErrDuplicateKey):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, repositories.ErrConstraintViolation):
		return fmt.Errorf("%w: %w", ErrValidationFailed, err)
	case errors.Is(err, repositories.ErrUnknownCollection), errors.Is(err, repositories.ErrUnknownField):
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	return err
}
