package services

import (
	"context"
	"fmt"
	"time"

	"github.com/winmanuel/eduhub/internal/events"
	"github.com/winmanuel/eduhub/internal/models"
	"github.com/winmanuel/eduhub/internal/seed"
)

const defaultJoinedMonths = 6

type userService struct {
	serviceBase
}

func NewUserService(deps Dependencies) UserService {
	return &userService{serviceBase: newServiceBase(deps, "user")}
}

// AddStudent registers an active student with an empty profile.
func (s *userService) AddStudent(ctx context.Context, req *AddStudentRequest) (*models.User, error) {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return nil, errs
	}

	userID := req.UserID
	if userID == "" {
		userID = newID(seed.PrefixStudent)
	}

	user := &models.User{
		UserID:     userID,
		Email:      req.Email,
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Role:       models.RoleStudent,
		DateJoined: s.timestamp(),
		IsActive:   true,
		Profile:    models.NewProfile("", nil, nil),
	}
	if errs := s.validator.Validate(user); len(errs) > 0 {
		return nil, errs
	}

	if err := s.repo.User().Create(ctx, nil, user); err != nil {
		return nil, mapRepoError(err, ErrUserNotFound, userID)
	}

	s.logger.Info().Str("user_id", user.UserID).Msg("student registered")
	s.publish(ctx, events.UserRegistered, events.EntityUser, user.UserID, map[string]any{
		"email": user.Email,
		"role":  user.Role,
	})
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, userID string) (*models.User, error) {
	user, err := s.repo.User().GetByID(ctx, nil, userID)
	if err != nil {
		return nil, mapRepoError(err, ErrUserNotFound, userID)
	}
	return user, nil
}

func (s *userService) ListActiveStudents(ctx context.Context) ([]*models.User, error) {
	users, err := s.repo.User().ListActiveStudents(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to list active students: %w", err)
	}
	return users, nil
}

func (s *userService) ListJoinedSince(ctx context.Context, months int) ([]*models.User, error) {
	if months <= 0 {
		months = defaultJoinedMonths
	}
	cutoff := s.timestamp().Add(-time.Duration(30*months) * 24 * time.Hour)

	users, err := s.repo.User().ListJoinedSince(ctx, nil, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to list users joined since %s: %w", cutoff.Format(time.RFC3339), err)
	}
	return users, nil
}

func (s *userService) ListStudentsInCourse(ctx context.Context, courseID string) ([]*models.User, error) {
	if _, err := s.repo.Course().GetByID(ctx, nil, courseID); err != nil {
		return nil, mapRepoError(err, ErrCourseNotFound, courseID)
	}

	users, err := s.repo.User().ListStudentsInCourse(ctx, nil, courseID)
	if err != nil {
		return nil, fmt.Errorf("failed to list students in course: %w", err)
	}
	return users, nil
}

// UpdateProfile replaces the whole profile document.
func (s *userService) UpdateProfile(ctx context.Context, userID string, req *UpdateProfileRequest) error {
	if errs := s.validator.Validate(req); len(errs) > 0 {
		return errs
	}

	skills := req.Skills
	if skills == nil {
		skills = []string{}
	}
	profile := models.UserProfile{Bio: req.Bio, Avatar: req.Avatar, Skills: skills}

	if err := s.repo.User().UpdateProfile(ctx, nil, userID, profile); err != nil {
		return mapRepoError(err, ErrUserNotFound, userID)
	}

	s.publish(ctx, events.UserProfileUpdated, events.EntityUser, userID, profile)
	return nil
}

// SoftDelete deactivates the user; the record stays readable.
func (s *userService) SoftDelete(ctx context.Context, userID string) error {
	if err := s.repo.User().SoftDelete(ctx, nil, userID); err != nil {
		return mapRepoError(err, ErrUserNotFound, userID)
	}

	s.logger.Info().Str("user_id", userID).Msg("user deactivated")
	s.publish(ctx, events.UserDeactivated, events.EntityUser, userID, nil)
	return nil
}
