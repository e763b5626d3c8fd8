package service

import (
	"context"
	"fmt"
	"strings"

	"pomo/internal/apperr"
	"pomo/internal/models"
	"pomo/internal/repository"
)

type UserService struct {
	users    repository.Users
	activity Activity
}

func NewUserService(users repository.Users, activity Activity) *UserService {
	return &UserService{users: users, activity: activity}
}

var _ Users = (*UserService)(nil)

// List returns all active accounts.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return users, nil
}

// UpdateProfile changes username/email. Password changes go through the
// dedicated auth path, never through here.
func (s *UserService) UpdateProfile(ctx context.Context, id int64, username, email string) (*models.User, error) {
	username = strings.TrimSpace(username)
	email = normalizeEmail(email)
	if username == "" || email == "" {
		return nil, apperr.Validation("Please provide a username and an email")
	}

	user, err := s.users.UpdateProfile(ctx, id, username, email)
	if err != nil {
		if err == repository.ErrDuplicate {
			return nil, apperr.Validation("Username or email already in use")
		}
		return nil, apperr.Internal(err)
	}
	if user == nil {
		return nil, apperr.NotFound("User not found")
	}
	return user, nil
}

// Deactivate soft-deletes the account.
func (s *UserService) Deactivate(ctx context.Context, id int64) error {
	if err := s.users.Deactivate(ctx, id); err != nil {
		return apperr.Internal(err)
	}
	s.activity.Record(ctx, models.EventUserDeactivated, fmt.Sprintf("user %d deactivated their account", id), map[string]any{"user_id": id})
	return nil
}
