package service

import (
	"context"

	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
)

// UserService manages the signed-in user's profile.
type UserService struct {
	users UserStore
}

// NewUserService creates a new UserService.
func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// Profile returns the user's profile.
func (s *UserService) Profile(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.FindByID(ctx, userID)
}

// UpdateProfile applies a partial profile update.
func (s *UserService) UpdateProfile(ctx context.Context, userID int64, upd domain.ProfileUpdate) (*domain.User, error) {
	if upd.DisplayName == nil && upd.Headline == nil && upd.AvatarURL == nil {
		return s.users.FindByID(ctx, userID)
	}
	return s.users.UpdateProfile(ctx, userID, upd)
}
