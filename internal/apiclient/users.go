package apiclient

import (
	"context"
	"net/http"

	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
)

// UsersService wraps the profile endpoints.
type UsersService struct {
	c *Client
}

// Me fetches the signed-in user's profile.
func (s *UsersService) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if _, err := s.c.do(ctx, call{method: http.MethodGet, path: "/users/me", out: &u}); err != nil {
		return nil, err
	}
	return &u, nil
}

// Update applies a partial profile update and returns the stored profile.
func (s *UsersService) Update(ctx context.Context, upd domain.ProfileUpdate) (*domain.User, error) {
	var u domain.User
	if _, err := s.c.do(ctx, call{method: http.MethodPatch, path: "/users/me", body: upd, out: &u}); err != nil {
		return nil, err
	}
	return &u, nil
}
