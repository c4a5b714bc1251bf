package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
	"github.com/zaakiraza/ResumeAI-sub001/internal/service"
)

// UserHandler serves the signed-in user's profile.
type UserHandler struct {
	users *service.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(users *service.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetProfile returns the profile.
func (h *UserHandler) GetProfile(c echo.Context) error {
	userID, err := mustUserID(c)
	if err != nil {
		return err
	}

	user, err := h.users.Profile(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, user)
}

// UpdateProfile applies a partial update.
func (h *UserHandler) UpdateProfile(c echo.Context) error {
	userID, err := mustUserID(c)
	if err != nil {
		return err
	}

	var body domain.ProfileUpdate
	if err := bindValid(c, &body); err != nil {
		return err
	}

	user, err := h.users.UpdateProfile(c.Request().Context(), userID, body)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, user)
}
