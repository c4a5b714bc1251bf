package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zaakiraza/ResumeAI-sub001/internal/service"
)

// AuthHandler handles token endpoints. Login and registration live in the
// external auth service that issues the tokens.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh generates a new token pair from a refresh token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	var body refreshRequest
	if err := bindValid(c, &body); err != nil {
		return err
	}

	tokens, err := h.auth.RefreshAccessToken(body.RefreshToken)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, tokens)
}

// Me returns the currently authenticated user.
func (h *AuthHandler) Me(c echo.Context) error {
	userID, err := mustUserID(c)
	if err != nil {
		return err
	}

	user, err := h.auth.GetUser(c.Request().Context(), userID)
	if err != nil {
		return err
	}

	return JSON(c, http.StatusOK, user)
}
