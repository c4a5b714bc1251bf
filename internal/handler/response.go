package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
)

// Envelope is the standard API response wrapper.
type Envelope struct {
	Data  any       `json:"data,omitempty"`
	Meta  *ListMeta `json:"meta,omitempty"`
	Error *APIError `json:"error,omitempty"`
}

// ListMeta holds offset pagination info and, for collections that have one,
// the aggregate counter computed alongside the page.
type ListMeta struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasNext bool `json:"has_next"`
	Stats   any  `json:"stats,omitempty"`
}

// APIError represents an error in the API response.
type APIError struct {
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a field-level validation error.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// JSON writes a JSON response with the standard envelope.
func JSON(c echo.Context, status int, data any) error {
	return c.JSON(status, Envelope{Data: data})
}

// JSONList writes a paginated JSON list response.
func JSONList(c echo.Context, status int, data any, meta ListMeta) error {
	return c.JSON(status, Envelope{Data: data, Meta: &meta})
}

// HTTPErrorHandler renders every error returned by a handler as an envelope.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, apiErr := mapError(err)
	if status >= http.StatusInternalServerError && status != http.StatusBadGateway {
		slog.Error("request failed",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"error", err,
		)
	}
	if jsonErr := c.JSON(status, Envelope{Error: &apiErr}); jsonErr != nil {
		slog.Error("failed to send error response", "error", jsonErr)
	}
}

type sentinel struct {
	err     error
	status  int
	code    string
	message string
}

// An empty message means the wrapped error text is shown to the caller.
var sentinels = []sentinel{
	{domain.ErrNotFound, http.StatusNotFound, "not_found", "The requested resource was not found"},
	{domain.ErrUnauthorized, http.StatusUnauthorized, "unauthorized", "Authentication is required"},
	{domain.ErrForbidden, http.StatusForbidden, "forbidden", "You do not have permission to perform this action"},
	{domain.ErrInvalidInput, http.StatusBadRequest, "invalid_input", "The request body is invalid"},
	{domain.ErrConflict, http.StatusConflict, "conflict", "The resource conflicts with its current state"},
	{domain.ErrUpstream, http.StatusBadGateway, "upstream_error", ""},
}

func mapError(err error) (int, APIError) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return http.StatusBadRequest, APIError{
			Code:    "validation_error",
			Message: "Validation failed",
			Details: []FieldError{{Field: validationErr.Field, Message: validationErr.Message}},
		}
	}

	for _, s := range sentinels {
		if !errors.Is(err, s.err) {
			continue
		}
		msg := s.message
		if msg == "" {
			msg = err.Error()
		}
		return s.status, APIError{Code: s.code, Message: msg}
	}

	// Routing failures (unknown path, wrong method, oversized body).
	var echoErr *echo.HTTPError
	if errors.As(err, &echoErr) {
		msg, _ := echoErr.Message.(string)
		if msg == "" {
			msg = http.StatusText(echoErr.Code)
		}
		return echoErr.Code, APIError{
			Code:    strings.ReplaceAll(strings.ToLower(http.StatusText(echoErr.Code)), " ", "_"),
			Message: msg,
		}
	}

	return http.StatusInternalServerError, APIError{
		Code:    "internal_error",
		Message: "An unexpected error occurred",
	}
}
