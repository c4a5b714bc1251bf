package apiclient

import (
	"errors"
	"fmt"
	"net/http"
)

// Error is a non-2xx response from the API.
type Error struct {
	Status  int
	Code    string
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: %d %s", e.Status, http.StatusText(e.Status))
	}
	return fmt.Sprintf("api error: %d %s", e.Status, e.Message)
}

// StatusOf returns the HTTP status carried by err, or 0.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// IsStatus reports whether err is an API error with one of the given statuses.
func IsStatus(err error, statuses ...int) bool {
	got := StatusOf(err)
	if got == 0 {
		return false
	}
	for _, s := range statuses {
		if got == s {
			return true
		}
	}
	return false
}
