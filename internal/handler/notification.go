package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
	"github.com/zaakiraza/ResumeAI-sub001/internal/service"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// NotificationHandler serves the notification inbox.
type NotificationHandler struct {
	notifications *service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// List returns a page of notifications with the counters in meta.stats.
func (h *NotificationHandler) List(c echo.Context) error {
	userID, err := mustUserID(c)
	if err != nil {
		return err
	}

	limit, err := queryInt(c, "limit", defaultPageSize, 1, maxPageSize)
	if err != nil {
		return err
	}
	offset, err := queryInt(c, "offset", 0, 0, 0)
	if err != nil {
		return err
	}

	filter := domain.NotificationFilter{
		UnreadOnly: c.QueryParam("unread") == "true",
		Type:       domain.NotificationType(c.QueryParam("type")),
		Limit:      limit,
		Offset:     offset,
	}

	items, stats, err := h.notifications.List(c.Request().Context(), userID, filter)
	if err != nil {
		return err
	}

	return JSONList(c, http.StatusOK, items, ListMeta{
		Limit:   limit,
		Offset:  offset,
		HasNext: len(items) == limit,
		Stats:   stats,
	})
}

// Stats returns the total and unread counts.
func (h *NotificationHandler) Stats(c echo.Context) error {
	userID, err := mustUserID(c)
	if err != nil {
		return err
	}

	stats, err := h.notifications.Stats(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, stats)
}

// MarkRead marks one notification read.
func (h *NotificationHandler) MarkRead(c echo.Context) error {
	return h.toggle(c, h.notifications.MarkRead)
}

// MarkUnread marks one notification unread.
func (h *NotificationHandler) MarkUnread(c echo.Context) error {
	return h.toggle(c, h.notifications.MarkUnread)
}

func (h *NotificationHandler) toggle(c echo.Context, fn func(ctx context.Context, userID, id int64) (*domain.Notification, error)) error {
	userID, err := mustUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	n, err := fn(c.Request().Context(), userID, id)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, n)
}

type countResponse struct {
	Count int64 `json:"count"`
}

// MarkAllRead marks every unread notification read.
func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID, err := mustUserID(c)
	if err != nil {
		return err
	}

	n, err := h.notifications.MarkAllRead(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, countResponse{Count: n})
}

// Delete removes one notification.
func (h *NotificationHandler) Delete(c echo.Context) error {
	userID, err := mustUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	if err := h.notifications.Delete(c.Request().Context(), userID, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteAll clears the inbox.
func (h *NotificationHandler) DeleteAll(c echo.Context) error {
	userID, err := mustUserID(c)
	if err != nil {
		return err
	}

	n, err := h.notifications.DeleteAll(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, countResponse{Count: n})
}

// GetPreferences returns the notification preferences.
func (h *NotificationHandler) GetPreferences(c echo.Context) error {
	userID, err := mustUserID(c)
	if err != nil {
		return err
	}

	prefs, err := h.notifications.Preferences(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, prefs)
}

type preferencesRequest struct {
	Email bool                      `json:"email"`
	InApp bool                      `json:"in_app"`
	Types []domain.NotificationType `json:"types" validate:"max=4"`
}

// SavePreferences replaces the notification preferences.
func (h *NotificationHandler) SavePreferences(c echo.Context) error {
	userID, err := mustUserID(c)
	if err != nil {
		return err
	}

	var body preferencesRequest
	if err := bindValid(c, &body); err != nil {
		return err
	}

	prefs, err := h.notifications.SavePreferences(c.Request().Context(), domain.NotificationPreferences{
		UserID: userID,
		Email:  body.Email,
		InApp:  body.InApp,
		Types:  body.Types,
	})
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, prefs)
}
