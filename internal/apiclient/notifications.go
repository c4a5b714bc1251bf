package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
)

// NotificationsService wraps the /notifications endpoints.
type NotificationsService struct {
	c *Client
}

// NotificationPage is one page of notifications and the counters returned with it.
type NotificationPage struct {
	Items   []domain.Notification
	Stats   domain.NotificationStats
	HasNext bool
}

// List fetches a page of the inbox. The stats come from the same response.
func (s *NotificationsService) List(ctx context.Context, f domain.NotificationFilter) (NotificationPage, error) {
	q := url.Values{}
	if f.UnreadOnly {
		q.Set("unread", "true")
	}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}

	var page NotificationPage
	meta, err := s.c.do(ctx, call{method: http.MethodGet, path: "/notifications", query: q, out: &page.Items})
	if err != nil {
		return NotificationPage{}, err
	}
	if meta != nil {
		page.HasNext = meta.HasNext
		if len(meta.Stats) > 0 {
			if err := json.Unmarshal(meta.Stats, &page.Stats); err != nil {
				return NotificationPage{}, fmt.Errorf("decode stats: %w", err)
			}
		}
	}
	return page, nil
}

// Stats fetches the total and unread counts.
func (s *NotificationsService) Stats(ctx context.Context) (domain.NotificationStats, error) {
	var st domain.NotificationStats
	_, err := s.c.do(ctx, call{method: http.MethodGet, path: "/notifications/stats", out: &st})
	return st, err
}

// MarkRead marks a notification read.
func (s *NotificationsService) MarkRead(ctx context.Context, id int64) (*domain.Notification, error) {
	return s.toggle(ctx, id, "read")
}

// MarkUnread marks a notification unread.
func (s *NotificationsService) MarkUnread(ctx context.Context, id int64) (*domain.Notification, error) {
	return s.toggle(ctx, id, "unread")
}

func (s *NotificationsService) toggle(ctx context.Context, id int64, action string) (*domain.Notification, error) {
	var n domain.Notification
	if _, err := s.c.do(ctx, call{method: http.MethodPatch, path: fmt.Sprintf("/notifications/%d/%s", id, action), out: &n}); err != nil {
		return nil, err
	}
	return &n, nil
}

type countResponse struct {
	Count int64 `json:"count"`
}

// MarkAllRead marks the whole inbox read and returns how many changed.
func (s *NotificationsService) MarkAllRead(ctx context.Context) (int64, error) {
	var out countResponse
	_, err := s.c.do(ctx, call{method: http.MethodPatch, path: "/notifications/read-all", out: &out})
	return out.Count, err
}

// Delete removes one notification.
func (s *NotificationsService) Delete(ctx context.Context, id int64) error {
	_, err := s.c.do(ctx, call{method: http.MethodDelete, path: fmt.Sprintf("/notifications/%d", id)})
	return err
}

// DeleteAll clears the inbox and returns how many were removed.
func (s *NotificationsService) DeleteAll(ctx context.Context) (int64, error) {
	var out countResponse
	_, err := s.c.do(ctx, call{method: http.MethodDelete, path: "/notifications", out: &out})
	return out.Count, err
}

// Preferences fetches the notification preferences.
func (s *NotificationsService) Preferences(ctx context.Context) (domain.NotificationPreferences, error) {
	var p domain.NotificationPreferences
	_, err := s.c.do(ctx, call{method: http.MethodGet, path: "/notifications/preferences", out: &p})
	return p, err
}

// SavePreferences replaces the notification preferences.
func (s *NotificationsService) SavePreferences(ctx context.Context, p domain.NotificationPreferences) (domain.NotificationPreferences, error) {
	var out domain.NotificationPreferences
	_, err := s.c.do(ctx, call{method: http.MethodPut, path: "/notifications/preferences", body: p, out: &out})
	return out, err
}
