package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
)

// NotificationStore defines the notification data access interface.
type NotificationStore interface {
	Create(ctx context.Context, n domain.Notification) (*domain.Notification, error)
	List(ctx context.Context, userID int64, f domain.NotificationFilter) ([]domain.Notification, error)
	Stats(ctx context.Context, userID int64) (domain.NotificationStats, error)
	MarkRead(ctx context.Context, userID, id int64) (*domain.Notification, error)
	MarkUnread(ctx context.Context, userID, id int64) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) (int64, error)
	Delete(ctx context.Context, userID, id int64) error
	DeleteAll(ctx context.Context, userID int64) (int64, error)
	GetPreferences(ctx context.Context, userID int64) (domain.NotificationPreferences, error)
	SavePreferences(ctx context.Context, p domain.NotificationPreferences) (domain.NotificationPreferences, error)
}

// NotificationService handles the user's notification inbox.
type NotificationService struct {
	store NotificationStore
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{store: store}
}

// List returns a page of notifications together with the current counters,
// so clients never derive the unread count from a partial page.
func (s *NotificationService) List(ctx context.Context, userID int64, f domain.NotificationFilter) ([]domain.Notification, domain.NotificationStats, error) {
	if f.Type != "" && !f.Type.Valid() {
		return nil, domain.NotificationStats{}, &domain.ValidationError{Field: "type", Message: "unknown notification type"}
	}

	items, err := s.store.List(ctx, userID, f)
	if err != nil {
		return nil, domain.NotificationStats{}, err
	}
	stats, err := s.store.Stats(ctx, userID)
	if err != nil {
		return nil, domain.NotificationStats{}, err
	}
	return items, stats, nil
}

// Stats returns the user's total and unread counts.
func (s *NotificationService) Stats(ctx context.Context, userID int64) (domain.NotificationStats, error) {
	return s.store.Stats(ctx, userID)
}

// MarkRead marks one notification read. Repeating the call is a no-op.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id int64) (*domain.Notification, error) {
	return s.store.MarkRead(ctx, userID, id)
}

// MarkUnread marks one notification unread.
func (s *NotificationService) MarkUnread(ctx context.Context, userID, id int64) (*domain.Notification, error) {
	return s.store.MarkUnread(ctx, userID, id)
}

// MarkAllRead marks every unread notification read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	return s.store.MarkAllRead(ctx, userID)
}

// Delete removes a single notification.
func (s *NotificationService) Delete(ctx context.Context, userID, id int64) error {
	return s.store.Delete(ctx, userID, id)
}

// DeleteAll clears the user's inbox.
func (s *NotificationService) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	return s.store.DeleteAll(ctx, userID)
}

// Preferences returns the user's notification preferences.
func (s *NotificationService) Preferences(ctx context.Context, userID int64) (domain.NotificationPreferences, error) {
	return s.store.GetPreferences(ctx, userID)
}

// SavePreferences stores the user's notification preferences.
func (s *NotificationService) SavePreferences(ctx context.Context, p domain.NotificationPreferences) (domain.NotificationPreferences, error) {
	for _, t := range p.Types {
		if !t.Valid() {
			return domain.NotificationPreferences{}, &domain.ValidationError{Field: "types", Message: fmt.Sprintf("unknown notification type %q", t)}
		}
	}
	return s.store.SavePreferences(ctx, p)
}

// Notify records a notification for a system event, honoring the user's
// in-app preference and type filter.
func (s *NotificationService) Notify(ctx context.Context, n domain.Notification) error {
	if !n.Type.Valid() {
		n.Type = domain.NotificationInfo
	}

	prefs, err := s.store.GetPreferences(ctx, n.UserID)
	if err != nil {
		return err
	}
	if !prefs.InApp || !wantsType(prefs, n.Type) {
		slog.Debug("notification suppressed by preferences", "user_id", n.UserID, "type", n.Type)
		return nil
	}

	if _, err := s.store.Create(ctx, n); err != nil {
		return err
	}
	return nil
}

// wantsType treats an empty type list as "all types".
func wantsType(p domain.NotificationPreferences, t domain.NotificationType) bool {
	if len(p.Types) == 0 {
		return true
	}
	for _, want := range p.Types {
		if want == t {
			return true
		}
	}
	return false
}
