package domain

import "time"

// NotificationType represents the severity of a notification.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// Valid reports whether t is one of the known notification types.
func (t NotificationType) Valid() bool {
	switch t {
	case NotificationInfo, NotificationSuccess, NotificationWarning, NotificationError:
		return true
	}
	return false
}

// Notification represents an in-app notification for a user.
// ReadAt is nil whenever IsRead is false.
type Notification struct {
	ID        int64            `json:"id" db:"id"`
	UserID    int64            `json:"user_id" db:"user_id"`
	Type      NotificationType `json:"type" db:"type"`
	Title     string           `json:"title" db:"title"`
	Message   string           `json:"message" db:"message"`
	IsRead    bool             `json:"is_read" db:"is_read"`
	ReadAt    *time.Time       `json:"read_at,omitempty" db:"read_at"`
	ActionURL *string          `json:"action_url,omitempty" db:"action_url"`
	CreatedAt time.Time        `json:"created_at" db:"created_at"`
}

// MarkedRead returns a copy of n flagged as read at the given time.
// An already read notification is returned unchanged.
func (n Notification) MarkedRead(at time.Time) Notification {
	if n.IsRead {
		return n
	}
	n.IsRead = true
	n.ReadAt = &at
	return n
}

// MarkedUnread returns a copy of n flagged as unread.
func (n Notification) MarkedUnread() Notification {
	n.IsRead = false
	n.ReadAt = nil
	return n
}

// NotificationFilter narrows a notification listing.
type NotificationFilter struct {
	UnreadOnly bool
	Type       NotificationType
	Limit      int
	Offset     int
}

// NotificationStats is the aggregate counter for a user's notifications.
type NotificationStats struct {
	Total  int `json:"total" db:"total"`
	Unread int `json:"unread" db:"unread"`
}

// NotificationPreferences controls which notifications a user receives.
type NotificationPreferences struct {
	UserID int64              `json:"-" db:"user_id"`
	Email  bool               `json:"email" db:"email"`
	InApp  bool               `json:"in_app" db:"in_app"`
	Types  []NotificationType `json:"types" db:"-"`
}
