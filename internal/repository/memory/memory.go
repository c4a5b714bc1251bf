// Package memory provides in-memory implementations of the repositories for
// local development and tests. Each store guards its maps with an RWMutex and
// hands out copies so callers cannot mutate internal state.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
)

// Users is an in-memory user store.
type Users struct {
	mu    sync.RWMutex
	users map[int64]domain.User
}

// NewUsers creates a store seeded with the given users.
func NewUsers(seed ...domain.User) *Users {
	s := &Users{users: make(map[int64]domain.User)}
	now := time.Now().UTC()
	for _, u := range seed {
		if u.Role == "" {
			u.Role = domain.RoleUser
		}
		if u.CreatedAt.IsZero() {
			u.CreatedAt, u.UpdatedAt = now, now
		}
		s.users[u.ID] = u
	}
	return s
}

// FindByID retrieves a user by their ID.
func (s *Users) FindByID(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

// UpdateProfile applies the non-nil fields of upd.
func (s *Users) UpdateProfile(_ context.Context, id int64, upd domain.ProfileUpdate) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.DisplayName != nil {
		u.DisplayName = *upd.DisplayName
	}
	if upd.Headline != nil {
		u.Headline = upd.Headline
	}
	if upd.AvatarURL != nil {
		u.AvatarURL = upd.AvatarURL
	}
	u.UpdatedAt = time.Now().UTC()
	s.users[id] = u
	return &u, nil
}

// Notifications is an in-memory notification store.
type Notifications struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]domain.Notification
	prefs  map[int64]domain.NotificationPreferences
}

// NewNotifications creates an empty notification store.
func NewNotifications() *Notifications {
	return &Notifications{
		items: make(map[int64]domain.Notification),
		prefs: make(map[int64]domain.NotificationPreferences),
	}
}

// Create inserts a notification.
func (s *Notifications) Create(_ context.Context, n domain.Notification) (*domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	n.ID = s.nextID
	n.IsRead = false
	n.ReadAt = nil
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	s.items[n.ID] = n
	return &n, nil
}

// List returns a page of the user's notifications, newest first.
func (s *Notifications) List(_ context.Context, userID int64, f domain.NotificationFilter) ([]domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Notification{}
	for _, n := range s.items {
		if n.UserID != userID {
			continue
		}
		if f.UnreadOnly && n.IsRead {
			continue
		}
		if f.Type != "" && n.Type != f.Type {
			continue
		}
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return page(out, f.Limit, f.Offset), nil
}

// Stats returns the total and unread counts.
func (s *Notifications) Stats(_ context.Context, userID int64) (domain.NotificationStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var st domain.NotificationStats
	for _, n := range s.items {
		if n.UserID != userID {
			continue
		}
		st.Total++
		if !n.IsRead {
			st.Unread++
		}
	}
	return st, nil
}

// MarkRead flags a notification read, keeping the first read time.
func (s *Notifications) MarkRead(_ context.Context, userID, id int64) (*domain.Notification, error) {
	return s.update(userID, id, func(n domain.Notification) domain.Notification {
		return n.MarkedRead(time.Now().UTC())
	})
}

// MarkUnread flags a notification unread.
func (s *Notifications) MarkUnread(_ context.Context, userID, id int64) (*domain.Notification, error) {
	return s.update(userID, id, domain.Notification.MarkedUnread)
}

func (s *Notifications) update(userID, id int64, fn func(domain.Notification) domain.Notification) (*domain.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.items[id]
	if !ok || n.UserID != userID {
		return nil, domain.ErrNotFound
	}
	n = fn(n)
	s.items[id] = n
	return &n, nil
}

// MarkAllRead flags every unread notification of the user.
func (s *Notifications) MarkAllRead(_ context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	var changed int64
	for id, n := range s.items {
		if n.UserID == userID && !n.IsRead {
			s.items[id] = n.MarkedRead(now)
			changed++
		}
	}
	return changed, nil
}

// Delete removes one notification.
func (s *Notifications) Delete(_ context.Context, userID, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.items[id]
	if !ok || n.UserID != userID {
		return domain.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// DeleteAll removes every notification of the user.
func (s *Notifications) DeleteAll(_ context.Context, userID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for id, n := range s.items {
		if n.UserID == userID {
			delete(s.items, id)
			removed++
		}
	}
	return removed, nil
}

// GetPreferences returns stored preferences or the defaults.
func (s *Notifications) GetPreferences(_ context.Context, userID int64) (domain.NotificationPreferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if p, ok := s.prefs[userID]; ok {
		return p, nil
	}
	return domain.NotificationPreferences{UserID: userID, Email: true, InApp: true, Types: []domain.NotificationType{}}, nil
}

// SavePreferences stores preferences.
func (s *Notifications) SavePreferences(_ context.Context, p domain.NotificationPreferences) (domain.NotificationPreferences, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.Types == nil {
		p.Types = []domain.NotificationType{}
	}
	s.prefs[p.UserID] = p
	return p, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
