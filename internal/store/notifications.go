package store

import (
	"context"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zaakiraza/ResumeAI-sub001/internal/apiclient"
	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
)

const fallbackConcurrency = 8

// NotificationAPI is the server surface the notification store consumes.
type NotificationAPI interface {
	List(ctx context.Context, f domain.NotificationFilter) (apiclient.NotificationPage, error)
	Stats(ctx context.Context) (domain.NotificationStats, error)
	MarkRead(ctx context.Context, id int64) (*domain.Notification, error)
	MarkUnread(ctx context.Context, id int64) (*domain.Notification, error)
	MarkAllRead(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) (int64, error)
}

// NotificationStore mirrors one page of the user's inbox and its counters.
type NotificationStore struct {
	lifecycle
	api   NotificationAPI
	now   func() time.Time
	items []domain.Notification
	stats domain.NotificationStats

	poll *poller
}

// NewNotificationStore creates an idle store.
func NewNotificationStore(api NotificationAPI) *NotificationStore {
	s := &NotificationStore{api: api, now: time.Now}
	s.init()
	return s
}

// Close stops polling and ends the store's lifetime.
func (s *NotificationStore) Close() {
	s.StopPolling()
	s.lifecycle.Close()
}

// Items returns a copy of the mirrored page.
func (s *NotificationStore) Items() []domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Stats returns the mirrored counters.
func (s *NotificationStore) Stats() domain.NotificationStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// UnreadCount returns the mirrored unread counter.
func (s *NotificationStore) UnreadCount() int {
	return s.Stats().Unread
}

// Fetch replaces the mirror with a fresh page. The counters come from the
// same response. On failure the cached page stays and the error is kept
// in the fetch slot as well as returned.
func (s *NotificationStore) Fetch(ctx context.Context, f domain.NotificationFilter) error {
	ctx, done, err := s.bind(ctx)
	if err != nil {
		return err
	}
	defer done()

	seq, err := s.beginFetch()
	if err != nil {
		return err
	}

	page, err := s.api.List(ctx, f)
	return s.finishFetch(seq, err, func() {
		s.items = page.Items
		s.stats = page.Stats
	})
}

// RefreshStats replaces the counters with the server's.
func (s *NotificationStore) RefreshStats(ctx context.Context) error {
	ctx, done, err := s.bind(ctx)
	if err != nil {
		return err
	}
	defer done()

	st, err := s.api.Stats(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.alive() {
		return ErrClosed
	}
	if err != nil {
		s.errs[OpStats] = message(err)
		return err
	}
	s.stats = st
	delete(s.errs, OpStats)
	return nil
}

// MarkRead marks a notification read locally, then on the server, then
// reconciles the counters. Marking a read notification again changes nothing
// locally. A server failure restores the prior read state.
func (s *NotificationStore) MarkRead(ctx context.Context, id int64) error {
	return s.toggle(ctx, OpMarkRead, id, true, s.api.MarkRead)
}

// MarkUnread is the inverse of MarkRead.
func (s *NotificationStore) MarkUnread(ctx context.Context, id int64) error {
	return s.toggle(ctx, OpMarkUnread, id, false, s.api.MarkUnread)
}

func (s *NotificationStore) toggle(ctx context.Context, op Op, id int64, read bool, call func(context.Context, int64) (*domain.Notification, error)) error {
	ctx, done, err := s.bind(ctx)
	if err != nil {
		return err
	}
	defer done()

	var (
		prev    domain.Notification
		changed bool
	)
	err = s.beginMutation(func() {
		prev, changed = s.setRead(id, read, s.now().UTC())
	})
	if err != nil {
		return err
	}

	n, err := call(ctx, id)
	err = s.endMutation(op, err,
		func() { s.replace(*n) },
		func() {
			if changed {
				s.restoreRead(prev)
			}
		},
	)
	if err != nil {
		return err
	}

	if err := s.RefreshStats(ctx); err != nil {
		slog.Warn("reconcile notification stats", "op", op, "error", err)
	}
	return nil
}

// setRead must be called with mu held. It reports the record before the
// change and whether anything changed.
func (s *NotificationStore) setRead(id int64, read bool, at time.Time) (domain.Notification, bool) {
	i := s.index(id)
	if i < 0 || s.items[i].IsRead == read {
		return domain.Notification{}, false
	}
	prev := s.items[i]
	if read {
		s.items[i] = prev.MarkedRead(at)
		s.stats.Unread = max(s.stats.Unread-1, 0)
	} else {
		s.items[i] = prev.MarkedUnread()
		s.stats.Unread++
	}
	return prev, true
}

// restoreRead undoes setRead if the record still carries the optimistic state.
func (s *NotificationStore) restoreRead(prev domain.Notification) {
	i := s.index(prev.ID)
	if i < 0 || s.items[i].IsRead == prev.IsRead {
		return
	}
	s.items[i].IsRead = prev.IsRead
	s.items[i].ReadAt = prev.ReadAt
	if prev.IsRead {
		s.stats.Unread = max(s.stats.Unread-1, 0)
	} else {
		s.stats.Unread++
	}
}

func (s *NotificationStore) replace(n domain.Notification) {
	if i := s.index(n.ID); i >= 0 {
		s.items[i] = n
	}
}

func (s *NotificationStore) index(id int64) int {
	return slices.IndexFunc(s.items, func(n domain.Notification) bool { return n.ID == id })
}

// MarkAllRead uses the collection endpoint and falls back to one call per
// unread notification when the server does not offer it. The mirror changes
// only after every call has settled successfully.
func (s *NotificationStore) MarkAllRead(ctx context.Context) error {
	ctx, done, err := s.bind(ctx)
	if err != nil {
		return err
	}
	defer done()

	var unread []int64
	err = s.beginMutation(func() {
		for _, n := range s.items {
			if !n.IsRead {
				unread = append(unread, n.ID)
			}
		}
	})
	if err != nil {
		return err
	}

	_, err = s.api.MarkAllRead(ctx)
	if apiclient.IsStatus(err, http.StatusNotFound, http.StatusMethodNotAllowed) {
		slog.Debug("mark-all endpoint unavailable, marking individually", "count", len(unread))
		err = forEach(ctx, unread, func(ctx context.Context, id int64) error {
			_, err := s.api.MarkRead(ctx, id)
			return err
		})
	}

	err = s.endMutation(OpMarkAllRead, err, func() {
		at := s.now().UTC()
		for i := range s.items {
			s.items[i] = s.items[i].MarkedRead(at)
		}
		s.stats.Unread = 0
	}, nil)
	if err != nil {
		return err
	}

	if err := s.RefreshStats(ctx); err != nil {
		slog.Warn("reconcile notification stats", "op", OpMarkAllRead, "error", err)
	}
	return nil
}

// Delete removes a notification on the server and then from the mirror.
func (s *NotificationStore) Delete(ctx context.Context, id int64) error {
	ctx, done, err := s.bind(ctx)
	if err != nil {
		return err
	}
	defer done()

	if err := s.beginMutation(nil); err != nil {
		return err
	}

	err = s.api.Delete(ctx, id)
	return s.endMutation(OpDelete, err, func() {
		i := s.index(id)
		if i < 0 {
			return
		}
		if !s.items[i].IsRead {
			s.stats.Unread = max(s.stats.Unread-1, 0)
		}
		s.stats.Total = max(s.stats.Total-1, 0)
		s.items = slices.Delete(s.items, i, i+1)
	}, nil)
}

// DeleteAll clears the inbox, falling back to per-item deletes like MarkAllRead.
func (s *NotificationStore) DeleteAll(ctx context.Context) error {
	ctx, done, err := s.bind(ctx)
	if err != nil {
		return err
	}
	defer done()

	var ids []int64
	err = s.beginMutation(func() {
		for _, n := range s.items {
			ids = append(ids, n.ID)
		}
	})
	if err != nil {
		return err
	}

	fallback := false
	_, err = s.api.DeleteAll(ctx)
	if apiclient.IsStatus(err, http.StatusNotFound, http.StatusMethodNotAllowed) {
		fallback = true
		err = forEach(ctx, ids, s.api.Delete)
	}

	err = s.endMutation(OpDeleteAll, err, func() {
		s.items = nil
		s.stats = domain.NotificationStats{}
	}, nil)
	if err != nil {
		return err
	}

	// Per-item deletes only cover the mirrored page.
	if fallback {
		if err := s.RefreshStats(ctx); err != nil {
			slog.Warn("reconcile notification stats", "op", OpDeleteAll, "error", err)
		}
	}
	return nil
}

// forEach runs fn for every id in parallel and waits for all of them.
func forEach(ctx context.Context, ids []int64, fn func(context.Context, int64) error) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(fallbackConcurrency)
	for _, id := range ids {
		g.Go(func() error { return fn(ctx, id) })
	}
	return g.Wait()
}
