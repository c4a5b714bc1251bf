package store

import (
	"context"
	"log/slog"
	"time"
)

// TokenWatcher reports whether a session is signed in and signals revocation.
type TokenWatcher interface {
	Authenticated() bool
	Done() <-chan struct{}
}

type poller struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// StartPolling refreshes the unread counter every interval while session
// holds a token. It stops when the token is revoked, ctx ends, StopPolling
// is called or the store is closed. Starting again replaces a running poller.
// It does nothing for a signed-out session.
func (s *NotificationStore) StartPolling(ctx context.Context, session TokenWatcher, interval time.Duration) {
	start := interval > 0 && session.Authenticated()

	// Swap and install under one lock: at most one poller is ever installed.
	var p *poller
	s.mu.Lock()
	old := s.poll
	s.poll = nil
	if start && s.alive() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		p = &poller{cancel: cancel, done: make(chan struct{})}
		s.poll = p
	}
	s.mu.Unlock()

	if old != nil {
		old.cancel()
		<-old.done
	}
	if p == nil {
		return
	}
	cancel := p.cancel

	revoked := session.Done()
	go func() {
		defer close(p.done)
		defer cancel()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		slog.Debug("notification polling started", "interval", interval)
		for {
			select {
			case <-ctx.Done():
				slog.Debug("notification polling stopped")
				return
			case <-s.ctx.Done():
				return
			case <-revoked:
				slog.Debug("notification polling stopped: session revoked")
				return
			case <-ticker.C:
				if err := s.RefreshStats(ctx); err != nil && ctx.Err() == nil {
					slog.Warn("poll notification stats", "error", err)
				}
			}
		}
	}()
}

// StopPolling stops a running poller and waits for it to exit.
func (s *NotificationStore) StopPolling() {
	s.mu.Lock()
	p := s.poll
	s.poll = nil
	s.mu.Unlock()

	if p != nil {
		p.cancel()
		<-p.done
	}
}

// Polling reports whether a poller is running.
func (s *NotificationStore) Polling() bool {
	s.mu.Lock()
	p := s.poll
	s.mu.Unlock()
	if p == nil {
		return false
	}
	select {
	case <-p.done:
		return false
	default:
		return true
	}
}
