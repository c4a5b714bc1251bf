// Package store keeps client-side mirrors of server-held collections.
//
// Each store owns its mirror exclusively. Local changes are applied as
// transforms under the store's lock against the current state, never by
// writing back a snapshot taken before a network call. Destructive
// mutations are applied only after the server confirms them; idempotent
// toggles are applied immediately and reconciled afterwards.
package store

import (
	"context"
	"errors"
	"sync"

	"github.com/zaakiraza/ResumeAI-sub001/internal/apiclient"
)

// ErrClosed is returned when a store is used after Close, or when its
// result arrives after Close and is dropped.
var ErrClosed = errors.New("store: closed")

// State is the lifecycle position of a store.
type State int

const (
	StateIdle State = iota
	StateLoading
	StatePopulated
	StateFailed
	StateMutating
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StatePopulated:
		return "populated"
	case StateFailed:
		return "failed"
	case StateMutating:
		return "mutating"
	}
	return "unknown"
}

// Op names an operation that owns an error slot.
type Op string

const (
	OpFetch        Op = "fetch"
	OpStats        Op = "stats"
	OpMarkRead     Op = "mark_read"
	OpMarkUnread   Op = "mark_unread"
	OpMarkAllRead  Op = "mark_all_read"
	OpDelete       Op = "delete"
	OpDeleteAll    Op = "delete_all"
	OpSubmit       Op = "submit"
	OpVote         Op = "vote"
	OpUpdateStatus Op = "update_status"
	OpUpdate       Op = "update"
	OpAvatar       Op = "avatar"
)

// lifecycle is the state shared by every store: the lock guarding the
// mirror, the liveness context, the state machine and the error slots.
type lifecycle struct {
	mu       sync.Mutex
	ctx      context.Context
	cancel   context.CancelFunc
	state    State
	mutating int
	fetchSeq uint64
	errs     map[Op]string
}

func (l *lifecycle) init() {
	l.ctx, l.cancel = context.WithCancel(context.Background())
	l.errs = make(map[Op]string)
}

// Close ends the store's lifetime. In-flight calls are cancelled and
// results that arrive afterwards are dropped.
func (l *lifecycle) Close() {
	l.cancel()
}

// alive must be called with mu held.
func (l *lifecycle) alive() bool {
	return l.ctx.Err() == nil
}

// State returns the current lifecycle state.
func (l *lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.mutating > 0 && l.state == StatePopulated {
		return StateMutating
	}
	return l.state
}

// Err returns the last error message recorded for op, or "".
func (l *lifecycle) Err(op Op) string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.errs[op]
}

// Errors returns a copy of every non-empty error slot.
func (l *lifecycle) Errors() map[Op]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[Op]string, len(l.errs))
	for k, v := range l.errs {
		out[k] = v
	}
	return out
}

// bind derives a context that is cancelled by either the caller or Close.
func (l *lifecycle) bind(ctx context.Context) (context.Context, func(), error) {
	if l.ctx.Err() != nil {
		return nil, nil, ErrClosed
	}
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(l.ctx, cancel)
	return ctx, func() {
		stop()
		cancel()
	}, nil
}

// beginFetch moves to Loading and returns the fetch generation.
func (l *lifecycle) beginFetch() (uint64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.alive() {
		return 0, ErrClosed
	}
	l.fetchSeq++
	l.state = StateLoading
	return l.fetchSeq, nil
}

// finishFetch applies a fetch result unless the store is closed or a newer
// fetch has started. On failure the cached mirror is kept.
func (l *lifecycle) finishFetch(seq uint64, err error, apply func()) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.alive() {
		return ErrClosed
	}
	if seq != l.fetchSeq {
		return err
	}
	if err != nil {
		l.state = StateFailed
		l.errs[OpFetch] = message(err)
		return err
	}
	apply()
	l.state = StatePopulated
	delete(l.errs, OpFetch)
	return nil
}

// beginMutation marks a mutation in flight, running optimistic under the
// lock when given.
func (l *lifecycle) beginMutation(optimistic func()) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.alive() {
		return ErrClosed
	}
	l.mutating++
	if optimistic != nil {
		optimistic()
	}
	return nil
}

// endMutation settles a mutation: onSuccess or onFailure runs under the
// lock against the current mirror, and the op's error slot is updated.
func (l *lifecycle) endMutation(op Op, err error, onSuccess, onFailure func()) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.mutating--
	if !l.alive() {
		return ErrClosed
	}
	if err != nil {
		if onFailure != nil {
			onFailure()
		}
		l.errs[op] = message(err)
		return err
	}
	if onSuccess != nil {
		onSuccess()
	}
	delete(l.errs, op)
	return nil
}

// message turns err into the text shown to the user.
func message(err error) string {
	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
