package store

import (
	"context"
	"slices"

	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
)

// FeedbackAPI is the server surface the feedback store consumes.
type FeedbackAPI interface {
	Submit(ctx context.Context, in domain.FeedbackInput) (*domain.Feedback, error)
	ListMine(ctx context.Context, f domain.FeedbackFilter) ([]domain.Feedback, error)
	ListAll(ctx context.Context, f domain.FeedbackFilter) ([]domain.Feedback, error)
	Vote(ctx context.Context, id int64, vote domain.Vote) (*domain.Feedback, error)
	UpdateStatus(ctx context.Context, id int64, status domain.FeedbackStatus, response *string) (*domain.Feedback, error)
}

// FeedbackScope selects which listing a FeedbackStore mirrors.
type FeedbackScope int

const (
	// FeedbackMine mirrors the user's own submissions.
	FeedbackMine FeedbackScope = iota
	// FeedbackAll mirrors every submission; administrators only.
	FeedbackAll
)

// FeedbackStore mirrors a feedback listing. Every mutation is confirmed by
// the server before the mirror changes, and the returned record replaces
// the local one.
type FeedbackStore struct {
	lifecycle
	api   FeedbackAPI
	scope FeedbackScope
	items []domain.Feedback
}

// NewFeedbackStore creates an idle store.
func NewFeedbackStore(api FeedbackAPI, scope FeedbackScope) *FeedbackStore {
	s := &FeedbackStore{api: api, scope: scope}
	s.init()
	return s
}

// Items returns a copy of the mirror.
func (s *FeedbackStore) Items() []domain.Feedback {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items)
}

// Get returns the mirrored record with the given id.
func (s *FeedbackStore) Get(id int64) (domain.Feedback, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.index(id); i >= 0 {
		return s.items[i], true
	}
	return domain.Feedback{}, false
}

// Fetch replaces the mirror with the server's listing.
func (s *FeedbackStore) Fetch(ctx context.Context, f domain.FeedbackFilter) error {
	ctx, done, err := s.bind(ctx)
	if err != nil {
		return err
	}
	defer done()

	seq, err := s.beginFetch()
	if err != nil {
		return err
	}

	list := s.api.ListMine
	if s.scope == FeedbackAll {
		list = s.api.ListAll
	}
	items, err := list(ctx, f)
	return s.finishFetch(seq, err, func() { s.items = items })
}

// Submit sends new feedback and prepends the stored record.
func (s *FeedbackStore) Submit(ctx context.Context, in domain.FeedbackInput) (*domain.Feedback, error) {
	ctx, done, err := s.bind(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	if err := s.beginMutation(nil); err != nil {
		return nil, err
	}

	f, err := s.api.Submit(ctx, in)
	err = s.endMutation(OpSubmit, err, func() {
		s.items = slices.Insert(s.items, 0, *f)
	}, nil)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Vote casts or toggles the user's vote. The server applies the toggle rule.
func (s *FeedbackStore) Vote(ctx context.Context, id int64, vote domain.Vote) error {
	return s.mutate(ctx, OpVote, func(ctx context.Context) (*domain.Feedback, error) {
		return s.api.Vote(ctx, id, vote)
	})
}

// UpdateStatus moves an item through review. Administrators only.
func (s *FeedbackStore) UpdateStatus(ctx context.Context, id int64, status domain.FeedbackStatus, response *string) error {
	return s.mutate(ctx, OpUpdateStatus, func(ctx context.Context) (*domain.Feedback, error) {
		return s.api.UpdateStatus(ctx, id, status, response)
	})
}

func (s *FeedbackStore) mutate(ctx context.Context, op Op, call func(context.Context) (*domain.Feedback, error)) error {
	ctx, done, err := s.bind(ctx)
	if err != nil {
		return err
	}
	defer done()

	if err := s.beginMutation(nil); err != nil {
		return err
	}

	f, err := call(ctx)
	return s.endMutation(op, err, func() {
		if i := s.index(f.ID); i >= 0 {
			s.items[i] = *f
		}
	}, nil)
}

func (s *FeedbackStore) index(id int64) int {
	return slices.IndexFunc(s.items, func(f domain.Feedback) bool { return f.ID == id })
}
