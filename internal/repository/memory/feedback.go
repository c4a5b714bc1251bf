package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
)

type voteKey struct {
	feedbackID int64
	userID     int64
}

// Feedback is an in-memory feedback store.
type Feedback struct {
	mu     sync.RWMutex
	nextID int64
	items  map[int64]domain.Feedback
	votes  map[voteKey]domain.Vote
}

// NewFeedback creates an empty feedback store.
func NewFeedback() *Feedback {
	return &Feedback{
		items: make(map[int64]domain.Feedback),
		votes: make(map[voteKey]domain.Vote),
	}
}

// Create inserts a feedback submission.
func (s *Feedback) Create(ctx context.Context, f domain.Feedback) (*domain.Feedback, error) {
	s.mu.Lock()
	s.nextID++
	now := time.Now().UTC()
	f.ID = s.nextID
	f.Status = domain.FeedbackPending
	f.Upvotes, f.Downvotes = 0, 0
	f.CreatedAt, f.UpdatedAt = now, now
	s.items[f.ID] = f
	s.mu.Unlock()

	return s.FindByID(ctx, f.ID, f.UserID)
}

// FindByID returns a feedback item with the viewer's vote.
func (s *Feedback) FindByID(_ context.Context, id int64, viewerID *int64) (*domain.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	f.UserVote = s.voteOf(id, viewerID)
	return &f, nil
}

func (s *Feedback) voteOf(id int64, viewerID *int64) domain.Vote {
	if viewerID == nil {
		return domain.VoteNone
	}
	if v, ok := s.votes[voteKey{id, *viewerID}]; ok {
		return v
	}
	return domain.VoteNone
}

// List returns feedback matching the filter, newest first.
func (s *Feedback) List(_ context.Context, viewerID *int64, filter domain.FeedbackFilter) ([]domain.Feedback, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []domain.Feedback{}
	for _, f := range s.items {
		if filter.UserID != nil && (f.UserID == nil || *f.UserID != *filter.UserID) {
			continue
		}
		if filter.Status != "" && f.Status != filter.Status {
			continue
		}
		if filter.Type != "" && f.Type != filter.Type {
			continue
		}
		if filter.Priority != "" && f.Priority != filter.Priority {
			continue
		}
		f.UserVote = s.voteOf(f.ID, viewerID)
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return page(out, filter.Limit, filter.Offset), nil
}

// Vote applies the toggle/flip rule for userID.
func (s *Feedback) Vote(ctx context.Context, feedbackID, userID int64, vote domain.Vote) (*domain.Feedback, error) {
	s.mu.Lock()
	f, ok := s.items[feedbackID]
	if !ok {
		s.mu.Unlock()
		return nil, domain.ErrNotFound
	}

	key := voteKey{feedbackID, userID}
	change := domain.ApplyVote(s.voteOf(feedbackID, &userID), vote)
	f.Upvotes = max(f.Upvotes+change.UpDelta, 0)
	f.Downvotes = max(f.Downvotes+change.DownDelta, 0)
	f.UpdatedAt = time.Now().UTC()
	s.items[feedbackID] = f
	if change.Next == domain.VoteNone {
		delete(s.votes, key)
	} else {
		s.votes[key] = change.Next
	}
	s.mu.Unlock()

	return s.FindByID(ctx, feedbackID, &userID)
}

// UpdateStatus sets the status and optional admin response.
func (s *Feedback) UpdateStatus(_ context.Context, id int64, status domain.FeedbackStatus, response *string) error {
	return s.update(id, func(f *domain.Feedback) {
		f.Status = status
		if response != nil {
			f.AdminResponse = response
		}
		if status == domain.FeedbackResolved {
			if f.ResolvedAt == nil {
				now := time.Now().UTC()
				f.ResolvedAt = &now
			}
		} else {
			f.ResolvedAt = nil
		}
	})
}

// UpdateNotes replaces the admin notes.
func (s *Feedback) UpdateNotes(_ context.Context, id int64, notes string) error {
	return s.update(id, func(f *domain.Feedback) {
		f.AdminNotes = &notes
	})
}

func (s *Feedback) update(id int64, fn func(*domain.Feedback)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	fn(&f)
	f.UpdatedAt = time.Now().UTC()
	s.items[id] = f
	return nil
}

// Stats aggregates feedback counts.
func (s *Feedback) Stats(context.Context) (domain.FeedbackStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := domain.FeedbackStats{
		ByStatus: map[domain.FeedbackStatus]int{},
		ByType:   map[domain.FeedbackType]int{},
	}
	for _, f := range s.items {
		st.Total++
		st.ByStatus[f.Status]++
		st.ByType[f.Type]++
	}
	return st, nil
}
