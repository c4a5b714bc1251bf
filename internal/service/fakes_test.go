package service

import (
	"context"
	"sync"

	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
)

type fakeUsers struct {
	users map[int64]domain.User
}

func (f *fakeUsers) FindByID(_ context.Context, id int64) (*domain.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &u, nil
}

func (f *fakeUsers) UpdateProfile(_ context.Context, id int64, upd domain.ProfileUpdate) (*domain.User, error) {
	u, ok := f.users[id]
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
	f.users[id] = u
	return &u, nil
}

type fakeNotifications struct {
	NotificationStore

	mu      sync.Mutex
	created []domain.Notification
	prefs   *domain.NotificationPreferences
	items   []domain.Notification
	stats   domain.NotificationStats
}

func (f *fakeNotifications) Create(_ context.Context, n domain.Notification) (*domain.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n.ID = int64(len(f.created) + 1)
	f.created = append(f.created, n)
	return &n, nil
}

func (f *fakeNotifications) GetPreferences(_ context.Context, userID int64) (domain.NotificationPreferences, error) {
	if f.prefs != nil {
		return *f.prefs, nil
	}
	return domain.NotificationPreferences{UserID: userID, Email: true, InApp: true}, nil
}

func (f *fakeNotifications) List(context.Context, int64, domain.NotificationFilter) ([]domain.Notification, error) {
	return f.items, nil
}

func (f *fakeNotifications) Stats(context.Context, int64) (domain.NotificationStats, error) {
	return f.stats, nil
}

type fakeFeedback struct {
	FeedbackStore

	items    map[int64]domain.Feedback
	votes    map[[2]int64]domain.Vote
	statuses []domain.FeedbackStatus
}

func newFakeFeedback(items ...domain.Feedback) *fakeFeedback {
	f := &fakeFeedback{items: map[int64]domain.Feedback{}, votes: map[[2]int64]domain.Vote{}}
	for _, it := range items {
		f.items[it.ID] = it
	}
	return f
}

func (f *fakeFeedback) Create(_ context.Context, fb domain.Feedback) (*domain.Feedback, error) {
	fb.ID = int64(len(f.items) + 1)
	fb.Status = domain.FeedbackPending
	fb.UserVote = domain.VoteNone
	f.items[fb.ID] = fb
	return &fb, nil
}

func (f *fakeFeedback) FindByID(_ context.Context, id int64, viewerID *int64) (*domain.Feedback, error) {
	fb, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	fb.UserVote = domain.VoteNone
	if viewerID != nil {
		if v, ok := f.votes[[2]int64{id, *viewerID}]; ok {
			fb.UserVote = v
		}
	}
	return &fb, nil
}

func (f *fakeFeedback) Vote(ctx context.Context, id, userID int64, vote domain.Vote) (*domain.Feedback, error) {
	fb, ok := f.items[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	key := [2]int64{id, userID}
	current, ok := f.votes[key]
	if !ok {
		current = domain.VoteNone
	}
	c := domain.ApplyVote(current, vote)
	fb.Upvotes += c.UpDelta
	fb.Downvotes += c.DownDelta
	f.items[id] = fb
	if c.Next == domain.VoteNone {
		delete(f.votes, key)
	} else {
		f.votes[key] = c.Next
	}
	return f.FindByID(ctx, id, &userID)
}

func (f *fakeFeedback) UpdateStatus(_ context.Context, id int64, status domain.FeedbackStatus, response *string) error {
	fb, ok := f.items[id]
	if !ok {
		return domain.ErrNotFound
	}
	fb.Status = status
	if response != nil {
		fb.AdminResponse = response
	}
	f.items[id] = fb
	f.statuses = append(f.statuses, status)
	return nil
}
