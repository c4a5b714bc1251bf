package store

import (
	"context"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/zaakiraza/ResumeAI-sub001/internal/apiclient"
	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
	"github.com/zaakiraza/ResumeAI-sub001/internal/upload"
)

// gate lets a test hold a fake call in flight.
type gate struct {
	entered chan struct{}
	release chan struct{}
}

func newGate() *gate {
	return &gate{entered: make(chan struct{}, 16), release: make(chan struct{})}
}

func (g *gate) wait(ctx context.Context) error {
	if g == nil {
		return nil
	}
	g.entered <- struct{}{}
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type fakeNotifications struct {
	mu    sync.Mutex
	items []domain.Notification
	calls map[string]int

	gate       *gate
	listErr    error
	statsErr   error
	markErr    map[int64]error
	markAllErr error
	deleteErr  error
	delAllErr  error
}

func newFakeNotifications(n int, readIDs ...int64) *fakeNotifications {
	f := &fakeNotifications{calls: map[string]int{}, markErr: map[int64]error{}}
	now := time.Now().UTC()
	for i := int64(1); i <= int64(n); i++ {
		item := domain.Notification{ID: i, UserID: 1, Type: domain.NotificationInfo, Title: "n", CreatedAt: now}
		if slices.Contains(readIDs, i) {
			item = item.MarkedRead(now)
		}
		f.items = append(f.items, item)
	}
	return f
}

func (f *fakeNotifications) count(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeNotifications) hit(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeNotifications) currentGate() *gate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gate
}

func (f *fakeNotifications) statsLocked() domain.NotificationStats {
	st := domain.NotificationStats{Total: len(f.items)}
	for _, n := range f.items {
		if !n.IsRead {
			st.Unread++
		}
	}
	return st
}

func (f *fakeNotifications) List(ctx context.Context, _ domain.NotificationFilter) (apiclient.NotificationPage, error) {
	f.hit("list")
	if err := f.currentGate().wait(ctx); err != nil {
		return apiclient.NotificationPage{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return apiclient.NotificationPage{}, f.listErr
	}
	return apiclient.NotificationPage{Items: slices.Clone(f.items), Stats: f.statsLocked()}, nil
}

func (f *fakeNotifications) Stats(context.Context) (domain.NotificationStats, error) {
	f.hit("stats")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statsErr != nil {
		return domain.NotificationStats{}, f.statsErr
	}
	return f.statsLocked(), nil
}

func (f *fakeNotifications) MarkRead(ctx context.Context, id int64) (*domain.Notification, error) {
	return f.toggle(ctx, "mark_read", id, true)
}

func (f *fakeNotifications) MarkUnread(ctx context.Context, id int64) (*domain.Notification, error) {
	return f.toggle(ctx, "mark_unread", id, false)
}

func (f *fakeNotifications) toggle(ctx context.Context, name string, id int64, read bool) (*domain.Notification, error) {
	f.hit(name)
	if err := f.currentGate().wait(ctx); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.markErr[id]; err != nil {
		return nil, err
	}
	i := slices.IndexFunc(f.items, func(n domain.Notification) bool { return n.ID == id })
	if i < 0 {
		return nil, &apiclient.Error{Status: http.StatusNotFound, Message: "The requested resource was not found"}
	}
	if read {
		f.items[i] = f.items[i].MarkedRead(time.Now().UTC())
	} else {
		f.items[i] = f.items[i].MarkedUnread()
	}
	n := f.items[i]
	return &n, nil
}

func (f *fakeNotifications) MarkAllRead(ctx context.Context) (int64, error) {
	f.hit("mark_all_read")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.markAllErr != nil {
		return 0, f.markAllErr
	}
	var changed int64
	for i := range f.items {
		if !f.items[i].IsRead {
			f.items[i] = f.items[i].MarkedRead(time.Now().UTC())
			changed++
		}
	}
	return changed, nil
}

func (f *fakeNotifications) Delete(ctx context.Context, id int64) error {
	f.hit("delete")
	if err := f.currentGate().wait(ctx); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.items = slices.DeleteFunc(f.items, func(n domain.Notification) bool { return n.ID == id })
	return nil
}

func (f *fakeNotifications) DeleteAll(context.Context) (int64, error) {
	f.hit("delete_all")
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.delAllErr != nil {
		return 0, f.delAllErr
	}
	n := int64(len(f.items))
	f.items = nil
	return n, nil
}

// fakeFeedback applies the vote rule the way the server does.
type fakeFeedback struct {
	mu        sync.Mutex
	items     map[int64]domain.Feedback
	statusErr error
}

func newFakeFeedback(ids ...int64) *fakeFeedback {
	f := &fakeFeedback{items: map[int64]domain.Feedback{}}
	for _, id := range ids {
		f.items[id] = domain.Feedback{ID: id, Title: "item", Status: domain.FeedbackPending, UserVote: domain.VoteNone}
	}
	return f
}

func (f *fakeFeedback) Submit(_ context.Context, in domain.FeedbackInput) (*domain.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fb := domain.Feedback{ID: int64(len(f.items) + 100), Title: in.Title, Type: in.Type, Status: domain.FeedbackPending}
	f.items[fb.ID] = fb
	return &fb, nil
}

func (f *fakeFeedback) list() []domain.Feedback {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Feedback, 0, len(f.items))
	for _, fb := range f.items {
		out = append(out, fb)
	}
	slices.SortFunc(out, func(a, b domain.Feedback) int { return int(a.ID - b.ID) })
	return out
}

func (f *fakeFeedback) ListMine(context.Context, domain.FeedbackFilter) ([]domain.Feedback, error) {
	return f.list(), nil
}

func (f *fakeFeedback) ListAll(context.Context, domain.FeedbackFilter) ([]domain.Feedback, error) {
	return f.list(), nil
}

func (f *fakeFeedback) Vote(_ context.Context, id int64, vote domain.Vote) (*domain.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	fb, ok := f.items[id]
	if !ok {
		return nil, &apiclient.Error{Status: http.StatusNotFound}
	}
	c := domain.ApplyVote(fb.UserVote, vote)
	fb.Upvotes += c.UpDelta
	fb.Downvotes += c.DownDelta
	fb.UserVote = c.Next
	f.items[id] = fb
	return &fb, nil
}

func (f *fakeFeedback) UpdateStatus(_ context.Context, id int64, status domain.FeedbackStatus, response *string) (*domain.Feedback, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	fb := f.items[id]
	fb.Status = status
	fb.AdminResponse = response
	f.items[id] = fb
	return &fb, nil
}

type fakeProfile struct {
	mu   sync.Mutex
	user domain.User
}

func (f *fakeProfile) Me(context.Context) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := f.user
	return &u, nil
}

func (f *fakeProfile) Update(_ context.Context, upd domain.ProfileUpdate) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if upd.AvatarURL != nil {
		f.user.AvatarURL = upd.AvatarURL
	}
	if upd.Headline != nil {
		f.user.Headline = upd.Headline
	}
	u := f.user
	return &u, nil
}

type fakeUploader struct {
	gate   *gate
	result upload.Result
}

func (f *fakeUploader) Upload(ctx context.Context, _ upload.Request) upload.Result {
	if err := f.gate.wait(ctx); err != nil {
		return upload.Result{ErrorMessage: err.Error()}
	}
	return f.result
}
