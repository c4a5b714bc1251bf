package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
)

func TestNotifications_ReadStateInvariant(t *testing.T) {
	ctx := context.Background()
	s := NewNotifications()

	n, err := s.Create(ctx, domain.Notification{UserID: 1, Type: domain.NotificationInfo, Title: "t"})
	require.NoError(t, err)
	assert.Nil(t, n.ReadAt)

	read, err := s.MarkRead(ctx, 1, n.ID)
	require.NoError(t, err)
	require.NotNil(t, read.ReadAt)
	first := *read.ReadAt

	read, err = s.MarkRead(ctx, 1, n.ID)
	require.NoError(t, err)
	assert.Equal(t, first, *read.ReadAt)

	unread, err := s.MarkUnread(ctx, 1, n.ID)
	require.NoError(t, err)
	assert.False(t, unread.IsRead)
	assert.Nil(t, unread.ReadAt)
}

func TestNotifications_ScopedToOwner(t *testing.T) {
	ctx := context.Background()
	s := NewNotifications()

	n, err := s.Create(ctx, domain.Notification{UserID: 1})
	require.NoError(t, err)

	_, err = s.MarkRead(ctx, 2, n.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, s.Delete(ctx, 2, n.ID), domain.ErrNotFound)
}

func TestNotifications_ListPagingAndStats(t *testing.T) {
	ctx := context.Background()
	s := NewNotifications()
	base := time.Now()

	for i := range 5 {
		_, err := s.Create(ctx, domain.Notification{UserID: 1, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
		require.NoError(t, err)
	}
	_, err := s.MarkRead(ctx, 1, 5)
	require.NoError(t, err)

	got, err := s.List(ctx, 1, domain.NotificationFilter{Limit: 2})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, int64(5), got[0].ID, "newest first")

	got, err = s.List(ctx, 1, domain.NotificationFilter{Offset: 10})
	require.NoError(t, err)
	assert.Empty(t, got)

	st, err := s.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, domain.NotificationStats{Total: 5, Unread: 4}, st)

	changed, err := s.MarkAllRead(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(4), changed)
}

func TestFeedback_VoteIsPerUser(t *testing.T) {
	ctx := context.Background()
	s := NewFeedback()

	f, err := s.Create(ctx, domain.Feedback{Type: domain.FeedbackGeneral, Title: "t"})
	require.NoError(t, err)

	_, err = s.Vote(ctx, f.ID, 1, domain.VoteUp)
	require.NoError(t, err)
	got, err := s.Vote(ctx, f.ID, 2, domain.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 2, got.Upvotes)
	assert.Equal(t, domain.VoteUp, got.UserVote)

	got, err = s.Vote(ctx, f.ID, 1, domain.VoteUp)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Upvotes)
	assert.Equal(t, domain.VoteNone, got.UserVote)

	viewer := int64(2)
	seen, err := s.FindByID(ctx, f.ID, &viewer)
	require.NoError(t, err)
	assert.Equal(t, domain.VoteUp, seen.UserVote)
}

func TestFeedback_ResolveStampsResolvedAt(t *testing.T) {
	ctx := context.Background()
	s := NewFeedback()

	f, err := s.Create(ctx, domain.Feedback{Type: domain.FeedbackBugReport})
	require.NoError(t, err)

	require.NoError(t, s.UpdateStatus(ctx, f.ID, domain.FeedbackResolved, nil))
	got, _ := s.FindByID(ctx, f.ID, nil)
	assert.NotNil(t, got.ResolvedAt)

	require.NoError(t, s.UpdateStatus(ctx, f.ID, domain.FeedbackInReview, nil))
	got, _ = s.FindByID(ctx, f.ID, nil)
	assert.Nil(t, got.ResolvedAt)

	assert.ErrorIs(t, s.UpdateNotes(ctx, 99, "x"), domain.ErrNotFound)
}
