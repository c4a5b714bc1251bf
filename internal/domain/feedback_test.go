package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyVote(t *testing.T) {
	tests := []struct {
		name     string
		current  Vote
		vote     Vote
		wantNext Vote
		wantUp   int
		wantDown int
	}{
		{"first upvote", VoteNone, VoteUp, VoteUp, 1, 0},
		{"empty current treated as none", "", VoteDown, VoteDown, 0, 1},
		{"same vote toggles off", VoteUp, VoteUp, VoteNone, -1, 0},
		{"same downvote toggles off", VoteDown, VoteDown, VoteNone, 0, -1},
		{"flip up to down", VoteUp, VoteDown, VoteDown, -1, 1},
		{"flip down to up", VoteDown, VoteUp, VoteUp, 1, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyVote(tt.current, tt.vote)
			assert.Equal(t, tt.wantNext, got.Next)
			assert.Equal(t, tt.wantUp, got.UpDelta)
			assert.Equal(t, tt.wantDown, got.DownDelta)
		})
	}
}

func TestApplyVote_NetCount(t *testing.T) {
	f := Feedback{}
	apply := func(v Vote) {
		c := ApplyVote(f.UserVote, v)
		f.Upvotes += c.UpDelta
		f.Downvotes += c.DownDelta
		f.UserVote = c.Next
	}

	apply(VoteUp)
	assert.Equal(t, 1, f.NetVotes())
	apply(VoteUp)
	assert.Equal(t, 0, f.NetVotes())
	assert.Equal(t, VoteNone, f.UserVote)

	apply(VoteUp)
	apply(VoteDown)
	assert.Equal(t, -1, f.NetVotes(), "flipping moves the net count by two")
}

func TestFeedback_ForViewer(t *testing.T) {
	notes, email := "internal", "a@example.com"
	f := Feedback{ID: 1, AdminNotes: &notes, ContactEmail: &email}

	user := f.ForViewer(false)
	assert.Nil(t, user.AdminNotes)
	assert.Nil(t, user.ContactEmail)
	assert.NotNil(t, f.AdminNotes, "the original is not modified")

	admin := f.ForViewer(true)
	assert.Equal(t, &notes, admin.AdminNotes)
	assert.Equal(t, &email, admin.ContactEmail)
}
