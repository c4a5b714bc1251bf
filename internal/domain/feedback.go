package domain

import "time"

// FeedbackType classifies a feedback submission.
type FeedbackType string

const (
	FeedbackBugReport      FeedbackType = "bug_report"
	FeedbackFeatureRequest FeedbackType = "feature_request"
	FeedbackGeneral        FeedbackType = "general"
	FeedbackUIUX           FeedbackType = "ui_ux"
	FeedbackPerformance    FeedbackType = "performance"
	FeedbackOther          FeedbackType = "other"
)

// FeedbackPriority is the submitter's view of urgency.
type FeedbackPriority string

const (
	PriorityLow      FeedbackPriority = "low"
	PriorityMedium   FeedbackPriority = "medium"
	PriorityHigh     FeedbackPriority = "high"
	PriorityCritical FeedbackPriority = "critical"
)

// FeedbackStatus represents the review lifecycle of a feedback item.
type FeedbackStatus string

const (
	FeedbackPending  FeedbackStatus = "pending"
	FeedbackInReview FeedbackStatus = "in_review"
	FeedbackResolved FeedbackStatus = "resolved"
	FeedbackRejected FeedbackStatus = "rejected"
)

// Vote is a user's vote on a feedback item.
type Vote string

const (
	VoteNone Vote = "none"
	VoteUp   Vote = "upvote"
	VoteDown Vote = "downvote"
)

// Feedback represents a bug report, feature request or general comment.
type Feedback struct {
	ID            int64            `json:"id" db:"id"`
	UserID        *int64           `json:"user_id,omitempty" db:"user_id"`
	Type          FeedbackType     `json:"type" db:"type"`
	Category      string           `json:"category" db:"category"`
	Title         string           `json:"title" db:"title"`
	Description   string           `json:"description" db:"description"`
	Priority      FeedbackPriority `json:"priority" db:"priority"`
	Status        FeedbackStatus   `json:"status" db:"status"`
	Upvotes       int              `json:"upvotes" db:"upvotes"`
	Downvotes     int              `json:"downvotes" db:"downvotes"`
	UserVote      Vote             `json:"user_vote" db:"user_vote"`
	ContactEmail  *string          `json:"contact_email,omitempty" db:"contact_email"`
	AdminResponse *string          `json:"admin_response,omitempty" db:"admin_response"`
	AdminNotes    *string          `json:"admin_notes,omitempty" db:"admin_notes"`
	ResolvedAt    *time.Time       `json:"resolved_at,omitempty" db:"resolved_at"`
	CreatedAt     time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" db:"updated_at"`
}

// NetVotes returns upvotes minus downvotes.
func (f Feedback) NetVotes() int {
	return f.Upvotes - f.Downvotes
}

// ForViewer returns the record as a non-admin may see it: admin notes and the
// submitter's contact email are stripped. Administrators get it unchanged.
func (f Feedback) ForViewer(isAdmin bool) Feedback {
	if isAdmin {
		return f
	}
	f.AdminNotes = nil
	f.ContactEmail = nil
	return f
}

// VoteChange describes how a cast vote alters the stored state.
type VoteChange struct {
	Next      Vote
	UpDelta   int
	DownDelta int
}

// ApplyVote computes the effect of casting vote on top of current.
// Casting the same vote again removes it; casting the opposite vote flips it.
func ApplyVote(current, vote Vote) VoteChange {
	if current == "" {
		current = VoteNone
	}
	change := VoteChange{Next: vote}
	if current == vote {
		change.Next = VoteNone
	}

	switch current {
	case VoteUp:
		change.UpDelta--
	case VoteDown:
		change.DownDelta--
	}
	switch change.Next {
	case VoteUp:
		change.UpDelta++
	case VoteDown:
		change.DownDelta++
	}
	return change
}

// FeedbackInput is a feedback submission.
type FeedbackInput struct {
	Type         FeedbackType     `json:"type" validate:"required,oneof=bug_report feature_request general ui_ux performance other"`
	Category     string           `json:"category,omitempty" validate:"max=60"`
	Title        string           `json:"title" validate:"required,min=3,max=200"`
	Description  string           `json:"description" validate:"required,min=10,max=5000"`
	Priority     FeedbackPriority `json:"priority,omitempty" validate:"omitempty,oneof=low medium high critical"`
	ContactEmail *string          `json:"contact_email,omitempty" validate:"omitempty,email"`
}

// FeedbackFilter narrows a feedback listing.
type FeedbackFilter struct {
	UserID   *int64
	Status   FeedbackStatus
	Type     FeedbackType
	Priority FeedbackPriority
	Limit    int
	Offset   int
}

// FeedbackStats aggregates feedback counts for administrators.
type FeedbackStats struct {
	Total    int                    `json:"total"`
	ByStatus map[FeedbackStatus]int `json:"by_status"`
	ByType   map[FeedbackType]int   `json:"by_type"`
}
