package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
)

// FeedbackStore defines the feedback data access interface.
type FeedbackStore interface {
	Create(ctx context.Context, f domain.Feedback) (*domain.Feedback, error)
	FindByID(ctx context.Context, id int64, viewerID *int64) (*domain.Feedback, error)
	List(ctx context.Context, viewerID *int64, filter domain.FeedbackFilter) ([]domain.Feedback, error)
	Vote(ctx context.Context, feedbackID, userID int64, vote domain.Vote) (*domain.Feedback, error)
	UpdateStatus(ctx context.Context, id int64, status domain.FeedbackStatus, response *string) error
	UpdateNotes(ctx context.Context, id int64, notes string) error
	Stats(ctx context.Context) (domain.FeedbackStats, error)
}

// Notifier records in-app notifications.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification) error
}

// FeedbackService handles feedback submission, voting and review.
type FeedbackService struct {
	store    FeedbackStore
	users    UserStore
	notifier Notifier
}

// NewFeedbackService creates a new FeedbackService.
func NewFeedbackService(store FeedbackStore, users UserStore, notifier Notifier) *FeedbackService {
	return &FeedbackService{store: store, users: users, notifier: notifier}
}

// Submit records feedback from userID, or anonymously when userID is nil.
func (s *FeedbackService) Submit(ctx context.Context, userID *int64, in domain.FeedbackInput) (*domain.Feedback, error) {
	priority := in.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}

	f, err := s.store.Create(ctx, domain.Feedback{
		UserID:       userID,
		Type:         in.Type,
		Category:     in.Category,
		Title:        in.Title,
		Description:  in.Description,
		Priority:     priority,
		ContactEmail: in.ContactEmail,
	})
	if err != nil {
		return nil, err
	}

	slog.Info("feedback submitted", "feedback_id", f.ID, "type", f.Type, "anonymous", userID == nil)
	if userID == nil {
		v := f.ForViewer(false)
		return &v, nil
	}
	return s.project(ctx, *userID, f)
}

// Get returns a feedback item as seen by the viewer.
func (s *FeedbackService) Get(ctx context.Context, id int64, viewerID int64) (*domain.Feedback, error) {
	f, err := s.store.FindByID(ctx, id, &viewerID)
	if err != nil {
		return nil, err
	}
	return s.project(ctx, viewerID, f)
}

// ListMine returns the viewer's own submissions.
func (s *FeedbackService) ListMine(ctx context.Context, userID int64, filter domain.FeedbackFilter) ([]domain.Feedback, error) {
	filter.UserID = &userID
	items, err := s.store.List(ctx, &userID, filter)
	if err != nil {
		return nil, err
	}
	admin, err := s.isAdmin(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i] = items[i].ForViewer(admin)
	}
	return items, nil
}

// ListAll returns every submission. Administrators only.
func (s *FeedbackService) ListAll(ctx context.Context, adminID int64, filter domain.FeedbackFilter) ([]domain.Feedback, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	return s.store.List(ctx, &adminID, filter)
}

// Vote casts or toggles the user's vote and returns the updated record.
func (s *FeedbackService) Vote(ctx context.Context, feedbackID, userID int64, vote domain.Vote) (*domain.Feedback, error) {
	if vote != domain.VoteUp && vote != domain.VoteDown {
		return nil, &domain.ValidationError{Field: "vote", Message: "must be upvote or downvote"}
	}
	f, err := s.store.Vote(ctx, feedbackID, userID, vote)
	if err != nil {
		return nil, err
	}
	return s.project(ctx, userID, f)
}

// UpdateStatus moves a feedback item through review and notifies its author.
func (s *FeedbackService) UpdateStatus(ctx context.Context, adminID, id int64, status domain.FeedbackStatus, response *string) (*domain.Feedback, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	if !validStatus(status) {
		return nil, &domain.ValidationError{Field: "status", Message: "unknown status"}
	}

	if err := s.store.UpdateStatus(ctx, id, status, response); err != nil {
		return nil, err
	}

	f, err := s.store.FindByID(ctx, id, &adminID)
	if err != nil {
		return nil, err
	}

	s.notifyAuthor(ctx, f)
	return f, nil
}

// Resolve is UpdateStatus with the resolved status.
func (s *FeedbackService) Resolve(ctx context.Context, adminID, id int64, response *string) (*domain.Feedback, error) {
	return s.UpdateStatus(ctx, adminID, id, domain.FeedbackResolved, response)
}

// UpdateNotes replaces the internal admin notes.
func (s *FeedbackService) UpdateNotes(ctx context.Context, adminID, id int64, notes string) (*domain.Feedback, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	if err := s.store.UpdateNotes(ctx, id, notes); err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, id, &adminID)
}

// Stats returns aggregate counts. Administrators only.
func (s *FeedbackService) Stats(ctx context.Context, adminID int64) (domain.FeedbackStats, error) {
	if err := s.requireAdmin(ctx, adminID); err != nil {
		return domain.FeedbackStats{}, err
	}
	return s.store.Stats(ctx)
}

func (s *FeedbackService) isAdmin(ctx context.Context, userID int64) (bool, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return false, err
	}
	return u.IsAdmin(), nil
}

func (s *FeedbackService) requireAdmin(ctx context.Context, userID int64) error {
	admin, err := s.isAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if !admin {
		return domain.ErrForbidden
	}
	return nil
}

// project strips admin-only fields unless viewerID is an administrator.
func (s *FeedbackService) project(ctx context.Context, viewerID int64, f *domain.Feedback) (*domain.Feedback, error) {
	admin, err := s.isAdmin(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	v := f.ForViewer(admin)
	return &v, nil
}

// notifyAuthor is best effort: a failed notification never fails the status change.
func (s *FeedbackService) notifyAuthor(ctx context.Context, f *domain.Feedback) {
	if f.UserID == nil || s.notifier == nil {
		return
	}

	typ := domain.NotificationInfo
	switch f.Status {
	case domain.FeedbackResolved:
		typ = domain.NotificationSuccess
	case domain.FeedbackRejected:
		typ = domain.NotificationWarning
	}

	msg := fmt.Sprintf("Your feedback %q is now %s.", f.Title, statusLabel(f.Status))
	if f.AdminResponse != nil && *f.AdminResponse != "" {
		msg += " " + *f.AdminResponse
	}
	actionURL := fmt.Sprintf("/feedback/%d", f.ID)

	err := s.notifier.Notify(ctx, domain.Notification{
		UserID:    *f.UserID,
		Type:      typ,
		Title:     "Feedback update",
		Message:   msg,
		ActionURL: &actionURL,
	})
	if err != nil {
		slog.Warn("notify feedback author", "feedback_id", f.ID, "error", err)
	}
}

func validStatus(s domain.FeedbackStatus) bool {
	switch s {
	case domain.FeedbackPending, domain.FeedbackInReview, domain.FeedbackResolved, domain.FeedbackRejected:
		return true
	}
	return false
}

func statusLabel(s domain.FeedbackStatus) string {
	if s == domain.FeedbackInReview {
		return "in review"
	}
	return string(s)
}
