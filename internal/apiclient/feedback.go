package apiclient

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
)

// FeedbackService wraps the /feedback endpoints.
type FeedbackService struct {
	c *Client
}

// Submit sends feedback as the signed-in user.
func (s *FeedbackService) Submit(ctx context.Context, in domain.FeedbackInput) (*domain.Feedback, error) {
	return s.submit(ctx, "/feedback", in, false)
}

// SubmitAnonymous sends feedback without a token.
func (s *FeedbackService) SubmitAnonymous(ctx context.Context, in domain.FeedbackInput) (*domain.Feedback, error) {
	return s.submit(ctx, "/feedback/anonymous", in, true)
}

func (s *FeedbackService) submit(ctx context.Context, path string, in domain.FeedbackInput, anon bool) (*domain.Feedback, error) {
	var f domain.Feedback
	if _, err := s.c.do(ctx, call{method: http.MethodPost, path: path, body: in, out: &f, anon: anon}); err != nil {
		return nil, err
	}
	return &f, nil
}

// ListMine returns the user's own submissions.
func (s *FeedbackService) ListMine(ctx context.Context, f domain.FeedbackFilter) ([]domain.Feedback, error) {
	return s.list(ctx, "/feedback/mine", f)
}

// ListAll returns every submission. Administrators only.
func (s *FeedbackService) ListAll(ctx context.Context, f domain.FeedbackFilter) ([]domain.Feedback, error) {
	return s.list(ctx, "/feedback", f)
}

func (s *FeedbackService) list(ctx context.Context, path string, f domain.FeedbackFilter) ([]domain.Feedback, error) {
	q := url.Values{}
	if f.Status != "" {
		q.Set("status", string(f.Status))
	}
	if f.Type != "" {
		q.Set("type", string(f.Type))
	}
	if f.Priority != "" {
		q.Set("priority", string(f.Priority))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	if f.Offset > 0 {
		q.Set("offset", strconv.Itoa(f.Offset))
	}

	var items []domain.Feedback
	if _, err := s.c.do(ctx, call{method: http.MethodGet, path: path, query: q, out: &items}); err != nil {
		return nil, err
	}
	return items, nil
}

// Get fetches one feedback item.
func (s *FeedbackService) Get(ctx context.Context, id int64) (*domain.Feedback, error) {
	var f domain.Feedback
	if _, err := s.c.do(ctx, call{method: http.MethodGet, path: fmt.Sprintf("/feedback/%d", id), out: &f}); err != nil {
		return nil, err
	}
	return &f, nil
}

// Vote casts or toggles a vote and returns the server's record.
func (s *FeedbackService) Vote(ctx context.Context, id int64, vote domain.Vote) (*domain.Feedback, error) {
	var f domain.Feedback
	body := map[string]domain.Vote{"vote": vote}
	if _, err := s.c.do(ctx, call{method: http.MethodPost, path: fmt.Sprintf("/feedback/%d/vote", id), body: body, out: &f}); err != nil {
		return nil, err
	}
	return &f, nil
}

type statusBody struct {
	Status        domain.FeedbackStatus `json:"status,omitempty"`
	AdminResponse *string               `json:"admin_response,omitempty"`
}

// UpdateStatus moves an item through review. Administrators only.
func (s *FeedbackService) UpdateStatus(ctx context.Context, id int64, status domain.FeedbackStatus, response *string) (*domain.Feedback, error) {
	var f domain.Feedback
	body := statusBody{Status: status, AdminResponse: response}
	if _, err := s.c.do(ctx, call{method: http.MethodPatch, path: fmt.Sprintf("/feedback/%d/status", id), body: body, out: &f}); err != nil {
		return nil, err
	}
	return &f, nil
}

// Resolve marks an item resolved. Administrators only.
func (s *FeedbackService) Resolve(ctx context.Context, id int64, response *string) (*domain.Feedback, error) {
	var f domain.Feedback
	body := statusBody{AdminResponse: response}
	if _, err := s.c.do(ctx, call{method: http.MethodPost, path: fmt.Sprintf("/feedback/%d/resolve", id), body: body, out: &f}); err != nil {
		return nil, err
	}
	return &f, nil
}

// UpdateNotes replaces the internal admin notes. Administrators only.
func (s *FeedbackService) UpdateNotes(ctx context.Context, id int64, notes string) (*domain.Feedback, error) {
	var f domain.Feedback
	body := map[string]string{"notes": notes}
	if _, err := s.c.do(ctx, call{method: http.MethodPatch, path: fmt.Sprintf("/feedback/%d/notes", id), body: body, out: &f}); err != nil {
		return nil, err
	}
	return &f, nil
}

// Stats returns aggregate counts. Administrators only.
func (s *FeedbackService) Stats(ctx context.Context) (domain.FeedbackStats, error) {
	var st domain.FeedbackStats
	_, err := s.c.do(ctx, call{method: http.MethodGet, path: "/feedback/stats", out: &st})
	return st, err
}
