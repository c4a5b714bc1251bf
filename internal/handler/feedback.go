package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
	"github.com/zaakiraza/ResumeAI-sub001/internal/service"
)

// FeedbackHandler serves feedback submission, voting and review.
type FeedbackHandler struct {
	feedback *service.FeedbackService
}

// NewFeedbackHandler creates a new FeedbackHandler.
func NewFeedbackHandler(feedback *service.FeedbackService) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

// Submit records feedback from the signed-in user.
func (h *FeedbackHandler) Submit(c echo.Context) error {
	userID, err := mustUserID(c)
	if err != nil {
		return err
	}
	return h.submit(c, &userID)
}

// SubmitAnonymous records feedback without an account.
func (h *FeedbackHandler) SubmitAnonymous(c echo.Context) error {
	return h.submit(c, nil)
}

func (h *FeedbackHandler) submit(c echo.Context, userID *int64) error {
	var body domain.FeedbackInput
	if err := bindValid(c, &body); err != nil {
		return err
	}

	f, err := h.feedback.Submit(c.Request().Context(), userID, body)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusCreated, f)
}

// ListMine returns the user's own submissions.
func (h *FeedbackHandler) ListMine(c echo.Context) error {
	userID, err := mustUserID(c)
	if err != nil {
		return err
	}
	filter, err := feedbackFilter(c)
	if err != nil {
		return err
	}

	items, err := h.feedback.ListMine(c.Request().Context(), userID, filter)
	if err != nil {
		return err
	}
	return feedbackList(c, items, filter)
}

// ListAll returns every submission. Administrators only.
func (h *FeedbackHandler) ListAll(c echo.Context) error {
	userID, err := mustUserID(c)
	if err != nil {
		return err
	}
	filter, err := feedbackFilter(c)
	if err != nil {
		return err
	}

	items, err := h.feedback.ListAll(c.Request().Context(), userID, filter)
	if err != nil {
		return err
	}
	return feedbackList(c, items, filter)
}

// Get returns a single feedback item.
func (h *FeedbackHandler) Get(c echo.Context) error {
	userID, err := mustUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	f, err := h.feedback.Get(c.Request().Context(), id, userID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, f)
}

type voteRequest struct {
	Vote domain.Vote `json:"vote" validate:"required,oneof=upvote downvote"`
}

// Vote casts or toggles the user's vote.
func (h *FeedbackHandler) Vote(c echo.Context) error {
	userID, err := mustUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var body voteRequest
	if err := bindValid(c, &body); err != nil {
		return err
	}

	f, err := h.feedback.Vote(c.Request().Context(), id, userID, body.Vote)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, f)
}

type statusRequest struct {
	Status        domain.FeedbackStatus `json:"status" validate:"required,oneof=pending in_review resolved rejected"`
	AdminResponse *string               `json:"admin_response,omitempty" validate:"omitempty,max=2000"`
}

// UpdateStatus moves a feedback item through review.
func (h *FeedbackHandler) UpdateStatus(c echo.Context) error {
	userID, err := mustUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var body statusRequest
	if err := bindValid(c, &body); err != nil {
		return err
	}

	f, err := h.feedback.UpdateStatus(c.Request().Context(), userID, id, body.Status, body.AdminResponse)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, f)
}

type notesRequest struct {
	Notes string `json:"notes" validate:"max=5000"`
}

// UpdateNotes replaces the internal admin notes.
func (h *FeedbackHandler) UpdateNotes(c echo.Context) error {
	userID, err := mustUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var body notesRequest
	if err := bindValid(c, &body); err != nil {
		return err
	}

	f, err := h.feedback.UpdateNotes(c.Request().Context(), userID, id, body.Notes)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, f)
}

type resolveRequest struct {
	AdminResponse *string `json:"admin_response,omitempty" validate:"omitempty,max=2000"`
}

// Resolve marks a feedback item resolved.
func (h *FeedbackHandler) Resolve(c echo.Context) error {
	userID, err := mustUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var body resolveRequest
	if err := bindValid(c, &body); err != nil {
		return err
	}

	f, err := h.feedback.Resolve(c.Request().Context(), userID, id, body.AdminResponse)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, f)
}

// Stats returns aggregate counts.
func (h *FeedbackHandler) Stats(c echo.Context) error {
	userID, err := mustUserID(c)
	if err != nil {
		return err
	}

	stats, err := h.feedback.Stats(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return JSON(c, http.StatusOK, stats)
}

func feedbackFilter(c echo.Context) (domain.FeedbackFilter, error) {
	limit, err := queryInt(c, "limit", defaultPageSize, 1, maxPageSize)
	if err != nil {
		return domain.FeedbackFilter{}, err
	}
	offset, err := queryInt(c, "offset", 0, 0, 0)
	if err != nil {
		return domain.FeedbackFilter{}, err
	}
	return domain.FeedbackFilter{
		Status:   domain.FeedbackStatus(c.QueryParam("status")),
		Type:     domain.FeedbackType(c.QueryParam("type")),
		Priority: domain.FeedbackPriority(c.QueryParam("priority")),
		Limit:    limit,
		Offset:   offset,
	}, nil
}

func feedbackList(c echo.Context, items []domain.Feedback, filter domain.FeedbackFilter) error {
	return JSONList(c, http.StatusOK, items, ListMeta{
		Limit:   filter.Limit,
		Offset:  filter.Offset,
		HasNext: len(items) == filter.Limit,
	})
}
