package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
)

const feedbackColumns = `f.id, f.user_id, f.type, f.category, f.title, f.description, f.priority, f.status,
	f.upvotes, f.downvotes, COALESCE(v.vote, 'none') AS user_vote, f.contact_email,
	f.admin_response, f.admin_notes, f.resolved_at, f.created_at, f.updated_at`

// feedbackFrom joins the viewer's vote; $1 is always the viewer id (NULL for anonymous).
const feedbackFrom = `FROM feedback f
	LEFT JOIN feedback_votes v ON v.feedback_id = f.id AND v.user_id = $1`

// FeedbackRepository handles feedback and vote data access operations.
type FeedbackRepository struct {
	db *sqlx.DB
}

// NewFeedbackRepository creates a new FeedbackRepository.
func NewFeedbackRepository(db *sqlx.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create inserts a feedback submission. UserID is nil for anonymous submissions.
func (r *FeedbackRepository) Create(ctx context.Context, f domain.Feedback) (*domain.Feedback, error) {
	var id int64
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO feedback (user_id, type, category, title, description, priority, contact_email)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING id`,
		f.UserID, f.Type, f.Category, f.Title, f.Description, f.Priority, f.ContactEmail,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert feedback: %w", err)
	}
	return r.FindByID(ctx, id, f.UserID)
}

// FindByID retrieves a feedback item with the viewer's vote.
func (r *FeedbackRepository) FindByID(ctx context.Context, id int64, viewerID *int64) (*domain.Feedback, error) {
	return findFeedback(ctx, r.db, id, viewerID)
}

func findFeedback(ctx context.Context, q sqlx.QueryerContext, id int64, viewerID *int64) (*domain.Feedback, error) {
	var f domain.Feedback
	err := sqlx.GetContext(ctx, q, &f,
		`SELECT `+feedbackColumns+` `+feedbackFrom+` WHERE f.id = $2`, viewerID, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find feedback %d: %w", id, err)
	}
	return &f, nil
}

// List returns feedback matching the filter, newest first.
func (r *FeedbackRepository) List(ctx context.Context, viewerID *int64, filter domain.FeedbackFilter) ([]domain.Feedback, error) {
	args := []any{viewerID}
	var where []string

	if filter.UserID != nil {
		args = append(args, *filter.UserID)
		where = append(where, fmt.Sprintf("f.user_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("f.status = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		where = append(where, fmt.Sprintf("f.type = $%d", len(args)))
	}
	if filter.Priority != "" {
		args = append(args, filter.Priority)
		where = append(where, fmt.Sprintf("f.priority = $%d", len(args)))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit, filter.Offset)

	query := `SELECT ` + feedbackColumns + ` ` + feedbackFrom
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += fmt.Sprintf(` ORDER BY f.created_at DESC, f.id DESC LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	items := []domain.Feedback{}
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("list feedback: %w", err)
	}
	return items, nil
}

// Vote casts vote for userID inside a transaction. Repeating the stored vote
// removes it; the opposite vote replaces it.
func (r *FeedbackRepository) Vote(ctx context.Context, feedbackID, userID int64, vote domain.Vote) (*domain.Feedback, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin vote tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var exists int64
	if err := tx.GetContext(ctx, &exists, `SELECT id FROM feedback WHERE id = $1 FOR UPDATE`, feedbackID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("lock feedback %d: %w", feedbackID, err)
	}

	current := domain.VoteNone
	var stored string
	err = tx.GetContext(ctx, &stored,
		`SELECT vote FROM feedback_votes WHERE feedback_id = $1 AND user_id = $2`, feedbackID, userID)
	switch {
	case err == nil:
		current = domain.Vote(stored)
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("read vote: %w", err)
	}

	change := domain.ApplyVote(current, vote)

	if change.Next == domain.VoteNone {
		_, err = tx.ExecContext(ctx,
			`DELETE FROM feedback_votes WHERE feedback_id = $1 AND user_id = $2`, feedbackID, userID)
	} else {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO feedback_votes (feedback_id, user_id, vote) VALUES ($1, $2, $3)
			 ON CONFLICT (feedback_id, user_id) DO UPDATE SET vote = EXCLUDED.vote`,
			feedbackID, userID, change.Next)
	}
	if err != nil {
		return nil, fmt.Errorf("store vote: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE feedback
		 SET upvotes = GREATEST(upvotes + $2, 0), downvotes = GREATEST(downvotes + $3, 0), updated_at = NOW()
		 WHERE id = $1`,
		feedbackID, change.UpDelta, change.DownDelta); err != nil {
		return nil, fmt.Errorf("update vote counters: %w", err)
	}

	f, err := findFeedback(ctx, tx, feedbackID, &userID)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit vote tx: %w", err)
	}
	return f, nil
}

// UpdateStatus sets the review status and optional admin response.
// Moving to resolved stamps resolved_at; any other status clears it.
func (r *FeedbackRepository) UpdateStatus(ctx context.Context, id int64, status domain.FeedbackStatus, response *string) error {
	return r.exec(ctx, id,
		`UPDATE feedback
		 SET status = $2,
		     admin_response = COALESCE($3, admin_response),
		     resolved_at = CASE WHEN $2 = 'resolved' THEN COALESCE(resolved_at, NOW()) ELSE NULL END,
		     updated_at = NOW()
		 WHERE id = $1`,
		id, status, response)
}

// UpdateNotes replaces the internal admin notes.
func (r *FeedbackRepository) UpdateNotes(ctx context.Context, id int64, notes string) error {
	return r.exec(ctx, id,
		`UPDATE feedback SET admin_notes = $2, updated_at = NOW() WHERE id = $1`, id, notes)
}

func (r *FeedbackRepository) exec(ctx context.Context, id int64, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update feedback %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update feedback %d: %w", id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

type countRow struct {
	Key   string `db:"key"`
	Count int    `db:"count"`
}

// Stats aggregates feedback counts by status and by type.
func (r *FeedbackRepository) Stats(ctx context.Context) (domain.FeedbackStats, error) {
	stats := domain.FeedbackStats{
		ByStatus: map[domain.FeedbackStatus]int{},
		ByType:   map[domain.FeedbackType]int{},
	}

	var byStatus []countRow
	if err := r.db.SelectContext(ctx, &byStatus,
		`SELECT status AS key, COUNT(*) AS count FROM feedback GROUP BY status`); err != nil {
		return domain.FeedbackStats{}, fmt.Errorf("feedback stats by status: %w", err)
	}
	for _, row := range byStatus {
		stats.ByStatus[domain.FeedbackStatus(row.Key)] = row.Count
		stats.Total += row.Count
	}

	var byType []countRow
	if err := r.db.SelectContext(ctx, &byType,
		`SELECT type AS key, COUNT(*) AS count FROM feedback GROUP BY type`); err != nil {
		return domain.FeedbackStats{}, fmt.Errorf("feedback stats by type: %w", err)
	}
	for _, row := range byType {
		stats.ByType[domain.FeedbackType(row.Key)] = row.Count
	}

	return stats, nil
}
