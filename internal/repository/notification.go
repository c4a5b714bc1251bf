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

const notificationColumns = `id, user_id, type, title, message, is_read, read_at, action_url, created_at`

const defaultListLimit = 50

// NotificationRepository handles notification data access operations.
// Every query is scoped to the owning user.
type NotificationRepository struct {
	db *sqlx.DB
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db *sqlx.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create inserts a notification for a system event.
func (r *NotificationRepository) Create(ctx context.Context, n domain.Notification) (*domain.Notification, error) {
	var result domain.Notification
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO notifications (user_id, type, title, message, action_url)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+notificationColumns,
		n.UserID, n.Type, n.Title, n.Message, n.ActionURL,
	).StructScan(&result)
	if err != nil {
		return nil, fmt.Errorf("insert notification: %w", err)
	}
	return &result, nil
}

// List returns a page of the user's notifications, newest first.
func (r *NotificationRepository) List(ctx context.Context, userID int64, f domain.NotificationFilter) ([]domain.Notification, error) {
	where := []string{"user_id = $1"}
	args := []any{userID}

	if f.UnreadOnly {
		where = append(where, "is_read = FALSE")
	}
	if f.Type != "" {
		args = append(args, f.Type)
		where = append(where, fmt.Sprintf("type = $%d", len(args)))
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	args = append(args, limit, f.Offset)

	query := fmt.Sprintf(
		`SELECT %s FROM notifications WHERE %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		notificationColumns, strings.Join(where, " AND "), len(args)-1, len(args),
	)

	notifications := []domain.Notification{}
	if err := r.db.SelectContext(ctx, &notifications, query, args...); err != nil {
		return nil, fmt.Errorf("list notifications for user %d: %w", userID, err)
	}
	return notifications, nil
}

// Stats returns the total and unread counts for the user.
func (r *NotificationRepository) Stats(ctx context.Context, userID int64) (domain.NotificationStats, error) {
	var stats domain.NotificationStats
	err := r.db.GetContext(ctx, &stats,
		`SELECT COUNT(*) AS total,
		        COUNT(*) FILTER (WHERE NOT is_read) AS unread
		 FROM notifications WHERE user_id = $1`, userID)
	if err != nil {
		return domain.NotificationStats{}, fmt.Errorf("notification stats for user %d: %w", userID, err)
	}
	return stats, nil
}

// MarkRead flags the notification read. The first read timestamp is kept.
func (r *NotificationRepository) MarkRead(ctx context.Context, userID, id int64) (*domain.Notification, error) {
	return r.updateOne(ctx,
		`UPDATE notifications
		 SET is_read = TRUE, read_at = COALESCE(read_at, NOW())
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+notificationColumns, id, userID)
}

// MarkUnread flags the notification unread and clears its read timestamp.
func (r *NotificationRepository) MarkUnread(ctx context.Context, userID, id int64) (*domain.Notification, error) {
	return r.updateOne(ctx,
		`UPDATE notifications
		 SET is_read = FALSE, read_at = NULL
		 WHERE id = $1 AND user_id = $2
		 RETURNING `+notificationColumns, id, userID)
}

func (r *NotificationRepository) updateOne(ctx context.Context, query string, id, userID int64) (*domain.Notification, error) {
	var n domain.Notification
	if err := r.db.QueryRowxContext(ctx, query, id, userID).StructScan(&n); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update notification %d: %w", id, err)
	}
	return &n, nil
}

// MarkAllRead flags every unread notification of the user and returns how many changed.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = TRUE, read_at = NOW()
		 WHERE user_id = $1 AND is_read = FALSE`, userID)
	if err != nil {
		return 0, fmt.Errorf("mark all read for user %d: %w", userID, err)
	}
	return res.RowsAffected()
}

// Delete removes one notification.
func (r *NotificationRepository) Delete(ctx context.Context, userID, id int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM notifications WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete notification %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete notification %d: %w", id, err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// DeleteAll removes every notification of the user and returns how many were removed.
func (r *NotificationRepository) DeleteAll(ctx context.Context, userID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM notifications WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete all notifications for user %d: %w", userID, err)
	}
	return res.RowsAffected()
}

type preferencesRow struct {
	UserID int64  `db:"user_id"`
	Email  bool   `db:"email"`
	InApp  bool   `db:"in_app"`
	Types  string `db:"types"`
}

// GetPreferences returns the user's preferences, or the defaults when none are stored.
func (r *NotificationRepository) GetPreferences(ctx context.Context, userID int64) (domain.NotificationPreferences, error) {
	var row preferencesRow
	err := r.db.GetContext(ctx, &row,
		`SELECT user_id, email, in_app, types FROM notification_preferences WHERE user_id = $1`, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.NotificationPreferences{UserID: userID, Email: true, InApp: true, Types: []domain.NotificationType{}}, nil
		}
		return domain.NotificationPreferences{}, fmt.Errorf("get preferences for user %d: %w", userID, err)
	}
	return row.toDomain(), nil
}

// SavePreferences upserts the user's preferences.
func (r *NotificationRepository) SavePreferences(ctx context.Context, p domain.NotificationPreferences) (domain.NotificationPreferences, error) {
	types := make([]string, 0, len(p.Types))
	for _, t := range p.Types {
		types = append(types, string(t))
	}

	var row preferencesRow
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO notification_preferences (user_id, email, in_app, types)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id)
		 DO UPDATE SET email = EXCLUDED.email, in_app = EXCLUDED.in_app, types = EXCLUDED.types
		 RETURNING user_id, email, in_app, types`,
		p.UserID, p.Email, p.InApp, strings.Join(types, ","),
	).StructScan(&row)
	if err != nil {
		return domain.NotificationPreferences{}, fmt.Errorf("save preferences for user %d: %w", p.UserID, err)
	}
	return row.toDomain(), nil
}

func (row preferencesRow) toDomain() domain.NotificationPreferences {
	p := domain.NotificationPreferences{
		UserID: row.UserID,
		Email:  row.Email,
		InApp:  row.InApp,
		Types:  []domain.NotificationType{},
	}
	for _, t := range strings.Split(row.Types, ",") {
		if t = strings.TrimSpace(t); t != "" {
			p.Types = append(p.Types, domain.NotificationType(t))
		}
	}
	return p
}
