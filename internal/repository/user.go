package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
)

const userColumns = `id, email, display_name, headline, avatar_url, role, created_at, updated_at`

// UserRepository handles user data access operations.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID retrieves a user by their ID.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	err := r.db.GetContext(ctx, &user,
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("find user by id %d: %w", id, err)
	}
	return &user, nil
}

// UpdateProfile applies the non-nil fields of upd and returns the updated user.
func (r *UserRepository) UpdateProfile(ctx context.Context, id int64, upd domain.ProfileUpdate) (*domain.User, error) {
	var user domain.User
	err := r.db.QueryRowxContext(ctx,
		`UPDATE users
		 SET display_name = COALESCE($2, display_name),
		     headline = COALESCE($3, headline),
		     avatar_url = COALESCE($4, avatar_url),
		     updated_at = NOW()
		 WHERE id = $1
		 RETURNING `+userColumns,
		id, upd.DisplayName, upd.Headline, upd.AvatarURL,
	).StructScan(&user)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update user %d: %w", id, err)
	}
	return &user, nil
}
