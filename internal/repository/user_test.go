package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zaakiraza/ResumeAI-sub001/internal/domain"
)

var userCols = []string{"id", "email", "display_name", "headline", "avatar_url", "role", "created_at", "updated_at"}

func TestUserRepository_FindByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	mock.ExpectQuery(`SELECT id, email, .* FROM users WHERE id = \$1`).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(userCols))

	_, err := repo.FindByID(context.Background(), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUserRepository_UpdateProfile(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewUserRepository(db)

	headline := "Backend engineer"
	now := time.Now()
	mock.ExpectQuery(`(?s)UPDATE users\s+SET display_name = COALESCE\(\$2, display_name\)`).
		WithArgs(int64(1), nil, headline, nil).
		WillReturnRows(sqlmock.NewRows(userCols).
			AddRow(1, "a@b.c", "Ada", headline, nil, "user", now, now))

	u, err := repo.UpdateProfile(context.Background(), 1, domain.ProfileUpdate{Headline: &headline})
	require.NoError(t, err)
	require.NotNil(t, u.Headline)
	assert.Equal(t, headline, *u.Headline)
	assert.Equal(t, domain.RoleUser, u.Role)
}
