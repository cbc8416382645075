package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZSuraj/abcd-sub000/modules/auth/domain/user"
	"github.com/ZSuraj/abcd-sub000/pkg/composables"
	"github.com/ZSuraj/abcd-sub000/pkg/session"
)

var userColumns = []string{"id", "email", "name", "password_hash", "role", "subject_id", "created_at"}

func newMockUserRepo(t *testing.T) (*PgUserRepository, pgxmock.PgxPoolIface, context.Context) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)
	return NewPgUserRepository(), mock, composables.WithPool(context.Background(), mock)
}

func TestPgUserRepository_GetByEmail(t *testing.T) {
	repo, mock, ctx := newMockUserRepo(t)
	id, subject := uuid.New(), uuid.New()
	created := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery("SELECT (.+) FROM users WHERE email = \\$1").
		WithArgs("mona@corp.test").
		WillReturnRows(pgxmock.NewRows(userColumns).
			AddRow(id, "mona@corp.test", "Mona", "hash", "manager", &subject, created))

	u, err := repo.GetByEmail(ctx, "  Mona@Corp.test ")
	require.NoError(t, err)
	assert.Equal(t, id, u.ID)
	assert.Equal(t, session.RoleManager, u.Role)
	assert.Equal(t, subject, u.SubjectID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepository_GetByIDNotFound(t *testing.T) {
	repo, mock, ctx := newMockUserRepo(t)
	id := uuid.New()

	mock.ExpectQuery("SELECT (.+) FROM users WHERE id = \\$1").
		WithArgs(id).
		WillReturnError(pgx.ErrNoRows)

	_, err := repo.GetByID(ctx, id)
	require.ErrorIs(t, err, user.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepository_CreateDuplicate(t *testing.T) {
	repo, mock, ctx := newMockUserRepo(t)
	u := user.User{ID: uuid.New(), Email: "admin@corp.test", Name: "Admin", PasswordHash: "hash", Role: session.RoleAdmin}

	mock.ExpectExec("INSERT INTO users").
		WithArgs(u.ID, u.Email, u.Name, u.PasswordHash, "admin", pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"})

	err := repo.Create(ctx, u)
	require.ErrorIs(t, err, user.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPgUserRepository_CountWrapsErrors(t *testing.T) {
	repo, mock, ctx := newMockUserRepo(t)
	boom := errors.New("connection reset")

	mock.ExpectQuery("SELECT count\\(\\*\\) FROM users").WillReturnError(boom)

	_, err := repo.Count(ctx)
	require.ErrorIs(t, err, boom)
	assert.NoError(t, mock.ExpectationsWereMet())
}
