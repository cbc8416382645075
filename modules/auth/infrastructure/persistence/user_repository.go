package persistence

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ZSuraj/abcd-sub000/modules/auth/domain/user"
	"github.com/ZSuraj/abcd-sub000/pkg/composables"
	"github.com/ZSuraj/abcd-sub000/pkg/session"
)

const selectUserSQL = `SELECT id, email, name, password_hash, role, subject_id, created_at FROM users`

const uniqueViolation = "23505"

type PgUserRepository struct{}

func NewPgUserRepository() *PgUserRepository {
	return &PgUserRepository{}
}

func scanUser(row pgx.Row) (user.User, error) {
	var (
		u         user.User
		role      string
		subjectID *uuid.UUID
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &role, &subjectID, &u.CreatedAt); err != nil {
		return user.User{}, err
	}
	u.Role = session.Role(role)
	if subjectID != nil {
		u.SubjectID = *subjectID
	}
	return u, nil
}

func (r *PgUserRepository) getBy(ctx context.Context, where string, arg any) (user.User, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return user.User{}, err
	}
	u, err := scanUser(tx.QueryRow(ctx, selectUserSQL+` WHERE `+where, arg))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, errors.Wrapf(user.ErrNotFound, "user %v", arg)
		}
		return user.User{}, errors.Wrap(err, "get user")
	}
	return u, nil
}

func (r *PgUserRepository) GetByID(ctx context.Context, id uuid.UUID) (user.User, error) {
	return r.getBy(ctx, `id = $1`, id)
}

func (r *PgUserRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.getBy(ctx, `email = $1`, user.NormalizeEmail(email))
}

func (r *PgUserRepository) Create(ctx context.Context, u user.User) error {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return err
	}
	var subjectID *uuid.UUID
	if u.SubjectID != uuid.Nil {
		subjectID = &u.SubjectID
	}
	_, err = tx.Exec(ctx,
		`INSERT INTO users (id, email, name, password_hash, role, subject_id) VALUES ($1, $2, $3, $4, $5, $6)`,
		u.ID, user.NormalizeEmail(u.Email), u.Name, u.PasswordHash, string(u.Role), subjectID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return errors.Wrapf(user.ErrDuplicate, "user %s", u.Email)
		}
		return errors.Wrap(err, "insert user")
	}
	return nil
}

func (r *PgUserRepository) Count(ctx context.Context) (int, error) {
	tx, err := composables.UseTx(ctx)
	if err != nil {
		return 0, err
	}
	var n int
	if err := tx.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "count users")
	}
	return n, nil
}
