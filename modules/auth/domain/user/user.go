// Package user defines login identities. A user only exists to resolve bearer
// tokens into a role and, for managers, the Manager entity they act as.
package user

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ZSuraj/abcd-sub000/pkg/session"
)

var (
	ErrNotFound  = errors.New("user: not found")
	ErrDuplicate = errors.New("user: duplicate email")
)

type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Role         session.Role
	SubjectID    uuid.UUID
	CreatedAt    time.Time
}

// NormalizeEmail is the form emails are stored and looked up in.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type Repository interface {
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Create(ctx context.Context, u User) error
	Count(ctx context.Context) (int, error)
}
