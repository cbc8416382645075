// Package session holds the caller identity resolved from a bearer token and the
// stores that persist it: token stores on the server, a local store for CLI callers.
package session

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleManager  Role = "manager"
	RoleEmployee Role = "employee"
	RoleClient   Role = "client"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee, RoleClient:
		return true
	default:
		return false
	}
}

var (
	ErrNoSession = errors.New("no session")
	ErrExpired   = errors.New("session expired")
)

type Session struct {
	Token  string    `json:"token"`
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	Role   Role      `json:"role"`
	// SubjectID links manager-role users to their Manager entity.
	SubjectID uuid.UUID `json:"subject_id,omitempty"`
	BaseURL   string    `json:"base_url,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Store persists the current caller's session (load/save/clear).
type Store interface {
	Load(ctx context.Context) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Clear(ctx context.Context) error
}

// TokenStore resolves bearer tokens to sessions on the server side.
type TokenStore interface {
	Get(ctx context.Context, token string) (*Session, error)
	Put(ctx context.Context, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, token string) error
}

// NewToken returns an opaque random bearer token.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString()+uuid.NewString(), "-", "")
}
