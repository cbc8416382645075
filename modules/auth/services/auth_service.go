package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"golang.org/x/crypto/bcrypt"

	"github.com/ZSuraj/abcd-sub000/modules/auth/domain/user"
	"github.com/ZSuraj/abcd-sub000/pkg/composables"
	"github.com/ZSuraj/abcd-sub000/pkg/serrors"
	"github.com/ZSuraj/abcd-sub000/pkg/session"
)

const (
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeNoSession          = "AUTH_REQUIRED"
	CodeUserGone           = "AUTH_USER_NOT_FOUND"
)

var loginTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "relationships",
		Subsystem: "auth",
		Name:      "logins_total",
		Help:      "Login attempts by result.",
	},
	[]string{"result"},
)

// dummyHash keeps unknown-email logins as slow as wrong-password ones.
var dummyHash = sync.OnceValue(func() []byte {
	h, _ := bcrypt.GenerateFromPassword([]byte("relationships-dummy-password"), bcrypt.DefaultCost)
	return h
})

func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

type AuthService struct {
	users  user.Repository
	tokens session.TokenStore
	ttl    time.Duration
	now    func() time.Time
}

func NewAuthService(users user.Repository, tokens session.TokenStore, ttl time.Duration) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		ttl:    ttl,
		now:    time.Now,
	}
}

func invalidCredentials() error {
	loginTotal.WithLabelValues("denied").Inc()
	return serrors.Unauthorized(CodeInvalidCredentials, "invalid email or password")
}

// Login checks the password and issues a bearer token valid for the configured session
// duration.
func (s *AuthService) Login(ctx context.Context, email, password string) (*session.Session, user.User, error) {
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash(), []byte(password))
			return nil, user.User{}, invalidCredentials()
		}
		loginTotal.WithLabelValues("error").Inc()
		return nil, user.User{}, serrors.Transient("AUTH_UNAVAILABLE", "user lookup failed", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, user.User{}, invalidCredentials()
	}

	sess := &session.Session{
		Token:     session.NewToken(),
		UserID:    u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		SubjectID: u.SubjectID,
		ExpiresAt: s.now().Add(s.ttl).UTC(),
	}
	if err := s.tokens.Put(ctx, sess, s.ttl); err != nil {
		loginTotal.WithLabelValues("error").Inc()
		return nil, user.User{}, serrors.Transient("AUTH_UNAVAILABLE", "session store unavailable", err)
	}
	loginTotal.WithLabelValues("ok").Inc()
	composables.UseLogger(ctx).WithField("user-id", u.ID.String()).Info("user logged in")
	return sess, u, nil
}

// Logout revokes the token of the session in ctx.
func (s *AuthService) Logout(ctx context.Context) error {
	sess, err := composables.UseSession(ctx)
	if err != nil {
		return serrors.Unauthorized(CodeNoSession, "authentication required")
	}
	if err := s.tokens.Delete(ctx, sess.Token); err != nil {
		return serrors.Transient("AUTH_UNAVAILABLE", "session store unavailable", err)
	}
	return nil
}

// Me returns the user behind the session in ctx.
func (s *AuthService) Me(ctx context.Context) (user.User, error) {
	sess, err := composables.UseSession(ctx)
	if err != nil {
		return user.User{}, serrors.Unauthorized(CodeNoSession, "authentication required")
	}
	u, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.User{}, serrors.Unauthorized(CodeUserGone, "user no longer exists")
		}
		return user.User{}, serrors.Transient("AUTH_UNAVAILABLE", "user lookup failed", err)
	}
	return u, nil
}
