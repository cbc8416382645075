package composables

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/form"
	"github.com/sirupsen/logrus"

	"github.com/ZSuraj/abcd-sub000/pkg/constants"
	"github.com/ZSuraj/abcd-sub000/pkg/session"
)

var (
	ErrNoSession = errors.New("no session found in context")

	decoder = form.NewDecoder()
)

func WithSession(ctx context.Context, s *session.Session) context.Context {
	return context.WithValue(ctx, constants.SessionKey, s)
}

// UseSession returns the caller session resolved by the auth middleware.
func UseSession(ctx context.Context) (*session.Session, error) {
	s, ok := ctx.Value(constants.SessionKey).(*session.Session)
	if !ok || s == nil {
		return nil, ErrNoSession
	}
	return s, nil
}

func WithLogger(ctx context.Context, logger *logrus.Entry) context.Context {
	return context.WithValue(ctx, constants.LoggerKey, logger)
}

// UseLogger returns the request-scoped logger, or the standard logger outside requests.
func UseLogger(ctx context.Context) *logrus.Entry {
	if logger, ok := ctx.Value(constants.LoggerKey).(*logrus.Entry); ok && logger != nil {
		return logger
	}
	return logrus.NewEntry(logrus.StandardLogger())
}

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, constants.RequestIDKey, requestID)
}

func UseRequestID(ctx context.Context) string {
	v, _ := ctx.Value(constants.RequestIDKey).(string)
	return v
}

// UseQuery decodes the URL query into v using `form` struct tags.
func UseQuery[T any](v *T, r *http.Request) (*T, error) {
	return v, decoder.Decode(v, r.URL.Query())
}

func WithClientScope(ctx context.Context, clientID string) context.Context {
	return context.WithValue(ctx, constants.ClientScope, clientID)
}

// UseClientScope returns the raw X-Client-ID style scope value, if any.
func UseClientScope(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(constants.ClientScope).(string)
	return v, ok && v != ""
}
