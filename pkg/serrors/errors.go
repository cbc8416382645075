package serrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure the way callers react to it.
type Kind string

const (
	KindConflict  Kind = "conflict"
	KindNotFound  Kind = "not_found"
	KindAuth      Kind = "auth"
	KindForbidden Kind = "forbidden"
	KindInvalid   Kind = "invalid"
	KindTransient Kind = "transient"
)

var (
	ErrConflict  = &Error{Kind: KindConflict, Code: "CONFLICT", Message: "conflict"}
	ErrNotFound  = &Error{Kind: KindNotFound, Code: "NOT_FOUND", Message: "not found"}
	ErrAuth      = &Error{Kind: KindAuth, Code: "UNAUTHORIZED", Message: "unauthorized"}
	ErrForbidden = &Error{Kind: KindForbidden, Code: "FORBIDDEN", Message: "forbidden"}
	ErrInvalid   = &Error{Kind: KindInvalid, Code: "INVALID", Message: "invalid request"}
	ErrTransient = &Error{Kind: KindTransient, Code: "TRANSIENT", Message: "temporary failure"}
)

// Error is the error type shared by services, HTTP handlers and the API client.
// Two errors match with errors.Is when their kinds are equal, so callers can test
// against the sentinels above regardless of code or message.
type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Cause)
}

func (e *Error) Unwrap() error { return e.Cause }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// HTTPStatus returns the explicit status or the default one for the kind.
func (e *Error) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	return StatusForKind(e.Kind)
}

func New(kind Kind, code, message string, cause error) *Error {
	return &Error{Kind: kind, Status: StatusForKind(kind), Code: code, Message: message, Cause: cause}
}

func Conflict(code, message string) *Error  { return New(KindConflict, code, message, nil) }
func NotFound(code, message string) *Error  { return New(KindNotFound, code, message, nil) }
func Invalid(code, message string) *Error   { return New(KindInvalid, code, message, nil) }
func Forbidden(code, message string) *Error { return New(KindForbidden, code, message, nil) }
func Unauthorized(code, message string) *Error {
	return New(KindAuth, code, message, nil)
}

func Transient(code, message string, cause error) *Error {
	return New(KindTransient, code, message, cause)
}

func StatusForKind(kind Kind) int {
	switch kind {
	case KindConflict:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindAuth:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindInvalid:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// KindForStatus is the inverse used by HTTP callers. Anything unclassified is transient.
func KindForStatus(status int) Kind {
	switch status {
	case http.StatusConflict:
		return KindConflict
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusUnauthorized:
		return KindAuth
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return KindInvalid
	default:
		return KindTransient
	}
}

// KindOf extracts the kind of err, treating unknown errors as transient.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindTransient
}
