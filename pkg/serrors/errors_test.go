package serrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestError_IsMatchesByKind(t *testing.T) {
	err := Conflict("REL_EMPLOYEE_PRESENT", "employee already attached")
	wrapped := fmt.Errorf("add employee: %w", err)

	require.ErrorIs(t, wrapped, ErrConflict)
	require.NotErrorIs(t, wrapped, ErrNotFound)
	require.Equal(t, http.StatusConflict, err.HTTPStatus())
}

func TestError_UnwrapsCause(t *testing.T) {
	cause := errors.New("connection reset")
	err := Transient("REL_STORAGE", "storage failure", cause)

	require.ErrorIs(t, err, cause)
	require.Equal(t, "storage failure: connection reset", err.Error())
}

func TestKindForStatus(t *testing.T) {
	cases := map[int]Kind{
		http.StatusConflict:            KindConflict,
		http.StatusNotFound:            KindNotFound,
		http.StatusUnauthorized:        KindAuth,
		http.StatusForbidden:           KindForbidden,
		http.StatusUnprocessableEntity: KindInvalid,
		http.StatusBadGateway:          KindTransient,
	}
	for status, want := range cases {
		require.Equal(t, want, KindForStatus(status), "status %d", status)
	}
}

func TestKindOf_UnknownIsTransient(t *testing.T) {
	require.Equal(t, KindTransient, KindOf(errors.New("boom")))
	require.Equal(t, KindNotFound, KindOf(NotFound("X", "missing")))
	require.Equal(t, Kind(""), KindOf(nil))
}
