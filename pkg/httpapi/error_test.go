package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ZSuraj/abcd-sub000/pkg/serrors"
)

func TestWriteData_WrapsPayload(t *testing.T) {
	rr := httptest.NewRecorder()
	require.NoError(t, WriteData(rr, http.StatusOK, []string{"a"}))

	require.Equal(t, http.StatusOK, rr.Code)
	require.JSONEq(t, `{"data":["a"]}`, rr.Body.String())
}

func TestWriteServiceError_UsesKindStatus(t *testing.T) {
	rr := httptest.NewRecorder()
	err := serrors.Conflict("REL_EMPLOYEE_PRESENT", "employee already attached")
	require.NoError(t, WriteServiceError(rr, "req-1", err))

	require.Equal(t, http.StatusConflict, rr.Code)
	var env ErrorEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	require.Equal(t, "REL_EMPLOYEE_PRESENT", env.Code)
	require.Equal(t, "req-1", env.Meta["request_id"])
}

func TestWriteServiceError_HidesUnknownErrors(t *testing.T) {
	rr := httptest.NewRecorder()
	require.NoError(t, WriteServiceError(rr, "", errors.New("password=secret")))

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	require.NotContains(t, rr.Body.String(), "secret")
}

func TestDecodeJSON_RejectsUnknownFields(t *testing.T) {
	var out struct {
		ClientID string `json:"client_id"`
	}
	err := DecodeJSON(io.NopCloser(strings.NewReader(`{"client_id":"x","employee_id":"y"}`)), &out)
	require.Error(t, err)
}
