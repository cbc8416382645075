package server_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/ZSuraj/abcd-sub000/internal/server"
	"github.com/ZSuraj/abcd-sub000/pkg/application"
	"github.com/ZSuraj/abcd-sub000/pkg/configuration"
	"github.com/ZSuraj/abcd-sub000/pkg/httpapi"
	"github.com/ZSuraj/abcd-sub000/pkg/session"
)

type pingController struct{}

func (pingController) Key() string { return "/ping" }

func (pingController) Register(r *mux.Router) {
	r.HandleFunc("/ping", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)
	r.HandleFunc("/boom", func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}).Methods(http.MethodGet)
}

func newHandler(t *testing.T) http.Handler {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app := application.New(&application.ApplicationOptions{Logger: logger})
	app.RegisterControllers(pingController{})

	srv, err := server.Default(&server.DefaultOptions{
		Logger: logger,
		Configuration: &configuration.Configuration{
			RequestIDHeader:   "X-Request-ID",
			RealIPHeader:      "X-Real-IP",
			ClientScopeHeader: "X-Client-ID",
			CorsOrigins:       []string{"http://localhost:3000"},
			Prometheus:        configuration.PrometheusOptions{Path: "/debug/prometheus"},
		},
		Application: app,
		Tokens:      session.NewMemoryTokenStore(),
	})
	require.NoError(t, err)
	return srv.Handler()
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) httpapi.ErrorEnvelope {
	t.Helper()
	require.Contains(t, rr.Header().Get("Content-Type"), "application/json")
	var env httpapi.ErrorEnvelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

func TestDefault_ErrorContracts(t *testing.T) {
	h := newHandler(t)

	t.Run("404_is_json", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/__nonexistent__", nil)
		req.Header.Set("X-Request-ID", "req-404")
		h.ServeHTTP(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
		require.Equal(t, "req-404", rr.Header().Get("X-Request-Id"))
		env := decodeError(t, rr)
		require.Equal(t, "NOT_FOUND", env.Code)
		require.Equal(t, "/__nonexistent__", env.Meta["path"])
	})

	t.Run("405_is_json", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/ping", nil))

		require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
		env := decodeError(t, rr)
		require.Equal(t, "METHOD_NOT_ALLOWED", env.Code)
		require.Equal(t, http.MethodPost, env.Meta["method"])
		require.Equal(t, "/ping", env.Meta["path"])
	})

	t.Run("panic_is_json_500", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/boom", nil)
		req.Header.Set("X-Request-ID", "req-panic")
		h.ServeHTTP(rr, req)

		require.Equal(t, http.StatusInternalServerError, rr.Code)
		env := decodeError(t, rr)
		require.Equal(t, "INTERNAL", env.Code)
		require.Equal(t, "req-panic", env.Meta["request_id"])
	})

	t.Run("invalid_token_is_rejected", func(t *testing.T) {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("Authorization", "Bearer not-a-token")
		h.ServeHTTP(rr, req)

		require.Equal(t, http.StatusUnauthorized, rr.Code)
		require.Equal(t, "AUTH_INVALID_TOKEN", decodeError(t, rr).Code)
	})

	t.Run("ok_route", func(t *testing.T) {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))
		require.Equal(t, http.StatusOK, rr.Code)
	})
}
