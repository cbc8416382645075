package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZSuraj/abcd-sub000/modules/relationship"
	domain "github.com/ZSuraj/abcd-sub000/modules/relationship/domain/relationship"
	"github.com/ZSuraj/abcd-sub000/modules/relationship/infrastructure/persistence"
	"github.com/ZSuraj/abcd-sub000/pkg/application"
	"github.com/ZSuraj/abcd-sub000/pkg/composables"
	"github.com/ZSuraj/abcd-sub000/pkg/eventbus"
	"github.com/ZSuraj/abcd-sub000/pkg/httpapi"
	"github.com/ZSuraj/abcd-sub000/pkg/session"
)

type apiFixture struct {
	router *mux.Router
	repo   *persistence.MemoryRepository

	acme  domain.Client
	mona  domain.Manager
	erin  domain.Employee
	eve   domain.Employee
	admin *session.Session
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	ctx := context.Background()
	logger, _ := logtest.NewNullLogger()
	repo := persistence.NewMemoryRepository()
	app := application.New(&application.ApplicationOptions{
		Logger:   logger,
		EventBus: eventbus.NewEventPublisher(logger),
	})
	require.NoError(t, application.LoadModules(app, relationship.NewModule(&relationship.ModuleOptions{
		Repository: repo,
		Transactor: repo,
	})))

	f := &apiFixture{
		router: mux.NewRouter(),
		repo:   repo,
		acme:   domain.Client{ID: uuid.New(), Name: "Acme", Email: "ops@acme.test"},
		mona:   domain.Manager{ID: uuid.New(), Name: "Mona", Email: "mona@corp.test"},
		erin:   domain.Employee{ID: uuid.New(), Name: "Erin", Email: "erin@corp.test"},
		eve:    domain.Employee{ID: uuid.New(), Name: "Eve", Email: "eve@corp.test"},
		admin:  &session.Session{Token: "admin", UserID: uuid.New(), Role: session.RoleAdmin},
	}
	require.NoError(t, repo.CreateClient(ctx, f.acme))
	require.NoError(t, repo.CreateManager(ctx, f.mona))
	require.NoError(t, repo.CreateEmployee(ctx, f.erin))
	require.NoError(t, repo.CreateEmployee(ctx, f.eve))

	for _, c := range app.Controllers() {
		c.Register(f.router)
	}
	return f
}

func (f *apiFixture) do(t *testing.T, s *session.Session, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if s != nil {
		req = req.WithContext(composables.WithSession(req.Context(), s))
	}
	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) httpapi.ErrorEnvelope {
	t.Helper()
	var env httpapi.ErrorEnvelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	return env
}

func TestRelationshipAPI_RequiresSession(t *testing.T) {
	f := newAPIFixture(t)
	rr := f.do(t, nil, http.MethodGet, "/relationships", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, "AUTH_REQUIRED", decodeError(t, rr).Code)
}

func TestRelationshipAPI_CreateThenReadTree(t *testing.T) {
	f := newAPIFixture(t)

	rr := f.do(t, f.admin, http.MethodPost, "/relationships", map[string]any{
		"client_id":    f.acme.ID,
		"manager_id":   f.mona.ID,
		"employee_ids": []uuid.UUID{f.erin.ID, f.eve.ID},
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var created httpapi.DataEnvelope[domain.CreateRelationshipResult]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	assert.Equal(t, f.acme.ID, created.Data.ClientID)
	assert.Len(t, created.Data.Employees, 2)

	rr = f.do(t, f.admin, http.MethodGet, "/relationships", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var tree httpapi.DataEnvelope[[]domain.ClientNode]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tree))
	require.Len(t, tree.Data, 1)
	require.Len(t, tree.Data[0].Managers, 1)
	assert.Equal(t, f.mona.ID, tree.Data[0].Managers[0].ID)
	assert.Len(t, tree.Data[0].Managers[0].Employees, 2)
}

func TestRelationshipAPI_ManagerConflict(t *testing.T) {
	f := newAPIFixture(t)
	body := map[string]any{"client_id": f.acme.ID, "manager_id": f.mona.ID, "action": "add"}

	rr := f.do(t, f.admin, http.MethodPost, "/relationships/manager", body)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = f.do(t, f.admin, http.MethodPost, "/relationships/manager", body)
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestRelationshipAPI_ValidationErrors(t *testing.T) {
	f := newAPIFixture(t)

	rr := f.do(t, f.admin, http.MethodPost, "/relationships/manager", map[string]any{
		"client_id":  "not-a-uuid",
		"manager_id": f.mona.ID,
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)
	env := decodeError(t, rr)
	assert.Equal(t, "REL_INVALID_BODY", env.Code)
	assert.Contains(t, env.Meta, "client_id")

	rr = f.do(t, f.admin, http.MethodPost, "/relationships/manager", map[string]any{
		"client_id": f.acme.ID, "manager_id": f.mona.ID, "unexpected": true,
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(t, f.admin, http.MethodDelete, "/relationships/employee?client_id=oops", nil)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "REL_INVALID_QUERY", decodeError(t, rr).Code)
}

func TestRelationshipAPI_EmployeeLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()
	edge, err := f.repo.CreateEdge(ctx, f.acme.ID, f.mona.ID)
	require.NoError(t, err)

	rr := f.do(t, f.admin, http.MethodPost, "/relationships/employee", map[string]any{
		"client_id": f.acme.ID, "manager_id": f.mona.ID, "employee_id": f.erin.ID,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = f.do(t, f.admin, http.MethodPost, "/relationships/employee", map[string]any{
		"client_id": f.acme.ID, "manager_id": f.mona.ID, "employee_id": f.eve.ID,
		"replace_employee_id": f.erin.ID,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var replaced map[string]map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &replaced))
	assert.Equal(t, "replace", replaced["data"]["action"])
	assert.Equal(t, f.erin.ID.String(), replaced["data"]["previous_employee_id"])

	rr = f.do(t, f.admin, http.MethodDelete,
		"/relationships/employee?client_id="+f.acme.ID.String()+"&manager_id="+f.mona.ID.String()+"&employee_id="+f.eve.ID.String(), nil)
	require.Equal(t, http.StatusNoContent, rr.Code, rr.Body.String())

	got, err := f.repo.GetEdge(ctx, f.acme.ID, f.mona.ID)
	require.NoError(t, err)
	assert.Equal(t, edge.ID, got.ID)
	assert.Empty(t, got.EmployeeIDs)
}

func TestRelationshipAPI_ManagerSeesScopedTree(t *testing.T) {
	f := newAPIFixture(t)
	ctx := context.Background()
	edge, err := f.repo.CreateEdge(ctx, f.acme.ID, f.mona.ID)
	require.NoError(t, err)
	require.NoError(t, f.repo.AddEdgeEmployee(ctx, edge.ID, f.erin.ID))

	manager := &session.Session{Token: "mgr", UserID: uuid.New(), Role: session.RoleManager, SubjectID: f.mona.ID}
	rr := f.do(t, manager, http.MethodGet, "/relationships", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var tree httpapi.DataEnvelope[[]domain.ScopedClientNode]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &tree))
	require.Len(t, tree.Data, 1)
	assert.Equal(t, f.acme.ID, tree.Data[0].ID)
	require.Len(t, tree.Data[0].Employees, 1)
	assert.Equal(t, f.erin.ID, tree.Data[0].Employees[0].ID)

	rr = f.do(t, manager, http.MethodPost, "/relationships/manager", map[string]any{
		"client_id": f.acme.ID, "manager_id": f.mona.ID,
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)
}

func TestRelationshipAPI_Directory(t *testing.T) {
	f := newAPIFixture(t)

	rr := f.do(t, f.admin, http.MethodGet, "/employees?q=eve", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var entries httpapi.DataEnvelope[[]domain.DirectoryEntry]
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &entries))
	require.NotEmpty(t, entries.Data)
	assert.Equal(t, f.eve.ID, entries.Data[0].ID)
}
