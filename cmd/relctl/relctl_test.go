package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"gopkg.in/yaml.v3"

	"github.com/ZSuraj/abcd-sub000/modules/auth"
	authpersistence "github.com/ZSuraj/abcd-sub000/modules/auth/infrastructure/persistence"
	authseed "github.com/ZSuraj/abcd-sub000/modules/auth/seed"
	"github.com/ZSuraj/abcd-sub000/modules/relationship"
	"github.com/ZSuraj/abcd-sub000/modules/relationship/infrastructure/persistence"
	relseed "github.com/ZSuraj/abcd-sub000/modules/relationship/seed"
	"github.com/ZSuraj/abcd-sub000/pkg/application"
	"github.com/ZSuraj/abcd-sub000/pkg/middleware"
	"github.com/ZSuraj/abcd-sub000/pkg/relclient"
	"github.com/ZSuraj/abcd-sub000/pkg/serrors"
	"github.com/ZSuraj/abcd-sub000/pkg/session"
)

const demoPassword = "demo-pass"

func startServer(t *testing.T) string {
	t.Helper()
	ctx := context.Background()
	logger, _ := logtest.NewNullLogger()
	app := application.New(&application.ApplicationOptions{Logger: logger})

	repo := persistence.NewMemoryRepository()
	users := authpersistence.NewMemoryUserRepository()
	tokens := session.NewMemoryTokenStore()
	require.NoError(t, application.LoadModules(app,
		auth.NewModule(&auth.ModuleOptions{Users: users, Tokens: tokens}),
		relationship.NewModule(&relationship.ModuleOptions{Repository: repo, Transactor: repo}),
	))
	seeder := application.NewSeeder()
	seeder.Register(
		relseed.DemoSeedFunc(repo, repo),
		authseed.UserSeedFunc(users, demoPassword, relseed.DemoManagerMona),
	)
	require.NoError(t, seeder.Seed(ctx, app))

	r := mux.NewRouter()
	r.Use(middleware.WithSession(tokens))
	for _, c := range app.Controllers() {
		c.Register(r)
	}
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv.URL
}

type cli struct {
	sessionFile string
}

func (c cli) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd, opts := newRootCmd()
	var out bytes.Buffer
	opts.out = &out
	cmd.SetArgs(append([]string{"--session-file", c.sessionFile}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func login(t *testing.T, baseURL, email string) cli {
	t.Helper()
	c := cli{sessionFile: filepath.Join(t.TempDir(), "session.json")}
	out, err := c.run(t, "--base-url", baseURL, "login", "--email", email, "--password", demoPassword)
	require.NoError(t, err)
	assert.Contains(t, out, "logged in as "+email)
	return c
}

func TestRelctl_TreeAndWhoami(t *testing.T) {
	baseURL := startServer(t)
	c := login(t, baseURL, "admin@relationships.example")

	out, err := c.run(t, "whoami")
	require.NoError(t, err)
	assert.Contains(t, out, "role=admin")

	out, err = c.run(t, "tree", "-o", "json")
	require.NoError(t, err)
	var tree []relclient.ClientNode
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	require.Len(t, tree, 3)

	out, err = c.run(t, "managers", "-o", "yaml")
	require.NoError(t, err)
	var managers []map[string]string
	require.NoError(t, yaml.Unmarshal([]byte(out), &managers))
	require.Len(t, managers, 2)
	assert.Contains(t, []string{managers[0]["name"], managers[1]["name"]}, "Mona Lane")
}

func TestRelctl_MutationReportsChanges(t *testing.T) {
	baseURL := startServer(t)
	c := login(t, baseURL, "admin@relationships.example")

	clientsOut, err := c.run(t, "clients", "-q", "initech", "-o", "json")
	require.NoError(t, err)
	var clients []relclient.DirectoryEntry
	require.NoError(t, json.Unmarshal([]byte(clientsOut), &clients))
	require.NotEmpty(t, clients)
	initech := clients[0].ID

	out, err := c.run(t, "add-manager", "--client-id", initech.String(), "--manager-id", relseed.DemoManagerMax.String(), "-o", "json")
	require.NoError(t, err)
	var report struct {
		Result  relclient.ManagerAssignment `json:"result"`
		Changes []map[string]any            `json:"changes"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &report))
	assert.Equal(t, relseed.DemoManagerMax, report.Result.ManagerID)
	assert.NotEmpty(t, report.Changes)

	_, err = c.run(t, "add-manager", "--client-id", initech.String(), "--manager-id", relseed.DemoManagerMax.String())
	require.ErrorIs(t, err, serrors.ErrConflict)
	assert.Equal(t, exitConflict, exitCode(err))
}

func TestRelctl_RequiresLogin(t *testing.T) {
	c := cli{sessionFile: filepath.Join(t.TempDir(), "missing.json")}
	_, err := c.run(t, "tree")
	require.ErrorIs(t, err, serrors.ErrAuth)
	assert.Equal(t, exitAuth, exitCode(err))

	_, err = c.run(t, "tree", "-o", "xml")
	assert.Equal(t, exitInvalid, exitCode(err))
}

func TestRelctl_ManagerCannotAssignManagers(t *testing.T) {
	baseURL := startServer(t)
	c := login(t, baseURL, "manager@relationships.example")

	out, err := c.run(t, "tree", "-o", "json")
	require.NoError(t, err)
	var tree []relclient.ScopedClientNode
	require.NoError(t, json.Unmarshal([]byte(out), &tree))
	require.Len(t, tree, 1)

	_, err = c.run(t, "assign-manager", "--client-id", tree[0].ID.String(), "--manager-id", relseed.DemoManagerMax.String())
	require.ErrorIs(t, err, serrors.ErrForbidden)
	assert.Equal(t, exitForbidden, exitCode(err))
}

func TestRelctl_Export(t *testing.T) {
	baseURL := startServer(t)
	c := login(t, baseURL, "admin@relationships.example")
	file := filepath.Join(t.TempDir(), "tree.xlsx")

	_, err := c.run(t, "export", "--file", file)
	require.NoError(t, err)

	f, err := excelize.OpenFile(file)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	// header, Acme × 2 employees, Globex × 1, Initech without manager
	require.Len(t, rows, 5)
	assert.Equal(t, "Client ID", rows[0][0])
}

func TestExportRows(t *testing.T) {
	c := uuid.New()
	rows := exportRows([]relclient.ClientNode{{ID: c, Name: "Solo", Email: "solo@x.test"}})
	require.Len(t, rows, 1)
	assert.Len(t, rows[0], len(exportHeader))
	assert.Equal(t, c.String(), rows[0][0])
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitFailure, exitCode(errors.New("boom")))
	assert.Equal(t, exitNotFound, exitCode(serrors.NotFound("X", "missing")))
	assert.Equal(t, exitTransient, exitCode(serrors.Transient("X", "down", nil)))
}
