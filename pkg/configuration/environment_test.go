package configuration

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadEnv_FallsBackToGoModRoot(t *testing.T) {
	tmp := t.TempDir()

	requireWriteFile(t, filepath.Join(tmp, "go.mod"), "module example.com/test\n\ngo 1.22\n")
	requireWriteFile(t, filepath.Join(tmp, ".env.local"), "REL_TEST_ENV_LOAD=ok\n")

	sub := filepath.Join(tmp, "pkg", "relclient")
	requireMkdirAll(t, sub)
	t.Chdir(sub)

	_ = os.Unsetenv("REL_TEST_ENV_LOAD")

	n, err := LoadEnv([]string{".env", ".env.local"})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Equal(t, "ok", os.Getenv("REL_TEST_ENV_LOAD"))
}

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	c, err := Load(nil)
	require.NoError(t, err)
	t.Cleanup(c.Unload)

	require.Equal(t, StorageMemory, c.Storage)
	require.Equal(t, "memory", c.Session.Store)
	require.Equal(t, 720*time.Hour, c.Session.Duration)
	require.Equal(t, "localhost:3200", c.SocketAddress)
	require.Equal(t, "X-Client-ID", c.ClientScopeHeader)
	require.NotNil(t, c.Logger())
}

func TestLoad_RejectsUnknownStorage(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("STORAGE", "mongo")

	_, err := Load(nil)
	require.ErrorContains(t, err, "invalid STORAGE")
}

func TestLoad_NormalizesAuthzMode(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("AUTHZ_MODE", " Disabled ")

	c, err := Load(nil)
	require.NoError(t, err)
	t.Cleanup(c.Unload)
	require.Equal(t, "disabled", c.Authz.Mode)
}

func TestRateLimitOptions_Validate(t *testing.T) {
	r := RateLimitOptions{GlobalRPS: 10, Storage: "redis"}
	require.Error(t, r.Validate())

	r.RedisURL = "redis://localhost:6379"
	require.NoError(t, r.Validate())
}

func requireWriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func requireMkdirAll(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(path, 0o755))
}
