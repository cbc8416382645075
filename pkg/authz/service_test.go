package authz

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ZSuraj/abcd-sub000/pkg/serrors"
	"github.com/ZSuraj/abcd-sub000/pkg/session"
)

func newTestService(t *testing.T, mode Mode) *Service {
	t.Helper()
	svc, err := NewService(Config{FlagProvider: StaticFlagProvider(mode)})
	require.NoError(t, err)
	return svc
}

func TestServiceAuthorize_DefaultPolicy(t *testing.T) {
	svc := newTestService(t, ModeEnforce)
	admin := &session.Session{Role: session.RoleAdmin}
	manager := &session.Session{Role: session.RoleManager}
	employee := &session.Session{Role: session.RoleEmployee}

	tests := []struct {
		name    string
		s       *session.Session
		object  string
		action  string
		allowed bool
	}{
		{"admin reads graph", admin, ObjectGraph, ActionRead, true},
		{"admin writes graph", admin, ObjectGraph, ActionWrite, true},
		{"admin reads directory", admin, ObjectDirectory, ActionRead, true},
		{"admin cannot use scoped view", admin, ObjectScoped, ActionRead, false},
		{"manager writes scoped", manager, ObjectScoped, ActionWrite, true},
		{"manager cannot write graph", manager, ObjectGraph, ActionWrite, false},
		{"manager reads directory", manager, ObjectDirectory, ActionRead, true},
		{"employee denied", employee, ObjectGraph, ActionRead, false},
		{"anonymous denied", nil, ObjectDirectory, ActionRead, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Authorize(context.Background(), RequestFor(tt.s, tt.object, tt.action))
			if tt.allowed {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, serrors.ErrForbidden)
		})
	}
}

func TestServiceAuthorize_ShadowAndDisabled(t *testing.T) {
	req := RequestFor(&session.Session{Role: session.RoleEmployee}, ObjectGraph, ActionWrite)

	require.NoError(t, newTestService(t, ModeShadow).Authorize(context.Background(), req))
	require.NoError(t, newTestService(t, ModeDisabled).Authorize(context.Background(), req))

	allowed, err := newTestService(t, ModeShadow).Check(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestServiceMode_FromFlagFile(t *testing.T) {
	svc, err := NewService(Config{
		FlagPath: filepath.Join("testdata", "authz_flags.yaml"),
		FlagMode: ModeEnforce,
	})
	require.NoError(t, err)
	assert.Equal(t, ModeShadow, svc.Mode())
}

func TestServiceMode_MissingFlagFileFallsBack(t *testing.T) {
	svc, err := NewService(Config{
		FlagPath: filepath.Join(t.TempDir(), "missing.yaml"),
		FlagMode: ModeDisabled,
	})
	require.NoError(t, err)
	assert.Equal(t, ModeDisabled, svc.Mode())
}

func TestNewService_CustomFiles(t *testing.T) {
	dir := t.TempDir()
	modelPath := filepath.Join(dir, "model.conf")
	policyPath := filepath.Join(dir, "policy.csv")
	require.NoError(t, os.WriteFile(modelPath, []byte(defaultModel), 0o644))
	require.NoError(t, os.WriteFile(policyPath, []byte("p, role:employee, relationships.directory, read\n"), 0o644))

	svc, err := NewService(Config{
		ModelPath:    modelPath,
		PolicyPath:   policyPath,
		FlagProvider: StaticFlagProvider(ModeEnforce),
	})
	require.NoError(t, err)

	employee := &session.Session{Role: session.RoleEmployee}
	require.NoError(t, svc.Authorize(context.Background(), RequestFor(employee, ObjectDirectory, ActionRead)))
	require.Error(t, svc.Authorize(context.Background(), RequestFor(&session.Session{Role: session.RoleAdmin}, ObjectGraph, ActionRead)))
}

func TestNewService_RejectsHalfConfiguredPaths(t *testing.T) {
	_, err := NewService(Config{ModelPath: "model.conf"})
	require.ErrorContains(t, err, "set together")
}

func TestTypes(t *testing.T) {
	assert.Equal(t, "role:admin", SubjectForRole(" Admin "))
	assert.Equal(t, "role:anonymous", SubjectForRole(""))
	assert.Equal(t, "role:manager", SubjectForRole("role:manager"))
	assert.Equal(t, "relationships.graph", ObjectName("Relationships", "Graph"))
	assert.Equal(t, "*", NormalizeAction(""))
}
