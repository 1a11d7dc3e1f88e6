package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/empack-dev/empack/internal/session"
)

func TestProbe_Uninitialized(t *testing.T) {
	fs := session.NewMockFileSystem()
	st, token, err := Probe(fs)
	require.NoError(t, err)
	assert.Equal(t, Uninitialized, st)
	assert.Nil(t, token)
}

func TestProbe_Configured(t *testing.T) {
	fs := session.NewMockFileSystem()
	require.NoError(t, fs.WriteAtomic("pack/pack.toml", []byte("name=\"x\""), 0o644))

	st, token, err := Probe(fs)
	require.NoError(t, err)
	assert.Equal(t, Configured, st)
	require.NotNil(t, token)
	assert.Equal(t, Configured, token.State())
}

func TestProbe_Built(t *testing.T) {
	fs := session.NewMockFileSystem()
	require.NoError(t, fs.WriteAtomic("pack/pack.toml", []byte("name=\"x\""), 0o644))
	require.NoError(t, fs.WriteAtomic("dist/client/.gitkeep", nil, 0o644))
	require.NoError(t, fs.WriteAtomic("dist/client/mods.jar", []byte("x"), 0o644))

	st, _, err := Probe(fs)
	require.NoError(t, err)
	assert.Equal(t, Built, st)
}

func TestProbe_BuiltIgnoresGitkeepOnly(t *testing.T) {
	fs := session.NewMockFileSystem()
	require.NoError(t, fs.WriteAtomic("pack/pack.toml", []byte("name=\"x\""), 0o644))
	require.NoError(t, fs.WriteAtomic("dist/client/.gitkeep", nil, 0o644))

	st, _, err := Probe(fs)
	require.NoError(t, err)
	assert.Equal(t, Configured, st)
}

func TestProbe_Archived(t *testing.T) {
	fs := session.NewMockFileSystem()
	require.NoError(t, fs.WriteAtomic("pack/pack.toml", []byte("name=\"x\""), 0o644))
	require.NoError(t, fs.WriteAtomic("dist/demo-v1.0.0.mrpack", []byte("x"), 0o644))

	st, _, err := Probe(fs)
	require.NoError(t, err)
	assert.Equal(t, Archived, st)
}

func TestProbe_Idempotent(t *testing.T) {
	fs := session.NewMockFileSystem()
	require.NoError(t, fs.WriteAtomic("pack/pack.toml", []byte("name=\"x\""), 0o644))

	st1, _, err := Probe(fs)
	require.NoError(t, err)
	st2, _, err := Probe(fs)
	require.NoError(t, err)
	assert.Equal(t, st1, st2)
}

func TestPlan_InitializeFromUninitialized(t *testing.T) {
	plan, err := Plan(Uninitialized, InitializeTransition{})
	require.NoError(t, err)
	assert.Equal(t, Uninitialized, plan.From)
	assert.Equal(t, Configured, plan.To)
	assert.NotEmpty(t, plan.Steps)
}

func TestPlan_InitializeFromConfiguredIsInvalid(t *testing.T) {
	_, err := Plan(Configured, InitializeTransition{})
	require.Error(t, err)
	assert.IsType(t, err, err)
}

func TestPlan_BuildOnUninitializedIsInvalid(t *testing.T) {
	_, err := Plan(Uninitialized, BuildTransition{Targets: []BuildTarget{TargetMrpack}})
	require.Error(t, err)
}

func TestPlan_BuildWithNoTargetsIsMissingPrerequisite(t *testing.T) {
	_, err := Plan(Configured, BuildTransition{})
	require.Error(t, err)
}

func TestPlan_SynchronizeOnUninitializedIsMissingPrerequisite(t *testing.T) {
	_, err := Plan(Uninitialized, SynchronizeTransition{})
	require.Error(t, err)
}

func TestPlan_CleanDistOnUninitializedIsMissingPrerequisite(t *testing.T) {
	_, err := Plan(Uninitialized, CleanTransition{Scope: CleanDist})
	require.Error(t, err)
}

func TestPlan_CleanAllTerminatesAtUninitialized(t *testing.T) {
	plan, err := Plan(Built, CleanTransition{Scope: CleanAll})
	require.NoError(t, err)
	assert.Equal(t, Uninitialized, plan.To)
}

func TestBuildTarget_Requires(t *testing.T) {
	assert.Equal(t, []BuildTarget{TargetMrpack}, TargetClient.Requires())
	assert.Equal(t, []BuildTarget{TargetMrpack}, TargetServer.Requires())
	assert.Empty(t, TargetMrpack.Requires())
	assert.Empty(t, TargetClientFull.Requires())
}
