package state

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/empack-dev/empack/internal/session"
)

func TestApply_InitializeStagesWorkspaceAndWritesPack(t *testing.T) {
	sess := session.NewMockSession()
	sess.Net.Seed("https://piston-meta.mojang.com/mc/game/version_manifest_v2.json", nil,
		[]byte(`{"latest":{"release":"1.21.1"},"versions":[{"id":"1.21.1","type":"release"}]}`))
	sess.Net.Seed("https://meta.fabricmc.net/v2/versions/loader/1.21.1", nil,
		[]byte(`[{"loader":{"version":"0.16.9","stable":true}}]`))
	sess.Net.SeedRaw("https://github.com/packwiz/packwiz-installer-bootstrap/releases/download/v0.0.3/packwiz-installer-bootstrap.jar", nil, []byte("fake-jar-bytes"))

	plan, err := Plan(Uninitialized, InitializeTransition{
		Name:      "Test Pack",
		Version:   "1.0.0",
		MCVersion: "latest",
	})
	require.NoError(t, err)

	err = Apply(context.Background(), sess, plan)
	require.NoError(t, err)

	assert.True(t, sess.Files.Exists("pack/.gitkeep"))
	assert.True(t, sess.Files.Exists("dist/client/.gitkeep"))
	assert.True(t, sess.Files.Exists("templates/server/.gitkeep"))
	assert.True(t, sess.Files.Exists("installer/packwiz-installer-bootstrap.jar"))

	require.Len(t, sess.Procs.Calls, 1)
	assert.Equal(t, "packwiz", sess.Procs.Calls[0].Program)
	assert.Contains(t, sess.Procs.Calls[0].Args, "--modloader")
	assert.Contains(t, sess.Procs.Calls[0].Args, "fabric")
}

func TestApply_CleanDistPreservesSubdirectories(t *testing.T) {
	sess := session.NewMockSession()
	require.NoError(t, sess.Files.WriteAtomic("dist/client/.gitkeep", nil, 0o644))
	require.NoError(t, sess.Files.WriteAtomic("dist/client/modpack-client.zip", []byte("x"), 0o644))
	require.NoError(t, sess.Files.WriteAtomic("pack/pack.toml", []byte("name=\"x\""), 0o644))

	plan, err := Plan(Built, CleanTransition{Scope: CleanDist})
	require.NoError(t, err)

	err = Apply(context.Background(), sess, plan)
	require.NoError(t, err)

	assert.False(t, sess.Files.Exists("dist/client/modpack-client.zip"))
	assert.True(t, sess.Files.Exists("dist/client/.gitkeep"))
	assert.True(t, sess.Files.Exists("pack/pack.toml"))
}

func TestApply_CleanAllRemovesPackDirectory(t *testing.T) {
	sess := session.NewMockSession()
	require.NoError(t, sess.Files.WriteAtomic("pack/pack.toml", []byte("name=\"x\""), 0o644))

	plan, err := Plan(Configured, CleanTransition{Scope: CleanAll})
	require.NoError(t, err)

	err = Apply(context.Background(), sess, plan)
	require.NoError(t, err)

	assert.False(t, sess.Files.Exists("pack/pack.toml"))
}

func TestApply_RejectsBuildAndSynchronize(t *testing.T) {
	sess := session.NewMockSession()
	plan := &TransitionPlan{From: Configured, To: Built, Transition: BuildTransition{Targets: []BuildTarget{TargetMrpack}}}
	err := Apply(context.Background(), sess, plan)
	require.Error(t, err)

	plan = &TransitionPlan{From: Configured, To: Configured, Transition: SynchronizeTransition{}}
	err = Apply(context.Background(), sess, plan)
	require.Error(t, err)
}
