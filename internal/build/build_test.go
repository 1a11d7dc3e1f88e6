package build

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/empack-dev/empack/internal/pack"
	"github.com/empack-dev/empack/internal/session"
	"github.com/empack-dev/empack/internal/state"
)

func testMeta() *pack.PackMetadata {
	return &pack.PackMetadata{
		Name:          "Test Pack",
		Version:       "1.0.0",
		MCVersion:     "1.20.1",
		Loader:        pack.LoaderFabric,
		LoaderVersion: "0.14.22",
	}
}

func TestRun_MrpackTargetInvokesPackwiz(t *testing.T) {
	sess := session.NewMockSession()
	sess.Procs.Responses["packwiz --pack-file pack/pack.toml refresh"] = &session.Result{ExitCode: 0}
	sess.Procs.Responses["packwiz mr export --output dist/test-pack-v1.0.0.mrpack.tmp-empack"] = &session.Result{ExitCode: 0}
	sess.Files.Seed("dist/test-pack-v1.0.0.mrpack.tmp-empack", []byte("fake-mrpack-bytes"))

	_, token, err := state.Probe(sess.Files)
	require.NoError(t, err)
	if token == nil {
		token = &state.ConfiguredPack{}
	}

	err = Run(context.Background(), sess, *token, testMeta(), []state.BuildTarget{state.TargetMrpack})
	require.NoError(t, err)

	assert.True(t, sess.Files.Exists("dist/test-pack-v1.0.0.mrpack"))
	require.Len(t, sess.Procs.Calls, 2)
	assert.Equal(t, "packwiz", sess.Procs.Calls[0].Program)
	assert.Equal(t, []string{"--pack-file", "pack/pack.toml", "refresh"}, sess.Procs.Calls[0].Args)
	assert.Equal(t, "packwiz", sess.Procs.Calls[1].Program)
}

func TestRun_RefreshRunsOnceAcrossMultipleTargets(t *testing.T) {
	sess := session.NewMockSession()
	sess.Procs.Responses["packwiz --pack-file pack/pack.toml refresh"] = &session.Result{ExitCode: 0}
	sess.Procs.Responses["packwiz mr export --output dist/test-pack-v1.0.0.mrpack.tmp-empack"] = &session.Result{ExitCode: 0}
	sess.Files.Seed("dist/test-pack-v1.0.0.mrpack.tmp-empack", []byte("fake-mrpack-bytes"))
	sess.Procs.Responses["java -jar installer/packwiz-installer-bootstrap.jar -g pack/pack.toml -s both -d dist/.mrpack-extract/client-full"] = &session.Result{ExitCode: 0}

	err := Run(context.Background(), sess, state.ConfiguredPack{}, testMeta(), []state.BuildTarget{state.TargetMrpack, state.TargetClientFull})
	require.NoError(t, err)

	refreshCalls := 0
	for _, c := range sess.Procs.Calls {
		if c.Program == "packwiz" && len(c.Args) > 0 && c.Args[len(c.Args)-1] == "refresh" {
			refreshCalls++
		}
	}
	assert.Equal(t, 1, refreshCalls)
}

func TestRun_AbortsRemainingTargetsOnFailure(t *testing.T) {
	sess := session.NewMockSession()
	sess.Procs.Responses["packwiz --pack-file pack/pack.toml refresh"] = &session.Result{ExitCode: 0}
	sess.Procs.Responses["packwiz mr export --output dist/test-pack-v1.0.0.mrpack.tmp-empack"] = &session.Result{ExitCode: 1, Stderr: "boom"}

	err := Run(context.Background(), sess, state.ConfiguredPack{}, testMeta(), []state.BuildTarget{state.TargetMrpack, state.TargetClientFull})
	require.Error(t, err)
	assert.Len(t, sess.Procs.Calls, 2)
}
