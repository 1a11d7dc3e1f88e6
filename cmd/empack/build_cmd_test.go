package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/empack-dev/empack/internal/state"
)

func TestParseBuildTargets_AllExpandsToMrpackClientServerOnly(t *testing.T) {
	targets, err := parseBuildTargets([]string{"all"})
	require.NoError(t, err)
	assert.Equal(t, []state.BuildTarget{state.TargetMrpack, state.TargetClient, state.TargetServer}, targets)
}

func TestParseBuildTargets_FullTargetsRequireExplicitRequest(t *testing.T) {
	targets, err := parseBuildTargets([]string{"client-full", "server-full"})
	require.NoError(t, err)
	assert.Equal(t, []state.BuildTarget{state.TargetClientFull, state.TargetServerFull}, targets)
}

func TestParseBuildTargets_DeduplicatesRepeatedTargets(t *testing.T) {
	targets, err := parseBuildTargets([]string{"client", "client", "all"})
	require.NoError(t, err)
	assert.Equal(t, []state.BuildTarget{state.TargetClient, state.TargetMrpack, state.TargetServer}, targets)
}

func TestParseBuildTargets_RejectsUnknownTarget(t *testing.T) {
	_, err := parseBuildTargets([]string{"bogus"})
	require.Error(t, err)
}
