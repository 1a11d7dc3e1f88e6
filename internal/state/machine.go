// Package state implements empack's lifecycle state machine: a pure
// function from a probed workspace state to a plan, and a separate apply
// step that is the only path allowed to perform side effects.
package state

import (
	"strings"

	"github.com/empack-dev/empack/internal/session"
)

// ModpackState is the workspace's derived lifecycle stage. It is never
// stored; every command re-probes (spec.md §3).
type ModpackState string

const (
	Uninitialized ModpackState = "uninitialized"
	Configured    ModpackState = "configured"
	Built         ModpackState = "built"
	Archived      ModpackState = "archived"
)

// ConfiguredPack is a type-state token obtained only from a successful
// Probe when the workspace is past Uninitialized. Operations that require
// pack.toml to exist (build, sync) take this token as a parameter so the
// compiler — not a runtime check — prevents calling them on an
// unconfigured workspace (spec.md §9).
type ConfiguredPack struct {
	state ModpackState
}

// State returns the probed state the token was minted from.
func (c ConfiguredPack) State() ModpackState { return c.state }

// Probe classifies the workspace by reading the filesystem. It is
// idempotent and performs no writes (spec.md §8).
func Probe(fs session.FileSystem) (ModpackState, *ConfiguredPack, error) {
	if !fs.Exists("pack/pack.toml") {
		return Uninitialized, nil, nil
	}

	state := Configured

	if hasArchives(fs) {
		state = Archived
	} else if hasBuiltTargets(fs) {
		state = Built
	}

	return state, &ConfiguredPack{state: state}, nil
}

func hasBuiltTargets(fs session.FileSystem) bool {
	targets := []string{"dist/client", "dist/server", "dist/client-full", "dist/server-full"}
	for _, dir := range targets {
		if dirHasRealContent(fs, dir) {
			return true
		}
	}
	return false
}

func dirHasRealContent(fs session.FileSystem, dir string) bool {
	entries, err := fs.List(dir)
	if err != nil {
		return false
	}
	for _, e := range entries {
		if e.Name() != ".gitkeep" {
			return true
		}
	}
	return false
}

func hasArchives(fs session.FileSystem) bool {
	entries, err := fs.List("dist")
	if err != nil {
		return false
	}
	for _, e := range entries {
		name := e.Name()
		if strings.HasSuffix(name, ".zip") || strings.HasSuffix(name, ".mrpack") {
			return true
		}
	}
	return false
}
