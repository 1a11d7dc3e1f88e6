package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/empack-dev/empack/internal/core"
	"github.com/empack-dev/empack/internal/pack"
	"github.com/empack-dev/empack/internal/resolver"
	"github.com/empack-dev/empack/internal/session"
	"github.com/empack-dev/empack/internal/state"
)

// printPlan renders a TransitionPlan's steps for --dry-run, the same
// "would: <step>" line format clean_cmd uses.
func printPlan(cmd *cobra.Command, plan *state.TransitionPlan) error {
	for _, step := range plan.Steps {
		fmt.Fprintf(cmd.OutOrStdout(), "would: %s\n", step.Description)
	}
	return nil
}

const packTomlPath = "pack/" + core.PackTomlName
const packIndexPath = core.PackIndexRel

// requireConfigured probes the workspace and fails with the same
// InvalidTransitionError the state machine would produce for any
// command that needs pack.toml to already exist.
func requireConfigured(sess session.Session) (state.ConfiguredPack, error) {
	st, configured, err := state.Probe(sess.FS())
	if err != nil {
		return state.ConfiguredPack{}, err
	}
	if configured == nil {
		return state.ConfiguredPack{}, core.NewInvalidTransitionError(string(st), "this command")
	}
	return *configured, nil
}

func loadPackMetadata(sess session.Session) (*pack.PackMetadata, error) {
	data, err := sess.FS().Read(packTomlPath)
	if err != nil {
		return nil, core.NewPackError(packTomlPath, err)
	}
	return pack.ParsePackToml(data)
}

func loadPackIndex(sess session.Session) (*pack.PackIndex, error) {
	if !sess.FS().Exists(packIndexPath) {
		return pack.ParsePackIndex(nil)
	}
	data, err := sess.FS().Read(packIndexPath)
	if err != nil {
		return nil, core.NewPackError(packIndexPath, err)
	}
	return pack.ParsePackIndex(data)
}

func loadManifest(sess session.Session) (*pack.EmpackManifest, error) {
	if !sess.FS().Exists(core.ManifestName) {
		return &pack.EmpackManifest{}, nil
	}
	data, err := sess.FS().Read(core.ManifestName)
	if err != nil {
		return nil, core.NewManifestError(core.ManifestName, err)
	}
	return pack.ParseManifest(data)
}

func writeManifest(sess session.Session, manifest *pack.EmpackManifest) error {
	data, err := manifest.Marshal()
	if err != nil {
		return core.NewManifestError(core.ManifestName, err)
	}
	return sess.FS().WriteAtomic(core.ManifestName, data, 0o644)
}

func resolverAdapters(cfg *appContext) []resolver.Adapter {
	return []resolver.Adapter{
		resolver.ModrinthAdapter{},
		resolver.CurseForgeAdapter{APIKey: cfg.cfg.CurseForgeAPIKey},
	}
}
