package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/empack-dev/empack/internal/core"
	"github.com/empack-dev/empack/internal/pack"
	"github.com/empack-dev/empack/internal/state"
)

func newInitCmd() *cobra.Command {
	var (
		name          string
		packVersion   string
		authors       []string
		mcVersion     string
		loader        string
		loaderVersion string
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new modpack workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			defer app.close()

			current, _, err := state.Probe(app.sess.FS())
			if err != nil {
				return err
			}

			t, err := collectInitFields(app, name, packVersion, authors, mcVersion, loader, loaderVersion)
			if err != nil {
				return err
			}

			plan, err := state.Plan(current, t)
			if err != nil {
				return err
			}

			if app.cfg.DryRun {
				return printPlan(cmd, plan)
			}

			return state.Apply(context.Background(), app.sess, plan)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "pack name (prompted if empty)")
	cmd.Flags().StringVar(&packVersion, "version", "0.1.0", "pack version")
	cmd.Flags().StringSliceVar(&authors, "author", nil, "pack author (repeatable)")
	cmd.Flags().StringVar(&mcVersion, "mc-version", "latest", "Minecraft version, or \"latest\"")
	cmd.Flags().StringVar(&loader, "loader", string(pack.LoaderFabric), "modloader: fabric, forge, neoforge, or quilt")
	cmd.Flags().StringVar(&loaderVersion, "loader-version", "", "explicit loader version (resolved automatically if empty)")

	return cmd
}

// collectInitFields is the loader-first auto-fill flow: the pack name is
// prompted for when no flag gave one (defaulting to the workspace
// directory's name), the modloader is always offered as a choice
// defaulting to --loader, and every other field is taken from its flag
// as given. Under -y/--yes, prompts resolve to their default without
// blocking.
func collectInitFields(app *appContext, name, packVersion string, authors []string, mcVersion, loader, loaderVersion string) (state.InitializeTransition, error) {
	if name == "" {
		base := filepath.Base(app.cfg.ModpackDirectory)
		if base == "." || base == "" {
			base = "my-modpack"
		}
		resolved, err := app.sess.Prompt().Input("pack name", base)
		if err != nil {
			return state.InitializeTransition{}, err
		}
		name = resolved
	}

	loaderChoice, err := app.sess.Prompt().Select("modloader", []string{
		string(pack.LoaderFabric), string(pack.LoaderForge), string(pack.LoaderNeoForge), string(pack.LoaderQuilt),
	}, loader)
	if err != nil {
		return state.InitializeTransition{}, err
	}

	if !pack.Loader(loaderChoice).Valid() {
		return state.InitializeTransition{}, core.NewConfigError("loader", fmt.Errorf("unrecognized modloader %q", loaderChoice))
	}

	return state.InitializeTransition{
		Name:          name,
		Version:       packVersion,
		Authors:       authors,
		MCVersion:     mcVersion,
		Loader:        pack.Loader(loaderChoice),
		LoaderVersion: loaderVersion,
	}, nil
}
