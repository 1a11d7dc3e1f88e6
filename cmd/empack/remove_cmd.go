package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/empack-dev/empack/internal/core"
	"github.com/empack-dev/empack/internal/sync"
)

func newRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <name>...",
		Short: "Remove one or more mods from empack.yml and synchronize",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			defer app.close()

			if _, err := requireConfigured(app.sess); err != nil {
				return err
			}

			manifest, err := loadManifest(app.sess)
			if err != nil {
				return err
			}

			for _, name := range args {
				if manifest.Remove(name) == 0 {
					return core.NewResolveError(name, "not present in "+core.ManifestName, "")
				}
			}

			if !app.cfg.DryRun {
				if err := writeManifest(app.sess, manifest); err != nil {
					return err
				}
			}

			plan, err := computeSyncPlan(app, manifest)
			if err != nil {
				return err
			}

			if app.cfg.DryRun {
				sync.FormatDryRun(cmd.OutOrStdout(), plan)
				return nil
			}

			fmt.Fprintf(cmd.OutOrStdout(), "removed %d mod(s) from %s\n", len(args), core.ManifestName)
			return sync.Apply(context.Background(), app.sess, plan)
		},
	}
}
