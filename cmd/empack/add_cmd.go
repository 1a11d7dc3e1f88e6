package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/empack-dev/empack/internal/pack"
	"github.com/empack-dev/empack/internal/sync"
)

func newAddCmd() *cobra.Command {
	var (
		platform string
		version  string
	)

	cmd := &cobra.Command{
		Use:   "add <name>...",
		Short: "Declare one or more mods in empack.yml and synchronize",
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
				spec := pack.ModSpec{Name: name, Side: pack.SideBoth}
				if platform != "" {
					spec.Platform = pack.Platform(platform)
				}
				if version != "" {
					spec.Version = version
				}
				if err := manifest.Add(spec); err != nil {
					return err
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

			return sync.Apply(context.Background(), app.sess, plan)
		},
	}

	cmd.Flags().StringVar(&platform, "platform", "", "pin the platform to resolve against (modrinth or curseforge)")
	cmd.Flags().StringVar(&version, "version", "", "pin an exact version id instead of resolving the latest")

	return cmd
}
