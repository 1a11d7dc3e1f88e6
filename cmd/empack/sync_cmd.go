package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/empack-dev/empack/internal/pack"
	"github.com/empack-dev/empack/internal/state"
	"github.com/empack-dev/empack/internal/sync"
)

func newSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "synchronize",
		Aliases: []string{"sync"},
		Short:   "Reconcile empack.yml against the realized pack",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			defer app.close()

			configured, err := requireConfigured(app.sess)
			if err != nil {
				return err
			}

			if _, err := state.Plan(configured.State(), state.SynchronizeTransition{}); err != nil {
				return err
			}

			manifest, err := loadManifest(app.sess)
			if err != nil {
				return err
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
	return cmd
}

// computeSyncPlan resolves every manifest entry's platform identity and
// diffs it against pack/index.toml. Shared by sync and add, since add is
// defined as "append to empack.yml, then synchronize" — add passes its
// in-memory manifest directly so a --dry-run sees the pending addition
// without having written empack.yml yet.
func computeSyncPlan(app *appContext, manifest *pack.EmpackManifest) (*sync.Plan, error) {
	meta, err := loadPackMetadata(app.sess)
	if err != nil {
		return nil, err
	}
	index, err := loadPackIndex(app.sess)
	if err != nil {
		return nil, err
	}

	resolved, err := sync.ResolveMissingIDs(context.Background(), app.sess, resolverAdapters(app), manifest.Mods, meta.MCVersion, meta.Loader)
	if err != nil {
		return nil, err
	}

	return sync.Diff(resolved, index), nil
}
