package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/empack-dev/empack/internal/state"
)

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "clean [dist|all]",
		Short:     "Remove build output, optionally the whole workspace",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"dist", "all"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newAppContext()
			if err != nil {
				return err
			}
			defer app.close()

			scope := state.CleanDist
			if len(args) == 1 && args[0] == "all" {
				scope = state.CleanAll
			}

			current, _, err := state.Probe(app.sess.FS())
			if err != nil {
				return err
			}

			plan, err := state.Plan(current, state.CleanTransition{Scope: scope})
			if err != nil {
				return err
			}

			if app.cfg.DryRun {
				return printPlan(cmd, plan)
			}

			return state.Apply(context.Background(), app.sess, plan)
		},
	}
}
