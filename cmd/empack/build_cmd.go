package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/empack-dev/empack/internal/build"
	"github.com/empack-dev/empack/internal/core"
	"github.com/empack-dev/empack/internal/state"
)

// allBuildTargets is what "all" expands to. The *Full targets stand
// alone and are never implied by it (spec.md §4.6 step 1).
var allBuildTargets = []state.BuildTarget{
	state.TargetMrpack, state.TargetClient, state.TargetServer,
}

func newBuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "build <target>...",
		Short: "Build one or more distributable targets",
		Args:  cobra.MinimumNArgs(1),
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

			targets, err := parseBuildTargets(args)
			if err != nil {
				return err
			}

			if _, err := state.Plan(configured.State(), state.BuildTransition{Targets: targets}); err != nil {
				return err
			}

			if app.cfg.DryRun {
				for _, t := range targets {
					fmt.Fprintf(cmd.OutOrStdout(), "would build: %s\n", t)
				}
				return nil
			}

			meta, err := loadPackMetadata(app.sess)
			if err != nil {
				return err
			}

			return build.Run(context.Background(), app.sess, configured, meta, targets)
		},
	}
}

func parseBuildTargets(args []string) ([]state.BuildTarget, error) {
	seen := map[state.BuildTarget]bool{}
	var targets []state.BuildTarget

	addTarget := func(t state.BuildTarget) {
		if !seen[t] {
			seen[t] = true
			targets = append(targets, t)
		}
	}

	for _, arg := range args {
		switch state.BuildTarget(arg) {
		case "all":
			for _, t := range allBuildTargets {
				addTarget(t)
			}
		case state.TargetMrpack, state.TargetClient, state.TargetServer, state.TargetClientFull, state.TargetServerFull:
			addTarget(state.BuildTarget(arg))
		default:
			return nil, core.NewMissingPrerequisiteError(fmt.Sprintf("unrecognized build target %q", arg))
		}
	}
	return targets, nil
}
