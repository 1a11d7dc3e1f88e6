// Package main implements empack's command-line entrypoint: one cobra
// command per lifecycle operation, each wiring a session.LiveSession and
// translating a core.EmpackError into the exit code table the CLI
// promises its callers.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/empack-dev/empack/internal/config"
	"github.com/empack-dev/empack/internal/core"
	"github.com/empack-dev/empack/internal/session"
)

// globalFlags holds the persistent flag values every subcommand's RunE
// reads via newAppContext.
type globalFlags struct {
	modpackDir string
	yes        bool
	verbose    bool
	quiet      bool
	debug      bool
	dryRun     bool
}

var flags globalFlags

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "empack",
		Short:         "Build and maintain Minecraft modpacks on top of packwiz",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&flags.modpackDir, "modpack-directory", "m", ".", "workspace root containing pack/ and empack.yml")
	cmd.PersistentFlags().BoolVarP(&flags.yes, "yes", "y", false, "answer every prompt with its default, non-interactively")
	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "print an extra detail line on failure")
	cmd.PersistentFlags().BoolVarP(&flags.quiet, "quiet", "q", false, "suppress progress output")
	cmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, "report what would change without applying it")

	cmd.AddCommand(newInitCmd())
	cmd.AddCommand(newSyncCmd())
	cmd.AddCommand(newAddCmd())
	cmd.AddCommand(newRemoveCmd())
	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newCleanCmd())
	cmd.AddCommand(newRequirementsCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// appContext bundles the resolved configuration and live session every
// subcommand needs, built once per invocation after flags are parsed.
type appContext struct {
	cfg  *config.EmpackConfig
	sess *session.LiveSession
}

func newAppContext() (*appContext, error) {
	cfg, err := config.Load(flags.modpackDir, config.Overrides{
		ModpackDirectory: &flags.modpackDir,
		Yes:              &flags.yes,
		Verbose:          &flags.verbose,
		Quiet:            &flags.quiet,
		Debug:            &flags.debug,
		DryRun:           &flags.dryRun,
	})
	if err != nil {
		return nil, err
	}

	if err := core.Init(cfg.Debug || cfg.Verbose); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	sess, err := session.NewLiveSession(session.Options{
		WorkspaceDir:   cfg.ModpackDirectory,
		UserAgent:      "empack/" + version,
		NonInteractive: cfg.NonInteractive,
		Quiet:          cfg.Quiet,
		ProcessTimeout: time.Duration(cfg.ProcessTimeoutSec) * time.Second,
		HTTPTimeout:    time.Duration(cfg.HTTPTimeoutSec) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	return &appContext{cfg: cfg, sess: sess}, nil
}

func (a *appContext) close() {
	core.LogDeferredError(a.sess.Close)
	core.LogDeferredError(func() error { return zap.L().Sync() })
}

// exitCodeFor maps a returned error to the table in spec.md §6: each
// command's own RunE chooses which kinds are reachable for it, this just
// centralizes the kind->code part.
func exitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	var empackErr core.EmpackError
	if !errors.As(err, &empackErr) {
		return 1
	}

	switch empackErr.Kind() {
	case core.KindUserAbort:
		return 4
	case core.KindNetwork:
		return 3
	case core.KindResolve, core.KindState, core.KindConfig, core.KindManifest:
		return 2
	case core.KindPack, core.KindProcess, core.KindFilesystem:
		return 5
	default:
		return 1
	}
}

func printError(err error) {
	var empackErr core.EmpackError
	if errors.As(err, &empackErr) {
		fmt.Fprintf(os.Stderr, "error: %s: %v\n", empackErr.Kind(), err)
		if flags.verbose {
			fmt.Fprintf(os.Stderr, "  detail: %#v\n", empackErr)
		}
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
}

func run() int {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		printError(err)
		return exitCodeFor(err)
	}
	return 0
}
