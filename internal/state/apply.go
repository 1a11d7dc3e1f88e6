package state

import (
	"context"
	"fmt"

	"github.com/empack-dev/empack/internal/core"
	"github.com/empack-dev/empack/internal/pack"
	"github.com/empack-dev/empack/internal/session"
	"github.com/empack-dev/empack/internal/versioncatalog"
)

// Apply executes a plan's Steps. It handles only Initialize and Clean:
// Build and Synchronize plans are executed by internal/build.Run and
// internal/sync.Apply directly, since both already import this package
// for BuildTarget/ConfiguredPack and importing them back here would
// cycle. Callers dispatch on plan.Transition's concrete type and call
// the matching package; Apply is only ever reached for the two
// transitions that have no other home.
func Apply(ctx context.Context, sess session.Session, plan *TransitionPlan) error {
	switch t := plan.Transition.(type) {
	case InitializeTransition:
		return applyInitialize(ctx, sess, t)
	case CleanTransition:
		return applyClean(sess, t)
	default:
		return fmt.Errorf("state.Apply does not handle transition kind %q; call build.Run or sync.Apply directly", plan.Transition.Kind())
	}
}

var initDirs = []string{
	"pack",
	"dist/mrpack",
	"dist/client",
	"dist/server",
	"dist/client-full",
	"dist/server-full",
	"templates/client",
	"templates/server",
}

func applyInitialize(ctx context.Context, sess session.Session, t InitializeTransition) error {
	handle := sess.Progress().Spinner("initializing pack")
	defer handle.Finish("pack initialized")

	for _, dir := range initDirs {
		if err := sess.FS().MkdirAll(dir, 0o755); err != nil {
			return err
		}
		if err := sess.FS().WriteAtomic(dir+"/.gitkeep", nil, 0o644); err != nil {
			return err
		}
	}

	loader := t.Loader
	if loader == "" {
		loader = pack.LoaderFabric
	}

	mcVersion, err := versioncatalog.ResolveMinecraftVersion(ctx, sess, t.MCVersion)
	if err != nil {
		return err
	}

	loaderVersion := t.LoaderVersion
	if loaderVersion == "" {
		loaderVersion, err = versioncatalog.ResolveLoader(ctx, sess, loader, mcVersion)
		if err != nil {
			return err
		}
	}

	if err := runPackwizInit(ctx, sess, t, mcVersion, loader, loaderVersion); err != nil {
		return err
	}

	return fetchBootstrapJar(ctx, sess)
}

func runPackwizInit(ctx context.Context, sess session.Session, t InitializeTransition, mcVersion string, loader pack.Loader, loaderVersion string) error {
	args := []string{
		"init",
		"--name", t.Name,
		"--version", t.Version,
		"--mc-version", mcVersion,
		"--modloader", string(loader),
	}
	for _, author := range t.Authors {
		args = append(args, "--author", author)
	}
	args = append(args, loaderVersionFlag(loader), loaderVersion)

	result, err := sess.Proc().Run(ctx, core.BinPackwiz, args, "pack", "")
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return core.NewProcessError(core.BinPackwiz, args, result.ExitCode, stderrTail(result.Stderr), nil)
	}
	return nil
}

// loaderVersionFlag mirrors packwiz init's per-loader version flag name.
func loaderVersionFlag(loader pack.Loader) string {
	switch loader {
	case pack.LoaderFabric:
		return "--fabric-version"
	case pack.LoaderForge:
		return "--forge-version"
	case pack.LoaderNeoForge:
		return "--neoforge-version"
	case pack.LoaderQuilt:
		return "--quilt-version"
	default:
		return "--loader-version"
	}
}

func fetchBootstrapJar(ctx context.Context, sess session.Session) error {
	data, err := sess.HTTP().GetRaw(ctx, core.PackwizInstallerBootstrapURL, nil, nil)
	if err != nil {
		return err
	}
	return sess.FS().WriteAtomic("installer/packwiz-installer-bootstrap.jar", data, 0o644)
}

// applyClean removes dist/* contents. CleanDist preserves the target
// subdirectories themselves (and their .gitkeep placeholders) so a
// subsequent build has somewhere to write; CleanAll also removes
// pack/, templates/, and installer/, returning the workspace to
// Uninitialized.
func applyClean(sess session.Session, t CleanTransition) error {
	for _, dir := range []string{"dist/mrpack", "dist/client", "dist/server", "dist/client-full", "dist/server-full"} {
		if err := cleanDirContents(sess.FS(), dir); err != nil {
			return err
		}
	}

	// The final archives sit directly under dist/, beside the target
	// subdirectories.
	entries, err := sess.FS().List("dist")
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || e.Name() == ".gitkeep" {
			continue
		}
		if err := sess.FS().RemoveTree("dist/" + e.Name()); err != nil {
			return err
		}
	}

	if t.Scope != CleanAll {
		return nil
	}

	for _, dir := range []string{"pack", "templates", "installer", "dist"} {
		if err := sess.FS().RemoveTree(dir); err != nil {
			return err
		}
	}
	return nil
}

func cleanDirContents(fs session.FileSystem, dir string) error {
	entries, err := fs.List(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Name() == ".gitkeep" {
			continue
		}
		if err := fs.RemoveTree(dir + "/" + e.Name()); err != nil {
			return err
		}
	}
	return nil
}

func stderrTail(s string) string {
	const maxLen = 2000
	if len(s) <= maxLen {
		return s
	}
	return s[len(s)-maxLen:]
}
