package build

import (
	"context"
	"fmt"

	"github.com/empack-dev/empack/internal/core"
	"github.com/empack-dev/empack/internal/session"
	"github.com/empack-dev/empack/internal/state"
)

const mrpackExtractDir = "dist/.mrpack-extract"

const bootstrapJarPath = "installer/packwiz-installer-bootstrap.jar"

// runTarget invokes the single external pipeline that produces one
// target's artifact, then zips the result into place. Each step goes
// through session.ProcessRunner one at a time — builds never run
// subprocesses concurrently (spec.md §5).
func (r *run) runTarget(ctx context.Context, target state.BuildTarget) error {
	if err := r.ensureRefreshed(ctx); err != nil {
		return err
	}

	paths := artifactPathsFor(r.meta, target)

	switch target {
	case state.TargetMrpack:
		return runPackwizPipeline(ctx, r.sess, paths)
	case state.TargetClient:
		if err := r.ensureMrpackExtracted(ctx); err != nil {
			return err
		}
		return r.runClientPipeline(ctx, paths)
	case state.TargetServer:
		if err := r.ensureMrpackExtracted(ctx); err != nil {
			return err
		}
		return r.runServerPipeline(ctx, paths)
	case state.TargetClientFull:
		return r.runFullPipeline(ctx, paths, "client")
	case state.TargetServerFull:
		return r.runFullPipeline(ctx, paths, "server")
	default:
		return fmt.Errorf("unknown build target %q", target)
	}
}

func runPackwizPipeline(ctx context.Context, sess session.Session, paths ArtifactPaths) error {
	if err := runProcess(ctx, sess, core.BinPackwiz, []string{"mr", "export", "--output", paths.Temp}, "pack"); err != nil {
		return err
	}
	data, err := sess.FS().Read(paths.Temp)
	if err != nil {
		return core.NewFilesystemError("read", paths.Temp, err)
	}
	if err := sess.FS().WriteAtomic(paths.Final, data, 0o644); err != nil {
		return err
	}
	return sess.FS().RemoveTree(paths.Temp)
}

// runClientPipeline stages the extracted mrpack overrides under
// .minecraft/ first, then renders templates/client/ and stages pack/ and
// the bootstrap jar over them (so a mod's pinned config file can be
// overridden by the pack author's own copy under templates/ or pack/),
// and zips the result.
func (r *run) runClientPipeline(ctx context.Context, paths ArtifactPaths) error {
	scratch := fmt.Sprintf("%s/client", mrpackExtractDir) + "-root"
	if err := r.sess.FS().MkdirAll(scratch+"/.minecraft", 0o755); err != nil {
		return err
	}

	if err := copyTree(r.sess.FS(), mrpackExtractDir, scratch+"/.minecraft"); err != nil {
		return err
	}
	if err := renderTemplateDir(r.sess.FS(), "templates/client", scratch, newTemplateData(r.meta)); err != nil {
		return err
	}
	if err := copyTree(r.sess.FS(), "pack", scratch+"/pack"); err != nil {
		return err
	}
	if r.sess.FS().Exists(bootstrapJarPath) {
		if err := copyFile(r.sess.FS(), bootstrapJarPath, scratch+"/packwiz-installer-bootstrap.jar"); err != nil {
			return err
		}
	}

	zipped, err := buildZip(r.sess.FS(), scratch)
	if err != nil {
		return core.NewFilesystemError("zip", scratch, err)
	}
	return r.sess.FS().WriteAtomic(paths.Final, zipped, 0o644)
}

// runServerPipeline renders templates/server/, runs mrpack-install to
// lay down the server loader and jar, stages pack/ and the bootstrap
// jar, overlays mrpack overrides, and zips the result.
func (r *run) runServerPipeline(ctx context.Context, paths ArtifactPaths) error {
	scratch := fmt.Sprintf("%s/server", mrpackExtractDir) + "-root"
	if err := r.sess.FS().MkdirAll(scratch, 0o755); err != nil {
		return err
	}

	if err := runProcess(ctx, r.sess, core.BinMrpackInstall, []string{
		"server", string(r.meta.Loader),
		"--flavor-version", r.meta.LoaderVersion,
		"--minecraft-version", r.meta.MCVersion,
		"--server-dir", scratch,
		"--server-file", "srv.jar",
	}, "."); err != nil {
		return err
	}

	if err := renderTemplateDir(r.sess.FS(), "templates/server", scratch, newTemplateData(r.meta)); err != nil {
		return err
	}
	if err := copyTree(r.sess.FS(), "pack", scratch+"/pack"); err != nil {
		return err
	}
	if r.sess.FS().Exists(bootstrapJarPath) {
		if err := copyFile(r.sess.FS(), bootstrapJarPath, scratch+"/packwiz-installer-bootstrap.jar"); err != nil {
			return err
		}
	}
	if err := copyTree(r.sess.FS(), mrpackExtractDir, scratch); err != nil {
		return err
	}

	zipped, err := buildZip(r.sess.FS(), scratch)
	if err != nil {
		return core.NewFilesystemError("zip", scratch, err)
	}
	return r.sess.FS().WriteAtomic(paths.Final, zipped, 0o644)
}

// runFullPipeline drives packwiz-installer-bootstrap.jar directly
// against pack/pack.toml, the "install everything live" path that
// doesn't go through an mrpack at all — ClientFull installs both sides,
// ServerFull installs the server side and also runs mrpack-install for
// the loader/server jar.
func (r *run) runFullPipeline(ctx context.Context, paths ArtifactPaths, side string) error {
	extractDir := fmt.Sprintf("%s/%s-full", mrpackExtractDir, side)
	if err := r.sess.FS().MkdirAll(extractDir, 0o755); err != nil {
		return err
	}

	bootstrapFlavor := "both"
	if side == "server" {
		bootstrapFlavor = "server"
	}
	if err := runProcess(ctx, r.sess, core.BinJava, []string{
		"-jar", bootstrapJarPath,
		"-g", "pack/pack.toml",
		"-s", bootstrapFlavor,
		"-d", extractDir,
	}, "."); err != nil {
		return err
	}

	if side == "server" {
		if err := runProcess(ctx, r.sess, core.BinMrpackInstall, []string{
			"server", string(r.meta.Loader),
			"--flavor-version", r.meta.LoaderVersion,
			"--minecraft-version", r.meta.MCVersion,
			"--server-dir", extractDir,
			"--server-file", "srv.jar",
		}, "."); err != nil {
			return err
		}
	}

	zipped, err := buildZip(r.sess.FS(), extractDir)
	if err != nil {
		return core.NewFilesystemError("zip", extractDir, err)
	}
	return r.sess.FS().WriteAtomic(paths.Final, zipped, 0o644)
}

func runProcess(ctx context.Context, sess session.Session, program string, args []string, cwd string) error {
	result, err := sess.Proc().Run(ctx, program, args, cwd, "")
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return core.NewProcessError(program, args, result.ExitCode, stderrTailFor(result.Stderr), nil)
	}
	return nil
}

func stderrTailFor(s string) string {
	const maxLen = 2000
	if len(s) <= maxLen {
		return s
	}
	return s[len(s)-maxLen:]
}
