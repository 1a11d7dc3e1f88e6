// Package build orders and executes the external-process pipelines that
// turn a configured pack into distributable artifacts.
package build

import (
	"context"

	"github.com/empack-dev/empack/internal/core"
	"github.com/empack-dev/empack/internal/pack"
	"github.com/empack-dev/empack/internal/session"
	"github.com/empack-dev/empack/internal/state"
)

// run carries the per-command flags spec.md §4.6 calls for: "refresh the
// pack at most once" and "extract the mrpack at most once", guarded here
// the same way the teacher's CapsuleManager guards re-entrant handshake
// and teardown calls with a bool on the call's own scope rather than a
// package global.
type run struct {
	sess          session.Session
	meta          *pack.PackMetadata
	packRefreshed bool
	mrpackExtract bool
}

// Run executes every requested target in topological order. On the
// first target failure it stops, removes that target's partial
// artifact, and returns the error without attempting the rest. Targets
// that finished before the failure keep their artifacts.
//
// requiresConfigured is the type-state token from state.Probe, proving
// the workspace was already past Uninitialized before Run was called;
// the compiler, not a runtime check, enforces that build is never called
// on a bare workspace.
func Run(ctx context.Context, sess session.Session, requiresConfigured state.ConfiguredPack, meta *pack.PackMetadata, requested []state.BuildTarget) error {
	ordered := Order(requested)

	needsMrpackExtract := false
	for _, t := range ordered {
		if t == state.TargetClient || t == state.TargetServer {
			needsMrpackExtract = true
		}
	}
	if needsMrpackExtract {
		defer core.LogDeferredError(func() error { return sess.FS().RemoveTree(mrpackExtractDir) })
	}

	r := &run{sess: sess, meta: meta}

	handle := sess.Progress().Bar("build", len(ordered))
	defer handle.Finish("build complete")

	for _, target := range ordered {
		if err := r.runTarget(ctx, target); err != nil {
			paths := artifactPathsFor(meta, target)
			core.LogDeferredError(func() error { return sess.FS().RemoveTree(paths.Temp) })
			return err
		}
		handle.Tick(1)
	}
	return nil
}

// ensureRefreshed invokes `packwiz refresh` exactly once per Run call,
// regardless of how many targets request it.
func (r *run) ensureRefreshed(ctx context.Context) error {
	if r.packRefreshed {
		return nil
	}
	if err := runProcess(ctx, r.sess, core.BinPackwiz, []string{"--pack-file", "pack/pack.toml", "refresh"}, "."); err != nil {
		return err
	}
	r.packRefreshed = true
	return nil
}

// ensureMrpackExtracted builds the mrpack first if it hasn't been built
// yet this run, then extracts its overrides/ into the scratch directory
// exactly once. Client and Server targets both overlay from the same
// extraction, so re-running it per-target would waste work and risk two
// different copies of the same overrides.
func (r *run) ensureMrpackExtracted(ctx context.Context) error {
	if r.mrpackExtract {
		return nil
	}

	mrpackPath := artifactPathsFor(r.meta, state.TargetMrpack)
	if !r.sess.FS().Exists(mrpackPath.Final) {
		if err := r.runTarget(ctx, state.TargetMrpack); err != nil {
			return err
		}
	}

	data, err := r.sess.FS().Read(mrpackPath.Final)
	if err != nil {
		return core.NewFilesystemError("read", mrpackPath.Final, err)
	}
	if err := extractOverrides(r.sess.FS(), data, mrpackExtractDir); err != nil {
		return err
	}
	r.mrpackExtract = true
	return nil
}
