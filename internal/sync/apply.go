package sync

import (
	"context"
	"fmt"

	"github.com/empack-dev/empack/internal/core"
	"github.com/empack-dev/empack/internal/session"
)

// Apply runs every operation in Plan.Operations, in order, through
// session.ProcessRunner. It stops at the first failure without rolling
// back operations already applied — packwiz owns its own on-disk state,
// so a partial sync just leaves the pack partway reconciled, surfaced to
// the caller as an error naming which operation failed (spec.md §4.7).
func Apply(ctx context.Context, sess session.Session, plan *Plan) error {
	for _, op := range plan.Operations {
		if err := applyOne(ctx, sess, op); err != nil {
			return err
		}
	}
	return nil
}

func applyOne(ctx context.Context, sess session.Session, op Operation) error {
	var program string
	var args []string

	switch op.Kind {
	case OpAdd:
		program = core.BinPackwiz
		args = []string{string(op.Spec.Platform), "add", op.Spec.ProjectID}
		if op.Spec.Version != "" {
			args = append(args, "--version-id", op.Spec.Version)
		}
	case OpRemove:
		program = core.BinPackwiz
		args = []string{"remove", op.Name}
	default:
		return fmt.Errorf("unknown sync operation kind %q", op.Kind)
	}

	result, err := sess.Proc().Run(ctx, program, args, "pack", "")
	if err != nil {
		return err
	}
	if result.ExitCode != 0 {
		return core.NewProcessError(program, args, result.ExitCode, tailOf(result.Stderr), nil)
	}
	return nil
}

func tailOf(s string) string {
	const maxLen = 2000
	if len(s) <= maxLen {
		return s
	}
	return s[len(s)-maxLen:]
}
