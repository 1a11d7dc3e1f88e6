package sync

import (
	"io"

	"github.com/empack-dev/empack/internal/core"
)

// FormatDryRun renders one line per operation, removes first then adds,
// the same plain-text report style as the teacher's tool.ListTools
// simple-format branch: no table, no JSON, just a readable line per
// item.
func FormatDryRun(w io.Writer, plan *Plan) {
	for _, op := range plan.Operations {
		switch op.Kind {
		case OpRemove:
			core.MustFprintf(w, "REMOVE %s\n", op.Name)
		case OpAdd:
			core.MustFprintf(w, "ADD %s:%s (%s)\n", op.Spec.Platform, op.Spec.ProjectID, op.Spec.Name)
		}
	}
	if len(plan.Operations) == 0 {
		core.MustFprintf(w, "%s", dryRunNothingToDoMessage)
	}
}

const dryRunNothingToDoMessage = "nothing to do: manifest already matches the pack\n"
