package sync

import (
	"context"
	"fmt"

	"github.com/empack-dev/empack/internal/core"
	"github.com/empack-dev/empack/internal/pack"
	"github.com/empack-dev/empack/internal/resolver"
	"github.com/empack-dev/empack/internal/session"
)

// ResolveMissingIDs fills in Platform/ProjectID for every manifest entry
// that only names a mod (the common case: a bare string in empack.yml).
// Already-qualified entries pass through untouched. On Ambiguous it
// either prompts (interactive) or fails hard (non-interactive), matching
// the resolver's own decision table — sync never silently guesses.
func ResolveMissingIDs(ctx context.Context, sess session.Session, adapters []resolver.Adapter, manifest []pack.ModSpec, mcVersion string, loader pack.Loader) ([]pack.ModSpec, error) {
	out := make([]pack.ModSpec, len(manifest))
	copy(out, manifest)

	for i, m := range out {
		if m.ProjectID != "" {
			continue
		}

		res, err := resolver.Resolve(ctx, sess, resolver.Query{Name: m.Name, Loader: loader, MCVersion: mcVersion}, adapters, sess.NonInteractive())
		if err != nil {
			return nil, err
		}

		switch res.Kind {
		case resolver.KindConfirmed:
			out[i].Platform = res.Top.Platform
			out[i].ProjectID = res.Top.ProjectID
		case resolver.KindAmbiguous:
			choice, err := promptAmbiguous(sess, m.Name, res.Candidates)
			if err != nil {
				return nil, err
			}
			out[i].Platform = choice.Platform
			out[i].ProjectID = choice.ProjectID
		case resolver.KindNotFound:
			return nil, core.NewResolveError(m.Name, "no matching mod found", res.Suggestion)
		}
	}

	return out, nil
}

func promptAmbiguous(sess session.Session, name string, candidates []resolver.Candidate) (resolver.Candidate, error) {
	if sess.NonInteractive() {
		return resolver.Candidate{}, core.NewResolveError(name, "ambiguous match, refusing to guess non-interactively", "")
	}

	labels := make([]string, len(candidates))
	for i, c := range candidates {
		labels[i] = fmt.Sprintf("%s (%s, %d downloads)", c.Title, c.Platform, c.Downloads)
	}

	choice, err := sess.Prompt().Select(fmt.Sprintf("multiple matches for %q, pick one", name), labels, labels[0])
	if err != nil {
		return resolver.Candidate{}, err
	}
	for i, label := range labels {
		if label == choice {
			return candidates[i], nil
		}
	}
	return candidates[0], nil
}
