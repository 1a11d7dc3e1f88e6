// Package resolver turns a human mod name into a platform-qualified
// project identifier by querying Modrinth and CurseForge concurrently,
// scoring the combined candidates, and applying the confidence
// thresholds spec.md §4.4 defines.
package resolver

import (
	"context"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/sync/errgroup"

	"github.com/empack-dev/empack/internal/core"
	"github.com/empack-dev/empack/internal/pack"
	"github.com/empack-dev/empack/internal/session"
)

// Query is a single resolution request.
type Query struct {
	Name              string
	Loader            pack.Loader
	MCVersion         string
	PreferredPlatform pack.Platform
}

// Candidate is a normalized search hit from one platform adapter.
type Candidate struct {
	Platform            pack.Platform
	ProjectID           string
	Title               string
	Downloads           int64
	Description         string
	SupportedLoaders    []string
	SupportedMCVersions []string

	score       float64
	extraWords  bool
}

// ResolutionKind is the resolver's decision for a query.
type ResolutionKind string

const (
	KindConfirmed ResolutionKind = "confirmed"
	KindAmbiguous ResolutionKind = "ambiguous"
	KindNotFound  ResolutionKind = "not_found"
)

// Resolution binds a query to at most one platform-qualified identifier.
type Resolution struct {
	Kind       ResolutionKind
	Top        *Candidate
	Score      float64
	Candidates []Candidate // populated for Ambiguous, top 5
	Suggestion string      // populated for NotFound
}

// Adapter is a single platform search backend.
type Adapter interface {
	Platform() pack.Platform
	Search(ctx context.Context, http session.HTTPClient, q Query) ([]Candidate, error)
}

const maxAmbiguousCandidates = 5

// Resolve queries every adapter concurrently, scores and merges the
// results, and applies the confidence table from spec.md §4.4.
func Resolve(ctx context.Context, sess session.Session, q Query, adapters []Adapter, nonInteractiveYes bool) (*Resolution, error) {
	results := make([][]Candidate, len(adapters))

	g, gctx := errgroup.WithContext(ctx)
	for i, adapter := range adapters {
		i, adapter := i, adapter
		g.Go(func() error {
			candidates, err := adapter.Search(gctx, sess.HTTP(), q)
			if err != nil {
				// Partial failure: log and continue with whatever the
				// other adapter returned (spec.md §7).
				core.LogDeferredError(func() error { return err })
				return nil
			}
			results[i] = candidates
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var merged []Candidate
	for _, rs := range results {
		merged = append(merged, rs...)
	}

	merged = score(q, merged)
	merged = dedupe(merged)
	merged = sortCandidates(merged)

	return decide(q, merged, nonInteractiveYes), nil
}

func score(q Query, candidates []Candidate) []Candidate {
	normQuery := normalize(q.Name)
	for i := range candidates {
		sim := nameSimilarity(normQuery, normalize(candidates[i].Title))
		conf := downloadConfidence(candidates[i].Downloads)
		total := 0.7*sim + 0.3*conf

		extra := false
		if len(normQuery) > 0 && float64(len(normalize(candidates[i].Title)))/float64(len(normQuery)) > 1.5 {
			extra = true
			if len(normQuery) > 4 {
				total -= 20
				if total < 0 {
					total = 0
				}
			}
		}

		candidates[i].score = total
		candidates[i].extraWords = extra
	}
	return candidates
}

func normalize(s string) string {
	s = strings.ToLower(s)
	var b strings.Builder
	for _, r := range s {
		switch r {
		case ' ', '-', '_', '.':
			continue
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// nameSimilarity implements spec.md §4.4's five-case ladder.
func nameSimilarity(normQuery, normTitle string) float64 {
	if normQuery == normTitle {
		return 100
	}
	if normQuery == "" || normTitle == "" {
		return 0
	}
	if strings.Contains(normTitle, normQuery) {
		return 100 * float64(len(normQuery)) / float64(len(normTitle))
	}
	if strings.Contains(normQuery, normTitle) {
		return 75
	}
	return 0
}

// downloadConfidence is 0 below 1000, 100 at/above 10000, linear between.
func downloadConfidence(downloads int64) float64 {
	switch {
	case downloads < 1000:
		return 0
	case downloads >= 10000:
		return 100
	default:
		return 100 * float64(downloads-1000) / float64(10000-1000)
	}
}

func dedupe(candidates []Candidate) []Candidate {
	seen := make(map[string]bool, len(candidates))
	out := candidates[:0]
	for _, c := range candidates {
		key := string(c.Platform) + ":" + c.ProjectID
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, c)
	}
	return out
}

// sortCandidates is a deterministic stable sort: score desc, downloads
// desc, platform name asc (spec.md §5).
func sortCandidates(candidates []Candidate) []Candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if candidates[i].Downloads != candidates[j].Downloads {
			return candidates[i].Downloads > candidates[j].Downloads
		}
		return candidates[i].Platform < candidates[j].Platform
	})
	return candidates
}

func decide(q Query, merged []Candidate, nonInteractiveYes bool) *Resolution {
	if len(merged) == 0 {
		return &Resolution{Kind: KindNotFound, Suggestion: ""}
	}

	top := merged[0]
	gap := top.score
	if len(merged) > 1 {
		gap = top.score - merged[1].score
	}

	ambiguousSet := merged
	if len(ambiguousSet) > maxAmbiguousCandidates {
		ambiguousSet = ambiguousSet[:maxAmbiguousCandidates]
	}

	switch {
	case top.score >= 80 && gap >= 15:
		c := top
		return &Resolution{Kind: KindConfirmed, Top: &c, Score: top.score}
	case top.score >= 80:
		if nonInteractiveYes {
			c := top
			return &Resolution{Kind: KindConfirmed, Top: &c, Score: top.score}
		}
		return &Resolution{Kind: KindAmbiguous, Candidates: ambiguousSet}
	case top.score >= 50:
		if nonInteractiveYes {
			c := top
			return &Resolution{Kind: KindConfirmed, Top: &c, Score: top.score}
		}
		return &Resolution{Kind: KindAmbiguous, Candidates: ambiguousSet}
	default:
		return &Resolution{Kind: KindNotFound, Suggestion: suggest(q.Name, merged)}
	}
}

// suggest returns the closest title by edit distance for a NotFound
// resolution's "did you mean" hint, mirroring the teacher's tool-name
// suggestion helper. Purely cosmetic — it never promotes a result.
func suggest(query string, candidates []Candidate) string {
	best := ""
	bestDist := 1 << 30
	for _, c := range candidates {
		d := levenshtein.ComputeDistance(strings.ToLower(query), strings.ToLower(c.Title))
		if d < bestDist && d < 3 {
			bestDist = d
			best = c.Title
		}
	}
	return best
}
