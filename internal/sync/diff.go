// Package sync computes and applies the difference between empack.yml's
// declared mods and packwiz's realized pack/index.toml, the way `packwiz
// refresh` computes its own file diffs but scoped to mod identity rather
// than file hashes.
package sync

import (
	"sort"
	"strings"

	mapset "github.com/deckarep/golang-set/v2"

	"github.com/empack-dev/empack/internal/pack"
)

// OpKind distinguishes an add from a remove operation.
type OpKind string

const (
	OpAdd    OpKind = "add"
	OpRemove OpKind = "remove"
)

// Operation is one packwiz mutation the sync engine will run.
type Operation struct {
	Kind OpKind
	Spec pack.ModSpec // set for OpAdd
	Name string       // set for OpRemove
}

// Plan is the ordered set of operations a sync computed. Producing one
// never touches the filesystem or runs a process — Apply is the
// separate step that does.
type Plan struct {
	Operations []Operation
	Kept       []string
}

// Diff compares the manifest's declared mods against the pack's realized
// index and returns the ordered add/remove operations needed to
// reconcile them. Every manifest entry must already carry a resolved
// identity (Name, or Platform+ProjectID) — ResolveMissingIDs fills that
// in first.
func Diff(manifest []pack.ModSpec, index *pack.PackIndex) *Plan {
	declared := mapset.NewSet[string]()
	specsByKey := map[string]pack.ModSpec{}
	for _, m := range manifest {
		key := identityKey(m)
		declared.Add(key)
		specsByKey[key] = m
	}

	realized := mapset.NewSet[string]()
	manual := mapset.NewSet[string]()
	for _, e := range index.ManagedEntries() {
		key := metafileKey(e.File)
		realized.Add(key)
		if e.Manual {
			manual.Add(key)
		}
	}

	toAdd := declared.Difference(realized).ToSlice()
	toRemove := realized.Difference(declared).Difference(manual).ToSlice()
	toKeep := declared.Intersect(realized).ToSlice()

	sort.Strings(toAdd)
	sort.Strings(toRemove)
	sort.Strings(toKeep)

	plan := &Plan{Kept: toKeep}

	// Removes before adds, per spec.md §4.7 — frees up any name collision
	// before packwiz is asked to add a replacement under the same slot.
	for _, key := range toRemove {
		plan.Operations = append(plan.Operations, Operation{Kind: OpRemove, Name: key})
	}
	for _, key := range toAdd {
		plan.Operations = append(plan.Operations, Operation{Kind: OpAdd, Spec: specsByKey[key]})
	}

	return plan
}

// identityKey is the key mods are diffed by: the resolved platform
// project id when known, else a normalized slug of the declared name.
// This has to agree with metafileKey below, since packwiz itself slugs
// a mod's name into its metafile's stem when no explicit id is given.
func identityKey(m pack.ModSpec) string {
	if m.ProjectID != "" {
		return string(m.Platform) + ":" + m.ProjectID
	}
	return slugify(m.Name)
}

// metafileKey derives the same identity from an index entry's metafile
// path (e.g. "mods/sodium.pw.toml" -> "sodium").
func metafileKey(metafilePath string) string {
	base := metafilePath
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	base = strings.TrimSuffix(base, ".pw.toml")
	return slugify(base)
}

func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '_' || r == '-':
			b.WriteRune('-')
		}
	}
	return b.String()
}
