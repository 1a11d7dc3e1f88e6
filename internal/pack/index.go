package pack

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/empack-dev/empack/internal/core"
)

// IndexEntry is one file packwiz is tracking in pack/index.toml. Manual
// mirrors packwiz's own "preserve" flag: a file marked preserve is
// hand-managed and packwiz (and empack, by extension) never removes it
// on its own.
type IndexEntry struct {
	File     string `toml:"file"`
	Hash     string `toml:"hash,omitempty"`
	Metafile bool   `toml:"metafile,omitempty"`
	Manual   bool   `toml:"preserve,omitempty"`
}

// PackIndex is the realized state of the pack, read from pack/index.toml.
// It is packwiz-owned; empack only ever reads it to compute a sync diff.
type PackIndex struct {
	Entries []IndexEntry `toml:"files"`
}

func ParsePackIndex(data []byte) (*PackIndex, error) {
	var idx PackIndex
	if len(data) > 0 {
		if err := toml.Unmarshal(data, &idx); err != nil {
			return nil, core.NewPackError(core.PackIndexRel, fmt.Errorf("decode: %w", err))
		}
	}
	return &idx, nil
}

// ManagedEntries returns the metafile entries packwiz tracks as actual
// mod installs, as opposed to the plain staged files (configs,
// overrides) that also appear in index.toml. Each carries its Manual
// flag so the sync engine can tell a hand-pinned mod from one it's free
// to remove (spec.md §4.7).
func (idx *PackIndex) ManagedEntries() []IndexEntry {
	entries := make([]IndexEntry, 0, len(idx.Entries))
	for _, e := range idx.Entries {
		if e.Metafile {
			entries = append(entries, e)
		}
	}
	return entries
}
