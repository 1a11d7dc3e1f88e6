// Package pack parses and projects the two configuration files a pack
// workspace carries: pack.toml (packwiz-owned, read-only from empack's
// side) and empack.yml (empack-owned, read by sync and rewritten by
// add/remove).
package pack

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"

	"github.com/empack-dev/empack/internal/core"
)

// Loader is a Minecraft modloader.
type Loader string

const (
	LoaderFabric   Loader = "fabric"
	LoaderForge    Loader = "forge"
	LoaderNeoForge Loader = "neoforge"
	LoaderQuilt    Loader = "quilt"
)

func (l Loader) Valid() bool {
	switch l {
	case LoaderFabric, LoaderForge, LoaderNeoForge, LoaderQuilt:
		return true
	}
	return false
}

// packToml mirrors the subset of packwiz's pack.toml this module reads.
// Additional keys present in the file are ignored: empack never rewrites
// pack.toml, so there is nothing to preserve for round-trip safety —
// packwiz owns that file exclusively (spec.md §6).
type packToml struct {
	Name     string   `toml:"name"`
	Version  string   `toml:"version"`
	Authors  []string `toml:"authors,omitempty"`
	Versions struct {
		Minecraft string `toml:"minecraft"`
		Fabric    string `toml:"fabric,omitempty"`
		Forge     string `toml:"forge,omitempty"`
		NeoForge  string `toml:"neoforge,omitempty"`
		Quilt     string `toml:"quilt,omitempty"`
	} `toml:"versions"`
}

// PackMetadata is the projection of pack.toml that the rest of empack
// consumes. Name, Version, MCVersion, Loader and LoaderVersion are
// required, and a missing one is a hard error rather than a silent
// default; Authors is not checked and may be empty.
type PackMetadata struct {
	Name          string
	Version       string
	Authors       []string
	MCVersion     string
	Loader        Loader
	LoaderVersion string
}

// ParsePackToml decodes pack.toml bytes into a validated PackMetadata.
func ParsePackToml(data []byte) (*PackMetadata, error) {
	var raw packToml
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, core.NewPackError(core.PackTomlName, fmt.Errorf("decode: %w", err))
	}

	loader, loaderVersion, err := extractLoader(raw)
	if err != nil {
		return nil, core.NewPackError(core.PackTomlName, err)
	}

	meta := &PackMetadata{
		Name:          raw.Name,
		Version:       raw.Version,
		Authors:       raw.Authors,
		MCVersion:     raw.Versions.Minecraft,
		Loader:        loader,
		LoaderVersion: loaderVersion,
	}

	if err := meta.validate(); err != nil {
		return nil, core.NewPackError(core.PackTomlName, err)
	}
	return meta, nil
}

func extractLoader(raw packToml) (Loader, string, error) {
	present := map[Loader]string{}
	if raw.Versions.Fabric != "" {
		present[LoaderFabric] = raw.Versions.Fabric
	}
	if raw.Versions.Forge != "" {
		present[LoaderForge] = raw.Versions.Forge
	}
	if raw.Versions.NeoForge != "" {
		present[LoaderNeoForge] = raw.Versions.NeoForge
	}
	if raw.Versions.Quilt != "" {
		present[LoaderQuilt] = raw.Versions.Quilt
	}

	switch len(present) {
	case 0:
		return "", "", fmt.Errorf("no loader declared under [versions]")
	case 1:
		for loader, version := range present {
			return loader, version, nil
		}
	}

	// More than one loader key is set. This is legitimate only for the
	// documented MC 1.20.1 Forge/NeoForge exception (spec.md §4.5), where
	// NeoForge is the resolved loader. Any other combination is refused
	// as ambiguous.
	if raw.Versions.Minecraft == "1.20.1" && len(present) == 2 {
		_, hasForge := present[LoaderForge]
		if v, ok := present[LoaderNeoForge]; ok && hasForge {
			return LoaderNeoForge, v, nil
		}
	}
	return "", "", fmt.Errorf("multiple loaders declared under [versions]: ambiguous for MC %s", raw.Versions.Minecraft)
}

func (m *PackMetadata) validate() error {
	var missing []string
	if m.Name == "" {
		missing = append(missing, "name")
	}
	if m.Version == "" {
		missing = append(missing, "version")
	}
	if m.MCVersion == "" {
		missing = append(missing, "versions.minecraft")
	}
	if m.Loader == "" {
		missing = append(missing, "loader")
	} else if !m.Loader.Valid() {
		missing = append(missing, fmt.Sprintf("loader (unrecognized: %s)", m.Loader))
	}
	if m.LoaderVersion == "" {
		missing = append(missing, "loader_version")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required fields: %v", missing)
	}
	return nil
}
