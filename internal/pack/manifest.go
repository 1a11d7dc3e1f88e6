package pack

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/empack-dev/empack/internal/core"
)

// Side is which side of a Minecraft install a mod belongs on.
type Side string

const (
	SideBoth   Side = "both"
	SideClient Side = "client"
	SideServer Side = "server"
)

// Platform is a resolved mod-hosting platform.
type Platform string

const (
	PlatformModrinth   Platform = "modrinth"
	PlatformCurseForge Platform = "curseforge"
)

// ModSpec is one entry in empack.yml. It may be declared as a bare
// string (name only, platform/project_id autodetected at sync time) or
// as a full mapping; UnmarshalYAML handles both shapes.
type ModSpec struct {
	Name      string   `yaml:"name" validate:"required"`
	Platform  Platform `yaml:"platform,omitempty"`
	ProjectID string   `yaml:"project_id,omitempty"`
	Version   string   `yaml:"version,omitempty"`
	Side      Side     `yaml:"side,omitempty"`
}

func (m *ModSpec) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		m.Name = node.Value
		m.Side = SideBoth
		return nil
	}

	type modSpecAlias ModSpec
	var alias modSpecAlias
	if err := node.Decode(&alias); err != nil {
		return err
	}
	*m = ModSpec(alias)
	if m.Side == "" {
		m.Side = SideBoth
	}
	return nil
}

func (m ModSpec) MarshalYAML() (interface{}, error) {
	if m.Platform == "" && m.ProjectID == "" && m.Version == "" && m.Side == SideBoth {
		return m.Name, nil
	}
	type modSpecAlias ModSpec
	return modSpecAlias(m), nil
}

// EmpackManifest is the parsed, order-preserving contents of empack.yml.
type EmpackManifest struct {
	Mods []ModSpec
}

var validate = validator.New()

// ParseManifest decodes empack.yml bytes, preserving declaration order,
// and rejects duplicate entries (same resolved name or project ID).
func ParseManifest(data []byte) (*EmpackManifest, error) {
	var mods []ModSpec
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, &mods); err != nil {
			return nil, core.NewManifestError(core.ManifestName, fmt.Errorf("decode: %w", err))
		}
	}

	for i := range mods {
		if mods[i].Side == "" {
			mods[i].Side = SideBoth
		}
		if err := validate.Struct(mods[i]); err != nil {
			return nil, core.NewManifestError(core.ManifestName, fmt.Errorf("entry %d: %w", i, err))
		}
	}

	if err := checkDuplicates(mods); err != nil {
		return nil, core.NewManifestError(core.ManifestName, err)
	}

	return &EmpackManifest{Mods: mods}, nil
}

func checkDuplicates(mods []ModSpec) error {
	seenProjects := map[string]struct{}{}
	seenNames := map[string]struct{}{}
	for _, m := range mods {
		if m.ProjectID != "" {
			key := string(m.Platform) + ":" + m.ProjectID
			if _, ok := seenProjects[key]; ok {
				return fmt.Errorf("duplicate project_id %s", key)
			}
			seenProjects[key] = struct{}{}
			continue
		}
		if _, ok := seenNames[m.Name]; ok {
			return fmt.Errorf("duplicate mod name %q", m.Name)
		}
		seenNames[m.Name] = struct{}{}
	}
	return nil
}

// Marshal re-emits the manifest in declaration order.
func (e *EmpackManifest) Marshal() ([]byte, error) {
	return yaml.Marshal(e.Mods)
}

// Add appends a new entry, returning an error if it duplicates an
// existing one.
func (e *EmpackManifest) Add(spec ModSpec) error {
	if err := checkDuplicates(append(append([]ModSpec{}, e.Mods...), spec)); err != nil {
		return err
	}
	e.Mods = append(e.Mods, spec)
	return nil
}

// Remove deletes every entry matching name, returning the count removed.
func (e *EmpackManifest) Remove(name string) int {
	kept := e.Mods[:0]
	removed := 0
	for _, m := range e.Mods {
		if m.Name == name {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	e.Mods = kept
	return removed
}
