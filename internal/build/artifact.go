package build

import (
	"fmt"

	"github.com/empack-dev/empack/internal/pack"
	"github.com/empack-dev/empack/internal/state"
)

// ArtifactPaths names the temp and final workspace-relative paths for one
// built target's output, so every writer goes through the same
// write-temp-then-rename shape as session.FileSystem.WriteAtomic.
type ArtifactPaths struct {
	Final string
	Temp  string
}

// artifactPathsFor computes the final dist/ output path for a target,
// content-addressed by {name}-v{version}[-{target}] per the pack's name
// and version (spec.md §3's ArtifactPaths, §4.6 step 5's naming rule).
func artifactPathsFor(meta *pack.PackMetadata, target state.BuildTarget) ArtifactPaths {
	base := fmt.Sprintf("%s-v%s", slug(meta.Name), meta.Version)

	var final string
	switch target {
	case state.TargetMrpack:
		final = fmt.Sprintf("dist/%s.mrpack", base)
	case state.TargetClient:
		final = fmt.Sprintf("dist/%s-client.zip", base)
	case state.TargetServer:
		final = fmt.Sprintf("dist/%s-server.zip", base)
	case state.TargetClientFull:
		final = fmt.Sprintf("dist/%s-client-full.zip", base)
	case state.TargetServerFull:
		final = fmt.Sprintf("dist/%s-server-full.zip", base)
	}
	return ArtifactPaths{Final: final, Temp: final + ".tmp-empack"}
}

func slug(name string) string {
	out := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
		case r >= 'A' && r <= 'Z':
			out = append(out, r+('a'-'A'))
		case r == ' ' || r == '_':
			out = append(out, '-')
		case r == '-':
			out = append(out, r)
		}
	}
	return string(out)
}
