package versioncatalog

import (
	"context"
	"encoding/json"

	"github.com/empack-dev/empack/internal/core"
	"github.com/empack-dev/empack/internal/pack"
	"github.com/empack-dev/empack/internal/session"
)

const mojangManifestURL = "https://piston-meta.mojang.com/mc/game/version_manifest_v2.json"

// MojangSource resolves a Minecraft version against Mojang's published
// version manifest, mostly to confirm the requested version actually
// exists before the rest of the catalog is asked to resolve a loader
// for it.
type MojangSource struct{}

func (MojangSource) Loader() pack.Loader { return "" }

type mojangManifest struct {
	Latest struct {
		Release string `json:"release"`
	} `json:"latest"`
	Versions []struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	} `json:"versions"`
}

// mojangLatestKeyword is the sentinel init accepts in place
// of an explicit Minecraft version, resolved against latest.release.
const mojangLatestKeyword = "latest"

// Resolve confirms mcVersion is a known Mojang release and returns it
// unchanged; there is no separate "version" to pick for vanilla. The
// sentinel "latest" resolves to the manifest's latest.release entry.
func (MojangSource) Resolve(ctx context.Context, sess session.Session, mcVersion string) (string, error) {
	body, err := sess.HTTP().GetJSON(ctx, mojangManifestURL, nil, nil)
	if err != nil {
		return "", NewSourceUnavailableError(pack.Loader("mojang"), err)
	}

	var manifest mojangManifest
	if err := json.Unmarshal(body, &manifest); err != nil {
		return "", NewSourceUnavailableError(pack.Loader("mojang"), err)
	}

	if mcVersion == mojangLatestKeyword {
		if manifest.Latest.Release == "" {
			return "", NewSourceUnavailableError(pack.Loader("mojang"), core.NewResolveError(mcVersion, "manifest has no latest.release", ""))
		}
		return manifest.Latest.Release, nil
	}

	for _, v := range manifest.Versions {
		if v.ID == mcVersion && v.Type == "release" {
			return v.ID, nil
		}
	}
	return "", NewSourceUnavailableError(pack.Loader("mojang"), core.NewResolveError(mcVersion, "not a known Mojang release", ""))
}
