package versioncatalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/empack-dev/empack/internal/core"
	"github.com/empack-dev/empack/internal/pack"
	"github.com/empack-dev/empack/internal/session"
)

const fabricLoaderVersionsURL = "https://meta.fabricmc.net/v2/versions/loader"

// FabricSource resolves the Fabric loader version recommended for a
// given Minecraft version.
type FabricSource struct{}

func (FabricSource) Loader() pack.Loader { return pack.LoaderFabric }

type fabricLoaderEntry struct {
	Loader struct {
		Version string `json:"version"`
		Stable  bool   `json:"stable"`
	} `json:"loader"`
}

// Resolve returns the first stable entry in Fabric's loader list for
// mcVersion; Fabric's own API already returns them newest-first, so "the
// first stable one" is the recommended version, mirroring the teacher's
// "first entry is recommended" comparison style.
func (FabricSource) Resolve(ctx context.Context, sess session.Session, mcVersion string) (string, error) {
	url := fmt.Sprintf("%s/%s", fabricLoaderVersionsURL, mcVersion)
	body, err := sess.HTTP().GetJSON(ctx, url, nil, nil)
	if err != nil {
		return "", NewSourceUnavailableError(pack.LoaderFabric, err)
	}

	var entries []fabricLoaderEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return "", NewSourceUnavailableError(pack.LoaderFabric, err)
	}

	for _, e := range entries {
		if e.Loader.Stable {
			return e.Loader.Version, nil
		}
	}
	if len(entries) > 0 {
		return entries[0].Loader.Version, nil
	}
	return "", NewSourceUnavailableError(pack.LoaderFabric, core.NewResolveError(mcVersion, "no fabric loader builds published", ""))
}
