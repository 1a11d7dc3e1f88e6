package versioncatalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/empack-dev/empack/internal/core"
	"github.com/empack-dev/empack/internal/pack"
	"github.com/empack-dev/empack/internal/session"
)

const quiltLoaderVersionsURL = "https://meta.quiltmc.org/v3/versions/loader"

// QuiltSource resolves the Quilt loader version for a given Minecraft
// version. Quilt's meta API shape mirrors Fabric's closely (same
// upstream project). Unlike FabricSource, it takes the first listed
// entry as is; no stability flag is consulted.
type QuiltSource struct{}

func (QuiltSource) Loader() pack.Loader { return pack.LoaderQuilt }

type quiltLoaderEntry struct {
	Loader struct {
		Version string `json:"version"`
	} `json:"loader"`
}

func (QuiltSource) Resolve(ctx context.Context, sess session.Session, mcVersion string) (string, error) {
	url := fmt.Sprintf("%s/%s", quiltLoaderVersionsURL, mcVersion)
	body, err := sess.HTTP().GetJSON(ctx, url, nil, nil)
	if err != nil {
		return "", NewSourceUnavailableError(pack.LoaderQuilt, err)
	}

	var entries []quiltLoaderEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return "", NewSourceUnavailableError(pack.LoaderQuilt, err)
	}

	if len(entries) == 0 {
		return "", NewSourceUnavailableError(pack.LoaderQuilt, core.NewResolveError(mcVersion, "no quilt loader builds published", ""))
	}
	return entries[0].Loader.Version, nil
}
