package versioncatalog

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/empack-dev/empack/internal/core"
	"github.com/empack-dev/empack/internal/pack"
	"github.com/empack-dev/empack/internal/session"
)

const forgePromotionsURL = "https://files.minecraftforge.net/net/minecraftforge/forge/promotions_slim.json"

// ForgeSource resolves the Forge loader version from Forge's published
// promotions file, a flat map of "<mcVersion>-recommended" /
// "<mcVersion>-latest" keys to loader versions.
type ForgeSource struct{}

func (ForgeSource) Loader() pack.Loader { return pack.LoaderForge }

type forgePromotions struct {
	Promos map[string]string `json:"promos"`
}

// Resolve prefers the "recommended" promotion over "latest", matching
// the teacher's "prefer the stable channel" bias in its own tool version
// picking.
func (ForgeSource) Resolve(ctx context.Context, sess session.Session, mcVersion string) (string, error) {
	body, err := sess.HTTP().GetJSON(ctx, forgePromotionsURL, nil, nil)
	if err != nil {
		return "", NewSourceUnavailableError(pack.LoaderForge, err)
	}

	var promos forgePromotions
	if err := json.Unmarshal(body, &promos); err != nil {
		return "", NewSourceUnavailableError(pack.LoaderForge, err)
	}

	if v, ok := promos.Promos[fmt.Sprintf("%s-recommended", mcVersion)]; ok {
		return v, nil
	}
	if v, ok := promos.Promos[fmt.Sprintf("%s-latest", mcVersion)]; ok {
		return v, nil
	}
	return "", NewSourceUnavailableError(pack.LoaderForge, core.NewResolveError(mcVersion, "no forge promotion published", ""))
}
