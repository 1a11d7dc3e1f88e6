package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"

	"github.com/empack-dev/empack/internal/core"
	"github.com/empack-dev/empack/internal/pack"
	"github.com/empack-dev/empack/internal/session"
)

const curseForgeSearchURL = "https://api.curseforge.com/v1/mods/search"

// curseForgeGameID is fixed: Minecraft's id on CurseForge never changes.
const curseForgeGameID = "432"

// CurseForgeAdapter queries CurseForge's mod search endpoint. Unlike
// Modrinth, CurseForge requires an API key header; a missing key is
// surfaced as a normal adapter error so Resolve degrades to
// Modrinth-only results rather than failing the whole query.
type CurseForgeAdapter struct {
	APIKey string
}

func (CurseForgeAdapter) Platform() pack.Platform { return pack.PlatformCurseForge }

type curseForgeSearchResponse struct {
	Data []curseForgeMod `json:"data"`
}

type curseForgeMod struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Summary      string `json:"summary"`
	DownloadCount float64 `json:"downloadCount"`
}

func (c CurseForgeAdapter) Search(ctx context.Context, http session.HTTPClient, q Query) ([]Candidate, error) {
	if c.APIKey == "" {
		return nil, core.NewNetworkError(core.NetworkKindConnection, curseForgeSearchURL, 0, errNoAPIKey)
	}

	body, err := http.GetJSON(ctx, curseForgeSearchURL, map[string]string{"x-api-key": c.APIKey}, map[string]string{
		"gameId":         curseForgeGameID,
		"searchFilter":   q.Name,
		"gameVersion":    q.MCVersion,
		"modLoaderType":  curseForgeLoaderType(q.Loader),
		"pageSize":       "10",
	})
	if err != nil {
		return nil, err
	}

	var resp curseForgeSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, core.NewNetworkError(core.NetworkKindParse, curseForgeSearchURL, 0, err)
	}

	candidates := make([]Candidate, 0, len(resp.Data))
	for _, m := range resp.Data {
		candidates = append(candidates, Candidate{
			Platform:    pack.PlatformCurseForge,
			ProjectID:   strconv.Itoa(m.ID),
			Title:       m.Name,
			Downloads:   int64(m.DownloadCount),
			Description: m.Summary,
		})
	}
	return candidates, nil
}

// curseForgeLoaderType mirrors CurseForge's ModLoaderType enum ordinals.
func curseForgeLoaderType(l pack.Loader) string {
	switch l {
	case pack.LoaderForge:
		return "1"
	case pack.LoaderFabric:
		return "4"
	case pack.LoaderQuilt:
		return "5"
	case pack.LoaderNeoForge:
		return "6"
	default:
		return "0"
	}
}

var errNoAPIKey = errors.New("required to query CurseForge; set EMPACK_CURSEFORGE_API_KEY")

var _ Adapter = CurseForgeAdapter{}
