package resolver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/empack-dev/empack/internal/core"
	"github.com/empack-dev/empack/internal/pack"
	"github.com/empack-dev/empack/internal/session"
)

const modrinthSearchURL = "https://api.modrinth.com/v2/search"

// ModrinthAdapter queries Modrinth's project search endpoint.
type ModrinthAdapter struct{}

func (ModrinthAdapter) Platform() pack.Platform { return pack.PlatformModrinth }

type modrinthSearchResponse struct {
	Hits []modrinthHit `json:"hits"`
}

type modrinthHit struct {
	ProjectID   string   `json:"project_id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Downloads   int64    `json:"downloads"`
	Categories  []string `json:"categories"`
	Versions    []string `json:"versions"`
}

func (ModrinthAdapter) Search(ctx context.Context, http session.HTTPClient, q Query) ([]Candidate, error) {
	facets := fmt.Sprintf(`[["project_type:mod"],["versions:%s"],["categories:%s"]]`, q.MCVersion, loaderCategory(q.Loader))

	body, err := http.GetJSON(ctx, modrinthSearchURL, nil, map[string]string{
		"query":  q.Name,
		"facets": facets,
		"limit":  "10",
	})
	if err != nil {
		return nil, err
	}

	var resp modrinthSearchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, core.NewNetworkError(core.NetworkKindParse, modrinthSearchURL, 0, err)
	}

	candidates := make([]Candidate, 0, len(resp.Hits))
	for _, h := range resp.Hits {
		candidates = append(candidates, Candidate{
			Platform:            pack.PlatformModrinth,
			ProjectID:           h.ProjectID,
			Title:               h.Title,
			Downloads:           h.Downloads,
			Description:         h.Description,
			SupportedLoaders:    h.Categories,
			SupportedMCVersions: h.Versions,
		})
	}
	return candidates, nil
}

func loaderCategory(l pack.Loader) string {
	switch l {
	case pack.LoaderNeoForge:
		return "neoforge"
	case pack.LoaderForge:
		return "forge"
	case pack.LoaderQuilt:
		return "quilt"
	default:
		return "fabric"
	}
}

var _ Adapter = ModrinthAdapter{}
