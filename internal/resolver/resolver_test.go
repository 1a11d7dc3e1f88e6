package resolver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/empack-dev/empack/internal/pack"
	"github.com/empack-dev/empack/internal/session"
)

type stubAdapter struct {
	platform   pack.Platform
	candidates []Candidate
	err        error
}

func (s stubAdapter) Platform() pack.Platform { return s.platform }

func (s stubAdapter) Search(ctx context.Context, http session.HTTPClient, q Query) ([]Candidate, error) {
	return s.candidates, s.err
}

func TestDownloadConfidence_Boundaries(t *testing.T) {
	assert.Equal(t, 0.0, downloadConfidence(999))
	assert.Equal(t, 0.0, downloadConfidence(1000))
	assert.Equal(t, 100.0, downloadConfidence(10000))
	assert.InDelta(t, 50.0, downloadConfidence(5500), 0.01)
}

func TestNameSimilarity_ExactAndSubstring(t *testing.T) {
	assert.Equal(t, 100.0, nameSimilarity("sodium", "sodium"))
	assert.Equal(t, 0.0, nameSimilarity("", "sodium"))

	sim := nameSimilarity("sodium", "sodiumextra")
	assert.Greater(t, sim, 0.0)
	assert.Less(t, sim, 100.0)
}

func TestScore_ExtraWordsGuardAppliesOnlyToLongQueries(t *testing.T) {
	candidates := []Candidate{
		{Title: "Just Enough Items Addon Expanded Edition", Downloads: 20000},
	}
	scored := score(Query{Name: "jei"}, append([]Candidate(nil), candidates...))
	assert.True(t, scored[0].extraWords)

	scored2 := score(Query{Name: "sodium"}, []Candidate{{Title: "Sodium Extra Plus Renderer Pack", Downloads: 20000}})
	assert.True(t, scored2[0].extraWords)
	assert.Less(t, scored2[0].score, 100.0)
}

func TestDecide_ConfirmedWhenHighScoreAndLargeGap(t *testing.T) {
	merged := []Candidate{
		{Title: "sodium", ProjectID: "a", score: 95},
		{Title: "sodium-extra", ProjectID: "b", score: 60},
	}
	res := decide(Query{Name: "sodium"}, merged, false)
	assert.Equal(t, KindConfirmed, res.Kind)
	assert.Equal(t, "a", res.Top.ProjectID)
}

func TestDecide_AmbiguousWhenHighScoreButSmallGap(t *testing.T) {
	merged := []Candidate{
		{Title: "sodium", ProjectID: "a", score: 90},
		{Title: "sodium-extra", ProjectID: "b", score: 82},
	}
	res := decide(Query{Name: "sodium"}, merged, false)
	assert.Equal(t, KindAmbiguous, res.Kind)
}

func TestDecide_AmbiguousPromotedToConfirmedWhenYesFlag(t *testing.T) {
	merged := []Candidate{
		{Title: "sodium", ProjectID: "a", score: 60},
		{Title: "sodium-extra", ProjectID: "b", score: 55},
	}
	res := decide(Query{Name: "sodium"}, merged, true)
	assert.Equal(t, KindConfirmed, res.Kind)
	assert.Equal(t, "a", res.Top.ProjectID)
}

func TestDecide_NotFoundBelow50(t *testing.T) {
	merged := []Candidate{{Title: "totally-unrelated", ProjectID: "z", score: 10}}
	res := decide(Query{Name: "sodium"}, merged, false)
	assert.Equal(t, KindNotFound, res.Kind)
}

func TestDecide_EmptyIsNotFound(t *testing.T) {
	res := decide(Query{Name: "sodium"}, nil, false)
	assert.Equal(t, KindNotFound, res.Kind)
}

func TestSortCandidates_ScoreThenDownloadsThenPlatform(t *testing.T) {
	candidates := []Candidate{
		{Platform: pack.PlatformCurseForge, ProjectID: "cf", score: 80, Downloads: 100},
		{Platform: pack.PlatformModrinth, ProjectID: "mr", score: 80, Downloads: 100},
		{Platform: pack.PlatformModrinth, ProjectID: "top", score: 90, Downloads: 1},
	}
	sorted := sortCandidates(append([]Candidate(nil), candidates...))
	assert.Equal(t, "top", sorted[0].ProjectID)
	assert.Equal(t, "cf", sorted[1].ProjectID) // curseforge < modrinth alphabetically
	assert.Equal(t, "mr", sorted[2].ProjectID)
}

func TestDedupe_RemovesSamePlatformAndProjectID(t *testing.T) {
	candidates := []Candidate{
		{Platform: pack.PlatformModrinth, ProjectID: "a"},
		{Platform: pack.PlatformModrinth, ProjectID: "a"},
		{Platform: pack.PlatformCurseForge, ProjectID: "a"},
	}
	deduped := dedupe(candidates)
	assert.Len(t, deduped, 2)
}

func TestResolve_MergesResultsFromBothAdapters(t *testing.T) {
	sess := session.NewMockSession()
	adapters := []Adapter{
		stubAdapter{platform: pack.PlatformModrinth, candidates: []Candidate{
			{Platform: pack.PlatformModrinth, ProjectID: "mr1", Title: "sodium", Downloads: 50000},
		}},
		stubAdapter{platform: pack.PlatformCurseForge, candidates: []Candidate{
			{Platform: pack.PlatformCurseForge, ProjectID: "cf1", Title: "sodium", Downloads: 40000},
		}},
	}

	res, err := Resolve(context.Background(), sess, Query{Name: "sodium"}, adapters, false)
	require.NoError(t, err)
	assert.Equal(t, KindAmbiguous, res.Kind)
}

func TestResolve_PartialAdapterFailureStillResolves(t *testing.T) {
	sess := session.NewMockSession()
	adapters := []Adapter{
		stubAdapter{platform: pack.PlatformModrinth, candidates: []Candidate{
			{Platform: pack.PlatformModrinth, ProjectID: "mr1", Title: "sodium", Downloads: 50000},
		}},
		stubAdapter{platform: pack.PlatformCurseForge, err: assertErr},
	}

	res, err := Resolve(context.Background(), sess, Query{Name: "sodium"}, adapters, false)
	require.NoError(t, err)
	assert.Equal(t, KindConfirmed, res.Kind)
}

var assertErr = &testStubErr{}

type testStubErr struct{}

func (*testStubErr) Error() string { return "stub adapter failure" }
