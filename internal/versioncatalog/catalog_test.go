package versioncatalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/empack-dev/empack/internal/pack"
	"github.com/empack-dev/empack/internal/session"
)

func TestMojangSource_ResolvesKnownRelease(t *testing.T) {
	sess := session.NewMockSession()
	sess.Net.Seed(mojangManifestURL, nil, []byte(`{"versions":[{"id":"1.20.1","type":"release"},{"id":"1.20.1-rc1","type":"snapshot"}]}`))

	v, err := ResolveMinecraftVersion(context.Background(), sess, "1.20.1")
	require.NoError(t, err)
	assert.Equal(t, "1.20.1", v)
}

func TestMojangSource_LatestKeywordResolvesToLatestRelease(t *testing.T) {
	sess := session.NewMockSession()
	sess.Net.Seed(mojangManifestURL, nil, []byte(`{"latest":{"release":"1.21.1","snapshot":"1.21.2-rc1"},"versions":[{"id":"1.21.1","type":"release"}]}`))

	v, err := ResolveMinecraftVersion(context.Background(), sess, "latest")
	require.NoError(t, err)
	assert.Equal(t, "1.21.1", v)
}

func TestMojangSource_LatestKeywordWithoutReleaseIsSourceUnavailable(t *testing.T) {
	sess := session.NewMockSession()
	sess.Net.Seed(mojangManifestURL, nil, []byte(`{"latest":{"release":""},"versions":[{"id":"1.21.1","type":"release"}]}`))

	_, err := ResolveMinecraftVersion(context.Background(), sess, "latest")
	require.Error(t, err)
	var unavailable *SourceUnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestMojangSource_UnknownVersionIsSourceUnavailable(t *testing.T) {
	sess := session.NewMockSession()
	sess.Net.Seed(mojangManifestURL, nil, []byte(`{"versions":[{"id":"1.21","type":"release"}]}`))

	_, err := ResolveMinecraftVersion(context.Background(), sess, "1.20.1")
	require.Error(t, err)
	var unavailable *SourceUnavailableError
	assert.ErrorAs(t, err, &unavailable)
}

func TestFabricSource_PrefersFirstStableEntry(t *testing.T) {
	sess := session.NewMockSession()
	url := fabricLoaderVersionsURL + "/1.20.1"
	sess.Net.Seed(url, nil, []byte(`[{"loader":{"version":"0.15.0","stable":false}},{"loader":{"version":"0.14.22","stable":true}}]`))

	v, err := FabricSource{}.Resolve(context.Background(), sess, "1.20.1")
	require.NoError(t, err)
	assert.Equal(t, "0.14.22", v)
}

func TestQuiltSource_ResolvesFirstEntry(t *testing.T) {
	sess := session.NewMockSession()
	url := quiltLoaderVersionsURL + "/1.20.1"
	sess.Net.Seed(url, nil, []byte(`[{"loader":{"version":"0.21.0"}}]`))

	v, err := QuiltSource{}.Resolve(context.Background(), sess, "1.20.1")
	require.NoError(t, err)
	assert.Equal(t, "0.21.0", v)
}

func TestForgeSource_PrefersRecommendedOverLatest(t *testing.T) {
	sess := session.NewMockSession()
	sess.Net.Seed(forgePromotionsURL, nil, []byte(`{"promos":{"1.20.1-recommended":"47.2.0","1.20.1-latest":"47.3.0"}}`))

	v, err := ForgeSource{}.Resolve(context.Background(), sess, "1.20.1")
	require.NoError(t, err)
	assert.Equal(t, "47.2.0", v)
}

func TestForgeSource_FallsBackToLatest(t *testing.T) {
	sess := session.NewMockSession()
	sess.Net.Seed(forgePromotionsURL, nil, []byte(`{"promos":{"1.20.1-latest":"47.3.0"}}`))

	v, err := ForgeSource{}.Resolve(context.Background(), sess, "1.20.1")
	require.NoError(t, err)
	assert.Equal(t, "47.3.0", v)
}

func TestNeoForgeSource_PicksNewestMatchingPrefix(t *testing.T) {
	sess := session.NewMockSession()
	xmlBody := []byte(`<metadata><versioning><versions><version>20.1.1</version><version>20.1.87</version><version>20.2.5</version></versions></versioning></metadata>`)
	sess.Net.SeedRaw(neoForgeMavenMetadataURL, nil, xmlBody)

	v, err := NeoForgeSource{}.Resolve(context.Background(), sess, "1.20.1")
	require.NoError(t, err)
	assert.Equal(t, "20.1.87", v)
}

func TestNeoForgeSource_NoMatchIsSourceUnavailable(t *testing.T) {
	sess := session.NewMockSession()
	xmlBody := []byte(`<metadata><versioning><versions><version>21.0.1</version></versions></versioning></metadata>`)
	sess.Net.SeedRaw(neoForgeMavenMetadataURL, nil, xmlBody)

	_, err := NeoForgeSource{}.Resolve(context.Background(), sess, "1.20.1")
	require.Error(t, err)
}

func TestResolveLoader_DispatchesToMatchingSource(t *testing.T) {
	sess := session.NewMockSession()
	sess.Net.Seed(forgePromotionsURL, nil, []byte(`{"promos":{"1.20.1-recommended":"47.2.0"}}`))

	v, err := ResolveLoader(context.Background(), sess, pack.LoaderForge, "1.20.1")
	require.NoError(t, err)
	assert.Equal(t, "47.2.0", v)
}
