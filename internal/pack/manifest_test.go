package pack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseManifest_BareStringsAndMappings(t *testing.T) {
	data := []byte(`
- sodium
- name: lithium
  side: client
- name: carpet
  platform: curseforge
  project_id: "349239"
`)
	manifest, err := ParseManifest(data)
	require.NoError(t, err)
	require.Len(t, manifest.Mods, 3)

	assert.Equal(t, "sodium", manifest.Mods[0].Name)
	assert.Equal(t, SideBoth, manifest.Mods[0].Side)

	assert.Equal(t, "lithium", manifest.Mods[1].Name)
	assert.Equal(t, SideClient, manifest.Mods[1].Side)

	assert.Equal(t, PlatformCurseForge, manifest.Mods[2].Platform)
	assert.Equal(t, "349239", manifest.Mods[2].ProjectID)
}

func TestParseManifest_PreservesOrder(t *testing.T) {
	data := []byte("- zed\n- alpha\n- middle\n")
	manifest, err := ParseManifest(data)
	require.NoError(t, err)

	names := []string{manifest.Mods[0].Name, manifest.Mods[1].Name, manifest.Mods[2].Name}
	assert.Equal(t, []string{"zed", "alpha", "middle"}, names)
}

func TestParseManifest_DuplicateProjectIDIsError(t *testing.T) {
	data := []byte(`
- platform: modrinth
  project_id: AANobbMI
  name: sodium
- platform: modrinth
  project_id: AANobbMI
  name: sodium-again
`)
	_, err := ParseManifest(data)
	require.Error(t, err)
}

func TestParseManifest_EmptyManifestParsesCleanly(t *testing.T) {
	manifest, err := ParseManifest(nil)
	require.NoError(t, err)
	assert.Empty(t, manifest.Mods)
}

func TestEmpackManifest_MarshalRoundTripsOrder(t *testing.T) {
	manifest, err := ParseManifest([]byte("- zed\n- alpha\n"))
	require.NoError(t, err)

	out, err := manifest.Marshal()
	require.NoError(t, err)

	reparsed, err := ParseManifest(out)
	require.NoError(t, err)
	assert.Equal(t, "zed", reparsed.Mods[0].Name)
	assert.Equal(t, "alpha", reparsed.Mods[1].Name)
}

func TestEmpackManifest_AddRejectsDuplicate(t *testing.T) {
	manifest, err := ParseManifest([]byte("- sodium\n"))
	require.NoError(t, err)

	err = manifest.Add(ModSpec{Name: "lithium", Side: SideBoth})
	require.NoError(t, err)
	assert.Len(t, manifest.Mods, 2)

	err = manifest.Add(ModSpec{Name: "sodium", Side: SideBoth})
	require.Error(t, err)
	assert.Len(t, manifest.Mods, 2)
}

func TestEmpackManifest_Remove(t *testing.T) {
	manifest, err := ParseManifest([]byte("- sodium\n- lithium\n"))
	require.NoError(t, err)

	removed := manifest.Remove("sodium")
	assert.Equal(t, 1, removed)
	assert.Len(t, manifest.Mods, 1)
	assert.Equal(t, "lithium", manifest.Mods[0].Name)
}
