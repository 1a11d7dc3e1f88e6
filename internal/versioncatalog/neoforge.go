package versioncatalog

import (
	"context"
	"encoding/xml"
	"strings"

	"golang.org/x/mod/semver"

	"github.com/empack-dev/empack/internal/core"
	"github.com/empack-dev/empack/internal/pack"
	"github.com/empack-dev/empack/internal/session"
)

const neoForgeMavenMetadataURL = "https://maven.neoforged.net/releases/net/neoforged/neoforge/maven-metadata.xml"

// NeoForgeSource resolves the NeoForge loader version from its Maven
// repository's metadata file. This is the one place empack parses XML:
// the endpoint itself has no JSON equivalent.
type NeoForgeSource struct{}

func (NeoForgeSource) Loader() pack.Loader { return pack.LoaderNeoForge }

type mavenMetadata struct {
	XMLName    xml.Name `xml:"metadata"`
	Versioning struct {
		Latest   string   `xml:"latest"`
		Release  string   `xml:"release"`
		Versions []string `xml:"versions>version"`
	} `xml:"versioning"`
}

// Resolve picks the newest published NeoForge version whose string
// begins with mcVersion's minor.patch segment, since NeoForge's own
// version scheme embeds the Minecraft version rather than naming it
// separately (e.g. "20.1.87" tracks Minecraft 1.20.1). Candidates are
// compared with semver rather than trusted to arrive in order, since
// Maven's metadata.xml makes no ordering guarantee.
func (NeoForgeSource) Resolve(ctx context.Context, sess session.Session, mcVersion string) (string, error) {
	body, err := sess.HTTP().GetRaw(ctx, neoForgeMavenMetadataURL, nil, nil)
	if err != nil {
		return "", NewSourceUnavailableError(pack.LoaderNeoForge, err)
	}

	var metadata mavenMetadata
	if err := xml.Unmarshal(body, &metadata); err != nil {
		return "", NewSourceUnavailableError(pack.LoaderNeoForge, err)
	}

	prefix := neoForgeVersionPrefix(mcVersion)
	var best string
	for _, v := range metadata.Versioning.Versions {
		if !strings.HasPrefix(v, prefix) {
			continue
		}
		if best == "" || semver.Compare("v"+best, "v"+v) < 0 {
			best = v
		}
	}
	if best != "" {
		return best, nil
	}
	return "", NewSourceUnavailableError(pack.LoaderNeoForge, core.NewResolveError(mcVersion, "no neoforge build matches this minecraft version", ""))
}

// neoForgeVersionPrefix converts "1.20.1" to "20.1.", NeoForge's own
// convention of dropping the leading "1." major component.
func neoForgeVersionPrefix(mcVersion string) string {
	trimmed := strings.TrimPrefix(mcVersion, "1.")
	return trimmed + "."
}
