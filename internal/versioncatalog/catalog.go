// Package versioncatalog resolves "latest" or "recommended" loader
// versions for a given Minecraft version from each loader's own
// authoritative source, independently and without caching across runs.
package versioncatalog

import (
	"context"

	"github.com/empack-dev/empack/internal/pack"
	"github.com/empack-dev/empack/internal/session"
)

// Source is one loader's independent version authority.
type Source interface {
	Loader() pack.Loader
	Resolve(ctx context.Context, sess session.Session, mcVersion string) (string, error)
}

// LoaderSources returns the four mod-loader adapters, in the order
// spec.md §4.5 lists them.
func LoaderSources() []Source {
	return []Source{
		FabricSource{},
		QuiltSource{},
		NeoForgeSource{},
		ForgeSource{},
	}
}

// ResolveMinecraftVersion confirms mcVersion is a published Mojang
// release before the rest of the catalog is asked to resolve a loader
// for it.
func ResolveMinecraftVersion(ctx context.Context, sess session.Session, mcVersion string) (string, error) {
	return MojangSource{}.Resolve(ctx, sess, mcVersion)
}

// ResolveLoader picks the adapter for the given loader and resolves it.
// There is deliberately no fallback between adapters: a loader that
// cannot be reached fails the whole init/build step rather than
// silently reusing a stale or guessed version (spec.md §4.5).
func ResolveLoader(ctx context.Context, sess session.Session, loader pack.Loader, mcVersion string) (string, error) {
	for _, src := range LoaderSources() {
		if src.Loader() == loader {
			return src.Resolve(ctx, sess, mcVersion)
		}
	}
	return "", NewSourceUnavailableError(loader, errUnknownLoader)
}
