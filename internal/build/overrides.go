package build

import (
	"archive/zip"
	"bytes"
	"io"
	"path"
	"strings"

	"github.com/empack-dev/empack/internal/core"
	"github.com/empack-dev/empack/internal/session"
)

// overridesPrefixes are the mrpack override directories a zip entry may
// carry (the Modrinth format's generic overrides/ plus the client- and
// server-specific variants), each stripped down to a shared destination
// tree the same way dizzyd-mcdex's installOverrides unpacks a modpack
// zip's overrides/ into the target instance directory.
var overridesPrefixes = []string{"client-overrides/", "server-overrides/", "overrides/"}

// extractOverrides reads an in-memory mrpack archive and writes every
// file under its overrides/ (and client-/server-overrides/) directories
// to destDir, stripping the prefix.
func extractOverrides(fsys session.FileSystem, mrpackData []byte, destDir string) error {
	r, err := zip.NewReader(bytes.NewReader(mrpackData), int64(len(mrpackData)))
	if err != nil {
		return core.NewFilesystemError("unzip", "mrpack", err)
	}

	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rel, ok := stripOverridesPrefix(f.Name)
		if !ok {
			continue
		}

		rc, err := f.Open()
		if err != nil {
			return core.NewFilesystemError("unzip", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		core.LogDeferredError(rc.Close)
		if err != nil {
			return core.NewFilesystemError("unzip", f.Name, err)
		}

		if err := fsys.WriteAtomic(path.Join(destDir, rel), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func stripOverridesPrefix(name string) (string, bool) {
	for _, prefix := range overridesPrefixes {
		if strings.HasPrefix(name, prefix) {
			return strings.TrimPrefix(name, prefix), true
		}
	}
	return "", false
}
