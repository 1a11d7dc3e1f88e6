package build

import (
	"archive/zip"
	"bytes"
	"path"
	"strings"

	"github.com/empack-dev/empack/internal/session"
)

// buildZip walks srcDir (workspace-relative) through the filesystem
// capability and assembles a zip archive in memory with every entry
// stored uncompressed (spec.md §4.6) — the artifacts this produces are
// mostly already-compressed jars, so deflate would just burn CPU for no
// size benefit. .gitkeep placeholders are skipped.
func buildZip(fsys session.FileSystem, srcDir string) ([]byte, error) {
	var buf bytes.Buffer
	w := zip.NewWriter(&buf)

	if err := walkZip(fsys, srcDir, srcDir, w); err != nil {
		return nil, err
	}

	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func walkZip(fsys session.FileSystem, root, dir string, w *zip.Writer) error {
	entries, err := fsys.List(dir)
	if err != nil {
		return err
	}

	for _, e := range entries {
		full := path.Join(dir, e.Name())
		if e.IsDir() {
			if err := walkZip(fsys, root, full, w); err != nil {
				return err
			}
			continue
		}
		if e.Name() == ".gitkeep" {
			continue
		}

		data, err := fsys.Read(full)
		if err != nil {
			return err
		}

		rel := strings.TrimPrefix(strings.TrimPrefix(full, root), "/")

		hdr := &zip.FileHeader{Name: rel, Method: zip.Store}
		hdr.SetMode(0o644)
		entryWriter, err := w.CreateHeader(hdr)
		if err != nil {
			return err
		}
		if _, err := entryWriter.Write(data); err != nil {
			return err
		}
	}
	return nil
}
