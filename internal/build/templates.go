package build

import (
	"bytes"
	"path"
	"text/template"

	"github.com/empack-dev/empack/internal/core"
	"github.com/empack-dev/empack/internal/pack"
	"github.com/empack-dev/empack/internal/session"
)

// templateData is the substitution set spec.md §4.6 names for
// templates/client and templates/server: {name, version, loader,
// loader_version, mc_version}.
type templateData struct {
	Name          string
	Version       string
	Loader        string
	LoaderVersion string
	MCVersion     string
}

func newTemplateData(meta *pack.PackMetadata) templateData {
	return templateData{
		Name:          meta.Name,
		Version:       meta.Version,
		Loader:        string(meta.Loader),
		LoaderVersion: meta.LoaderVersion,
		MCVersion:     meta.MCVersion,
	}
}

// renderTemplateDir runs every file under srcDir through text/template
// against data and writes the result under dstDir at the same relative
// path, skipping entirely if srcDir doesn't exist — templates/client and
// templates/server are both optional.
func renderTemplateDir(fsys session.FileSystem, srcDir, dstDir string, data templateData) error {
	if !fsys.Exists(srcDir) {
		return nil
	}
	return walkCopy(fsys, srcDir, srcDir, dstDir, func(name string, content []byte) ([]byte, error) {
		tmpl, err := template.New(name).Parse(string(content))
		if err != nil {
			return nil, core.NewFilesystemError("template", name, err)
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, core.NewFilesystemError("template", name, err)
		}
		return buf.Bytes(), nil
	})
}

// copyTree recursively copies every file under srcDir to the same
// relative path under dstDir, both workspace-relative paths through the
// filesystem capability. Used for staging pack/ and the extracted mrpack
// overrides into build output directories.
func copyTree(fsys session.FileSystem, srcDir, dstDir string) error {
	if !fsys.Exists(srcDir) {
		return nil
	}
	return walkCopy(fsys, srcDir, srcDir, dstDir, func(string, []byte) ([]byte, error) {
		return nil, nil
	})
}

// walkCopy walks srcDir and for every file invokes transform on its
// content (identity transform leaves a plain copy), writing the result
// to the equivalent path rooted at dstDir.
func walkCopy(fsys session.FileSystem, root, dir, dstDir string, transform func(name string, content []byte) ([]byte, error)) error {
	entries, err := fsys.List(dir)
	if err != nil {
		return core.NewFilesystemError("list", dir, err)
	}
	for _, e := range entries {
		full := path.Join(dir, e.Name())
		if e.IsDir() {
			if err := walkCopy(fsys, root, full, dstDir, transform); err != nil {
				return err
			}
			continue
		}
		if e.Name() == ".gitkeep" {
			continue
		}

		data, err := fsys.Read(full)
		if err != nil {
			return core.NewFilesystemError("read", full, err)
		}

		rel := full[len(root):]
		for len(rel) > 0 && rel[0] == '/' {
			rel = rel[1:]
		}
		out := path.Join(dstDir, rel)

		if transform != nil {
			transformed, err := transform(rel, data)
			if err != nil {
				return err
			}
			if transformed != nil {
				data = transformed
			}
		}

		if err := fsys.WriteAtomic(out, data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

// copyFile copies a single workspace-relative file, used for the
// packwiz-installer-bootstrap.jar staging step.
func copyFile(fsys session.FileSystem, src, dst string) error {
	data, err := fsys.Read(src)
	if err != nil {
		return core.NewFilesystemError("read", src, err)
	}
	return fsys.WriteAtomic(dst, data, 0o644)
}
