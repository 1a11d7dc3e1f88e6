package session

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"github.com/empack-dev/empack/internal/core"
)

// FileSystem is the filesystem capability (spec.md §4.1). Every path is
// workspace-relative; an absolute path is rejected rather than silently
// escaping the workspace root.
type FileSystem interface {
	Read(relPath string) ([]byte, error)
	WriteAtomic(relPath string, data []byte, perm fs.FileMode) error
	List(relPath string) ([]fs.DirEntry, error)
	MkdirAll(relPath string, perm fs.FileMode) error
	RemoveTree(relPath string) error
	Exists(relPath string) bool
}

func cleanRel(relPath string) (string, error) {
	if path.IsAbs(relPath) || filepath.IsAbs(relPath) {
		return "", fmt.Errorf("absolute path not allowed: %s", relPath)
	}
	cleaned := path.Clean(filepath.ToSlash(relPath))
	if cleaned == ".." || len(cleaned) >= 2 && cleaned[:3] == "../" {
		return "", fmt.Errorf("path escapes workspace: %s", relPath)
	}
	return cleaned, nil
}

// LiveFileSystem confines all operations to an os.Root opened once at
// session construction, the same traversal-safe pattern used for secure
// directory copies elsewhere in the codebase.
type LiveFileSystem struct {
	root *os.Root
}

func NewLiveFileSystem(workspaceDir string) (*LiveFileSystem, error) {
	if err := os.MkdirAll(workspaceDir, 0o755); err != nil {
		return nil, core.NewFilesystemError("mkdir", workspaceDir, err)
	}
	root, err := os.OpenRoot(workspaceDir)
	if err != nil {
		return nil, core.NewFilesystemError("open", workspaceDir, err)
	}
	return &LiveFileSystem{root: root}, nil
}

func (l *LiveFileSystem) Close() error {
	return l.root.Close()
}

func (l *LiveFileSystem) Read(relPath string) ([]byte, error) {
	p, err := cleanRel(relPath)
	if err != nil {
		return nil, core.NewFilesystemError("read", relPath, err)
	}
	data, err := l.root.ReadFile(p)
	if err != nil {
		return nil, core.NewFilesystemError("read", relPath, err)
	}
	return data, nil
}

// WriteAtomic writes to a temp file under the same directory then renames
// it into place, so a crash mid-write never leaves a half-formed file at
// the final path (spec.md §3 ArtifactPaths invariant).
func (l *LiveFileSystem) WriteAtomic(relPath string, data []byte, perm fs.FileMode) error {
	p, err := cleanRel(relPath)
	if err != nil {
		return core.NewFilesystemError("write", relPath, err)
	}

	dir := path.Dir(p)
	if dir != "." {
		if err := l.root.MkdirAll(dir, 0o755); err != nil {
			return core.NewFilesystemError("write", relPath, err)
		}
	}

	tmp := p + ".tmp-empack"
	if err := l.root.WriteFile(tmp, data, perm); err != nil {
		return core.NewFilesystemError("write", relPath, err)
	}
	if err := l.root.Rename(tmp, p); err != nil {
		core.LogDeferredError(func() error { return l.root.Remove(tmp) })
		return core.NewFilesystemError("write", relPath, err)
	}
	return nil
}

func (l *LiveFileSystem) List(relPath string) ([]fs.DirEntry, error) {
	p, err := cleanRel(relPath)
	if err != nil {
		return nil, core.NewFilesystemError("list", relPath, err)
	}
	entries, err := fs.ReadDir(l.root.FS(), p)
	if err != nil {
		return nil, core.NewFilesystemError("list", relPath, err)
	}
	return entries, nil
}

func (l *LiveFileSystem) MkdirAll(relPath string, perm fs.FileMode) error {
	p, err := cleanRel(relPath)
	if err != nil {
		return core.NewFilesystemError("mkdir", relPath, err)
	}
	if err := l.root.MkdirAll(p, perm); err != nil {
		return core.NewFilesystemError("mkdir", relPath, err)
	}
	return nil
}

func (l *LiveFileSystem) RemoveTree(relPath string) error {
	p, err := cleanRel(relPath)
	if err != nil {
		return core.NewFilesystemError("remove", relPath, err)
	}
	if err := l.root.RemoveAll(p); err != nil {
		return core.NewFilesystemError("remove", relPath, err)
	}
	return nil
}

func (l *LiveFileSystem) Exists(relPath string) bool {
	p, err := cleanRel(relPath)
	if err != nil {
		return false
	}
	_, err = fs.Stat(l.root.FS(), p)
	return err == nil
}

var _ FileSystem = &LiveFileSystem{}
