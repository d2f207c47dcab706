// Package testutil builds throwaway project trees for tests. Everything
// lives under t.TempDir() so nothing real is ever touched.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Fixture is a fake home directory with project trees under it.
type Fixture struct {
	T    *testing.T
	Home string
}

// NewFixture creates an empty fake home.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	return &Fixture{T: t, Home: t.TempDir()}
}

// Path joins relative path elements onto the fixture home.
func (f *Fixture) Path(rel ...string) string {
	return filepath.Join(append([]string{f.Home}, rel...)...)
}

// MkDir creates a directory (and parents) under home and returns its path.
func (f *Fixture) MkDir(rel string) string {
	f.T.Helper()
	path := filepath.Join(f.Home, filepath.FromSlash(rel))
	if err := os.MkdirAll(path, 0o755); err != nil {
		f.T.Fatalf("mkdir %s: %v", path, err)
	}
	return path
}

// WriteFile creates a file of the given size under home and returns its
// path.
func (f *Fixture) WriteFile(rel string, size int) string {
	f.T.Helper()
	path := filepath.Join(f.Home, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		f.T.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, make([]byte, size), 0o644); err != nil {
		f.T.Fatalf("write %s: %v", path, err)
	}
	return path
}

// Age backdates a path's modification time.
func (f *Fixture) Age(path string, age time.Duration) {
	f.T.Helper()
	old := time.Now().Add(-age)
	if err := os.Chtimes(path, old, old); err != nil {
		f.T.Fatalf("chtimes %s: %v", path, err)
	}
}

// Chmod sets a path's mode for the duration of the test. The original
// mode is restored on cleanup so the temp dir can be removed.
func (f *Fixture) Chmod(path string, mode os.FileMode) {
	f.T.Helper()
	info, err := os.Stat(path)
	if err != nil {
		f.T.Fatalf("stat %s: %v", path, err)
	}
	orig := info.Mode().Perm()
	if err := os.Chmod(path, mode); err != nil {
		f.T.Fatalf("chmod %s: %v", path, err)
	}
	f.T.Cleanup(func() { _ = os.Chmod(path, orig) })
}

// SkipIfRoot skips permission tests when running as root, which ignores
// file modes entirely.
func SkipIfRoot(t *testing.T) {
	t.Helper()
	if os.Getuid() == 0 {
		t.Skip("running as root; permission bits are not enforced")
	}
}

// Symlink creates a symbolic link under home.
func (f *Fixture) Symlink(target, rel string) string {
	f.T.Helper()
	path := filepath.Join(f.Home, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		f.T.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.Symlink(target, path); err != nil {
		f.T.Fatalf("symlink %s: %v", path, err)
	}
	return path
}

// NodeProject creates <rel>/package.json plus a node_modules tree holding
// files of fileSize bytes each, returning the node_modules path.
func (f *Fixture) NodeProject(rel string, files, fileSize int) string {
	f.T.Helper()
	f.WriteFile(rel+"/package.json", 16)
	dep := f.MkDir(rel + "/node_modules")
	for i := 0; i < files; i++ {
		f.WriteFile(rel+"/node_modules/pkg/file"+string(rune('a'+i))+".js", fileSize)
	}
	return dep
}

// Venv creates a virtualenv directory with its pyvenv.cfg marker.
func (f *Fixture) Venv(rel string) string {
	f.T.Helper()
	dir := f.MkDir(rel)
	f.WriteFile(rel+"/pyvenv.cfg", 32)
	f.WriteFile(rel+"/lib/site.py", 64)
	return dir
}
