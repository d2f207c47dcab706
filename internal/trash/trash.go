// Package trash moves paths to a recoverable trash location instead of
// erasing them. On macOS that is ~/.Trash; elsewhere the freedesktop
// layout under ~/.local/share/Trash is used, including the .trashinfo
// record that lets file managers restore the item.
package trash

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"syscall"
	"time"
)

// Trash relocates paths into one trash directory.
type Trash struct {
	filesDir string
	infoDir  string // empty on macOS; no .trashinfo there
	now      func() time.Time
}

// New returns the platform trash for the given home directory.
func New(home string) *Trash {
	if runtime.GOOS == "darwin" {
		return &Trash{
			filesDir: filepath.Join(home, ".Trash"),
			now:      time.Now,
		}
	}
	base := filepath.Join(home, ".local", "share", "Trash")
	return &Trash{
		filesDir: filepath.Join(base, "files"),
		infoDir:  filepath.Join(base, "info"),
		now:      time.Now,
	}
}

// NewAt returns a trash rooted at an explicit directory, for tests and
// for the trash_dir config override.
func NewAt(dir string) *Trash {
	return &Trash{filesDir: dir, now: time.Now}
}

// Dir returns the directory trashed items land in.
func (t *Trash) Dir() string {
	return t.filesDir
}

// Move relocates path into the trash. The original error is returned
// unwrapped enough for callers to classify with os.IsNotExist /
// os.IsPermission: a vanished path and a permission failure mean
// different things to the cleanup summary.
func (t *Trash) Move(path string) error {
	if _, err := os.Lstat(path); err != nil {
		return err
	}
	if err := os.MkdirAll(t.filesDir, 0o755); err != nil {
		return fmt.Errorf("preparing trash directory: %w", err)
	}

	dest := t.uniqueDest(filepath.Base(path))

	if err := os.Rename(path, dest); err != nil {
		if !errors.Is(err, syscall.EXDEV) {
			return err
		}
		// Different filesystem: copy the tree over, then remove the
		// original.
		if err := copyTree(path, dest); err != nil {
			_ = os.RemoveAll(dest)
			return err
		}
		if err := os.RemoveAll(path); err != nil {
			return err
		}
	}

	if t.infoDir != "" {
		t.writeTrashInfo(filepath.Base(dest), path)
	}
	return nil
}

// uniqueDest picks a non-colliding name inside the trash, the way file
// managers suffix duplicates.
func (t *Trash) uniqueDest(base string) string {
	dest := filepath.Join(t.filesDir, base)
	for i := 2; ; i++ {
		if _, err := os.Lstat(dest); os.IsNotExist(err) {
			return dest
		}
		dest = filepath.Join(t.filesDir, fmt.Sprintf("%s.%d", base, i))
	}
}

// writeTrashInfo records the original location per the freedesktop trash
// spec. Restoration metadata is best-effort; a failure here does not fail
// the move.
func (t *Trash) writeTrashInfo(trashedName, originalPath string) {
	if err := os.MkdirAll(t.infoDir, 0o755); err != nil {
		return
	}
	content := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n",
		originalPath, t.now().Format("2006-01-02T15:04:05"))
	_ = os.WriteFile(filepath.Join(t.infoDir, trashedName+".trashinfo"), []byte(content), 0o644)
}

func copyTree(src, dest string) error {
	info, err := os.Lstat(src)
	if err != nil {
		return err
	}
	switch {
	case info.Mode()&os.ModeSymlink != 0:
		target, err := os.Readlink(src)
		if err != nil {
			return err
		}
		return os.Symlink(target, dest)
	case info.IsDir():
		if err := os.MkdirAll(dest, info.Mode().Perm()); err != nil {
			return err
		}
		entries, err := os.ReadDir(src)
		if err != nil {
			return err
		}
		for _, entry := range entries {
			if err := copyTree(filepath.Join(src, entry.Name()), filepath.Join(dest, entry.Name())); err != nil {
				return err
			}
		}
		return nil
	default:
		return copyFile(src, dest, info.Mode().Perm())
	}
}

func copyFile(src, dest string, perm os.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
