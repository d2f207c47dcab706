// Package security implements the deletion safety gate. Every destructive
// operation passes through Gate.ValidateForDeletion before any filesystem
// mutation; there is no bypass.
package security

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Validation failure kinds, checked with errors.Is.
var (
	// ErrInvalidPath marks an empty path or one that resolves to the
	// filesystem root.
	ErrInvalidPath = errors.New("invalid path")
	// ErrOutsideHome marks a path that is not a strict descendant of the
	// home directory. Home itself fails this check too.
	ErrOutsideHome = errors.New("path outside home directory")
	// ErrProtectedDirectory marks an exact match against the protected
	// directory set.
	ErrProtectedDirectory = errors.New("protected directory")
)

// protectedRelPaths are the directories directly under home whose removal
// would be catastrophic. Only exact matches are blocked; artifacts nested
// inside them (a node_modules under Documents, say) remain deletable.
var protectedRelPaths = []string{
	"Desktop",
	"Documents",
	"Downloads",
	".ssh",
	"Library",
}

// Gate validates deletion targets against the home boundary and the
// protected set.
type Gate struct {
	home      string
	protected map[string]struct{}
}

// NewGate builds a gate for the given home directory.
func NewGate(home string) *Gate {
	home = filepath.Clean(home)
	protected := make(map[string]struct{}, len(protectedRelPaths)+1)
	protected[home] = struct{}{}
	for _, rel := range protectedRelPaths {
		protected[filepath.Join(home, rel)] = struct{}{}
	}
	return &Gate{home: home, protected: protected}
}

// ValidateForDeletion decides whether path may be destructively removed.
// It runs synchronously and must be called before every mutation.
func (g *Gate) ValidateForDeletion(path string) error {
	if path == "" {
		return fmt.Errorf("empty path: %w", ErrInvalidPath)
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, ErrInvalidPath)
	}
	clean := filepath.Clean(abs)

	if clean == string(filepath.Separator) {
		return fmt.Errorf("%s: %w", path, ErrInvalidPath)
	}
	if !g.isStrictDescendantOfHome(clean) {
		return fmt.Errorf("%s: %w", clean, ErrOutsideHome)
	}
	if _, ok := g.protected[clean]; ok {
		return fmt.Errorf("%s: %w", clean, ErrProtectedDirectory)
	}
	return nil
}

// isStrictDescendantOfHome is a real ancestry check; /home/userx must not
// pass for home /home/user.
func (g *Gate) isStrictDescendantOfHome(clean string) bool {
	rel, err := filepath.Rel(g.home, clean)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
