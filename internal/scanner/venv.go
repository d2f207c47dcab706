package scanner

import (
	"context"
	"path/filepath"
)

var venvNames = []string{"venv", ".venv", "env", "virtualenv"}

// venvMarkers distinguish an actual virtualenv from an unrelated directory
// that happens to share the name (an "env" config folder, say). At least
// one must exist directly inside the candidate.
var venvMarkers = []string{"pyvenv.cfg", "bin/python", "bin/python3"}

// VenvScanner finds Python virtual environments.
type VenvScanner struct {
	env *Env
}

func NewVenvScanner(env *Env) *VenvScanner {
	return &VenvScanner{env: env}
}

func (s *VenvScanner) Scan(ctx context.Context, root string) (*CategoryResult, error) {
	result := NewCategoryResult(CategoryVenv)

	candidates, err := s.env.findDirs(ctx, CategoryVenv, root, venvNames)
	if err != nil {
		return nil, err
	}

	for _, path := range candidates {
		if !s.isVirtualenv(path) {
			continue
		}
		item, err := s.env.item(path)
		if err != nil {
			return nil, err
		}
		result.add(item)
	}
	return result, nil
}

func (s *VenvScanner) isVirtualenv(path string) bool {
	for _, marker := range venvMarkers {
		if fileExists(filepath.Join(path, filepath.FromSlash(marker))) {
			return true
		}
	}
	return false
}
