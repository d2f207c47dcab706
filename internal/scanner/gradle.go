package scanner

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
)

var gradleDirNames = []string{"build", ".gradle"}

var gradleManifests = []string{
	"build.gradle",
	"build.gradle.kts",
	"settings.gradle",
	"settings.gradle.kts",
}

// GradleScanner covers two sources of Gradle artifacts: per-project build
// output under each root, and the shared dependency cache under
// ~/.gradle/caches. The shared cache is enumerated exactly once per
// process no matter how many roots are scanned, and project candidates
// inside it are excluded so nothing is counted twice.
type GradleScanner struct {
	env      *Env
	cacheDir string

	once          sync.Once
	globalItems   []Item
	globalErr     error
	globalClaimed atomic.Bool
}

func NewGradleScanner(env *Env) *GradleScanner {
	return &GradleScanner{
		env:      env,
		cacheDir: filepath.Join(env.Home, ".gradle", "caches"),
	}
}

func (s *GradleScanner) Scan(ctx context.Context, root string) (*CategoryResult, error) {
	result := NewCategoryResult(CategoryGradle)

	candidates, err := s.env.findDirs(ctx, CategoryGradle, root, gradleDirNames)
	if err != nil {
		return nil, err
	}

	for _, path := range candidates {
		// Anything under the shared cache is reported by the global pass.
		if isAncestor(s.cacheDir, path) {
			continue
		}
		if !anySiblingFile(path, gradleManifests) {
			continue
		}
		item, err := s.env.item(path)
		if err != nil {
			return nil, err
		}
		result.add(item)
	}

	s.once.Do(s.scanSharedCache)
	// Exactly one root's result carries the shared-cache items, and that
	// same slice carries its failure; the other roots' project findings
	// are unaffected either way.
	if s.globalClaimed.CompareAndSwap(false, true) {
		if s.globalErr != nil {
			return result, s.globalErr
		}
		for _, item := range s.globalItems {
			result.add(item)
		}
	}
	return result, nil
}

// scanSharedCache lists the children of ~/.gradle/caches as individual
// items. No tree walk: the cache layout is flat at this level
// (modules-2, jars-9, build-cache-1, ...).
func (s *GradleScanner) scanSharedCache() {
	entries, err := os.ReadDir(s.cacheDir)
	if err != nil {
		if os.IsNotExist(err) || os.IsPermission(err) {
			return
		}
		s.globalErr = err
		return
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		path := filepath.Join(s.cacheDir, entry.Name())
		size, err := s.env.Oracle.DirSize(path)
		if err != nil {
			s.globalErr = err
			return
		}
		s.globalItems = append(s.globalItems, Item{
			Path:    path,
			Size:    size,
			AgeDays: s.env.Oracle.AgeDays(path),
			Project: "gradle shared cache",
			Version: entry.Name(),
		})
	}
}
