// Package scanner locates disposable development artifacts. Each category
// has its own classifier built from the shared walker and size oracle; the
// orchestrator fans them out across the configured roots.
package scanner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/devtrim/devtrim/internal/sizer"
	"github.com/devtrim/devtrim/internal/walker"
)

// defaultIgnoreNames are never walked: VCS internals and trash.
var defaultIgnoreNames = []string{".git", ".svn", ".hg", ".Trash"}

// defaultIgnoreSuffixes prune macOS bundle trees wholesale.
var defaultIgnoreSuffixes = []string{".app", ".framework", ".photoslibrary"}

// RootScanner classifies artifacts under one configured root.
type RootScanner interface {
	Scan(ctx context.Context, root string) (*CategoryResult, error)
}

// GlobalScanner classifies artifacts at fixed well-known locations,
// independent of the configured roots.
type GlobalScanner interface {
	Scan(ctx context.Context) (*CategoryResult, error)
}

// Env bundles the collaborators every classifier shares.
type Env struct {
	// Home is the user's home directory; fixed-location categories resolve
	// against it.
	Home string
	// Oracle measures sizes and ages for accepted candidates.
	Oracle *sizer.Oracle
	// MaxDepth overrides the walker's depth bound when positive.
	MaxDepth int
	// IgnoreNames adds user-configured directory names to the skip list.
	IgnoreNames []string
	// OnEnter receives top-level directories as they are entered, for
	// progress display. May be nil.
	OnEnter func(cat Category, dir string)
}

func (e *Env) walkOptions(cat Category, searchNames []string) walker.Options {
	opts := walker.Options{
		MaxDepth:           e.MaxDepth,
		IgnoreNames:        append(append([]string{}, defaultIgnoreNames...), e.IgnoreNames...),
		IgnoreSuffixes:     defaultIgnoreSuffixes,
		SkipDescendingInto: searchNames,
	}
	if e.OnEnter != nil {
		hook := e.OnEnter
		opts.OnEnterDir = func(path string, _ int) {
			hook(cat, path)
		}
	}
	return opts
}

// findDirs walks root and returns every directory whose base name matches
// one of names. Matches are not descended into, so an instance nested in
// another instance is never even listed within a single walk.
func (e *Env) findDirs(ctx context.Context, cat Category, root string, names []string) ([]string, error) {
	var (
		mu    sync.Mutex
		found []string
	)
	match := make(map[string]struct{}, len(names))
	for _, n := range names {
		match[n] = struct{}{}
	}

	err := walker.Walk(ctx, root, func(path string, depth int, info fs.FileInfo) {
		if depth == 0 || !info.IsDir() {
			return
		}
		if _, ok := match[filepath.Base(path)]; !ok {
			return
		}
		mu.Lock()
		found = append(found, path)
		mu.Unlock()
	}, e.walkOptions(cat, names))
	if err != nil {
		return nil, err
	}

	sort.Strings(found)
	return found, nil
}

// item measures an accepted candidate. The owning project is the name of
// the candidate's parent directory.
func (e *Env) item(path string) (Item, error) {
	size, err := e.Oracle.DirSize(path)
	if err != nil {
		return Item{}, err
	}
	return Item{
		Path:    path,
		Size:    size,
		AgeDays: e.Oracle.AgeDays(path),
		Project: filepath.Base(filepath.Dir(path)),
	}, nil
}

// isAncestor reports whether child lies strictly below parent. This is a
// real path-ancestry check, not a string-prefix comparison, so sibling
// directories sharing a name prefix are never confused for descendants.
func isAncestor(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// pruneNested drops candidates that sit inside another candidate, keeping
// only the outermost instance per subtree.
func pruneNested(paths []string) []string {
	if len(paths) < 2 {
		return paths
	}
	sorted := append([]string{}, paths...)
	sort.Strings(sorted)

	kept := sorted[:0]
	for _, p := range sorted {
		nested := false
		for _, outer := range kept {
			if isAncestor(outer, p) {
				nested = true
				break
			}
		}
		if !nested {
			kept = append(kept, p)
		}
	}
	return kept
}

func fileExists(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.Mode().IsRegular()
}

func dirExists(path string) bool {
	info, err := os.Lstat(path)
	return err == nil && info.IsDir()
}

// anySiblingFile reports whether the candidate's parent directory contains
// one of the given manifest files.
func anySiblingFile(candidate string, manifests []string) bool {
	parent := filepath.Dir(candidate)
	for _, m := range manifests {
		if fileExists(filepath.Join(parent, m)) {
			return true
		}
	}
	return false
}
