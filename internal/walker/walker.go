// Package walker implements a depth-bounded, concurrent directory walk
// shared by all scanners. Symlinks are never followed or reported, and
// permission/not-found errors prune the affected subtree silently.
package walker

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultMaxDepth bounds recursion when Options.MaxDepth is zero. The walk
// never descends past this depth, which guards against pathological trees
// and accidental whole-disk scans.
const DefaultMaxDepth = 5

// DefaultConcurrency limits how many root-level subtrees are walked at once.
const DefaultConcurrency = 8

// VisitFunc is invoked for every file and directory that is not skipped.
// The root itself is depth 0; its children are depth 1. Visits of sibling
// subtrees may happen concurrently and in no particular order.
type VisitFunc func(path string, depth int, info fs.FileInfo)

// Options controls a single walk.
type Options struct {
	// MaxDepth is the deepest level the walk descends to. Zero means
	// DefaultMaxDepth.
	MaxDepth int

	// IgnoreNames lists base names that are skipped entirely: not visited,
	// not recursed into.
	IgnoreNames []string

	// IgnoreSuffixes lists name suffixes (e.g. ".app") that are skipped
	// entirely, same as IgnoreNames.
	IgnoreSuffixes []string

	// SkipDescendingInto lists base names whose directories are visited but
	// whose children are not walked. Callers searching for a directory name
	// put that name here so a found node_modules is not itself searched.
	SkipDescendingInto []string

	// OnEnterDir fires once per direct child directory of the root, before
	// that subtree is walked. It exists for progress reporting only; panics
	// inside it are swallowed.
	OnEnterDir func(path string, depth int)

	// Concurrency bounds parallel subtree walks. Zero means
	// DefaultConcurrency.
	Concurrency int
}

type walkState struct {
	opts     Options
	maxDepth int
	visit    VisitFunc
	group    *errgroup.Group
	ctx      context.Context
}

// Walk traverses root depth-first, calling visit for every file and
// directory that survives the skip rules. A missing or unreadable root is
// not an error; any other I/O failure aborts the walk and is returned.
func Walk(ctx context.Context, root string, visit VisitFunc, opts Options) error {
	info, err := os.Lstat(root)
	if err != nil {
		if os.IsNotExist(err) || os.IsPermission(err) {
			return nil
		}
		return err
	}
	if !info.IsDir() || info.Mode()&fs.ModeSymlink != 0 {
		return nil
	}

	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	w := &walkState{
		opts:     opts,
		maxDepth: maxDepth,
		visit:    visit,
		group:    g,
		ctx:      gctx,
	}

	visit(root, 0, info)
	if err := w.walkChildren(root, 0); err != nil {
		// Drain in-flight subtrees before reporting.
		_ = g.Wait()
		return err
	}
	return g.Wait()
}

// walkChildren lists dir and processes each entry at depth parentDepth+1.
// Children of the root are handed to the errgroup so sibling subtrees run
// concurrently; deeper levels recurse within their goroutine.
func (w *walkState) walkChildren(dir string, parentDepth int) error {
	depth := parentDepth + 1
	if depth > w.maxDepth {
		return nil
	}
	if err := w.ctx.Err(); err != nil {
		return err
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) || os.IsPermission(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		name := entry.Name()
		if w.skipName(name) {
			continue
		}
		// Symlinks are treated as leaves that do not exist: never followed,
		// never visited.
		if entry.Type()&fs.ModeSymlink != 0 {
			continue
		}

		path := filepath.Join(dir, name)
		info, err := entry.Info()
		if err != nil {
			if os.IsNotExist(err) || os.IsPermission(err) {
				continue
			}
			return err
		}

		if info.IsDir() && depth == 1 {
			w.enterDir(path, depth)
		}

		w.visit(path, depth, info)

		if !info.IsDir() || w.skipDescend(name) {
			continue
		}

		if depth == 1 {
			subtree := path
			w.group.Go(func() error {
				return w.walkChildren(subtree, depth)
			})
		} else if err := w.walkChildren(path, depth); err != nil {
			return err
		}
	}
	return nil
}

func (w *walkState) skipName(name string) bool {
	for _, ignored := range w.opts.IgnoreNames {
		if name == ignored {
			return true
		}
	}
	for _, suffix := range w.opts.IgnoreSuffixes {
		if suffix != "" && strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}

func (w *walkState) skipDescend(name string) bool {
	for _, skip := range w.opts.SkipDescendingInto {
		if name == skip {
			return true
		}
	}
	return false
}

// enterDir invokes the progress hook. The hook must never be able to abort
// a scan, so panics are recovered and dropped.
func (w *walkState) enterDir(path string, depth int) {
	hook := w.opts.OnEnterDir
	if hook == nil {
		return
	}
	defer func() {
		_ = recover()
	}()
	hook(path, depth)
}
