package walker

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtrim/devtrim/internal/testutil"
)

type collector struct {
	mu     sync.Mutex
	visits map[string]int
	depths map[string]int
}

func newCollector() *collector {
	return &collector{visits: make(map[string]int), depths: make(map[string]int)}
}

func (c *collector) visit(path string, depth int, _ fs.FileInfo) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.visits[path]++
	c.depths[path] = depth
}

func TestWalkVisitsFilesAndDirectories(t *testing.T) {
	f := testutil.NewFixture(t)
	f.WriteFile("proj/main.go", 10)
	f.MkDir("proj/sub")

	c := newCollector()
	err := Walk(context.Background(), f.Home, c.visit, Options{})
	require.NoError(t, err)

	assert.Equal(t, 1, c.visits[f.Home])
	assert.Equal(t, 1, c.visits[f.Path("proj")])
	assert.Equal(t, 1, c.visits[f.Path("proj", "main.go")])
	assert.Equal(t, 1, c.visits[f.Path("proj", "sub")])

	assert.Equal(t, 0, c.depths[f.Home])
	assert.Equal(t, 1, c.depths[f.Path("proj")])
	assert.Equal(t, 2, c.depths[f.Path("proj", "main.go")])
}

func TestWalkRespectsMaxDepth(t *testing.T) {
	f := testutil.NewFixture(t)
	f.WriteFile("a/b/c/d/file.txt", 1)

	c := newCollector()
	err := Walk(context.Background(), f.Home, c.visit, Options{MaxDepth: 2})
	require.NoError(t, err)

	// Depth 2 is visited; its children are not.
	assert.Equal(t, 1, c.visits[f.Path("a", "b")])
	assert.Zero(t, c.visits[f.Path("a", "b", "c")])
	assert.Zero(t, c.visits[f.Path("a", "b", "c", "d", "file.txt")])
}

func TestWalkIgnoreNames(t *testing.T) {
	f := testutil.NewFixture(t)
	f.WriteFile("proj/.git/config", 1)
	f.WriteFile("proj/src/main.go", 1)

	c := newCollector()
	err := Walk(context.Background(), f.Home, c.visit, Options{
		IgnoreNames: []string{".git"},
	})
	require.NoError(t, err)

	assert.Zero(t, c.visits[f.Path("proj", ".git")])
	assert.Zero(t, c.visits[f.Path("proj", ".git", "config")])
	assert.Equal(t, 1, c.visits[f.Path("proj", "src", "main.go")])
}

func TestWalkIgnoreSuffixes(t *testing.T) {
	f := testutil.NewFixture(t)
	f.WriteFile("Tools.app/Contents/bin", 1)
	f.WriteFile("proj/main.go", 1)

	c := newCollector()
	err := Walk(context.Background(), f.Home, c.visit, Options{
		IgnoreSuffixes: []string{".app"},
	})
	require.NoError(t, err)

	assert.Zero(t, c.visits[f.Path("Tools.app")])
	assert.Equal(t, 1, c.visits[f.Path("proj", "main.go")])
}

func TestWalkSkipDescendingIntoMatches(t *testing.T) {
	f := testutil.NewFixture(t)
	f.WriteFile("proj/node_modules/pkg/index.js", 1)
	f.WriteFile("proj/node_modules/pkg/node_modules/inner.js", 1)

	c := newCollector()
	err := Walk(context.Background(), f.Home, c.visit, Options{
		SkipDescendingInto: []string{"node_modules"},
	})
	require.NoError(t, err)

	// The match itself is visited, its contents are not.
	assert.Equal(t, 1, c.visits[f.Path("proj", "node_modules")])
	assert.Zero(t, c.visits[f.Path("proj", "node_modules", "pkg")])
	assert.Zero(t, c.visits[f.Path("proj", "node_modules", "pkg", "node_modules")])
}

func TestWalkNeverFollowsSymlinks(t *testing.T) {
	f := testutil.NewFixture(t)
	real := f.MkDir("real")
	f.WriteFile("real/file.txt", 1)
	link := f.Symlink(real, "proj/link")

	c := newCollector()
	err := Walk(context.Background(), f.Home, c.visit, Options{})
	require.NoError(t, err)

	// Symlinks are neither visited nor traversed.
	assert.Zero(t, c.visits[link])
	assert.Zero(t, c.visits[filepath.Join(link, "file.txt")])
	assert.Equal(t, 1, c.visits[f.Path("real", "file.txt")])
}

func TestWalkSymlinkCycleTerminates(t *testing.T) {
	f := testutil.NewFixture(t)
	dir := f.MkDir("proj/sub")
	f.Symlink(f.Path("proj"), "proj/sub/loop")

	c := newCollector()
	err := Walk(context.Background(), f.Home, c.visit, Options{MaxDepth: 50})
	require.NoError(t, err)
	assert.Equal(t, 1, c.visits[dir])
}

func TestWalkOnEnterDirFiresPerRootChild(t *testing.T) {
	f := testutil.NewFixture(t)
	f.MkDir("a")
	f.MkDir("b")
	f.WriteFile("a/deep/file.txt", 1)
	f.WriteFile("top.txt", 1)

	var (
		mu      sync.Mutex
		entered []string
	)
	err := Walk(context.Background(), f.Home, func(string, int, fs.FileInfo) {}, Options{
		OnEnterDir: func(path string, depth int) {
			mu.Lock()
			entered = append(entered, path)
			mu.Unlock()
			if depth != 1 {
				t.Errorf("OnEnterDir fired at depth %d", depth)
			}
		},
	})
	require.NoError(t, err)

	sort.Strings(entered)
	// Only direct child directories of the root, not files, not deeper dirs.
	assert.Equal(t, []string{f.Path("a"), f.Path("b")}, entered)
}

func TestWalkOnEnterDirPanicIsSwallowed(t *testing.T) {
	f := testutil.NewFixture(t)
	f.WriteFile("a/file.txt", 1)

	c := newCollector()
	err := Walk(context.Background(), f.Home, c.visit, Options{
		OnEnterDir: func(string, int) { panic("progress display blew up") },
	})
	require.NoError(t, err)
	assert.Equal(t, 1, c.visits[f.Path("a", "file.txt")])
}

func TestWalkPermissionDeniedSubtreeIsPruned(t *testing.T) {
	testutil.SkipIfRoot(t)
	f := testutil.NewFixture(t)
	f.WriteFile("open/file.txt", 1)
	f.WriteFile("locked/secret.txt", 1)
	f.Chmod(f.Path("locked"), 0o000)

	c := newCollector()
	err := Walk(context.Background(), f.Home, c.visit, Options{})
	require.NoError(t, err)

	// The unreadable directory is visited; its contents are not.
	assert.Equal(t, 1, c.visits[f.Path("locked")])
	assert.Zero(t, c.visits[f.Path("locked", "secret.txt")])
	assert.Equal(t, 1, c.visits[f.Path("open", "file.txt")])
}

func TestWalkMissingRootIsNotAnError(t *testing.T) {
	err := Walk(context.Background(), filepath.Join(t.TempDir(), "nope"), func(string, int, fs.FileInfo) {}, Options{})
	assert.NoError(t, err)
}

func TestWalkCancelledContext(t *testing.T) {
	f := testutil.NewFixture(t)
	for _, name := range []string{"a", "b", "c", "d"} {
		f.WriteFile(name+"/x/y/file.txt", 1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := Walk(ctx, f.Home, func(string, int, fs.FileInfo) {}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
}
