package sizer

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtrim/devtrim/internal/testutil"
)

func TestDirSizeSumsRegularFiles(t *testing.T) {
	f := testutil.NewFixture(t)
	f.WriteFile("proj/a.txt", 100)
	f.WriteFile("proj/sub/b.txt", 200)
	f.WriteFile("proj/sub/deep/c.txt", 300)

	o := New()
	size, err := o.DirSize(f.Path("proj"))
	require.NoError(t, err)
	assert.Equal(t, int64(600), size)
}

func TestDirSizeSymlinksCountZero(t *testing.T) {
	f := testutil.NewFixture(t)
	f.WriteFile("big/payload.bin", 4096)
	f.WriteFile("proj/real.txt", 10)
	f.Symlink(f.Path("big"), "proj/link")

	o := New()
	size, err := o.DirSize(f.Path("proj"))
	require.NoError(t, err)
	assert.Equal(t, int64(10), size)
}

func TestDirSizeMissingPathIsZero(t *testing.T) {
	o := New()
	size, err := o.DirSize(filepath.Join(t.TempDir(), "gone"))
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestDirSizePermissionDeniedSubtreeContributesZero(t *testing.T) {
	testutil.SkipIfRoot(t)
	f := testutil.NewFixture(t)
	f.WriteFile("proj/a.txt", 100)
	f.WriteFile("proj/locked/secret.bin", 4096)
	f.Chmod(f.Path("proj", "locked"), 0o000)

	o := New()
	size, err := o.DirSize(f.Path("proj"))
	require.NoError(t, err)
	assert.Equal(t, int64(100), size)
}

func TestDirSizeIsCachedUntilReset(t *testing.T) {
	f := testutil.NewFixture(t)
	f.WriteFile("proj/a.txt", 100)

	o := New()
	size, err := o.DirSize(f.Path("proj"))
	require.NoError(t, err)
	require.Equal(t, int64(100), size)

	// Grow the directory; the cached measurement must still be served.
	f.WriteFile("proj/b.txt", 50)
	size, err = o.DirSize(f.Path("proj"))
	require.NoError(t, err)
	assert.Equal(t, int64(100), size)

	o.Reset()
	size, err = o.DirSize(f.Path("proj"))
	require.NoError(t, err)
	assert.Equal(t, int64(150), size)
}

func TestDirSizeOfPlainFile(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.WriteFile("file.bin", 42)

	o := New()
	size, err := o.DirSize(path)
	require.NoError(t, err)
	assert.Equal(t, int64(42), size)
}

func TestAgeDays(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.MkDir("proj")
	f.Age(path, 0)

	now := time.Now()
	o := NewWithClock(func() time.Time { return now.Add(91 * 24 * time.Hour) })
	assert.Equal(t, 91, o.AgeDays(path))
}

func TestAgeDaysNeverNegative(t *testing.T) {
	f := testutil.NewFixture(t)
	path := f.MkDir("proj")

	o := NewWithClock(func() time.Time { return time.Now().Add(-48 * time.Hour) })
	assert.Equal(t, 0, o.AgeDays(path))
}

func TestAgeDaysUnknownForMissingPath(t *testing.T) {
	o := New()
	assert.Equal(t, AgeUnknown, o.AgeDays(filepath.Join(t.TempDir(), "gone")))
}
