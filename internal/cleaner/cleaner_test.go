package cleaner

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtrim/devtrim/internal/scanner"
	"github.com/devtrim/devtrim/internal/security"
)

// recordingMover counts invocations and fails paths on demand.
type recordingMover struct {
	moved []string
	fail  map[string]error
}

func (m *recordingMover) Move(path string) error {
	m.moved = append(m.moved, path)
	if err, ok := m.fail[path]; ok {
		return err
	}
	return nil
}

func item(home string, rel string, size int64) scanner.Item {
	return scanner.Item{Path: filepath.Join(home, rel), Size: size}
}

func TestFlattenDeduplicatesFirstWins(t *testing.T) {
	home := "/home/user"
	a := item(home, "work/site/node_modules", 100)
	b := item(home, "work/api/node_modules", 200)
	// Same path seen again through a second filter pass.
	aAgain := item(home, "work/site/node_modules", 100)

	targets := Flatten([]Selection{
		{Category: scanner.CategoryDepCache, Items: []scanner.Item{a, b}},
		{Category: scanner.CategoryDepCache, Items: []scanner.Item{aAgain, b}},
	})

	require.Len(t, targets, 2)
	assert.Equal(t, a.Path, targets[0].Item.Path)
	assert.Equal(t, b.Path, targets[1].Item.Path)
}

func TestCleanOverlappingSelectionsActOnce(t *testing.T) {
	home := "/home/user"
	mover := &recordingMover{}
	c := New(security.NewGate(home), mover)

	items := []scanner.Item{
		item(home, "a/node_modules", 100),
		item(home, "b/node_modules", 200),
		item(home, "c/node_modules", 300),
	}
	// Two filters that both matched all three items.
	selections := []Selection{
		{Category: scanner.CategoryDepCache, Items: items},
		{Category: scanner.CategoryDepCache, Items: items},
	}

	summary := c.Clean(context.Background(), selections, false)

	assert.Equal(t, 3, summary.Succeeded)
	assert.Zero(t, summary.Failed)
	assert.Equal(t, int64(600), summary.FreedBytes)
	assert.Len(t, mover.moved, 3)
}

func TestCleanDryRunNeverInvokesMover(t *testing.T) {
	home := "/home/user"
	mover := &recordingMover{}
	c := New(security.NewGate(home), mover)

	selections := []Selection{{
		Category: scanner.CategoryVenv,
		Items:    []scanner.Item{item(home, "proj/.venv", 4096)},
	}}

	summary := c.Clean(context.Background(), selections, true)

	assert.True(t, summary.DryRun)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, int64(4096), summary.FreedBytes)
	assert.Empty(t, mover.moved)
}

func TestCleanBlocksGateViolationsWithoutAborting(t *testing.T) {
	home := "/home/user"
	mover := &recordingMover{}
	c := New(security.NewGate(home), mover)

	selections := []Selection{{
		Category: scanner.CategoryDepCache,
		Items: []scanner.Item{
			{Path: "/etc/passwd", Size: 1},
			item(home, "ok/node_modules", 50),
			{Path: filepath.Join(home, "Desktop"), Size: 1},
		},
	}}

	summary := c.Clean(context.Background(), selections, false)

	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, int64(50), summary.FreedBytes)
	// Blocked paths never reach the mover.
	assert.Equal(t, []string{filepath.Join(home, "ok/node_modules")}, mover.moved)

	failures := summary.Failures()
	require.Len(t, failures, 2)
	for _, f := range failures {
		assert.Equal(t, ReasonBlocked, f.Reason)
	}
}

func TestCleanClassifiesMoveErrors(t *testing.T) {
	home := "/home/user"
	missing := filepath.Join(home, "gone/node_modules")
	locked := filepath.Join(home, "locked/node_modules")
	broken := filepath.Join(home, "broken/node_modules")

	mover := &recordingMover{fail: map[string]error{
		missing: fs.ErrNotExist,
		locked:  &os.PathError{Op: "rename", Path: locked, Err: os.ErrPermission},
		broken:  errors.New("device error"),
	}}
	c := New(security.NewGate(home), mover)

	selections := []Selection{{
		Category: scanner.CategoryDepCache,
		Items: []scanner.Item{
			{Path: missing, Size: 100},
			{Path: locked, Size: 200},
			{Path: broken, Size: 300},
		},
	}}

	summary := c.Clean(context.Background(), selections, false)

	// Already-gone counts as success and its size as freed.
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 2, summary.Failed)
	assert.Equal(t, int64(100), summary.FreedBytes)

	byPath := make(map[string]Outcome)
	for _, o := range summary.Outcomes {
		byPath[o.Path] = o
	}
	assert.True(t, byPath[missing].Success)
	assert.Equal(t, ReasonPermissionDenied, byPath[locked].Reason)
	assert.Equal(t, ReasonOther, byPath[broken].Reason)
}

func TestSummaryCategories(t *testing.T) {
	home := "/home/user"
	c := New(security.NewGate(home), &recordingMover{})

	selections := []Selection{
		{Category: scanner.CategoryVenv, Items: []scanner.Item{item(home, "p/.venv", 10)}},
		{Category: scanner.CategoryDepCache, Items: []scanner.Item{item(home, "p/node_modules", 20)}},
	}
	summary := c.Clean(context.Background(), selections, false)

	assert.Equal(t, []scanner.Category{scanner.CategoryDepCache, scanner.CategoryVenv},
		summary.Categories())
}

func TestCleanHonorsCancelledContext(t *testing.T) {
	home := "/home/user"
	mover := &recordingMover{}
	c := New(security.NewGate(home), mover)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary := c.Clean(ctx, []Selection{{
		Category: scanner.CategoryDepCache,
		Items:    []scanner.Item{item(home, "a/node_modules", 10)},
	}}, false)

	assert.Empty(t, summary.Outcomes)
	assert.Empty(t, mover.moved)
}
