// Package cleaner executes the deletion phase: it deduplicates the user's
// selections, re-validates every path through the safety gate, and moves
// each item to the trash, collecting per-item outcomes. A single item's
// failure never aborts the batch.
package cleaner

import (
	"context"
	"sort"
	"time"

	"github.com/devtrim/devtrim/internal/progress"
	"github.com/devtrim/devtrim/internal/scanner"
	"github.com/devtrim/devtrim/internal/security"
)

// Mover is the trash primitive. It either succeeds, fails with a
// permission error, or fails because the path no longer exists (which the
// cleaner treats as success).
type Mover interface {
	Move(path string) error
}

// Selection is a user-chosen subset of one category's items. Selections
// built from overlapping filters may reference the same path more than
// once; the cleaner deduplicates before acting.
type Selection struct {
	Category scanner.Category
	Items    []scanner.Item
}

// Target is one deduplicated item queued for deletion.
type Target struct {
	Category scanner.Category
	Item     scanner.Item
}

// Summary aggregates a cleanup batch.
type Summary struct {
	FreedBytes int64
	Succeeded  int
	Failed     int
	Outcomes   []Outcome
	DryRun     bool
}

// Categories lists the distinct categories touched by the batch, sorted.
func (s *Summary) Categories() []scanner.Category {
	seen := make(map[scanner.Category]struct{})
	for _, o := range s.Outcomes {
		if o.Success {
			seen[o.Category] = struct{}{}
		}
	}
	cats := make([]scanner.Category, 0, len(seen))
	for c := range seen {
		cats = append(cats, c)
	}
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })
	return cats
}

// Failures returns only the failed outcomes.
func (s *Summary) Failures() []Outcome {
	var failed []Outcome
	for _, o := range s.Outcomes {
		if !o.Success {
			failed = append(failed, o)
		}
	}
	return failed
}

// Cleaner performs (or simulates) the move-to-trash batch.
type Cleaner struct {
	gate  *security.Gate
	mover Mover
	prog  *progress.Reporter
}

// New builds a Cleaner around the safety gate and a trash implementation.
func New(gate *security.Gate, mover Mover) *Cleaner {
	return &Cleaner{gate: gate, mover: mover}
}

// WithProgress makes the cleaner emit per-item CleanProgress updates.
func (c *Cleaner) WithProgress(prog *progress.Reporter) *Cleaner {
	c.prog = prog
	return c
}

// Flatten merges selections into a path-deduplicated target list. The
// first occurrence of a path wins, keeping its size and metadata, so a
// path checked under two overlapping filters is only ever acted on once.
func Flatten(selections []Selection) []Target {
	var targets []Target
	seen := make(map[string]struct{})
	for _, sel := range selections {
		for _, item := range sel.Items {
			if _, dup := seen[item.Path]; dup {
				continue
			}
			seen[item.Path] = struct{}{}
			targets = append(targets, Target{Category: sel.Category, Item: item})
		}
	}
	return targets
}

// Clean processes the selections. With dryRun set, no filesystem mutation
// happens and the trash primitive is never invoked, but the summary still
// reports exactly what would have been freed.
func (c *Cleaner) Clean(ctx context.Context, selections []Selection, dryRun bool) *Summary {
	summary := &Summary{DryRun: dryRun}
	targets := Flatten(selections)
	start := time.Now()

	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			break
		}
		outcome := c.cleanOne(target, dryRun)
		summary.Outcomes = append(summary.Outcomes, outcome)
		if outcome.Success {
			summary.Succeeded++
			summary.FreedBytes += outcome.Size
		} else {
			summary.Failed++
		}
		if c.prog != nil {
			c.prog.UpdateClean(progress.CleanProgress{
				Phase:       progress.PhaseCleaning,
				CurrentPath: target.Item.Path,
				Done:        i + 1,
				Total:       len(targets),
				FreedBytes:  summary.FreedBytes,
				StartTime:   start,
			})
		}
	}
	if c.prog != nil {
		c.prog.UpdateClean(progress.CleanProgress{
			Phase:      progress.PhaseComplete,
			Done:       len(summary.Outcomes),
			Total:      len(targets),
			FreedBytes: summary.FreedBytes,
			StartTime:  start,
		})
	}
	return summary
}

func (c *Cleaner) cleanOne(target Target, dryRun bool) Outcome {
	outcome := Outcome{
		Path:     target.Item.Path,
		Size:     target.Item.Size,
		Category: target.Category,
	}

	// Selections should already be gate-clean; the check is repeated here
	// because nothing destructive may ever run without it.
	if err := c.gate.ValidateForDeletion(target.Item.Path); err != nil {
		outcome.Reason = ReasonBlocked
		outcome.Err = err
		return outcome
	}

	if dryRun {
		outcome.Success = true
		return outcome
	}

	outcome.Success, outcome.Reason, outcome.Err = classifyMove(c.mover.Move(target.Item.Path))
	return outcome
}
