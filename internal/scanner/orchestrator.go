package scanner

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Orchestrator runs the enabled classifiers concurrently across the
// configured roots and aggregates their results into one report.
type Orchestrator struct {
	registry []Entry
}

// NewOrchestrator wraps a category table, usually DefaultRegistry(env).
func NewOrchestrator(registry []Entry) *Orchestrator {
	return &Orchestrator{registry: registry}
}

// Registry exposes the category table for consumers that need scope or
// deletability metadata alongside the report.
func (o *Orchestrator) Registry() []Entry {
	return o.registry
}

// Run scans every enabled category. Per-root categories fan out across
// roots concurrently and merge, deduplicating by path so overlapping
// roots never double-count an artifact; global categories run once. A
// failing scanner never fails the run: its error is recorded as a
// warning on the report and any partial findings it returned are kept.
func (o *Orchestrator) Run(ctx context.Context, roots []string, enabled map[Category]bool) *Report {
	report := &Report{
		Roots:   append([]string{}, roots...),
		Results: make(map[Category]*CategoryResult, len(o.registry)),
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, entry := range o.registry {
		report.Results[entry.Category] = NewCategoryResult(entry.Category)
		if !enabled[entry.Category] {
			continue
		}

		wg.Add(1)
		go func(entry Entry) {
			defer wg.Done()
			result, warns := o.runCategory(ctx, entry, roots)
			mu.Lock()
			report.Results[entry.Category] = result
			report.Warnings = append(report.Warnings, warns...)
			mu.Unlock()
		}(entry)
	}
	wg.Wait()

	for _, result := range report.Results {
		report.TotalSize += result.TotalSize
	}
	return report
}

func (o *Orchestrator) runCategory(ctx context.Context, entry Entry, roots []string) (*CategoryResult, []error) {
	if entry.Scope == ScopeGlobal {
		result, err := scanSafely(func() (*CategoryResult, error) {
			return entry.Global.Scan(ctx)
		})
		if err != nil {
			return NewCategoryResult(entry.Category), []error{
				fmt.Errorf("%s: %w", entry.Category, err),
			}
		}
		return result, nil
	}

	merged := NewCategoryResult(entry.Category)
	var (
		mu    sync.Mutex
		warns []error
	)

	g, gctx := errgroup.WithContext(ctx)
	for _, root := range roots {
		root := root
		g.Go(func() error {
			result, err := scanSafely(func() (*CategoryResult, error) {
				return entry.Root.Scan(gctx, root)
			})
			mu.Lock()
			defer mu.Unlock()
			// A failing slice may still carry partial findings; keep them.
			if result != nil {
				merged.Merge(result)
			}
			if err != nil {
				warns = append(warns, fmt.Errorf("%s: %s: %w", entry.Category, root, err))
			}
			return nil
		})
	}
	_ = g.Wait()
	return merged, warns
}

// scanSafely converts a panicking scanner into an error so one broken
// classifier cannot take down the whole run.
func scanSafely(scan func() (*CategoryResult, error)) (result *CategoryResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scanner panicked: %v", r)
		}
	}()
	return scan()
}
