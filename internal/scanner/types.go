package scanner

import "sort"

// Category identifies one kind of disposable development artifact.
type Category string

const (
	CategoryDepCache Category = "dep-cache"
	CategoryVenv     Category = "venv"
	CategoryTarget   Category = "target"
	CategoryCMake    Category = "cmake"
	CategoryGradle   Category = "gradle"
	CategoryDart     Category = "dart"
	CategoryVersions Category = "versions"
	CategoryToolData Category = "tool-data"
)

// Categories lists every known category in registry order.
func Categories() []Category {
	return []Category{
		CategoryDepCache,
		CategoryVenv,
		CategoryTarget,
		CategoryCMake,
		CategoryGradle,
		CategoryDart,
		CategoryVersions,
		CategoryToolData,
	}
}

// Item is one discovered artifact directory. Items are created during a
// scan pass and immutable afterwards.
type Item struct {
	// Path is the absolute location of the artifact.
	Path string
	// Size is the total recursive byte size, 0 if unmeasurable.
	Size int64
	// AgeDays is whole days since last modification, sizer.AgeUnknown if
	// the mtime could not be read.
	AgeDays int

	// Project is the owning project directory name, when meaningful.
	Project string
	// Version labels toolchain version entries (versions category).
	Version string
	// Active marks the currently selected toolchain version.
	Active bool
}

// CategoryResult is one classifier's output for one run. Item order is
// insignificant; consumers sort by size.
type CategoryResult struct {
	Category  Category
	Items     []Item
	TotalSize int64
	Count     int
}

// NewCategoryResult returns an empty result for a category.
func NewCategoryResult(cat Category) *CategoryResult {
	return &CategoryResult{Category: cat, Items: []Item{}}
}

func (r *CategoryResult) add(item Item) {
	r.Items = append(r.Items, item)
	r.TotalSize += item.Size
	r.Count++
}

// Merge folds another result of the same category in, deduplicating by
// path (first occurrence wins), and recomputes the totals from the union.
// Overlapping roots can surface the same artifact in two per-root scans;
// it is still reported once.
func (r *CategoryResult) Merge(other *CategoryResult) {
	if other == nil {
		return
	}
	seen := make(map[string]struct{}, len(r.Items))
	for _, item := range r.Items {
		seen[item.Path] = struct{}{}
	}
	for _, item := range other.Items {
		if _, dup := seen[item.Path]; dup {
			continue
		}
		seen[item.Path] = struct{}{}
		r.Items = append(r.Items, item)
	}
	r.TotalSize = 0
	r.Count = len(r.Items)
	for _, item := range r.Items {
		r.TotalSize += item.Size
	}
}

// SortBySize orders items largest first, for presentation.
func (r *CategoryResult) SortBySize() {
	sort.SliceStable(r.Items, func(i, j int) bool {
		return r.Items[i].Size > r.Items[j].Size
	})
}

// Report aggregates every category's result for one run. Every known
// category has an entry; disabled categories hold an explicit empty
// result so consumers never branch on missing keys.
type Report struct {
	Roots     []string
	Results   map[Category]*CategoryResult
	TotalSize int64

	// Warnings collects per-slice scanner failures that were degraded to
	// empty results. The run itself always completes.
	Warnings []error
}

// Result returns the report's entry for a category, never nil.
func (rep *Report) Result(cat Category) *CategoryResult {
	if r, ok := rep.Results[cat]; ok {
		return r
	}
	return NewCategoryResult(cat)
}

// FilterMinSize drops items smaller than min bytes from every category
// and recomputes the totals. Zero keeps everything.
func (rep *Report) FilterMinSize(min int64) {
	if min <= 0 {
		return
	}
	rep.TotalSize = 0
	for _, result := range rep.Results {
		kept := result.Items[:0]
		result.TotalSize = 0
		for _, item := range result.Items {
			if item.Size < min {
				continue
			}
			kept = append(kept, item)
			result.TotalSize += item.Size
		}
		result.Items = kept
		result.Count = len(kept)
		rep.TotalSize += result.TotalSize
	}
}
