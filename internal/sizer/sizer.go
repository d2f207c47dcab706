// Package sizer measures recursive directory sizes and modification ages
// for scan items. Sizes are cached per run so the confirmation and filter
// phases never re-walk a directory the scan phase already measured.
package sizer

import (
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// AgeUnknown is returned by AgeDays when a path's mtime cannot be read.
// It is a large positive value so age filters treat such paths as
// infinitely old rather than brand new.
const AgeUnknown = math.MaxInt32

// Oracle computes directory sizes and ages. It is safe for concurrent use;
// the size cache is guarded by a mutex since scanners run on parallel
// goroutines.
type Oracle struct {
	now func() time.Time

	mu    sync.Mutex
	cache map[string]int64
}

// New returns an Oracle using the wall clock.
func New() *Oracle {
	return NewWithClock(time.Now)
}

// NewWithClock returns an Oracle with an injected clock, for tests.
func NewWithClock(now func() time.Time) *Oracle {
	return &Oracle{
		now:   now,
		cache: make(map[string]int64),
	}
}

// DirSize returns the total byte size of all regular files under path.
// Symlinks count as zero-size leaves and are not followed. Subtrees that
// vanish or deny permission contribute zero; any other I/O error is
// returned. Results are cached by cleaned absolute path until Reset.
func (o *Oracle) DirSize(path string) (int64, error) {
	key, err := filepath.Abs(path)
	if err != nil {
		return 0, err
	}
	key = filepath.Clean(key)

	o.mu.Lock()
	if size, ok := o.cache[key]; ok {
		o.mu.Unlock()
		return size, nil
	}
	o.mu.Unlock()

	size, err := measure(key)
	if err != nil {
		return 0, err
	}

	o.mu.Lock()
	o.cache[key] = size
	o.mu.Unlock()
	return size, nil
}

// Reset clears the size cache. Scans within one run share measurements;
// independent runs in a long-lived process call Reset between them.
func (o *Oracle) Reset() {
	o.mu.Lock()
	o.cache = make(map[string]int64)
	o.mu.Unlock()
}

// AgeDays returns whole days since path was last modified, never negative.
// AgeUnknown is returned when the path cannot be stat'ed.
func (o *Oracle) AgeDays(path string) int {
	info, err := os.Lstat(path)
	if err != nil {
		return AgeUnknown
	}
	age := o.now().Sub(info.ModTime())
	if age < 0 {
		return 0
	}
	return int(age.Hours() / 24)
}

func measure(root string) (int64, error) {
	info, err := os.Lstat(root)
	if err != nil {
		if os.IsNotExist(err) || os.IsPermission(err) {
			return 0, nil
		}
		return 0, err
	}
	if info.Mode()&fs.ModeSymlink != 0 {
		return 0, nil
	}
	if !info.IsDir() {
		return info.Size(), nil
	}

	var total int64
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) || os.IsPermission(err) {
				if d != nil && d.IsDir() {
					return fs.SkipDir
				}
				return nil
			}
			return err
		}
		if d.Type()&fs.ModeSymlink != 0 {
			// Zero-size leaf, never followed.
			return nil
		}
		if d.IsDir() {
			return nil
		}
		fi, err := d.Info()
		if err != nil {
			if os.IsNotExist(err) || os.IsPermission(err) {
				return nil
			}
			return err
		}
		total += fi.Size()
		return nil
	})
	if walkErr != nil {
		return 0, walkErr
	}
	return total, nil
}
