// Package progress fans scan and cleanup progress out to listeners.
package progress

import (
	"sync"
	"time"

	"github.com/devtrim/devtrim/internal/scanner"
)

// Phase tags a progress update.
type Phase string

const (
	PhaseScanning Phase = "scanning"
	PhaseCleaning Phase = "cleaning"
	PhaseComplete Phase = "complete"
)

// ScanProgress is emitted as scanners enter top-level directories.
type ScanProgress struct {
	Phase      Phase
	Category   scanner.Category
	CurrentDir string
}

// CleanProgress is emitted per item during a cleanup batch.
type CleanProgress struct {
	Phase       Phase
	CurrentPath string
	Done        int
	Total       int
	FreedBytes  int64
	StartTime   time.Time
}

// Reporter provides thread-safe progress broadcast. Updates are dropped
// for listeners that fall behind; progress display must never stall a
// scan.
type Reporter struct {
	mu        sync.Mutex
	listeners []chan any
}

// NewReporter creates an empty reporter.
func NewReporter() *Reporter {
	return &Reporter{}
}

// Subscribe returns a channel receiving ScanProgress and CleanProgress
// values.
func (r *Reporter) Subscribe() <-chan any {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := make(chan any, 16)
	r.listeners = append(r.listeners, ch)
	return ch
}

// Close closes every listener channel.
func (r *Reporter) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ch := range r.listeners {
		close(ch)
	}
	r.listeners = nil
}

// UpdateScan broadcasts a scan progress update.
func (r *Reporter) UpdateScan(p ScanProgress) {
	r.broadcast(p)
}

// UpdateClean broadcasts a cleanup progress update.
func (r *Reporter) UpdateClean(p CleanProgress) {
	r.broadcast(p)
}

func (r *Reporter) broadcast(v any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, ch := range r.listeners {
		select {
		case ch <- v:
		default:
		}
	}
}
