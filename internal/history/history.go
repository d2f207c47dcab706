// Package history keeps an append-only record of completed cleanups.
package history

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Entry is one completed cleanup batch.
type Entry struct {
	Timestamp    time.Time `json:"timestamp"`
	FreedBytes   int64     `json:"freed_bytes"`
	ItemsDeleted int       `json:"items_deleted"`
	Categories   []string  `json:"categories"`
	DryRun       bool      `json:"dry_run,omitempty"`
}

// Log is a JSON-lines file, one entry per line.
type Log struct {
	path string
}

// New opens a history log at path; the file is created on first append.
func New(path string) *Log {
	return &Log{path: path}
}

// DefaultPath returns the history location under the config dir.
func DefaultPath(configDir string) string {
	return filepath.Join(configDir, "history.jsonl")
}

// Append writes one entry to the end of the log.
func (l *Log) Append(entry Entry) error {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode history entry: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open history log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to append history entry: %w", err)
	}
	return nil
}

// Entries reads the whole log, oldest first. A missing file is an empty
// history. Unparseable lines are skipped rather than failing the read.
func (l *Log) Entries() ([]Entry, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to open history log: %w", err)
	}
	defer f.Close()

	var entries []Entry
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var entry Entry
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("failed to read history log: %w", err)
	}
	return entries, nil
}
