// Package audit appends a journal of vault-mutating operations to
// .roots/journal.log, one JSON object per line. Genealogy edits are slow to
// notice and expensive to undo; the journal records what ran, when, and
// what it touched.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Entry is one journal line.
type Entry struct {
	Timestamp time.Time `json:"ts"`
	Operation string    `json:"op"` // import, export, sync, create
	Count     int       `json:"count,omitempty"`
	Source    string    `json:"source,omitempty"` // input or output file
	IDs       []string  `json:"ids,omitempty"`    // cr_ids touched, when few enough to list
	Note      string    `json:"note,omitempty"`
}

// maxListedIDs caps the per-entry id list; bulk imports log only the count.
const maxListedIDs = 50

// Journal appends entries for one vault.
type Journal struct {
	path string
	mu   sync.Mutex
}

// Open returns the journal for a vault. Nothing is created until the first
// append.
func Open(vaultPath string) *Journal {
	return &Journal{path: filepath.Join(vaultPath, ".roots", "journal.log")}
}

// Append writes one entry. A zero timestamp is filled with the current time.
func (j *Journal) Append(e Entry) error {
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now().UTC()
	}
	if len(e.IDs) > maxListedIDs {
		e.IDs = nil
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal journal entry: %w", err)
	}

	j.mu.Lock()
	defer j.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(j.path), 0o755); err != nil {
		return fmt.Errorf("create journal directory: %w", err)
	}
	f, err := os.OpenFile(j.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write journal entry: %w", err)
	}
	return nil
}

// Read returns every entry in append order. Malformed lines are skipped; a
// half-written trailing line must not hide the rest of the journal.
func (j *Journal) Read() ([]Entry, error) {
	data, err := os.ReadFile(j.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read journal: %w", err)
	}

	var entries []Entry
	for _, line := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// ReadSince returns entries at or after the given time.
func (j *Journal) ReadSince(since time.Time) ([]Entry, error) {
	all, err := j.Read()
	if err != nil {
		return nil, err
	}
	var out []Entry
	for _, e := range all {
		if !e.Timestamp.Before(since) {
			out = append(out, e)
		}
	}
	return out, nil
}
