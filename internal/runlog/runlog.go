// Package runlog persists one JSONL record per completed annealing run.
//
// The log is append-only and the Log is the sole owner of the file handle;
// callers never touch the file directly. Records are self-contained (instance
// fingerprint, seed, schedule parameters, outcome) so a run can be reproduced
// from its line alone.
package runlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Record is one JSONL line describing a completed run.
type Record struct {
	RunID     string `json:"run_id"`
	Timestamp string `json:"ts"`

	Instance string `json:"instance"` // instance fingerprint
	Seed     int64  `json:"seed"`

	InitialTemp float64 `json:"t0"`
	MinTemp     float64 `json:"t_min"`
	CoolRate    float64 `json:"cool_rate"`
	MaxIter     int     `json:"max_iter"`

	Energy     float64 `json:"energy"`
	Conflicts  int     `json:"conflicts"`
	Iterations int     `json:"iterations"`
	ElapsedMs  int64   `json:"elapsed_ms"`
}

// Log appends run records to a single JSONL file.
//
// Expectations:
//   - Append is safe for concurrent use (mutex-protected)
//   - Append assigns RunID and Timestamp when unset
//   - All methods are nil-safe (no-op on nil receiver)
type Log struct {
	mu   sync.Mutex
	f    *os.File
	path string
}

// Open creates the parent directory if absent and opens path for appending.
func Open(path string) (*Log, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("runlog: create dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("runlog: open %s: %w", path, err)
	}
	return &Log{f: f, path: path}, nil
}

// Append writes one record as a JSON line, assigning RunID (uuid) and
// Timestamp (RFC3339, UTC) when the caller left them empty.
func (l *Log) Append(rec Record) error {
	if l == nil {
		return nil
	}
	if rec.RunID == "" {
		rec.RunID = uuid.NewString()
	}
	if rec.Timestamp == "" {
		rec.Timestamp = time.Now().UTC().Format(time.RFC3339Nano)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("runlog: marshal: %w", err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return fmt.Errorf("runlog: log is closed")
	}
	if _, err := fmt.Fprintf(l.f, "%s\n", data); err != nil {
		return fmt.Errorf("runlog: write: %w", err)
	}
	return nil
}

// Close flushes and closes the underlying file. Safe to call twice.
func (l *Log) Close() error {
	if l == nil {
		return nil
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.f == nil {
		return nil
	}
	err := l.f.Close()
	l.f = nil
	return err
}

// Read parses every record from a JSONL run log. Blank lines are skipped.
func Read(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("runlog: read %s: %w", path, err)
	}
	var out []Record
	start := 0
	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1
			if len(line) == 0 {
				continue
			}
			var rec Record
			if err := json.Unmarshal(line, &rec); err != nil {
				return nil, fmt.Errorf("runlog: parse line %q: %w", line, err)
			}
			out = append(out, rec)
		}
	}
	return out, nil
}
