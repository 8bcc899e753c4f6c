// Package beststore keeps the best schedule seen for each problem instance
// across invocations, backed by LevelDB.
//
// LevelDB key scheme — "|" separator so fingerprints stay unambiguous:
//
//	b|<fingerprint> → Entry JSON (best solution; overwritten only on improvement)
package beststore

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/syndtr/goleveldb/leveldb"
)

const prefixBest = "b|"

// Entry is the stored best solution for one instance.
type Entry struct {
	Spins     []int   `json:"spins"`
	Energy    float64 `json:"energy"`
	Conflicts int     `json:"conflicts"`
	UpdatedAt string  `json:"updated_at"` // RFC3339; set by the caller
}

// Store is the LevelDB-backed best-solution map. LevelDB is single-writer:
// only one process may hold the store open at a time.
type Store struct {
	db *leveldb.DB
}

// Open opens (or creates) the LevelDB database at dir.
func Open(dir string) (*Store, error) {
	db, err := leveldb.OpenFile(dir, nil)
	if err != nil {
		return nil, fmt.Errorf("beststore: open %s: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close releases the database. Safe to call on a nil Store.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Best returns the stored entry for fingerprint, or (nil, nil) when the
// instance has never been solved.
func (s *Store) Best(fingerprint string) (*Entry, error) {
	data, err := s.db.Get([]byte(prefixBest+fingerprint), nil)
	if err == leveldb.ErrNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("beststore: get %s: %w", fingerprint, err)
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("beststore: corrupt entry for %s: %w", fingerprint, err)
	}
	return &e, nil
}

// Update stores e as the best solution for fingerprint if it improves on
// (strictly undercuts) the stored energy, or if none is stored. It reports
// whether the entry was written.
func (s *Store) Update(fingerprint string, e Entry) (bool, error) {
	prev, err := s.Best(fingerprint)
	if err != nil {
		return false, err
	}
	if prev != nil && prev.Energy <= e.Energy {
		return false, nil
	}

	data, err := json.Marshal(e)
	if err != nil {
		return false, fmt.Errorf("beststore: marshal entry: %w", err)
	}
	if err := s.db.Put([]byte(prefixBest+fingerprint), data, nil); err != nil {
		return false, fmt.Errorf("beststore: put %s: %w", fingerprint, err)
	}
	if prev != nil {
		slog.Info("[STORE] best solution improved", "instance", fingerprint, "energy", e.Energy, "prev", prev.Energy)
	}
	return true, nil
}
