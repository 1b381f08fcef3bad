package store

import (
	"encoding/json"
	"os"
	"sync"

	"github.com/pkg/errors"
)

// SentStore is the durable record of alert IDs that were already
// delivered. It is the only thing standing between the pipeline and
// duplicate notifications across poll cycles and restarts.
//
// The backing file is a flat JSON array of ID strings. A persistence
// failure is reported but the in-memory set keeps the ID, so a duplicate
// can only occur after a restart that races a failed write; that is the
// accepted degradation rather than a fatal error.
type SentStore struct {
	path string

	mu  sync.RWMutex
	ids map[string]struct{}
	// order preserves insertion order so the file stays append-shaped
	// and diffs stay readable.
	order []string
}

// OpenSentStore loads the sent-IDs file. A missing file yields an empty
// store; an unreadable or corrupt file also yields an empty, usable store
// alongside the error so the caller can log and continue.
func OpenSentStore(path string) (*SentStore, error) {
	s := &SentStore{
		path: path,
		ids:  make(map[string]struct{}),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, errors.Wrap(err, "failed to read sent alerts file")
	}

	var stored []string
	if err := json.Unmarshal(data, &stored); err != nil {
		return s, errors.Wrap(err, "failed to parse sent alerts file")
	}

	for _, id := range stored {
		if _, exists := s.ids[id]; exists {
			continue
		}
		s.ids[id] = struct{}{}
		s.order = append(s.order, id)
	}

	return s, nil
}

// Contains reports whether the ID was already delivered.
func (s *SentStore) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, exists := s.ids[id]
	return exists
}

// RecordSent adds the ID to the set and persists it. Recording an ID that
// is already present is a no-op.
func (s *SentStore) RecordSent(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.ids[id]; exists {
		return nil
	}

	s.ids[id] = struct{}{}
	s.order = append(s.order, id)

	data, err := json.Marshal(s.order)
	if err != nil {
		return errors.Wrap(err, "failed to encode sent alerts")
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write sent alerts file")
	}

	return nil
}

// Len returns the number of recorded IDs.
func (s *SentStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.order)
}
