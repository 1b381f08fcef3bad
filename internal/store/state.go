package store

import (
	"encoding/json"
	"os"
	"sync"
	"time"

	"github.com/pkg/errors"
)

// PollState is the poller's operational state, persisted across restarts
// and served by the status endpoint.
type PollState struct {
	LastPoll            time.Time `json:"lastPoll"`
	LastSuccess         time.Time `json:"lastSuccess"`
	ConsecutiveFailures int       `json:"consecutiveFailures"`
	LastError           string    `json:"lastError"`
}

// StateStore persists PollState in a single JSON file. Every save failure
// is returned to the caller to log; none is fatal, the in-memory state
// stays current either way.
type StateStore struct {
	path string

	mu    sync.RWMutex
	state PollState
}

// OpenStateStore loads the state file, starting fresh when it is missing.
// A corrupt file yields a fresh, usable store alongside the error.
func OpenStateStore(path string) (*StateStore, error) {
	s := &StateStore{path: path}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return s, errors.Wrap(err, "failed to read poll state file")
	}

	if err := json.Unmarshal(data, &s.state); err != nil {
		s.state = PollState{}
		return s, errors.Wrap(err, "failed to parse poll state file")
	}

	return s, nil
}

// SaveLastPoll records the timestamp of the latest poll attempt.
func (s *StateStore) SaveLastPoll(t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.LastPoll = t
	return s.persist()
}

// SaveLastSuccess records the timestamp of the latest successful poll.
func (s *StateStore) SaveLastSuccess(t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.LastSuccess = t
	return s.persist()
}

// IncrementFailures bumps the consecutive failure counter and returns the
// new count.
func (s *StateStore) IncrementFailures() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.ConsecutiveFailures++
	return s.state.ConsecutiveFailures, s.persist()
}

// ResetFailures clears the consecutive failure counter.
func (s *StateStore) ResetFailures() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.ConsecutiveFailures = 0
	return s.persist()
}

// SaveLastError records the most recent poll error message; an empty
// string clears it.
func (s *StateStore) SaveLastError(msg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state.LastError = msg
	return s.persist()
}

// Snapshot returns a copy of the current state.
func (s *StateStore) Snapshot() PollState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

func (s *StateStore) persist() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode poll state")
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write poll state file")
	}
	return nil
}
