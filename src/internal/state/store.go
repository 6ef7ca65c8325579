// Package state persists the small amount of resolver state that must survive
// process restarts: per channel, when a remote feed was last consulted and
// whether it has ever been consulted.
package state

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// entry is the persisted record for one product/channel pair.
// LastChecked is zero until the first check is recorded.
type entry struct {
	LastChecked time.Time `yaml:"last_checked,omitempty"`
	CheckedOnce bool      `yaml:"checked_once"`
}

type document struct {
	Entries map[string]*entry `yaml:"entries"`
}

// Store is a YAML-file-backed key/value store for channel rule state. Access is
// guarded by an in-process mutex only; concurrent processes may race on the
// file, which at worst costs one duplicate remote check.
type Store struct {
	path string

	mu  sync.Mutex
	doc document
}

// NewStore loads the store backed by the given file, creating an empty store
// when the file does not exist yet.
func NewStore(path string) (*Store, error) {
	s := &Store{path: path, doc: document{Entries: map[string]*entry{}}}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	if err := yaml.Unmarshal(data, &s.doc); err != nil {
		return nil, fmt.Errorf("failed to parse state file: %w", err)
	}
	if s.doc.Entries == nil {
		s.doc.Entries = map[string]*entry{}
	}

	return s, nil
}

// HasCheckedOnce reports whether a remote check was ever recorded for key
func (s *Store) HasCheckedOnce(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.doc.Entries[key]
	return ok && e.CheckedOnce
}

// LastChecked returns when a remote check was last recorded for key. The
// second return value is false when no check was ever recorded.
func (s *Store) LastChecked(key string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.doc.Entries[key]
	if !ok || e.LastChecked.IsZero() {
		return time.Time{}, false
	}
	return e.LastChecked, true
}

// MarkChecked records that a remote check happened for key at the given time
// and persists the store.
func (s *Store) MarkChecked(key string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.doc.Entries[key]
	if !ok {
		e = &entry{}
		s.doc.Entries[key] = e
	}
	e.LastChecked = at
	e.CheckedOnce = true

	return s.save()
}

// save writes the document to disk. Caller holds the mutex.
func (s *Store) save() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	data, err := yaml.Marshal(&s.doc)
	if err != nil {
		return fmt.Errorf("failed to marshal state: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write state file: %w", err)
	}
	return nil
}
