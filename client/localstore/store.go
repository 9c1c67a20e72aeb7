// Package localstore is a small key-value persistence surface backed by a
// single JSON snapshot file. Values survive process restarts; an absent or
// corrupt snapshot loads as empty rather than failing the caller.
package localstore

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/natefinch/atomic"
)

// Store persists string keys to raw JSON values in one file. All methods are
// safe for concurrent use within a process; cross-process coordination is not
// attempted.
type Store struct {
	mu   sync.Mutex
	path string
	data map[string]json.RawMessage
}

// Open loads (or initializes) the snapshot at path. A missing file or a file
// that fails to parse yields an empty store; Open only returns an error when
// the parent directory cannot be created.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	s := &Store{path: path, data: map[string]json.RawMessage{}}
	raw, err := os.ReadFile(path)
	if err != nil {
		return s, nil
	}
	var loaded map[string]json.RawMessage
	if err := json.Unmarshal(raw, &loaded); err == nil && loaded != nil {
		s.data = loaded
	}
	return s, nil
}

// Get returns the stored value for key and whether it was present.
func (s *Store) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, false
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true
}

// Set stores value under key and rewrites the snapshot atomically.
func (s *Store) Set(key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append(json.RawMessage(nil), value...)
	return s.persistLocked()
}

// Delete removes key and rewrites the snapshot.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return s.persistLocked()
}

func (s *Store) persistLocked() error {
	raw, err := json.Marshal(s.data)
	if err != nil {
		return err
	}
	return atomic.WriteFile(s.path, bytes.NewReader(raw))
}
