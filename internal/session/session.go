// Package session persists the current guest session in a single-slot file,
// deliberately separate from the main database (the localStorage slot of the
// browser original). Repository operations consult it to default a post's
// author; reset clears it together with the stores.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/boardmate/boardmate/internal/model"
)

// Store reads and writes the session slot.
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// Save replaces the slot with the given session.
func (s *Store) Save(sess model.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: encoding: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("session: creating slot directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("session: writing slot: %w", err)
	}
	return nil
}

// Load returns the stored session, or nil when the slot is empty. A slot
// holding unparseable content also reads as nil — no session is not an
// error condition.
func (s *Store) Load() (*model.Session, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session: reading slot: %w", err)
	}
	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, nil
	}
	return &sess, nil
}

// Clear empties the slot. Clearing an already-empty slot is a no-op.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("session: clearing slot: %w", err)
	}
	return nil
}
