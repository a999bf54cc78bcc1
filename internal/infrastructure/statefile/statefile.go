// Package statefile persists the session's two durable entries — token and
// role — as a small JSON file in the user's state directory. Writes are
// atomic (temp file + rename) so a crash can never leave a torn file, only
// the previous state or the new one.
package statefile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/luis5368/web-clinica-medica/internal/core/domain"
)

const fileMode = 0o600

// Store reads and writes the persisted session at a fixed path.
type Store struct {
	path string
}

func New(path string) *Store {
	return &Store{path: path}
}

// DefaultPath places the state under the user config directory, falling back
// to the working directory when none is available.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".clinica-session.json"
	}
	return filepath.Join(dir, "clinica", "session.json")
}

// Load returns the persisted session. A missing file is an anonymous session,
// not an error. Unreadable or unparseable content is reported to the caller,
// which decides whether to fail safe.
func (s *Store) Load() (domain.Session, error) {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return domain.Session{}, nil
	}
	if err != nil {
		return domain.Session{}, fmt.Errorf("read state file: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		// Treat garbage the same as a half-written pair: hand back an
		// invalid session so the caller clears it.
		return domain.Session{Token: "corrupt"}, nil
	}
	return sess, nil
}

// Save writes the session through to disk before returning.
func (s *Store) Save(sess domain.Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, fileMode); err != nil {
		return fmt.Errorf("write state file: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace state file: %w", err)
	}
	return nil
}

// Clear removes the persisted session. Clearing an already-empty store is a
// no-op.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove state file: %w", err)
	}
	return nil
}
