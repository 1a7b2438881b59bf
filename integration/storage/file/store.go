// Package file persists the session identity as a JSON file, giving desktop
// and CLI clients durable storage that survives process restarts.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/expertpicks/clientcore/core/session"
)

// Store is a file-backed session.Storage. Writes go through a temp file and
// an atomic rename, so a crash mid-write never leaves a truncated record.
// Safe for concurrent use within one process.
type Store struct {
	mu   sync.Mutex
	path string
}

// New creates a file store at the given path. Parent directories are created
// on first save, not here, so constructing a store has no side effects.
func New(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("file: storage path is required")
	}
	return &Store{path: path}, nil
}

// DefaultPath returns the conventional location for the persisted session,
// under the user's configuration directory.
func DefaultPath(appName string) (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("file: resolve user config dir: %w", err)
	}
	return filepath.Join(dir, appName, "user.json"), nil
}

// Load reads the persisted identity. A missing file maps to
// session.ErrNoSession; unreadable or corrupt content is an error the
// caller degrades to a logged-out state.
func (s *Store) Load(ctx context.Context) (session.Identity, error) {
	if err := ctx.Err(); err != nil {
		return session.Identity{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return session.Identity{}, session.ErrNoSession
		}
		return session.Identity{}, fmt.Errorf("file: read %s: %w", s.path, err)
	}

	var identity session.Identity
	if err := json.Unmarshal(data, &identity); err != nil {
		return session.Identity{}, fmt.Errorf("file: corrupt session record in %s: %w", s.path, err)
	}

	return identity, nil
}

// Save persists the identity, replacing any previous record atomically.
// The file is restricted to the owner: it holds a bearer credential.
func (s *Store) Save(ctx context.Context, identity session.Identity) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.Marshal(identity)
	if err != nil {
		return fmt.Errorf("file: encode session record: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("file: create %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".user-*.json")
	if err != nil {
		return fmt.Errorf("file: create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("file: restrict temp file perms: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("file: write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file: close temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("file: replace %s: %w", s.path, err)
	}
	return nil
}

// Delete removes the persisted identity. Deleting an absent record is a no-op.
func (s *Store) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("file: remove %s: %w", s.path, err)
	}
	return nil
}
