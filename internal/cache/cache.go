// Package cache persists the last synced state as one JSON snapshot. The
// snapshot is opaque to the rest of the program: it is written wholesale
// after a successful sync or commit and invalidated wholesale by
// `-delete-cache`.
package cache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/amirbrooks/todoist-action-cli/internal/tasks"
)

const snapshotSchema = 1

var timeNow = func() time.Time { return time.Now().UTC() }

// Snapshot is the persisted shape of one synced state.
type Snapshot struct {
	Schema    int             `json:"schema"`
	SavedAt   time.Time       `json:"saved_at"`
	SyncToken string          `json:"sync_token,omitempty"`
	Tasks     []tasks.Task    `json:"items"`
	Projects  []tasks.Project `json:"projects"`
	Labels    []tasks.Label   `json:"labels"`
}

// Store reads and writes the snapshot under one directory.
type Store struct {
	Dir string
}

func NewStore(dir string) *Store {
	return &Store{Dir: dir}
}

func (s *Store) path() string {
	return filepath.Join(s.Dir, "state.json")
}

// Load returns the stored snapshot, or (nil, nil) when none exists yet.
func (s *Store) Load() (*Snapshot, error) {
	b, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var snap Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("cache snapshot is corrupt (delete it with -delete-cache): %w", err)
	}
	if snap.Schema != snapshotSchema {
		return nil, fmt.Errorf("cache snapshot schema %d not supported (delete it with -delete-cache)", snap.Schema)
	}
	return &snap, nil
}

// Save replaces the snapshot atomically.
func (s *Store) Save(snap *Snapshot) error {
	snap.Schema = snapshotSchema
	snap.SavedAt = timeNow()
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}
	return atomicWriteFile(s.path(), b, 0o644)
}

// Delete removes the snapshot. Deleting a snapshot that does not exist is
// not an error.
func (s *Store) Delete() error {
	err := os.Remove(s.path())
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func atomicWriteFile(path string, data []byte, perm fs.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp := filepath.Join(dir, fmt.Sprintf(".tmp-%d", timeNow().UnixNano()))
	if err := os.WriteFile(tmp, data, perm); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	// Rename is atomic on same filesystem.
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return nil
}
