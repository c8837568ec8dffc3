// Package store persists the league document as a single JSON snapshot
// on disk. The snapshot is read once at startup (through the migrator)
// and rewritten after every state change.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/MarcusAnderfelt/worlds-fantasy/internal/league"
)

type SnapshotStore struct {
	Root string // e.g. "data"
}

func NewSnapshotStore(root string) *SnapshotStore {
	return &SnapshotStore{Root: root}
}

func (s *SnapshotStore) Path() string {
	return filepath.Join(s.Root, "league", "snapshot.json")
}

func (s *SnapshotStore) Exists() bool {
	_, err := os.Stat(s.Path())
	return err == nil
}

// Load returns the raw snapshot bytes. A missing file returns an error;
// callers feed the result to the migrator either way, so corruption and
// absence both collapse into the default league.
func (s *SnapshotStore) Load() ([]byte, error) {
	return os.ReadFile(s.Path())
}

// Save writes the league document pretty-printed, creating parent
// directories as needed.
func (s *SnapshotStore) Save(lg *league.League) error {
	path := s.Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	b, err := json.MarshalIndent(lg, "", "  ")
	if err != nil {
		return err
	}

	b = append(b, '\n')
	return os.WriteFile(path, b, 0o644)
}
