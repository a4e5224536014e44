package gateway

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pawan09032004/planwise/internal/checklist"
)

// OverrideStore persists per-project completion state on the client side so
// a toggle survives reloads before the server confirms the write. One JSON
// file per project, keyed checklist_<projectID>, always written wholesale.
type OverrideStore struct {
	dir string
}

// NewOverrideStore opens (creating if needed) a store rooted at dir.
func NewOverrideStore(dir string) (*OverrideStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create override store directory: %w", err)
	}
	return &OverrideStore{dir: dir}, nil
}

func (s *OverrideStore) path(projectID int64) string {
	return filepath.Join(s.dir, fmt.Sprintf("checklist_%d.json", projectID))
}

// Load reads the saved overrides for a project. Missing or corrupt content
// reads as absent; the fresh server data then stands alone.
func (s *OverrideStore) Load(projectID int64) []checklist.Override {
	data, err := os.ReadFile(s.path(projectID))
	if err != nil {
		return nil
	}

	var overrides []checklist.Override
	if err := json.Unmarshal(data, &overrides); err != nil {
		return nil
	}
	return overrides
}

// Save replaces the stored list for a project with the full task list.
func (s *OverrideStore) Save(projectID int64, tasks []checklist.Task) error {
	data, err := json.Marshal(tasks)
	if err != nil {
		return fmt.Errorf("failed to encode checklist: %w", err)
	}
	if err := os.WriteFile(s.path(projectID), data, 0644); err != nil {
		return fmt.Errorf("failed to write checklist file: %w", err)
	}
	return nil
}

// Clear removes the stored list for a project, typically once a fresh fetch
// confirms the server holds the same state.
func (s *OverrideStore) Clear(projectID int64) error {
	err := os.Remove(s.path(projectID))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
