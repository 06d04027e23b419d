// Package state persists UI preferences that carry across runs.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/stepper/internal/logger"
)

const fileName = "ui-state.json"

// UIState holds persistent UI preferences.
type UIState struct {
	Layout LayoutState `json:"layout"`
}

// LayoutState holds how the stepper is drawn.
type LayoutState struct {
	Vertical    bool `json:"vertical"`
	ShowContent bool `json:"show_content"`
}

// DefaultUIState returns the preferences used when nothing is saved.
func DefaultUIState() *UIState {
	return &UIState{
		Layout: LayoutState{ShowContent: true},
	}
}

// Path returns the state file location inside dataDir.
func Path(dataDir string) string {
	return filepath.Join(dataDir, fileName)
}

// Load reads the UI state from dataDir. A missing or unreadable file yields
// the defaults.
func Load(dataDir string) *UIState {
	data, err := os.ReadFile(Path(dataDir))
	if err != nil {
		if !os.IsNotExist(err) {
			logger.Warn("Failed to read UI state file: %v", err)
		}
		return DefaultUIState()
	}

	state := DefaultUIState()
	if err := json.Unmarshal(data, state); err != nil {
		logger.Warn("Failed to parse UI state JSON: %v", err)
		return DefaultUIState()
	}
	return state
}

// Save writes the UI state into dataDir, creating it if needed.
func Save(dataDir string, state *UIState) error {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling UI state: %w", err)
	}

	path := Path(dataDir)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing UI state file: %w", err)
	}

	logger.Debug("UI state saved to %s", path)
	return nil
}
