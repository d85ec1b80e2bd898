package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteSnapshot serializes the run state as indented JSON for inspection.
// Snapshots are a debugging aid; nothing in the pipeline reads them back.
func WriteSnapshot(path string, state *RunState) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal run state: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}

	return nil
}
