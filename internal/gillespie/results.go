package gillespie

import (
	"encoding/json"
	"fmt"
)

// Snapshot is a point-in-time capture of a finished trajectory, suitable
// for persistence and later inspection.
type Snapshot struct {
	ModelName string   `json:"model_name"`
	Species   []string `json:"species"`
	Result    Result   `json:"result"`
}

// NewSnapshot captures a run result together with the species naming of
// its model.
func NewSnapshot(modelName string, species []string, res Result) Snapshot {
	return Snapshot{ModelName: modelName, Species: species, Result: res}
}

// ValidateSnapshot checks internal consistency: the species list must
// match the state width, trajectory arrays must align, and the status
// must be terminal.
func ValidateSnapshot(snap Snapshot) error {
	if snap.ModelName == "" {
		return fmt.Errorf("snapshot has empty model name")
	}
	if !snap.Result.Status.Terminal() {
		return fmt.Errorf("snapshot result has non-terminal status %s", snap.Result.Status)
	}
	if len(snap.Species) != len(snap.Result.State) {
		return fmt.Errorf("snapshot has %d species names for %d state entries", len(snap.Species), len(snap.Result.State))
	}
	if len(snap.Result.Times) != len(snap.Result.States) {
		return fmt.Errorf("snapshot trajectory has %d times for %d states", len(snap.Result.Times), len(snap.Result.States))
	}
	for i, st := range snap.Result.States {
		if len(st) != len(snap.Species) {
			return fmt.Errorf("trajectory state at index %d has %d entries, want %d", i, len(st), len(snap.Species))
		}
		for j, x := range st {
			if x < 0 {
				return fmt.Errorf("trajectory state at index %d has negative population for species %s", i, snap.Species[j])
			}
		}
	}
	return nil
}

// EncodeSnapshotJSON encodes a snapshot to JSON.
func EncodeSnapshotJSON(snap Snapshot) ([]byte, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// DecodeSnapshotJSON decodes a snapshot from JSON.
func DecodeSnapshotJSON(data []byte) (Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}
