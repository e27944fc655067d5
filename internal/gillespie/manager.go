package gillespie

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// ModelID is a unique identifier for a registered model.
type ModelID string

// model pairs a registered config with its built system and the results
// of every run executed against it.
type model struct {
	cfg     ModelConfig
	sys     *ReactionSystem
	results Results
}

// RunManager holds registered models and their run history, each isolated
// from the others. It is the server-facing surface of the engine.
type RunManager struct {
	mu       sync.RWMutex
	models   map[ModelID]*model
	notifier *NotificationManager
	logger   Logger
}

// NewRunManager creates an empty manager with a no-op logger.
func NewRunManager() *RunManager {
	return NewRunManagerWithLogger(NewNoOpLogger())
}

// NewRunManagerWithLogger creates an empty manager using the given logger.
func NewRunManagerWithLogger(logger Logger) *RunManager {
	return &RunManager{
		models: make(map[ModelID]*model),
		logger: logger,
	}
}

// SetNotificationManager wires run-completion events to a notification
// manager. Pass nil to disable.
func (rm *RunManager) SetNotificationManager(nm *NotificationManager) {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	rm.notifier = nm
}

// RegisterModel validates and registers a model config under an ID.
// Re-registering an existing ID replaces the model and clears its run
// history.
func (rm *RunManager) RegisterModel(id ModelID, cfg ModelConfig) error {
	sys, err := BuildSystemFromConfig(cfg)
	if err != nil {
		return err
	}

	rm.mu.Lock()
	defer rm.mu.Unlock()
	if _, exists := rm.models[id]; exists {
		rm.logger.Infof("model replaced: model_id=%s name=%s", id, cfg.Name)
	} else {
		rm.logger.Infof("model registered: model_id=%s name=%s", id, cfg.Name)
	}
	rm.models[id] = &model{cfg: cfg, sys: sys}
	return nil
}

// GetModelConfig retrieves the config of a registered model.
func (rm *RunManager) GetModelConfig(id ModelID) (ModelConfig, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	m, ok := rm.models[id]
	if !ok {
		return ModelConfig{}, false
	}
	return m.cfg, true
}

// DeleteModel removes a model and its run history.
func (rm *RunManager) DeleteModel(id ModelID) error {
	rm.mu.Lock()
	defer rm.mu.Unlock()
	if _, exists := rm.models[id]; !exists {
		return fmt.Errorf("model with id %s does not exist", id)
	}
	delete(rm.models, id)
	return nil
}

// ListModels returns the IDs of every registered model.
func (rm *RunManager) ListModels() []ModelID {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	ids := make([]ModelID, 0, len(rm.models))
	for id := range rm.models {
		ids = append(ids, id)
	}
	return ids
}

// Run executes nRep trajectories of a registered model, appends the
// results to the model's history, and enqueues a completion event per
// run when a notification manager is set.
func (rm *RunManager) Run(id ModelID, opts Options, nRep int, seeds []int64) (Results, error) {
	rm.mu.RLock()
	m, ok := rm.models[id]
	notifier := rm.notifier
	rm.mu.RUnlock()
	if !ok {
		return Results{}, fmt.Errorf("model with id %s does not exist", id)
	}

	results, err := RunEnsemble(m.sys, opts, nRep, seeds)
	if err != nil {
		return results, err
	}

	rm.mu.Lock()
	m.results.Runs = append(m.results.Runs, results.Runs...)
	rm.mu.Unlock()

	if notifier != nil {
		for _, run := range results.Runs {
			notifier.Enqueue(NewRunEvent(id, m.cfg, run), notifier.ListNotifiers())
		}
	}

	rm.logger.Debugf("runs completed: model_id=%s reps=%d", id, nRep)
	return results, nil
}

// Results returns the accumulated run history of a model.
func (rm *RunManager) Results(id ModelID) (Results, bool) {
	rm.mu.RLock()
	defer rm.mu.RUnlock()
	m, ok := rm.models[id]
	if !ok {
		return Results{}, false
	}
	return Results{Runs: append([]Result(nil), m.results.Runs...)}, true
}

// SnapshotPath returns where SaveSnapshot writes a model's latest run.
func (rm *RunManager) SnapshotPath(dir string, id ModelID) string {
	return filepath.Join(dir, string(id)+".json")
}

// SaveSnapshot persists the most recent run of a model as a JSON snapshot
// under dir. It is an error if the model has no runs yet.
func (rm *RunManager) SaveSnapshot(dir string, id ModelID) (string, error) {
	rm.mu.RLock()
	m, ok := rm.models[id]
	rm.mu.RUnlock()
	if !ok {
		return "", fmt.Errorf("model with id %s does not exist", id)
	}
	if len(m.results.Runs) == 0 {
		return "", fmt.Errorf("model %s has no completed runs", id)
	}

	snap := NewSnapshot(m.cfg.Name, m.cfg.SpeciesNames(), m.results.Runs[len(m.results.Runs)-1])
	data, err := EncodeSnapshotJSON(snap)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating snapshot dir: %w", err)
	}
	path := rm.SnapshotPath(dir, id)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("writing snapshot: %w", err)
	}
	return path, nil
}
