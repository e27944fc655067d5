package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"

	"github.com/stosim/stosim/internal/gillespie"
	"github.com/stosim/stosim/internal/gillespie/notifiers"
)

// extractModelID extracts the model ID from a path like "/model/{id}/...".
// Returns the model ID and the remaining path, or empty strings if the
// path does not match.
func extractModelID(path string) (gillespie.ModelID, string) {
	if !strings.HasPrefix(path, "/model/") {
		return "", ""
	}

	rest := path[len("/model/"):]
	idx := strings.Index(rest, "/")
	if idx == -1 {
		return gillespie.ModelID(rest), ""
	}
	return gillespie.ModelID(rest[:idx]), rest[idx:]
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// POST /model/{id}
// Body: ModelConfig JSON. Registers a new model or replaces an existing one.
func (s *Server) handleRegisterModel(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	modelID, _ := extractModelID(r.URL.Path)
	if modelID == "" {
		http.Error(w, "model ID is required in path: /model/{id}", http.StatusBadRequest)
		return
	}

	var cfg gillespie.ModelConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, "invalid model json: "+err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.manager.RegisterModel(modelID, cfg); err != nil {
		http.Error(w, "cannot register model: "+err.Error(), http.StatusBadRequest)
		return
	}

	s.logger.Info("model registered", "model_id", modelID, "name", cfg.Name)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("model registered"))
}

// runRequest carries the optional run parameters of POST /model/{id}/run.
type runRequest struct {
	MaxT    float64 `json:"max_t"`
	MaxIter int     `json:"max_iter"`
	Seed    int64   `json:"seed"`
	Reps    int     `json:"reps"`
	Seeds   []int64 `json:"seeds"`
}

// POST /model/{id}/run
// Body (optional): runRequest JSON. Runs one or more trajectories and
// returns the results.
func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	modelID, _ := extractModelID(r.URL.Path)
	if modelID == "" {
		http.Error(w, "model ID is required in path: /model/{id}/run", http.StatusBadRequest)
		return
	}

	req := runRequest{MaxT: 1.0, MaxIter: 100, Reps: 1}
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid run json: "+err.Error(), http.StatusBadRequest)
			return
		}
	}
	if req.Reps <= 0 {
		req.Reps = 1
	}

	opts := gillespie.DefaultOptions()
	opts.MaxT = req.MaxT
	opts.MaxIter = req.MaxIter
	seeds := req.Seeds
	if seeds == nil && req.Seed != 0 {
		seeds = make([]int64, req.Reps)
		for i := range seeds {
			seeds[i] = req.Seed + int64(i)
		}
	}

	results, err := s.manager.Run(modelID, opts, req.Reps, seeds)
	if err != nil {
		if strings.Contains(err.Error(), "does not exist") {
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		}
		s.logger.Error("run failed", "model_id", modelID, "error", err)
		http.Error(w, "run failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	s.logger.Debug("runs completed", "model_id", modelID, "reps", req.Reps)
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(results); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// GET /model/{id}/results
func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	modelID, _ := extractModelID(r.URL.Path)
	if modelID == "" {
		http.Error(w, "model ID is required in path: /model/{id}/results", http.StatusBadRequest)
		return
	}

	results, exists := s.manager.Results(modelID)
	if !exists {
		http.Error(w, "model not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(results); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// GET /models
func (s *Server) handleListModels(w http.ResponseWriter, r *http.Request) {
	modelIDs := s.manager.ListModels()

	ids := make([]string, len(modelIDs))
	for i, id := range modelIDs {
		ids[i] = string(id)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string][]string{"models": ids}); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// DELETE /model/{id}
func (s *Server) handleDeleteModel(w http.ResponseWriter, r *http.Request) {
	modelID, _ := extractModelID(r.URL.Path)
	if modelID == "" {
		http.Error(w, "model ID is required in path: /model/{id}", http.StatusBadRequest)
		return
	}

	if err := s.manager.DeleteModel(modelID); err != nil {
		s.logger.Warn("failed to delete model", "model_id", modelID, "error", err)
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	s.logger.Info("model deleted", "model_id", modelID)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("model deleted"))
}

// POST /model/{id}/snapshot
// Persists the latest run of the model as a JSON snapshot.
func (s *Server) handleSaveSnapshot(w http.ResponseWriter, r *http.Request) {
	modelID, _ := extractModelID(r.URL.Path)
	if modelID == "" {
		http.Error(w, "model ID is required in path: /model/{id}/snapshot", http.StatusBadRequest)
		return
	}

	if s.snapshotDir == "" {
		http.Error(w, "snapshot directory not configured", http.StatusInternalServerError)
		return
	}

	path, err := s.manager.SaveSnapshot(s.snapshotDir, modelID)
	if err != nil {
		s.logger.Error("failed to save snapshot", "model_id", modelID, "error", err)
		http.Error(w, "failed to save snapshot: "+err.Error(), http.StatusInternalServerError)
		return
	}

	s.logger.Debug("snapshot saved", "model_id", modelID, "path", path)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "ok", "path": path}); err != nil {
		http.Error(w, "cannot encode response: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// GET /model/{id}/snapshot
// Returns the raw snapshot JSON if it exists.
func (s *Server) handleGetSnapshot(w http.ResponseWriter, r *http.Request) {
	modelID, _ := extractModelID(r.URL.Path)
	if modelID == "" {
		http.Error(w, "model ID is required in path: /model/{id}/snapshot", http.StatusBadRequest)
		return
	}

	if s.snapshotDir == "" {
		http.Error(w, "snapshot directory not configured", http.StatusInternalServerError)
		return
	}

	path := s.manager.SnapshotPath(s.snapshotDir, modelID)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			http.Error(w, "snapshot not found", http.StatusNotFound)
			return
		}
		http.Error(w, "failed to read snapshot: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// handleModelRoutes routes /model/{id}/... requests.
func (s *Server) handleModelRoutes(w http.ResponseWriter, r *http.Request) {
	_, remainingPath := extractModelID(r.URL.Path)

	switch {
	case remainingPath == "" && r.Method == http.MethodPost:
		s.handleRegisterModel(w, r)
	case remainingPath == "" && r.Method == http.MethodDelete:
		s.handleDeleteModel(w, r)
	case remainingPath == "/run" && r.Method == http.MethodPost:
		s.handleRun(w, r)
	case remainingPath == "/results" && r.Method == http.MethodGet:
		s.handleResults(w, r)
	case remainingPath == "/snapshot" && r.Method == http.MethodPost:
		s.handleSaveSnapshot(w, r)
	case remainingPath == "/snapshot" && r.Method == http.MethodGet:
		s.handleGetSnapshot(w, r)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// handleNotifiersRoutes handles notifier management endpoints.
func (s *Server) handleNotifiersRoutes(w http.ResponseWriter, r *http.Request) {
	switch {
	case r.URL.Path == "/notifiers" && r.Method == http.MethodGet:
		s.handleListNotifiers(w, r)
	case r.URL.Path == "/notifiers" && r.Method == http.MethodPost:
		s.handleRegisterNotifier(w, r)
	case strings.HasPrefix(r.URL.Path, "/notifiers/") && r.Method == http.MethodDelete:
		s.handleUnregisterNotifier(w, r)
	default:
		http.Error(w, "not found", http.StatusNotFound)
	}
}

// GET /notifiers
func (s *Server) handleListNotifiers(w http.ResponseWriter, _ *http.Request) {
	notifierIDs := s.notifierMgr.ListNotifiers()

	list := make([]map[string]string, 0, len(notifierIDs))
	for _, id := range notifierIDs {
		notifier, exists := s.notifierMgr.GetNotifier(id)
		if exists {
			list = append(list, map[string]string{
				"id":   id,
				"type": notifier.Type(),
			})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{"notifiers": list}); err != nil {
		http.Error(w, "cannot encode: "+err.Error(), http.StatusInternalServerError)
		return
	}
}

// POST /notifiers
// Body: { "type": "webhook", "id": "my-webhook", "config": { "url": "http://..." } }
type registerNotifierRequest struct {
	Type   string         `json:"type"`
	ID     string         `json:"id"`
	Config map[string]any `json:"config"`
}

func (s *Server) handleRegisterNotifier(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req registerNotifierRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}

	if req.ID == "" {
		http.Error(w, "notifier ID is required", http.StatusBadRequest)
		return
	}

	var notifier gillespie.Notifier
	switch req.Type {
	case "webhook":
		url, ok := req.Config["url"].(string)
		if !ok || url == "" {
			http.Error(w, "webhook URL is required", http.StatusBadRequest)
			return
		}
		wh := notifiers.NewWebhookNotifier(req.ID, url)

		if headers, ok := req.Config["headers"].(map[string]any); ok {
			for k, v := range headers {
				if vStr, ok := v.(string); ok {
					wh.SetHeader(k, vStr)
				}
			}
		}
		notifier = wh
	default:
		http.Error(w, "unknown notifier type: "+req.Type, http.StatusBadRequest)
		return
	}

	if err := s.notifierMgr.RegisterNotifier(notifier); err != nil {
		http.Error(w, "cannot register notifier: "+err.Error(), http.StatusBadRequest)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("notifier registered"))
}

// DELETE /notifiers/{id}
func (s *Server) handleUnregisterNotifier(w http.ResponseWriter, r *http.Request) {
	notifierID := strings.TrimPrefix(r.URL.Path, "/notifiers/")
	if notifierID == "" {
		http.Error(w, "notifier ID is required", http.StatusBadRequest)
		return
	}
	if notifierID == wsNotifierID {
		http.Error(w, "cannot unregister the built-in websocket stream", http.StatusBadRequest)
		return
	}

	if err := s.notifierMgr.UnregisterNotifier(notifierID); err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("notifier unregistered"))
}

// GET /ws
// Upgrades the connection and streams run events until the client
// disconnects.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	upgrader := s.wsNotifier.Upgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	s.wsNotifier.RegisterClient(conn)
	s.logger.Debug("websocket client connected", "remote", conn.RemoteAddr())

	// Drain reads so close frames are processed; unregister on error.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				s.wsNotifier.UnregisterClient(conn)
				return
			}
		}
	}()
}
