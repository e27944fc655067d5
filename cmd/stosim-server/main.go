package main

import (
	"net/http"
	"os"

	"github.com/stosim/stosim/internal/gillespie"
)

func main() {
	cfg := loadServerConfig()
	logger := newLogger(cfg.LogLevel)

	srv := NewServer(logger)
	defer srv.Close()

	if cfg.SnapshotDir != "" {
		srv.SetSnapshotDir(cfg.SnapshotDir)
	}

	// Optionally register a model at startup.
	if cfg.ModelFile != "" {
		modelCfg, err := gillespie.LoadModelConfig(cfg.ModelFile)
		if err != nil {
			logger.Error("failed to load startup model", "path", cfg.ModelFile, "error", err)
			os.Exit(1)
		}
		if err := srv.manager.RegisterModel(gillespie.ModelID(cfg.ModelID), modelCfg); err != nil {
			logger.Error("failed to register startup model", "model_id", cfg.ModelID, "error", err)
			os.Exit(1)
		}
		logger.Info("startup model registered", "model_id", cfg.ModelID, "name", modelCfg.Name)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", srv.handleHealth)
	mux.HandleFunc("/models", srv.handleListModels)
	mux.HandleFunc("/model/", srv.handleModelRoutes)
	mux.HandleFunc("/notifiers", srv.handleNotifiersRoutes)
	mux.HandleFunc("/notifiers/", srv.handleNotifiersRoutes)
	mux.HandleFunc("/ws", srv.handleWebSocket)

	logger.Info("stosim-server listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, mux); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}
