package main

import (
	"log/slog"

	"github.com/stosim/stosim/internal/gillespie"
	"github.com/stosim/stosim/internal/gillespie/notifiers"
)

// wsNotifierID is the fixed ID of the built-in websocket stream exposed
// at /ws. Webhook notifiers are registered dynamically via /notifiers.
const wsNotifierID = "ws-stream"

// Server is the HTTP facade over the run manager and notification
// subsystem.
type Server struct {
	manager     *gillespie.RunManager
	notifierMgr *gillespie.NotificationManager
	wsNotifier  *notifiers.WebSocketNotifier
	snapshotDir string
	logger      *slog.Logger
}

// NewServer wires the run manager, the notification manager, and the
// built-in websocket notifier together.
func NewServer(logger *slog.Logger) *Server {
	engineLogger := &slogAdapter{logger: logger}

	notifierMgr := gillespie.NewNotificationManagerWithLogger(engineLogger)
	wsNotifier := notifiers.NewWebSocketNotifier(wsNotifierID)
	if err := notifierMgr.RegisterNotifier(wsNotifier); err != nil {
		logger.Error("failed to register websocket notifier", "error", err)
	}

	manager := gillespie.NewRunManagerWithLogger(engineLogger)
	manager.SetNotificationManager(notifierMgr)

	return &Server{
		manager:     manager,
		notifierMgr: notifierMgr,
		wsNotifier:  wsNotifier,
		logger:      logger,
	}
}

// SetSnapshotDir sets the directory used by the snapshot endpoints.
func (s *Server) SetSnapshotDir(dir string) {
	s.snapshotDir = dir
}

// Close shuts down the notification subsystem.
func (s *Server) Close() error {
	return s.notifierMgr.Close()
}
