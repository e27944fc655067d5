package gillespie

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"
)

// RunEvent describes one completed trajectory, emitted to registered
// notifiers after a run finishes.
type RunEvent struct {
	ModelID    ModelID `json:"model_id"`
	ModelName  string  `json:"model_name"`
	Seed       int64   `json:"seed"`
	Status     Status  `json:"status"`
	FinalTime  float64 `json:"final_time"`
	FinalState []int   `json:"final_state"`
	Steps      int     `json:"steps"`
	Timestamp  int64   `json:"timestamp"`
}

// NewRunEvent builds the event for one finished run.
func NewRunEvent(id ModelID, cfg ModelConfig, res Result) RunEvent {
	return RunEvent{
		ModelID:    id,
		ModelName:  cfg.Name,
		Seed:       res.Seed,
		Status:     res.Status,
		FinalTime:  res.Time,
		FinalState: res.State,
		Steps:      res.Steps,
		Timestamp:  time.Now().Unix(),
	}
}

// JSON returns the event as JSON bytes.
func (e RunEvent) JSON() ([]byte, error) {
	return json.Marshal(e)
}

// Notifier is the interface every notification channel implements.
type Notifier interface {
	// ID returns a unique identifier for this notifier.
	ID() string

	// Type returns the kind of notifier ("webhook", "websocket", ...).
	Type() string

	// Notify delivers one event. The context carries cancellation and
	// timeout.
	Notify(ctx context.Context, event RunEvent) error

	// Close releases any resources held by the notifier.
	Close() error
}

type notificationJob struct {
	Event       RunEvent
	NotifierIDs []string
}

// NotificationManager owns the registered notifiers and fans events out
// to them asynchronously through a worker queue with retry.
type NotificationManager struct {
	mu        sync.RWMutex
	notifiers map[string]Notifier
	jobs      chan notificationJob
	closed    bool
	wg        sync.WaitGroup
	logger    Logger
}

// NewNotificationManager creates a manager with a no-op logger.
func NewNotificationManager() *NotificationManager {
	return NewNotificationManagerWithLogger(NewNoOpLogger())
}

// NewNotificationManagerWithLogger creates a manager using the given logger.
func NewNotificationManagerWithLogger(logger Logger) *NotificationManager {
	mgr := &NotificationManager{
		notifiers: make(map[string]Notifier),
		jobs:      make(chan notificationJob, 1024),
		logger:    logger,
	}
	mgr.startWorkers(1)
	return mgr
}

// RegisterNotifier registers a notifier with the manager.
func (nm *NotificationManager) RegisterNotifier(notifier Notifier) error {
	if notifier == nil {
		return fmt.Errorf("notifier cannot be nil")
	}
	id := notifier.ID()
	if id == "" {
		return fmt.Errorf("notifier ID cannot be empty")
	}

	nm.mu.Lock()
	defer nm.mu.Unlock()
	if _, exists := nm.notifiers[id]; exists {
		return fmt.Errorf("notifier with ID %s already exists", id)
	}
	nm.notifiers[id] = notifier
	return nil
}

// UnregisterNotifier closes and removes a notifier.
func (nm *NotificationManager) UnregisterNotifier(id string) error {
	nm.mu.Lock()
	notifier, exists := nm.notifiers[id]
	nm.mu.Unlock()
	if !exists {
		return fmt.Errorf("notifier with ID %s not found", id)
	}

	if err := notifier.Close(); err != nil {
		return fmt.Errorf("error closing notifier %s: %w", id, err)
	}

	nm.mu.Lock()
	delete(nm.notifiers, id)
	nm.mu.Unlock()
	return nil
}

// GetNotifier retrieves a notifier by ID.
func (nm *NotificationManager) GetNotifier(id string) (Notifier, bool) {
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	notifier, exists := nm.notifiers[id]
	return notifier, exists
}

// ListNotifiers returns every registered notifier ID.
func (nm *NotificationManager) ListNotifiers() []string {
	nm.mu.RLock()
	defer nm.mu.RUnlock()
	ids := make([]string, 0, len(nm.notifiers))
	for id := range nm.notifiers {
		ids = append(ids, id)
	}
	return ids
}

// Enqueue hands an event to the worker queue. Non-blocking: if the queue
// is full the event is dropped and logged.
func (nm *NotificationManager) Enqueue(event RunEvent, notifierIDs []string) {
	if len(notifierIDs) == 0 {
		return
	}

	nm.mu.RLock()
	closed := nm.closed
	nm.mu.RUnlock()
	if closed {
		return
	}

	select {
	case nm.jobs <- notificationJob{Event: event, NotifierIDs: notifierIDs}:
	default:
		nm.logger.Warnf("notification queue full, dropping event: model_id=%s seed=%d", event.ModelID, event.Seed)
	}
}

func (nm *NotificationManager) startWorkers(n int) {
	for i := 0; i < n; i++ {
		nm.wg.Add(1)
		go nm.worker()
	}
}

func (nm *NotificationManager) worker() {
	defer nm.wg.Done()
	for job := range nm.jobs {
		nm.dispatchJob(job)
	}
}

func (nm *NotificationManager) dispatchJob(job notificationJob) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, id := range job.NotifierIDs {
		nm.notifyWithRetry(ctx, id, job.Event)
	}
}

// notifyWithRetry attempts delivery with exponential backoff.
func (nm *NotificationManager) notifyWithRetry(ctx context.Context, notifierID string, event RunEvent) {
	nm.mu.RLock()
	notifier, ok := nm.notifiers[notifierID]
	nm.mu.RUnlock()
	if !ok {
		nm.logger.Warnf("notification failed: notifier=%s error=notifier not found", notifierID)
		return
	}

	const maxRetries = 3
	backoff := 100 * time.Millisecond

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := notifier.Notify(ctx, event)
		if err == nil {
			return
		}

		nm.logger.Warnf("notification failed: notifier=%s attempt=%d error=%v", notifierID, attempt+1, err)
		if attempt == maxRetries {
			nm.logger.Errorf("notification failed after %d attempts: notifier=%s", maxRetries+1, notifierID)
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(backoff):
			backoff *= 2
		}
	}
}

// Notify delivers an event to the given notifiers synchronously. Kept for
// callers that need delivery confirmation; Enqueue is the normal path.
func (nm *NotificationManager) Notify(ctx context.Context, event RunEvent, notifierIDs []string) error {
	if len(notifierIDs) == 0 {
		return nil
	}

	var errs []error
	for _, id := range notifierIDs {
		nm.mu.RLock()
		notifier, exists := nm.notifiers[id]
		nm.mu.RUnlock()

		if !exists {
			errs = append(errs, fmt.Errorf("notifier %s not found", id))
			continue
		}
		if err := notifier.Notify(ctx, event); err != nil {
			errs = append(errs, fmt.Errorf("notifier %s failed: %w", id, err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("notification errors: %v", errs)
	}
	return nil
}

// Close shuts down the workers and closes every registered notifier.
func (nm *NotificationManager) Close() error {
	nm.mu.Lock()
	if nm.closed {
		nm.mu.Unlock()
		return nil
	}
	nm.closed = true
	close(nm.jobs)
	nm.mu.Unlock()

	nm.wg.Wait()

	nm.mu.Lock()
	var errs []error
	for id, notifier := range nm.notifiers {
		if err := notifier.Close(); err != nil {
			errs = append(errs, fmt.Errorf("error closing notifier %s: %w", id, err))
		}
	}
	nm.notifiers = make(map[string]Notifier)
	nm.mu.Unlock()

	if len(errs) > 0 {
		return fmt.Errorf("errors closing notifiers: %v", errs)
	}
	return nil
}
