package gillespie

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockNotifier records delivered events and can fail a configurable
// number of attempts.
type mockNotifier struct {
	mu       sync.Mutex
	id       string
	events   []RunEvent
	failLeft int
	closed   bool
}

func (m *mockNotifier) ID() string   { return m.id }
func (m *mockNotifier) Type() string { return "mock" }

func (m *mockNotifier) Notify(ctx context.Context, event RunEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failLeft > 0 {
		m.failLeft--
		return errors.New("simulated delivery failure")
	}
	m.events = append(m.events, event)
	return nil
}

func (m *mockNotifier) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockNotifier) delivered() []RunEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]RunEvent(nil), m.events...)
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestNotificationManager_RegisterDuplicate(t *testing.T) {
	nm := NewNotificationManager()
	defer nm.Close()

	require.NoError(t, nm.RegisterNotifier(&mockNotifier{id: "a"}))
	err := nm.RegisterNotifier(&mockNotifier{id: "a"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")

	assert.Error(t, nm.RegisterNotifier(nil))
	assert.Error(t, nm.RegisterNotifier(&mockNotifier{id: ""}))
}

func TestNotificationManager_EnqueueDelivers(t *testing.T) {
	nm := NewNotificationManager()
	defer nm.Close()

	mock := &mockNotifier{id: "a"}
	require.NoError(t, nm.RegisterNotifier(mock))

	event := RunEvent{ModelID: "decay", ModelName: "decay", Seed: 3, Status: StatusMaxIter}
	nm.Enqueue(event, []string{"a"})

	waitFor(t, func() bool { return len(mock.delivered()) == 1 })
	got := mock.delivered()[0]
	assert.Equal(t, ModelID("decay"), got.ModelID)
	assert.Equal(t, int64(3), got.Seed)
}

func TestNotificationManager_RetriesThenDelivers(t *testing.T) {
	nm := NewNotificationManager()
	defer nm.Close()

	mock := &mockNotifier{id: "flaky", failLeft: 2}
	require.NoError(t, nm.RegisterNotifier(mock))

	nm.Enqueue(RunEvent{ModelID: "m"}, []string{"flaky"})
	waitFor(t, func() bool { return len(mock.delivered()) == 1 })
}

func TestNotificationManager_SyncNotify(t *testing.T) {
	nm := NewNotificationManager()
	defer nm.Close()

	mock := &mockNotifier{id: "a"}
	require.NoError(t, nm.RegisterNotifier(mock))

	err := nm.Notify(context.Background(), RunEvent{ModelID: "m"}, []string{"a"})
	require.NoError(t, err)
	assert.Len(t, mock.delivered(), 1)

	err = nm.Notify(context.Background(), RunEvent{ModelID: "m"}, []string{"missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestNotificationManager_UnregisterClosesNotifier(t *testing.T) {
	nm := NewNotificationManager()
	defer nm.Close()

	mock := &mockNotifier{id: "a"}
	require.NoError(t, nm.RegisterNotifier(mock))
	require.NoError(t, nm.UnregisterNotifier("a"))
	assert.True(t, mock.closed)
	assert.Empty(t, nm.ListNotifiers())

	assert.Error(t, nm.UnregisterNotifier("a"))
}

func TestNotificationManager_CloseIsIdempotent(t *testing.T) {
	nm := NewNotificationManager()
	mock := &mockNotifier{id: "a"}
	require.NoError(t, nm.RegisterNotifier(mock))

	require.NoError(t, nm.Close())
	assert.True(t, mock.closed)
	require.NoError(t, nm.Close())

	// enqueue after close is a silent no-op
	nm.Enqueue(RunEvent{ModelID: "m"}, []string{"a"})
}

func TestRunManager_RunEmitsEvents(t *testing.T) {
	nm := NewNotificationManager()
	defer nm.Close()
	mock := &mockNotifier{id: "a"}
	require.NoError(t, nm.RegisterNotifier(mock))

	rm := NewRunManager()
	rm.SetNotificationManager(nm)
	require.NoError(t, rm.RegisterModel("decay", validConfig()))

	_, err := rm.Run("decay", Options{MaxT: 1e9, MaxIter: 10}, 3, nil)
	require.NoError(t, err)

	waitFor(t, func() bool { return len(mock.delivered()) == 3 })
	for _, ev := range mock.delivered() {
		assert.Equal(t, ModelID("decay"), ev.ModelID)
		assert.Equal(t, "decay", ev.ModelName)
		assert.True(t, ev.Status.Terminal())
	}
}
