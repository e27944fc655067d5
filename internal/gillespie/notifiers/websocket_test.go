package notifiers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stosim/stosim/internal/gillespie"
)

func TestWebSocketNotifier_Identity(t *testing.T) {
	wsn := NewWebSocketNotifier("ws-1")
	defer wsn.Close()
	assert.Equal(t, "ws-1", wsn.ID())
	assert.Equal(t, "websocket", wsn.Type())
}

func TestWebSocketNotifier_NotifyWithoutClients(t *testing.T) {
	wsn := NewWebSocketNotifier("ws-1")
	defer wsn.Close()
	assert.NoError(t, wsn.Notify(context.Background(), gillespie.RunEvent{ModelID: "m"}))
}

func TestWebSocketNotifier_Broadcast(t *testing.T) {
	wsn := NewWebSocketNotifier("ws-1")
	defer wsn.Close()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := wsn.Upgrader()
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		wsn.RegisterClient(conn)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	// registration happens on the server side after the handshake
	time.Sleep(100 * time.Millisecond)

	event := gillespie.RunEvent{
		ModelID:    "decay",
		Seed:       1,
		Status:     gillespie.StatusExtinction,
		FinalState: []int{0, 100},
	}
	require.NoError(t, wsn.Notify(context.Background(), event))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	msgType, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, websocket.TextMessage, msgType)

	var got gillespie.RunEvent
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, event, got)
}

func TestWebSocketNotifier_UnregisterStopsDelivery(t *testing.T) {
	wsn := NewWebSocketNotifier("ws-1")
	defer wsn.Close()

	var serverConn *websocket.Conn
	connected := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upgrader := wsn.Upgrader()
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		serverConn = conn
		wsn.RegisterClient(conn)
		close(connected)
	}))
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	<-connected
	time.Sleep(50 * time.Millisecond)
	wsn.UnregisterClient(serverConn)
	time.Sleep(50 * time.Millisecond)

	require.NoError(t, wsn.Notify(context.Background(), gillespie.RunEvent{ModelID: "m"}))

	conn.SetReadDeadline(time.Now().Add(300 * time.Millisecond))
	_, _, err = conn.ReadMessage()
	assert.Error(t, err)
}
