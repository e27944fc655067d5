package notifiers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stosim/stosim/internal/gillespie"
)

func TestWebhookNotifier_Notify(t *testing.T) {
	var gotBody []byte
	var gotHeaders http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBody, _ = io.ReadAll(r.Body)
		gotHeaders = r.Header.Clone()
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	wn := NewWebhookNotifier("hook-1", srv.URL)
	wn.SetHeader("Authorization", "Bearer token")

	event := gillespie.RunEvent{
		ModelID:    "decay",
		ModelName:  "irreversible-decay",
		Seed:       3,
		Status:     gillespie.StatusMaxIter,
		FinalTime:  0.5,
		FinalState: []int{90, 10},
		Steps:      10,
	}
	require.NoError(t, wn.Notify(context.Background(), event))

	assert.Equal(t, "application/json", gotHeaders.Get("Content-Type"))
	assert.Equal(t, "Bearer token", gotHeaders.Get("Authorization"))

	var decoded gillespie.RunEvent
	require.NoError(t, json.Unmarshal(gotBody, &decoded))
	assert.Equal(t, event, decoded)
}

func TestWebhookNotifier_ServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	wn := NewWebhookNotifier("hook-1", srv.URL)
	err := wn.Notify(context.Background(), gillespie.RunEvent{ModelID: "m"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestWebhookNotifier_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	wn := NewWebhookNotifier("hook-1", srv.URL)
	assert.Error(t, wn.Notify(context.Background(), gillespie.RunEvent{ModelID: "m"}))
}

func TestWebhookNotifier_Identity(t *testing.T) {
	wn := NewWebhookNotifier("hook-1", "http://example.invalid")
	assert.Equal(t, "hook-1", wn.ID())
	assert.Equal(t, "webhook", wn.Type())
	assert.NoError(t, wn.Close())
}
