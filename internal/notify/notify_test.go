package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendPostsEvent(t *testing.T) {
	var got Event
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := New(srv.URL, "tok")
	n.Send(context.Background(), Event{
		Plugin:     "p.zip",
		Method:     "ftp",
		Status:     "UPLOADED",
		DurationMS: 42,
	})

	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, "p.zip", got.Plugin)
	assert.Equal(t, "ftp", got.Method)
	assert.Equal(t, int64(42), got.DurationMS)
}

func TestSendWithoutToken(t *testing.T) {
	var auth string
	seen := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		seen = true
	}))
	defer srv.Close()

	New(srv.URL, "").Send(context.Background(), Event{Plugin: "p.zip"})

	assert.True(t, seen)
	assert.Empty(t, auth)
}

func TestDisabledNotifier(t *testing.T) {
	assert.Nil(t, New("", "tok"))

	// A nil notifier must be safe to call.
	var n *Notifier
	n.Send(context.Background(), Event{Plugin: "p.zip"})
}

func TestSendSwallowsServerErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	// Must not panic or propagate anything.
	New(srv.URL, "tok").Send(context.Background(), Event{Plugin: "p.zip"})
}
