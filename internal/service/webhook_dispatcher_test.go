package service

import (
	"crypto/hmac"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trackboard/trackboard/internal/database"
	"github.com/trackboard/trackboard/internal/models"
)

func TestSignIsDeterministic(t *testing.T) {
	body := []byte(`{"event":"task.created"}`)
	a := Sign("secret", body)
	b := Sign("secret", body)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, Sign("other", body))
}

func TestDispatcherDeliversSignedPayload(t *testing.T) {
	db, err := database.NewDatabase(t.TempDir())
	require.NoError(t, err)

	type received struct {
		signature string
		body      []byte
	}
	got := make(chan received, 1)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		got <- received{signature: r.Header.Get("X-Webhook-Signature"), body: body}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	require.NoError(t, db.CreateWebhook(&models.Webhook{
		URL:      srv.URL,
		Events:   "task.created",
		Secret:   "test-secret",
		IsActive: true,
	}))

	dispatcher := NewWebhookDispatcher(db, 1)
	dispatcher.Start()
	defer dispatcher.Stop()

	db.SetEventCallback(dispatcher.QueueEvent)
	dispatcher.QueueEvent("task.created", "task", 7)

	select {
	case r := <-got:
		assert.True(t, hmac.Equal([]byte(Sign("test-secret", r.body)), []byte(r.signature)))

		var payload webhookPayload
		require.NoError(t, json.Unmarshal(r.body, &payload))
		assert.Equal(t, "task.created", payload.Event)
		assert.Equal(t, "task", payload.EntityType)
		assert.Equal(t, uint(7), payload.EntityID)
	case <-time.After(5 * time.Second):
		t.Fatal("webhook was not delivered")
	}
}

func TestDispatcherRetriesOnlyTheFailedHook(t *testing.T) {
	db, err := database.NewDatabase(t.TempDir())
	require.NoError(t, err)

	okHits := make(chan struct{}, 8)
	okSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		okHits <- struct{}{}
		w.WriteHeader(http.StatusOK)
	}))
	defer okSrv.Close()

	failHits := make(chan struct{}, 8)
	failSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		failHits <- struct{}{}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer failSrv.Close()

	require.NoError(t, db.CreateWebhook(&models.Webhook{URL: okSrv.URL, Events: "task.created", IsActive: true}))
	require.NoError(t, db.CreateWebhook(&models.Webhook{URL: failSrv.URL, Events: "task.created", IsActive: true}))

	dispatcher := NewWebhookDispatcher(db, 1)
	dispatcher.Start()
	defer dispatcher.Stop()

	dispatcher.QueueEvent("task.created", "task", 1)

	// Wait for the initial fan-out plus at least one retry of the failing
	// hook (its first back-off is one second).
	for i := 0; i < 2; i++ {
		select {
		case <-failHits:
		case <-time.After(5 * time.Second):
			t.Fatal("failing hook was not retried")
		}
	}

	select {
	case <-okHits:
	case <-time.After(time.Second):
		t.Fatal("succeeding hook was never delivered")
	}
	select {
	case <-okHits:
		t.Fatal("succeeding hook was redelivered by another hook's retry")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestDispatcherSkipsUnsubscribedEvents(t *testing.T) {
	db, err := database.NewDatabase(t.TempDir())
	require.NoError(t, err)

	hits := make(chan struct{}, 4)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits <- struct{}{}
	}))
	defer srv.Close()

	require.NoError(t, db.CreateWebhook(&models.Webhook{
		URL:      srv.URL,
		Events:   "project.deleted",
		IsActive: true,
	}))

	dispatcher := NewWebhookDispatcher(db, 1)
	dispatcher.Start()

	dispatcher.QueueEvent("task.created", "task", 1)
	dispatcher.Stop() // drains the queue before returning

	select {
	case <-hits:
		t.Fatal("webhook fired for an event it never subscribed to")
	default:
	}
}
