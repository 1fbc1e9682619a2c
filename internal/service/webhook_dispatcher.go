package service

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/trackboard/trackboard/internal/database"
	"github.com/trackboard/trackboard/internal/models"
)

type WebhookJob struct {
	Event      string
	EntityType string
	EntityID   uint
	// WebhookID is zero for the initial fan-out; retries target the one
	// hook that failed so succeeded hooks are never redelivered.
	WebhookID uint
	Retry     int
}

type webhookPayload struct {
	Event      string    `json:"event"`
	EntityType string    `json:"entity_type"`
	EntityID   uint      `json:"entity_id"`
	Timestamp  time.Time `json:"timestamp"`
}

// WebhookDispatcher fans database change events out to subscribed webhook
// endpoints on a pool of worker goroutines. Delivery is at-most-once per
// attempt with up to three retries.
type WebhookDispatcher struct {
	db       *database.Database
	client   *http.Client
	jobQueue chan WebhookJob
	workers  int
	wg       sync.WaitGroup
	running  bool
	mu       sync.Mutex
}

func NewWebhookDispatcher(db *database.Database, workers int) *WebhookDispatcher {
	return &WebhookDispatcher{
		db:       db,
		client:   &http.Client{Timeout: 10 * time.Second},
		jobQueue: make(chan WebhookJob, 1000),
		workers:  workers,
	}
}

func (d *WebhookDispatcher) Start() {
	d.mu.Lock()
	if d.running {
		d.mu.Unlock()
		return
	}
	d.running = true
	d.mu.Unlock()

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go d.worker()
	}

	log.Printf("Webhook dispatcher started with %d workers", d.workers)
}

func (d *WebhookDispatcher) Stop() {
	d.mu.Lock()
	if !d.running {
		d.mu.Unlock()
		return
	}
	d.running = false
	d.mu.Unlock()

	close(d.jobQueue)
	d.wg.Wait()
	log.Println("Webhook dispatcher stopped")
}

// QueueEvent is the database event callback. It never blocks the caller:
// when the queue is full the event is dropped with a log line.
func (d *WebhookDispatcher) QueueEvent(event, entityType string, entityID uint) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return
	}

	select {
	case d.jobQueue <- WebhookJob{Event: event, EntityType: entityType, EntityID: entityID}:
	default:
		log.Printf("Webhook queue full, dropping %s for %s:%d", event, entityType, entityID)
	}
}

func (d *WebhookDispatcher) worker() {
	defer d.wg.Done()

	for job := range d.jobQueue {
		d.processJob(job)
	}
}

func (d *WebhookDispatcher) processJob(job WebhookJob) {
	var webhooks []models.Webhook
	if job.WebhookID != 0 {
		hook, err := d.db.GetWebhook(job.WebhookID)
		if err != nil || !hook.IsActive {
			return
		}
		webhooks = []models.Webhook{*hook}
	} else {
		var err error
		webhooks, err = d.db.ListActiveWebhooks(job.Event)
		if err != nil {
			log.Printf("Failed to load webhooks for %s: %v", job.Event, err)
			return
		}
	}

	body, err := json.Marshal(webhookPayload{
		Event:      job.Event,
		EntityType: job.EntityType,
		EntityID:   job.EntityID,
		Timestamp:  time.Now().UTC(),
	})
	if err != nil {
		log.Printf("Failed to encode webhook payload for %s: %v", job.Event, err)
		return
	}

	for _, hook := range webhooks {
		if err := d.deliver(hook.URL, hook.Secret, body); err != nil {
			log.Printf("Webhook delivery to %s failed: %v", hook.URL, err)
			if job.Retry < 3 {
				retry := job
				retry.WebhookID = hook.ID
				retry.Retry++
				d.retryLater(retry)
			}
		}
	}
}

// retryLater schedules the requeue off the worker goroutine so a backing-off
// hook never stalls the queue. A timer that fires after Stop is a no-op.
func (d *WebhookDispatcher) retryLater(job WebhookJob) {
	time.AfterFunc(time.Second*time.Duration(job.Retry), func() {
		d.requeue(job)
	})
}

func (d *WebhookDispatcher) deliver(url, secret string, body []byte) error {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if secret != "" {
		req.Header.Set("X-Webhook-Signature", Sign(secret, body))
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return &DeliveryError{StatusCode: resp.StatusCode}
	}
	return nil
}

func (d *WebhookDispatcher) requeue(job WebhookJob) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.running {
		return
	}
	select {
	case d.jobQueue <- job:
	default:
	}
}

// Sign computes the hex HMAC-SHA256 of body under the webhook secret.
// Receivers recompute it to verify the payload came from us.
func Sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

type DeliveryError struct {
	StatusCode int
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}
