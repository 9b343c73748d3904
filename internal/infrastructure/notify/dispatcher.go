// Package notify runs the outbound half of the notification pipeline: it drains
// internal/domain/notification.DeliveryTask values onto a bounded in-process worker pool,
// POSTs each one's XML body to its subscriber, and retries failed deliveries up to a
// configured attempt limit by re-queueing a copy of the task with its attempt count
// incremented; the count is held in memory only.
package notify

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"time"

	"sep2utility/internal/domain/notification"
	"sep2utility/internal/shared/goroutine"
	"sep2utility/internal/shared/logger"
)

// Dispatcher owns a fixed pool of delivery workers draining a shared task queue.
type Dispatcher struct {
	tasks      chan notification.DeliveryTask
	client     *http.Client
	log        logger.Interface
	maxAttempt int
}

// NewDispatcher starts workerCount goroutines (via goroutine.SafeGo, so a panic in one
// delivery never takes down the others) pulling from an internally buffered queue. Call
// Enqueue to submit tasks and Stop to drain and shut the pool down.
func NewDispatcher(ctx context.Context, workerCount, queueDepth, maxAttempt int, log logger.Interface) *Dispatcher {
	d := &Dispatcher{
		tasks:      make(chan notification.DeliveryTask, queueDepth),
		client:     &http.Client{Timeout: 10 * time.Second},
		log:        log,
		maxAttempt: maxAttempt,
	}
	for i := 0; i < workerCount; i++ {
		workerID := i
		goroutine.SafeGo(log, fmt.Sprintf("notify-dispatcher-%d", workerID), func() {
			d.drain(ctx, workerID)
		})
	}
	return d
}

// Enqueue submits tasks for delivery, blocking if the queue is full.
func (d *Dispatcher) Enqueue(tasks []notification.DeliveryTask) {
	for _, t := range tasks {
		d.tasks <- t
	}
}

// Stop closes the queue; in-flight and already-queued deliveries still drain before workers
// exit.
func (d *Dispatcher) Stop() {
	close(d.tasks)
}

func (d *Dispatcher) drain(ctx context.Context, workerID int) {
	for task := range d.tasks {
		d.deliver(ctx, task)
	}
	d.log.Infow("notify dispatcher worker exiting", "worker", workerID)
}

func (d *Dispatcher) deliver(ctx context.Context, task notification.DeliveryTask) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, task.RemoteURI, bytes.NewReader(task.XMLBytes))
	if err != nil {
		d.log.Errorw("failed to build notification request", "subscription_id", task.SubscriptionID, "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/sep+xml")

	resp, err := d.client.Do(req)
	if err != nil {
		d.retry(ctx, task, err)
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		d.retry(ctx, task, fmt.Errorf("subscriber returned status %d", resp.StatusCode))
		return
	}

	d.log.Debugw("notification delivered", "subscription_id", task.SubscriptionID, "notification_id", task.NotificationID)
}

func (d *Dispatcher) retry(ctx context.Context, task notification.DeliveryTask, deliveryErr error) {
	if task.Attempt+1 >= d.maxAttempt {
		d.log.Warnw("notification delivery abandoned after max attempts",
			"subscription_id", task.SubscriptionID, "attempt", task.Attempt+1, "error", deliveryErr)
		return
	}

	next := task
	next.Attempt++
	d.log.Warnw("notification delivery failed, retrying",
		"subscription_id", task.SubscriptionID, "attempt", next.Attempt, "error", deliveryErr)

	goroutine.SafeGo(d.log, "notify-retry-backoff", func() {
		select {
		case <-time.After(backoff(next.Attempt)):
			d.tasks <- next
		case <-ctx.Done():
		}
	})
}

// backoff doubles from 1s per attempt, capped at 30s.
func backoff(attempt int) time.Duration {
	d := time.Duration(1<<uint(attempt)) * time.Second
	if d > 30*time.Second {
		return 30 * time.Second
	}
	return d
}
