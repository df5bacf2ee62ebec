package notify

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"storefront/internal/metrics"
)

// ErrQueueFull is returned when an event had to be dropped. Callers treat it
// as a warning; it never fails the operation that produced the event.
var ErrQueueFull = errors.New("notification queue full")

// Dispatcher decouples notification delivery from the request path. Events
// go through a buffered queue served by a single worker; each event gets a
// bounded number of delivery attempts with a fixed delay between them.
type Dispatcher struct {
	sender      Sender
	queue       chan Event
	retries     int
	retryDelay  time.Duration
	sendTimeout time.Duration

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

type DispatcherOptions struct {
	QueueSize   int
	Retries     int
	RetryDelay  time.Duration
	SendTimeout time.Duration
}

func NewDispatcher(sender Sender, opts DispatcherOptions) *Dispatcher {
	if opts.QueueSize <= 0 {
		opts.QueueSize = 256
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = 5 * time.Second
	}
	return &Dispatcher{
		sender:      sender,
		queue:       make(chan Event, opts.QueueSize),
		retries:     opts.Retries,
		retryDelay:  opts.RetryDelay,
		sendTimeout: opts.SendTimeout,
	}
}

// Start launches the delivery worker.
func (d *Dispatcher) Start() {
	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		for event := range d.queue {
			d.deliver(event)
		}
	}()
}

// Stop closes the queue and waits for in-flight deliveries to drain.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	close(d.queue)
	d.mu.Unlock()
	d.wg.Wait()
}

// Enqueue queues an event without blocking. A full queue drops the event and
// returns ErrQueueFull; a stopped dispatcher does the same.
func (d *Dispatcher) Enqueue(kind Kind, recipient string, payload map[string]interface{}) error {
	event := Event{
		ID:        uuid.New().String(),
		Kind:      kind,
		Recipient: recipient,
		Payload:   payload,
		CreatedAt: time.Now(),
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		metrics.NotificationsDropped.Inc()
		return ErrQueueFull
	}
	select {
	case d.queue <- event:
		return nil
	default:
		metrics.NotificationsDropped.Inc()
		log.WithFields(log.Fields{"kind": kind, "event_id": event.ID}).Warn("notification queue full, event dropped")
		return ErrQueueFull
	}
}

func (d *Dispatcher) deliver(event Event) {
	var lastErr error
	for attempt := 0; attempt <= d.retries; attempt++ {
		if attempt > 0 && d.retryDelay > 0 {
			time.Sleep(d.retryDelay)
		}
		ctx, cancel := context.WithTimeout(context.Background(), d.sendTimeout)
		lastErr = d.sender.Send(ctx, event)
		cancel()
		if lastErr == nil {
			metrics.NotificationsTotal.WithLabelValues(string(event.Kind), "sent").Inc()
			return
		}
		log.WithFields(log.Fields{
			"kind":     event.Kind,
			"event_id": event.ID,
			"attempt":  attempt + 1,
		}).Warn("notification send failed: ", lastErr)
	}
	metrics.NotificationsTotal.WithLabelValues(string(event.Kind), "failed").Inc()
	log.WithFields(log.Fields{"kind": event.Kind, "event_id": event.ID}).Error("notification abandoned: ", lastErr)
}
