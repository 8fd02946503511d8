// Package worker relays outbox entries to a message broker.
//
// Delivery is at-least-once: entries are marked processed only after the
// producer acknowledges them, so a crash between the two republishes.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"wardaudit/internal/platform/kafka/producer"
	audit "wardaudit/pkg/platform/audit"
)

//go:generate mockgen -source=worker.go -destination=mocks/mocks.go -package=mocks

// Outbox is the relay's view of an outbox store.
type Outbox interface {
	Pending(ctx context.Context, limit int) ([]audit.OutboxEntry, error)
	MarkProcessed(ctx context.Context, ids []uuid.UUID, at time.Time) error
}

// Producer publishes relayed entries.
type Producer interface {
	Publish(ctx context.Context, msgs ...producer.Message) error
}

// Metrics counts relay activity.
type Metrics struct {
	Relayed  prometheus.Counter
	Failures prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Relayed: f.NewCounter(prometheus.CounterOpts{
			Name: "wardaudit_outbox_relayed_total",
			Help: "Outbox entries published to the broker",
		}),
		Failures: f.NewCounter(prometheus.CounterOpts{
			Name: "wardaudit_outbox_relay_failures_total",
			Help: "Relay batches that failed to publish or mark processed",
		}),
	}
}

// Worker drains the outbox on an interval.
type Worker struct {
	outbox    Outbox
	producer  Producer
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
	metrics   *Metrics
	now       func() time.Time
}

type Option func(*Worker)

func WithLogger(logger *slog.Logger) Option {
	return func(w *Worker) {
		w.logger = logger
	}
}

func WithMetrics(m *Metrics) Option {
	return func(w *Worker) {
		w.metrics = m
	}
}

func WithInterval(d time.Duration) Option {
	return func(w *Worker) {
		if d > 0 {
			w.interval = d
		}
	}
}

func WithBatchSize(n int) Option {
	return func(w *Worker) {
		if n > 0 {
			w.batchSize = n
		}
	}
}

func NewWorker(outbox Outbox, p Producer, opts ...Option) *Worker {
	w := &Worker{
		outbox:    outbox,
		producer:  p,
		interval:  2 * time.Second,
		batchSize: 100,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run relays until ctx is cancelled. Batch failures are logged and retried on
// the next tick.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			for {
				n, err := w.RelayOnce(ctx)
				if err != nil {
					if ctx.Err() == nil {
						w.logger.ErrorContext(ctx, "outbox relay failed", "error", err)
					}
					break
				}
				if n < w.batchSize {
					break
				}
			}
		}
	}
}

// RelayOnce publishes one batch and returns how many entries it relayed.
func (w *Worker) RelayOnce(ctx context.Context) (int, error) {
	entries, err := w.outbox.Pending(ctx, w.batchSize)
	if err != nil {
		w.fail()
		return 0, fmt.Errorf("load pending outbox entries: %w", err)
	}
	if len(entries) == 0 {
		return 0, nil
	}

	msgs := make([]producer.Message, 0, len(entries))
	ids := make([]uuid.UUID, 0, len(entries))
	for _, e := range entries {
		msgs = append(msgs, producer.Message{
			Key:   e.AggregateID,
			Value: e.Payload,
			Headers: map[string]string{
				"event_id":       e.ID.String(),
				"event_type":     e.EventType,
				"aggregate_type": e.AggregateType,
			},
		})
		ids = append(ids, e.ID)
	}

	if err := w.producer.Publish(ctx, msgs...); err != nil {
		w.fail()
		return 0, fmt.Errorf("publish outbox batch: %w", err)
	}
	if err := w.outbox.MarkProcessed(ctx, ids, w.now()); err != nil {
		w.fail()
		return 0, fmt.Errorf("mark outbox batch processed: %w", err)
	}

	if w.metrics != nil {
		w.metrics.Relayed.Add(float64(len(entries)))
	}
	w.logger.DebugContext(ctx, "outbox batch relayed", "count", len(entries))
	return len(entries), nil
}

func (w *Worker) fail() {
	if w.metrics != nil {
		w.metrics.Failures.Inc()
	}
}
