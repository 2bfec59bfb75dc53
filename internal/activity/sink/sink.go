// Package sink fans activity entries out to Kafka for downstream consumers
// (SIEM, reporting). The fan-out is advisory: the primary append has already
// succeeded, so publish failures are logged and dropped, never surfaced.
package sink

import (
	"context"
	"encoding/json"
	"log/slog"

	"opsdesk/internal/activity"
)

// Producer is the broker boundary. Implemented by platform/kafka.Producer;
// tests use an in-process stub.
type Producer interface {
	Produce(ctx context.Context, key, value []byte) error
}

// Store decorates an activity.Store, mirroring appends onto a channel consumed
// by the Worker. A full channel drops the fan-out record rather than blocking
// the caller's mutation.
type Store struct {
	inner  activity.Store
	inbox  chan activity.Entry
	logger *slog.Logger
}

func NewStore(inner activity.Store, buffer int, logger *slog.Logger) *Store {
	if buffer <= 0 {
		buffer = 256
	}
	return &Store{inner: inner, inbox: make(chan activity.Entry, buffer), logger: logger}
}

func (s *Store) Append(ctx context.Context, entry activity.Entry) error {
	if err := s.inner.Append(ctx, entry); err != nil {
		return err
	}
	select {
	case s.inbox <- entry:
	default:
		s.logger.WarnContext(ctx, "activity fan-out buffer full, dropping record", "entry_id", entry.ID)
	}
	return nil
}

func (s *Store) Query(ctx context.Context, filter activity.Filter) ([]activity.Entry, error) {
	return s.inner.Query(ctx, filter)
}

// Inbox exposes the fan-out channel for the worker.
func (s *Store) Inbox() <-chan activity.Entry {
	return s.inbox
}

// Worker drains the inbox and publishes each entry as JSON keyed by identity
// id, so one identity's trail lands in one partition in order.
type Worker struct {
	producer Producer
	inbox    <-chan activity.Entry
	logger   *slog.Logger
}

func NewWorker(producer Producer, inbox <-chan activity.Entry, logger *slog.Logger) *Worker {
	return &Worker{producer: producer, inbox: inbox, logger: logger}
}

// Run consumes until the context is canceled.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case entry := <-w.inbox:
			payload, err := json.Marshal(entry)
			if err != nil {
				w.logger.WarnContext(ctx, "activity fan-out marshal failed", "entry_id", entry.ID, "error", err)
				continue
			}
			if err := w.producer.Produce(ctx, []byte(entry.IdentityID), payload); err != nil {
				w.logger.WarnContext(ctx, "activity fan-out publish failed", "entry_id", entry.ID, "error", err)
			}
		}
	}
}
