package activity

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"
)

// SnapshotStore wraps an InMemoryStore and echoes the full ordered sequence
// into a single Redis key after every append. The snapshot is a convenience
// cache so a restart picks up where the session left off, not a durability
// guarantee: concurrent writers race on the key and last write wins.
type SnapshotStore struct {
	inner  *InMemoryStore
	client *redis.Client
	key    string
	logger *slog.Logger
}

const defaultSnapshotKey = "opsdesk:activity-log"

func NewSnapshotStore(inner *InMemoryStore, client *redis.Client, key string, logger *slog.Logger) *SnapshotStore {
	if key == "" {
		key = defaultSnapshotKey
	}
	return &SnapshotStore{inner: inner, client: client, key: key, logger: logger}
}

// Load rehydrates the in-memory log from the persisted snapshot. A missing or
// malformed snapshot is not an error condition: the log simply starts empty.
func (s *SnapshotStore) Load(ctx context.Context) {
	payload, err := s.client.Get(ctx, s.key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.WarnContext(ctx, "activity snapshot unavailable, starting with empty log", "error", err)
		}
		return
	}
	var entries []Entry
	if err := json.Unmarshal(payload, &entries); err != nil {
		s.logger.WarnContext(ctx, "activity snapshot malformed, starting with empty log", "error", err)
		return
	}
	s.inner.Restore(entries)
}

func (s *SnapshotStore) Append(ctx context.Context, entry Entry) error {
	if err := s.inner.Append(ctx, entry); err != nil {
		return err
	}
	s.persist(ctx)
	return nil
}

func (s *SnapshotStore) Query(ctx context.Context, filter Filter) ([]Entry, error) {
	return s.inner.Query(ctx, filter)
}

// persist serializes the full sequence under the snapshot key. Failures are
// advisory: the in-memory append already succeeded.
func (s *SnapshotStore) persist(ctx context.Context) {
	payload, err := json.Marshal(s.inner.Snapshot())
	if err != nil {
		s.logger.WarnContext(ctx, "activity snapshot marshal failed", "error", err)
		return
	}
	if err := s.client.Set(ctx, s.key, payload, 0).Err(); err != nil {
		s.logger.WarnContext(ctx, "activity snapshot write failed", "error", err)
	}
}
