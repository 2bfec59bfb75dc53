//go:build integration

package activity_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsdesk/internal/activity"
	"opsdesk/pkg/testutil/containers"
)

func TestSnapshotStore_Redis(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, rc.FlushAll(ctx))

	store := activity.NewSnapshotStore(activity.NewInMemoryStore(), rc.Client, "opsdesk:test:activity-log", logger)
	store.Load(ctx)

	base := time.Date(2026, 4, 1, 12, 0, 0, 0, time.UTC)
	entries := []activity.Entry{
		{ID: "s1", IdentityID: "u1", IdentityName: "Ada Admin", Action: "user_created", Module: "users",
			Details: map[string]any{"name": "Sam"}, Timestamp: base},
		{ID: "s2", IdentityID: "u1", IdentityName: "Ada Admin", Action: "user_deleted", Module: "users",
			Timestamp: base.Add(time.Minute)},
	}
	for _, e := range entries {
		require.NoError(t, store.Append(ctx, e))
	}

	// A fresh store over the same key sees the full sequence in order.
	restored := activity.NewSnapshotStore(activity.NewInMemoryStore(), rc.Client, "opsdesk:test:activity-log", logger)
	restored.Load(ctx)

	got, err := restored.Query(ctx, activity.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "s1", got[0].ID)
	assert.Equal(t, "s2", got[1].ID)
	assert.Equal(t, "Sam", got[0].Details["name"])
	assert.True(t, got[0].Timestamp.Equal(base))
}

func TestSnapshotStore_MalformedSnapshotStartsEmpty(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	require.NoError(t, rc.Client.Set(ctx, "opsdesk:test:broken", "{not json", 0).Err())

	store := activity.NewSnapshotStore(activity.NewInMemoryStore(), rc.Client, "opsdesk:test:broken", logger)
	store.Load(ctx)

	got, err := store.Query(ctx, activity.Filter{})
	require.NoError(t, err)
	assert.Empty(t, got)
}
