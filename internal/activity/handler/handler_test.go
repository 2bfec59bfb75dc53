package handler

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsdesk/internal/activity"
	"opsdesk/internal/gate"
	"opsdesk/internal/rbac"
	"opsdesk/internal/session"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func injectSession(sess *session.Session) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
		})
	}
}

func newTestRouter(t *testing.T, store activity.Store, role rbac.Role) http.Handler {
	t.Helper()
	registry := rbac.NewRegistry()
	sess := session.New(&session.Identity{ID: "u1", Name: "Tester", Role: role}, registry, store, discardLogger(), nil)

	r := chi.NewRouter()
	r.Use(injectSession(sess))
	New(store, gate.New(nil), discardLogger()).Register(r)
	return r
}

func seedStore(t *testing.T) *activity.InMemoryStore {
	t.Helper()
	store := activity.NewInMemoryStore()
	base := time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)
	entries := []activity.Entry{
		{ID: "e1", IdentityID: "u1", IdentityName: "Sarah Shop", Action: "event_created", Module: "events",
			Details: map[string]any{"title": "Launch"}, Timestamp: base},
		{ID: "e2", IdentityID: "u2", IdentityName: "Wanda Warehouse", Action: "item_deleted", Module: "inventory",
			Timestamp: base.Add(time.Hour)},
		{ID: "e3", IdentityID: "u1", IdentityName: "Sarah Shop", Action: "expense_created", Module: "expenses",
			Timestamp: base.Add(2 * time.Hour)},
	}
	for _, e := range entries {
		require.NoError(t, store.Append(context.Background(), e))
	}
	return store
}

func TestHandleList_RequiresLogsView(t *testing.T) {
	router := newTestRouter(t, seedStore(t), rbac.RoleShopManager)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/activity", nil))

	require.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "access_denied")
}

func TestHandleList_ReverseChronological(t *testing.T) {
	router := newTestRouter(t, seedStore(t), rbac.RoleAdmin)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/activity", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Entries []struct {
			ID          string `json:"id"`
			Description string `json:"description"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Entries, 3)
	assert.Equal(t, "e3", resp.Entries[0].ID)
	assert.Equal(t, "e2", resp.Entries[1].ID)
	assert.Equal(t, "e1", resp.Entries[2].ID)
	assert.Equal(t, "event_created events (Launch)", resp.Entries[2].Description)
}

func TestHandleList_Filters(t *testing.T) {
	router := newTestRouter(t, seedStore(t), rbac.RoleAdmin)

	t.Run("search", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/activity?search=wanda", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Entries []struct{ ID string } `json:"entries"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Entries, 1)
		assert.Equal(t, "e2", resp.Entries[0].ID)
	})

	t.Run("since bound is inclusive", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/activity?since=2026-03-10T09:00:00Z", nil))
		require.Equal(t, http.StatusOK, w.Code)
		var resp struct {
			Entries []struct{ ID string } `json:"entries"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(t, resp.Entries, 2)
	})

	t.Run("malformed since is a bad request", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/activity?since=yesterday", nil))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandleExport_RequiresLogsExport(t *testing.T) {
	// warehouse_manager holds logs.view but not logs.export.
	router := newTestRouter(t, seedStore(t), rbac.RoleWarehouseManager)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/activity/export", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/activity", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHandleExport_CSVDownload(t *testing.T) {
	store := seedStore(t)
	router := newTestRouter(t, store, rbac.RoleAdmin)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/activity/export", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "activity-logs-")

	lines := strings.Split(strings.TrimRight(w.Body.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Timestamp,User,Action,Module,Details", lines[0])
	assert.Contains(t, lines[1], `"Sarah Shop","event_created","events","{""title"":""Launch""}"`)

	// The export itself lands in the audit trail.
	entries, err := store.Query(context.Background(), activity.Filter{Action: "activity_exported"})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
