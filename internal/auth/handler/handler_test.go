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
	"opsdesk/internal/rbac"
	"opsdesk/internal/session"
	"opsdesk/internal/users"
	"opsdesk/pkg/domerr"
)

type fakeAuthenticator struct {
	user users.User
	err  error
}

func (f *fakeAuthenticator) Authenticate(_ context.Context, _, _ string) (users.User, error) {
	return f.user, f.err
}

func newAuthRouter(auth UserAuthenticator, store activity.Store) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := session.NewManager("test-signing-key", "opsdesk", time.Hour,
		rbac.NewRegistry(), store, logger, nil)

	r := chi.NewRouter()
	New(auth, sessions, logger).Register(r)
	return r
}

func TestHandleLogin_Success(t *testing.T) {
	store := activity.NewInMemoryStore()
	auth := &fakeAuthenticator{user: users.User{ID: "u1", Name: "Sarah Shop", Role: rbac.RoleShopManager}}
	router := newAuthRouter(auth, store)

	body := strings.NewReader(`{"email":"sarah@example.com","password":"correct-horse"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", body))

	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID   string `json:"id"`
			Name string `json:"name"`
			Role string `json:"role"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "u1", resp.User.ID)
	assert.Equal(t, "shop_manager", resp.User.Role)

	// The login is recorded under the user's own identity.
	entries, err := store.Query(context.Background(), activity.Filter{Action: "user_logged_in"})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "u1", entries[0].IdentityID)
	assert.Equal(t, "auth", entries[0].Module)
}

func TestHandleLogin_InvalidCredentials(t *testing.T) {
	store := activity.NewInMemoryStore()
	auth := &fakeAuthenticator{err: domerr.New(domerr.CodeUnauthorized, "invalid credentials")}
	router := newAuthRouter(auth, store)

	body := strings.NewReader(`{"email":"sarah@example.com","password":"wrong"}`)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", body))

	assert.Equal(t, http.StatusUnauthorized, w.Code)

	entries, err := store.Query(context.Background(), activity.Filter{})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestHandleLogin_MalformedBody(t *testing.T) {
	router := newAuthRouter(&fakeAuthenticator{}, activity.NewInMemoryStore())

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader("{not json")))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleMe(t *testing.T) {
	store := activity.NewInMemoryStore()
	registry := rbac.NewRegistry()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	sessions := session.NewManager("test-signing-key", "opsdesk", time.Hour, registry, store, logger, nil)

	r := chi.NewRouter()
	New(&fakeAuthenticator{}, sessions, logger).Register(r)

	t.Run("unauthenticated", func(t *testing.T) {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/auth/me", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("authenticated", func(t *testing.T) {
		sess := sessions.Authenticated(session.Identity{ID: "u2", Name: "Ada Admin", Role: rbac.RoleAdmin})
		req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
		req = req.WithContext(session.WithSession(req.Context(), sess))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp map[string]string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "u2", resp["id"])
		assert.Equal(t, "admin", resp["role"])
	})
}
