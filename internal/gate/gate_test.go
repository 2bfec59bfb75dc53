package gate

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsdesk/internal/activity"
	"opsdesk/internal/rbac"
	"opsdesk/internal/session"
)

func sessionFor(role rbac.Role) *session.Session {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	identity := &session.Identity{ID: "u1", Name: "Tester", Role: role}
	return session.New(identity, rbac.NewRegistry(), activity.NewInMemoryStore(), logger, nil)
}

func TestCheck_ActionLevelDecision(t *testing.T) {
	t.Run("granted token enables the control", func(t *testing.T) {
		d := Check(sessionFor(rbac.RoleAdmin), rbac.PermUsersDelete)
		assert.True(t, d.Allowed)
		assert.False(t, d.Disabled)
	})

	t.Run("shop manager delete control renders disabled", func(t *testing.T) {
		d := Check(sessionFor(rbac.RoleShopManager), rbac.PermUsersDelete)
		assert.False(t, d.Allowed)
		assert.True(t, d.Disabled)
	})

	t.Run("nil session denies", func(t *testing.T) {
		d := Check(nil, rbac.PermLogsView)
		assert.False(t, d.Allowed)
		assert.True(t, d.Disabled)
	})
}

func TestRequire_ViewLevelGate(t *testing.T) {
	g := New(nil)

	invoked := false
	guarded := g.Require(rbac.PermUsersDelete)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		invoked = true
		w.WriteHeader(http.StatusNoContent)
	}))

	t.Run("denied session never reaches the handler", func(t *testing.T) {
		invoked = false
		req := httptest.NewRequest(http.MethodDelete, "/users/u2", nil)
		req = req.WithContext(session.WithSession(req.Context(), sessionFor(rbac.RoleShopManager)))
		w := httptest.NewRecorder()

		guarded.ServeHTTP(w, req)

		assert.False(t, invoked, "privileged handler must not run")
		require.Equal(t, http.StatusForbidden, w.Code)
		assert.Contains(t, w.Body.String(), "access_denied")
	})

	t.Run("missing session is denied the same way", func(t *testing.T) {
		invoked = false
		req := httptest.NewRequest(http.MethodDelete, "/users/u2", nil)
		w := httptest.NewRecorder()

		guarded.ServeHTTP(w, req)

		assert.False(t, invoked)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("granted session passes through", func(t *testing.T) {
		invoked = false
		req := httptest.NewRequest(http.MethodDelete, "/users/u2", nil)
		req = req.WithContext(session.WithSession(req.Context(), sessionFor(rbac.RoleSuperAdmin)))
		w := httptest.NewRecorder()

		guarded.ServeHTTP(w, req)

		assert.True(t, invoked)
		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}
