package session

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"opsdesk/internal/activity"
	"opsdesk/internal/rbac"
	"opsdesk/pkg/domerr"
)

func newTestManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()
	return NewManager("test-signing-key", "opsdesk-test", ttl,
		rbac.NewRegistry(), activity.NewInMemoryStore(), discardLogger(), nil)
}

func TestManager_TokenRoundTrip(t *testing.T) {
	mgr := newTestManager(t, time.Hour)
	identity := Identity{ID: "u1", Name: "Wanda Warehouse", Role: rbac.RoleWarehouseManager}

	token, err := mgr.IssueToken(identity, time.Now())
	require.NoError(t, err)

	sess, err := mgr.SessionFromToken(token)
	require.NoError(t, err)

	got, ok := sess.Identity()
	require.True(t, ok)
	assert.Equal(t, identity, got)
	assert.True(t, sess.HasPermission(rbac.PermWarehousesCreate))
	assert.False(t, sess.HasPermission(rbac.PermUsersDelete))
}

func TestManager_ExpiredToken(t *testing.T) {
	mgr := newTestManager(t, time.Minute)
	identity := Identity{ID: "u1", Name: "Wanda Warehouse", Role: rbac.RoleWarehouseManager}

	token, err := mgr.IssueToken(identity, time.Now().Add(-2*time.Minute))
	require.NoError(t, err)

	_, err = mgr.SessionFromToken(token)
	require.Error(t, err)
	assert.True(t, domerr.Is(err, domerr.CodeUnauthorized))
}

func TestManager_GarbageToken(t *testing.T) {
	mgr := newTestManager(t, time.Hour)
	_, err := mgr.SessionFromToken("not.a.token")
	require.Error(t, err)
	assert.True(t, domerr.Is(err, domerr.CodeUnauthorized))
}

func TestManager_WrongKeyRejected(t *testing.T) {
	mgr := newTestManager(t, time.Hour)
	other := NewManager("other-key", "opsdesk-test", time.Hour,
		rbac.NewRegistry(), activity.NewInMemoryStore(), discardLogger(), nil)

	token, err := other.IssueToken(Identity{ID: "u1", Name: "X", Role: rbac.RoleAdmin}, time.Now())
	require.NoError(t, err)

	_, err = mgr.SessionFromToken(token)
	assert.Error(t, err)
}

func TestManager_InvalidRoleClaimRejected(t *testing.T) {
	mgr := newTestManager(t, time.Hour)
	forged := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Name: "X",
		Role: "root",
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "u1",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	token, err := forged.SignedString([]byte("test-signing-key"))
	require.NoError(t, err)

	_, err = mgr.SessionFromToken(token)
	require.Error(t, err)
	assert.True(t, domerr.Is(err, domerr.CodeUnauthorized))
}

func TestManager_AnonymousSession(t *testing.T) {
	mgr := newTestManager(t, time.Hour)
	sess := mgr.Anonymous()
	_, ok := sess.Identity()
	assert.False(t, ok)
	assert.False(t, sess.HasPermission(rbac.PermLogsView))
}
