package session

import (
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"opsdesk/internal/activity"
	"opsdesk/internal/platform/metrics"
	"opsdesk/internal/rbac"
	"opsdesk/pkg/domerr"
)

// Claims carried by access tokens. Role is re-validated on every request so a
// tampered or stale role string degrades to the empty permission set.
type Claims struct {
	Name string `json:"name"`
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// Manager signs and validates access tokens and builds per-request sessions.
// Construction and teardown are tied to process lifetime; the sessions it
// builds are tied to request lifetime.
type Manager struct {
	signingKey []byte
	issuer     string
	tokenTTL   time.Duration

	registry *rbac.Registry
	store    activity.Store
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

func NewManager(signingKey string, issuer string, tokenTTL time.Duration,
	registry *rbac.Registry, store activity.Store, logger *slog.Logger, m *metrics.Metrics) *Manager {
	return &Manager{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		tokenTTL:   tokenTTL,
		registry:   registry,
		store:      store,
		logger:     logger,
		metrics:    m,
	}
}

// IssueToken signs an HS256 access token for the identity.
func (m *Manager) IssueToken(identity Identity, now time.Time) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Name: identity.Name,
		Role: string(identity.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(m.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(m.signingKey)
}

// SessionFromToken validates the token and returns an authenticated session.
func (m *Manager) SessionFromToken(tokenString string) (*Session, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return m.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domerr.New(domerr.CodeUnauthorized, "token has expired")
		}
		return nil, domerr.New(domerr.CodeUnauthorized, "invalid token")
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, domerr.New(domerr.CodeUnauthorized, "invalid token claims")
	}
	role, err := rbac.ParseRole(claims.Role)
	if err != nil {
		return nil, domerr.New(domerr.CodeUnauthorized, "invalid role claim")
	}
	identity := &Identity{ID: claims.Subject, Name: claims.Name, Role: role}
	return New(identity, m.registry, m.store, m.logger, m.metrics), nil
}

// Authenticated returns a session for an identity established out of band,
// e.g. immediately after a successful login, before any token round-trip.
func (m *Manager) Authenticated(identity Identity) *Session {
	return New(&identity, m.registry, m.store, m.logger, m.metrics)
}

// Anonymous returns an unauthenticated session. Permission checks all fail,
// but activity can still be recorded under the system placeholder.
func (m *Manager) Anonymous() *Session {
	return New(nil, m.registry, m.store, m.logger, m.metrics)
}
