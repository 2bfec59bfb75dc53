// Package session ties an authenticated identity to permission checks and
// activity recording. Sessions are explicit objects built per request by the
// auth middleware and handed to handlers through the request context; nothing
// in here is a package-level singleton, so tests construct sessions with fake
// identities directly.
package session

import (
	"context"
	"log/slog"

	"opsdesk/internal/activity"
	"opsdesk/internal/platform/metrics"
	"opsdesk/internal/rbac"
	"opsdesk/pkg/ids"
	"opsdesk/pkg/requestcontext"
)

// Identity is the authenticated principal. Immutable for the session except
// Role, which an administrator may change; the new role takes effect on the
// next permission check because checks always go through the registry.
type Identity struct {
	ID   string
	Name string
	Role rbac.Role
}

// Placeholder identity recorded when an action is logged without a current
// identity. Keeping the audit trail total beats rejecting the write.
const (
	AnonymousID   = "system"
	AnonymousName = "System"
)

// Session has exactly two states: unauthenticated (identity == nil, every
// permission check fails) and authenticated (checks delegate to the registry).
type Session struct {
	identity *Identity
	registry *rbac.Registry
	store    activity.Store
	logger   *slog.Logger
	metrics  *metrics.Metrics
}

// New builds an authenticated session. Pass a nil identity for the
// unauthenticated state.
func New(identity *Identity, registry *rbac.Registry, store activity.Store, logger *slog.Logger, m *metrics.Metrics) *Session {
	return &Session{identity: identity, registry: registry, store: store, logger: logger, metrics: m}
}

// Identity returns the current identity, if any.
func (s *Session) Identity() (Identity, bool) {
	if s.identity == nil {
		return Identity{}, false
	}
	return *s.identity, true
}

// HasPermission reports whether the current identity's role grants the token.
// Fail-closed: an unauthenticated session always answers false, and that is a
// normal result, not an error.
func (s *Session) HasPermission(token string) bool {
	if s.identity == nil {
		return false
	}
	return s.registry.PermissionsFor(s.identity.Role).Has(token)
}

// LogActivity appends exactly one entry to the activity log. It never fails
// the surrounding operation: audit logging is advisory, so append errors go to
// the logger and a failure counter instead of the caller. Without a current
// identity the entry carries the system placeholder.
func (s *Session) LogActivity(ctx context.Context, action, module string, details map[string]any) {
	entry := activity.Entry{
		ID:           ids.New(),
		IdentityID:   AnonymousID,
		IdentityName: AnonymousName,
		Action:       action,
		Module:       module,
		Details:      details,
		Timestamp:    requestcontext.Now(ctx),
	}
	if s.identity != nil {
		entry.IdentityID = s.identity.ID
		entry.IdentityName = s.identity.Name
	}
	if err := s.store.Append(ctx, entry); err != nil {
		if s.metrics != nil {
			s.metrics.ActivityLogFailures.Inc()
		}
		s.logger.WarnContext(ctx, "activity log append failed",
			"action", action,
			"module", module,
			"error", err,
		)
		return
	}
	if s.metrics != nil {
		s.metrics.ActivityRecorded.Inc()
	}
}
