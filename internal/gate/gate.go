// Package gate guards privileged views and actions with permission tokens.
// Enforcement here is presentation-layer only: it decides what a caller may
// see or trigger, it is not a substitute for validating the request itself.
//
// Two gating styles exist side by side because call sites need both:
//
//   - view-level: Require wraps a route and answers 403 outright;
//   - action-level: Check returns a Decision so a handler can render the
//     control in a disabled state instead of hiding it.
package gate

import (
	"encoding/json"
	"net/http"

	"opsdesk/internal/platform/metrics"
	"opsdesk/internal/session"
)

// Decision is the action-level gate result. Disabled mirrors Allowed so view
// code can bind it straight to a control's disabled attribute.
type Decision struct {
	Token    string `json:"token"`
	Allowed  bool   `json:"allowed"`
	Disabled bool   `json:"disabled"`
}

// Check evaluates the token against the request's session. A missing session
// denies, same as an unauthenticated one.
func Check(s *session.Session, token string) Decision {
	allowed := s != nil && s.HasPermission(token)
	return Decision{Token: token, Allowed: allowed, Disabled: !allowed}
}

// Gate builds permission middleware bound to shared metrics.
type Gate struct {
	metrics *metrics.Metrics
}

func New(m *metrics.Metrics) *Gate {
	return &Gate{metrics: m}
}

// Require is the view-level gate: requests whose session lacks the token get
// an access-denied envelope and the guarded handler is never invoked.
func (g *Gate) Require(token string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s, _ := session.FromContext(r.Context())
			if s == nil || !s.HasPermission(token) {
				if g.metrics != nil {
					g.metrics.PermissionDenials.WithLabelValues(token).Inc()
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]string{
					"error":             "access_denied",
					"error_description": "missing permission " + token,
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
