package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"opsdesk/internal/session"
	"opsdesk/pkg/requestcontext"
)

// SessionBuilder turns a bearer token into a session. Implemented by
// session.Manager; the interface keeps handler tests free of JWT plumbing.
type SessionBuilder interface {
	SessionFromToken(tokenString string) (*session.Session, error)
	Anonymous() *session.Session
}

// WithSession builds the request session from the Authorization header.
// Requests without a valid token proceed with an unauthenticated session:
// permission checks fail closed downstream, so this middleware never rejects
// by itself. Use RequireAuth for routes that must not see anonymous traffic.
func WithSession(builder SessionBuilder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := builder.Anonymous()
			if token, ok := bearerToken(r); ok {
				if authenticated, err := builder.SessionFromToken(token); err == nil {
					sess = authenticated
				}
			}
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
		})
	}
}

// RequireAuth rejects requests whose bearer token is missing or invalid.
func RequireAuth(builder SessionBuilder, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "missing or invalid Authorization header")
				return
			}
			sess, err := builder.SessionFromToken(token)
			if err != nil {
				logger.WarnContext(r.Context(), "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(r.Context()),
				)
				unauthorized(w, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(session.WithSession(r.Context(), sess)))
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	return strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
}

func unauthorized(w http.ResponseWriter, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"unauthorized","error_description":"` + description + `"}`))
}
