package session

import "context"

type sessionKey struct{}

// WithSession injects a session into the context. Set by the auth middleware;
// tests inject fake sessions the same way.
func WithSession(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext retrieves the request's session. When no middleware ran, the
// second return is false and callers should treat the request as
// unauthenticated.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(*Session)
	return s, ok
}
