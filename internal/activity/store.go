package activity

import (
	"context"
	"strings"
	"time"
)

// Store is the append-only log. Append never mutates or removes existing
// entries. Query returns entries in stable insertion order; callers needing
// reverse-chronological or timestamp order sort the result themselves.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	Query(ctx context.Context, filter Filter) ([]Entry, error)
}

// Filter narrows a query. Zero values mean "no constraint".
type Filter struct {
	// Search matches case-insensitively as a substring over identity name,
	// action and module.
	Search string
	// IdentityID matches exactly.
	IdentityID string
	// Module matches exactly, or as a substring when exact misses nothing is
	// special-cased: substring containment covers both.
	Module string
	// Action matches as a substring.
	Action string
	// Since keeps entries with Timestamp at or after this instant (inclusive).
	Since time.Time
}

// Matches reports whether the entry passes every set constraint. Both store
// implementations and tests share this predicate.
func (f Filter) Matches(e Entry) bool {
	if f.IdentityID != "" && e.IdentityID != f.IdentityID {
		return false
	}
	if f.Module != "" && !strings.Contains(strings.ToLower(e.Module), strings.ToLower(f.Module)) {
		return false
	}
	if f.Action != "" && !strings.Contains(strings.ToLower(e.Action), strings.ToLower(f.Action)) {
		return false
	}
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(e.IdentityName), needle) &&
			!strings.Contains(strings.ToLower(e.Action), needle) &&
			!strings.Contains(strings.ToLower(e.Module), needle) {
			return false
		}
	}
	if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
		return false
	}
	return true
}
