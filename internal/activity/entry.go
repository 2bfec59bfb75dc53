// Package activity holds the append-only audit trail. Entries are created by
// the session layer on user-initiated mutations and are never updated or
// deleted afterwards; retention and rotation live outside this package.
package activity

import "time"

// Entry is one recorded action. Details is a loosely-typed payload because its
// shape differs per module; it must stay JSON-serializable since the snapshot
// and CSV export both round it through encoding/json.
type Entry struct {
	ID           string         `json:"id"`
	IdentityID   string         `json:"identity_id"`
	IdentityName string         `json:"identity_name"`
	Action       string         `json:"action"`
	Module       string         `json:"module"`
	Details      map[string]any `json:"details,omitempty"`
	Timestamp    time.Time      `json:"timestamp"`
}
