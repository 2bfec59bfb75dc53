// Package rbac maps roles to permission token sets. The registry is the single
// authority every gate consults; modules never keep their own role switches.
package rbac

import "sync"

// PermissionSet answers membership queries for one role's grants. It is shared
// read-only between the registry and callers; Replace swaps whole sets rather
// than mutating one in place, so a set handed out never changes underneath a
// reader.
type PermissionSet map[string]struct{}

// Has reports whether the token is granted. Unknown tokens are simply absent.
func (ps PermissionSet) Has(token string) bool {
	_, ok := ps[token]
	return ok
}

// Tokens returns the granted tokens in unspecified order.
func (ps PermissionSet) Tokens() []string {
	out := make([]string, 0, len(ps))
	for token := range ps {
		out = append(out, token)
	}
	return out
}

func newPermissionSet(tokens []string) PermissionSet {
	set := make(PermissionSet, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}

// Registry holds the role to permission-set mapping. Reads are O(1) and
// lock-cheap; writes replace a role's entry wholesale so readers never observe
// a partially updated set.
type Registry struct {
	mu     sync.RWMutex
	grants map[Role]PermissionSet
}

// NewRegistry returns a registry seeded with the built-in grants.
func NewRegistry() *Registry {
	seeds := defaultGrants()
	grants := make(map[Role]PermissionSet, len(seeds))
	for role, tokens := range seeds {
		grants[role] = newPermissionSet(tokens)
	}
	return &Registry{grants: grants}
}

// PermissionsFor returns the permission set granted to the role. An unknown
// role yields the empty set so gates default to deny instead of failing.
func (r *Registry) PermissionsFor(role Role) PermissionSet {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if set, ok := r.grants[role]; ok {
		return set
	}
	return PermissionSet{}
}

// Replace swaps the role's entire permission set atomically. There is no
// partial merge: administrative updates supply the full new set.
func (r *Registry) Replace(role Role, tokens []string) {
	set := newPermissionSet(tokens)
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grants[role] = set
}
