package domain

import (
	"sort"
	"time"
)

// Known permission names. The live permission map from the server is
// authoritative; these constants exist for client-side checks.
const (
	PermissionAdmin       = "admin"
	PermissionModerator   = "moderator"
	PermissionHost        = "host"
	PermissionTrialHost   = "trial host"
	PermissionHostBanned  = "host banned"
	PermissionUBLModerate = "ubl moderator"
)

// PermissionSet maps a permission name to the usernames holding it.
type PermissionSet map[string][]string

// Holds reports whether username holds the given permission.
func (p PermissionSet) Holds(permission, username string) bool {
	for _, u := range p[permission] {
		if u == username {
			return true
		}
	}
	return false
}

// Usernames returns the sorted set of all usernames with any permission.
func (p PermissionSet) Usernames() []string {
	seen := map[string]struct{}{}
	for _, users := range p {
		for _, u := range users {
			seen[u] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for u := range seen {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// PermissionLogEntry records one add or remove event in the moderation
// log. Entries are immutable once created.
type PermissionLogEntry struct {
	ID         int64     `json:"id"`
	Modifier   string    `json:"modifier"`
	Username   string    `json:"username"`
	At         time.Time `json:"at"`
	Permission string    `json:"permission"`
	Added      bool      `json:"added"`
}
