package state

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"uhc/internal/domain"
)

// Claims are the decoded contents of a session token. Decoding is
// structural only: an expired token still decodes, and refresh logic
// decides what to do about Expires.
type Claims struct {
	Username    string
	Permissions []string
	Expires     time.Time
}

// memo1 caches the last input/output pair of a single-argument
// function. Selectors use it so derived state is recomputed only when
// its declared input changes, not on every store update.
type memo1[I comparable, O any] struct {
	mu   sync.Mutex
	fn   func(I) O
	last I
	out  O
	ok   bool
}

func newMemo1[I comparable, O any](fn func(I) O) *memo1[I, O] {
	return &memo1[I, O]{fn: fn}
}

func (m *memo1[I, O]) get(in I) O {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ok && in == m.last {
		return m.out
	}
	m.last = in
	m.out = m.fn(in)
	m.ok = true
	return m.out
}

// The access and refresh tokens get separate memo entries. The render
// path decodes both on every frame, so a shared single-entry cache
// would invalidate itself on each alternating call.
var (
	accessClaimsMemo  = newMemo1(decodeClaims)
	refreshClaimsMemo = newMemo1(decodeClaims)
)

// DecodeClaims decodes a raw token string into claims. A malformed
// token yields nil; decode failure never reaches the render path as an
// error. One-shot callers decode directly; the selectors below are the
// memoized path.
func DecodeClaims(token string) *Claims {
	if token == "" {
		return nil
	}
	return decodeClaims(token)
}

func decodeClaims(token string) *Claims {
	parser := jwt.NewParser()
	var claims jwt.MapClaims = map[string]any{}
	if _, _, err := parser.ParseUnverified(token, &claims); err != nil {
		return nil
	}

	username, _ := claims["username"].(string)
	if username == "" {
		return nil
	}

	var permissions []string
	if raw, ok := claims["permissions"].([]any); ok {
		for _, p := range raw {
			if s, ok := p.(string); ok {
				permissions = append(permissions, s)
			}
		}
	}

	var expires time.Time
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		expires = exp.Time
	}

	return &Claims{Username: username, Permissions: permissions, Expires: expires}
}

// AccessClaims returns the decoded access-token claims, nil if logged
// out or undecodable.
func AccessClaims(r Root) *Claims {
	if r.Auth.AccessToken == "" {
		return nil
	}
	return accessClaimsMemo.get(r.Auth.AccessToken)
}

// RefreshClaims returns the decoded refresh-token claims.
func RefreshClaims(r Root) *Claims {
	if r.Auth.RefreshToken == "" {
		return nil
	}
	return refreshClaimsMemo.get(r.Auth.RefreshToken)
}

// IsLoggedIn is true when the access token decodes to a claim.
func IsLoggedIn(r Root) bool {
	return AccessClaims(r) != nil
}

// CurrentUsername returns the logged-in username, empty if logged out.
func CurrentUsername(r Root) string {
	if c := AccessClaims(r); c != nil {
		return c.Username
	}
	return ""
}

// MatchesPermissions is true iff the user is logged in and holds at
// least one of the required permissions. An empty requirement means
// logged-in is sufficient.
func MatchesPermissions(r Root, required ...string) bool {
	c := AccessClaims(r)
	if c == nil {
		return false
	}
	if len(required) == 0 {
		return true
	}
	held := make(map[string]struct{}, len(c.Permissions))
	for _, p := range c.Permissions {
		held[p] = struct{}{}
	}
	for _, want := range required {
		if _, ok := held[want]; ok {
			return true
		}
	}
	return false
}

// VisibleMatches filters the upcoming list through the removed-match
// visibility settings: removed matches are hidden unless HideRemoved
// is off, except the user's own removed matches when ShowOwnRemoved is
// on.
func VisibleMatches(r Root) []domain.Match {
	if !r.Settings.HideRemoved {
		return r.Matches.Upcoming
	}
	username := CurrentUsername(r)
	out := make([]domain.Match, 0, len(r.Matches.Upcoming))
	for _, m := range r.Matches.Upcoming {
		if !m.Removed {
			out = append(out, m)
			continue
		}
		if r.Settings.ShowOwnRemoved && username != "" && m.Author == username {
			out = append(out, m)
		}
	}
	return out
}

// ServerNow converts a local instant to server time using the measured
// clock offset. Before the first sync it returns the local time.
func ServerNow(r Root, local time.Time) time.Time {
	if !r.TimeSync.Synced {
		return local
	}
	return local.Add(-r.TimeSync.Offset)
}

// FormatTimestamp renders a timestamp in the user's timezone and clock
// format settings.
func FormatTimestamp(r Root, t time.Time) string {
	loc, err := time.LoadLocation(r.Settings.Timezone)
	if err != nil {
		loc = time.UTC
	}
	layout := "Mon 2 Jan 15:04"
	if r.Settings.Is12h {
		layout = "Mon 2 Jan 3:04 PM"
	}
	return t.In(loc).Format(layout)
}
