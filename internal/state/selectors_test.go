package state

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"uhc/internal/domain"
)

// forgeToken builds a signed token for decode tests. Decoding is
// structural so the signing key is irrelevant.
func forgeToken(t *testing.T, username string, permissions []string, expires time.Time) string {
	t.Helper()
	claims := jwt.MapClaims{
		"username":    username,
		"permissions": permissions,
		"exp":         expires.Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("failed to forge token: %v", err)
	}
	return token
}

func loggedInRoot(t *testing.T, username string, permissions []string) Root {
	t.Helper()
	s := NewStore()
	s.Dispatch(AuthLogin.New(TokenPair{
		AccessToken:  forgeToken(t, username, permissions, time.Now().Add(time.Hour)),
		RefreshToken: forgeToken(t, username, nil, time.Now().Add(24*time.Hour)),
	}))
	return s.State()
}

func TestDecodeClaims(t *testing.T) {
	expires := time.Now().Add(time.Hour).Truncate(time.Second)
	token := forgeToken(t, "alice", []string{"moderator", "host"}, expires)

	c := DecodeClaims(token)
	if c == nil {
		t.Fatal("expected claims")
	}
	if c.Username != "alice" {
		t.Errorf("Username = %q", c.Username)
	}
	if len(c.Permissions) != 2 || c.Permissions[0] != "moderator" {
		t.Errorf("Permissions = %v", c.Permissions)
	}
	if !c.Expires.Equal(expires) {
		t.Errorf("Expires = %v, want %v", c.Expires, expires)
	}
}

func TestDecodeClaims_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"two segments", "aaaa.bbbb"},
		{"bad base64", "a!a.b!b.c!c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecodeClaims(tt.token); got != nil {
				t.Errorf("DecodeClaims(%q) = %+v, want nil", tt.token, got)
			}
		})
	}
}

func TestDecodeClaims_ExpiredStillDecodes(t *testing.T) {
	token := forgeToken(t, "alice", nil, time.Now().Add(-time.Hour))
	c := DecodeClaims(token)
	if c == nil {
		t.Fatal("expired token must still decode structurally")
	}
	if !c.Expires.Before(time.Now()) {
		t.Error("expiry not preserved")
	}
}

func TestClaimsCachedAcrossAlternatingDecodes(t *testing.T) {
	root := loggedInRoot(t, "alice", nil)

	// The render path reads both selectors every frame; repeated calls
	// with stable tokens must return the cached decode each time.
	access := AccessClaims(root)
	refresh := RefreshClaims(root)
	for i := 0; i < 3; i++ {
		if got := AccessClaims(root); got != access {
			t.Fatalf("access claims re-decoded on call %d", i)
		}
		if got := RefreshClaims(root); got != refresh {
			t.Fatalf("refresh claims re-decoded on call %d", i)
		}
	}
}

func TestIsLoggedIn(t *testing.T) {
	s := NewStore()
	if IsLoggedIn(s.State()) {
		t.Error("logged in with no token")
	}

	s.Dispatch(AuthLogin.New(TokenPair{AccessToken: "garbage"}))
	if IsLoggedIn(s.State()) {
		t.Error("logged in with undecodable token")
	}

	root := loggedInRoot(t, "alice", nil)
	if !IsLoggedIn(root) {
		t.Error("not logged in with valid token")
	}
}

func TestMatchesPermissions(t *testing.T) {
	loggedOut := NewStore().State()
	asAlice := loggedInRoot(t, "alice", []string{"moderator"})

	tests := []struct {
		name     string
		root     Root
		required []string
		want     bool
	}{
		{"empty requirement, logged out", loggedOut, nil, false},
		{"empty requirement, logged in", asAlice, nil, true},
		{"held permission", asAlice, []string{"moderator"}, true},
		{"missing permission", asAlice, []string{"admin"}, false},
		{"any-of with one held", asAlice, []string{"admin", "moderator"}, true},
		{"required but logged out", loggedOut, []string{"moderator"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MatchesPermissions(tt.root, tt.required...); got != tt.want {
				t.Errorf("MatchesPermissions(%v) = %v, want %v", tt.required, got, tt.want)
			}
		})
	}
}

func TestVisibleMatches(t *testing.T) {
	removedBy := "mod"
	reason := "spam"
	matches := []domain.Match{
		{ID: 1, Author: "alice"},
		{ID: 2, Author: "alice", Removed: true, RemovedBy: &removedBy, RemovedReason: &reason},
		{ID: 3, Author: "bob", Removed: true, RemovedBy: &removedBy, RemovedReason: &reason},
	}

	s := NewStore()
	s.Dispatch(AuthLogin.New(TokenPair{AccessToken: forgeToken(t, "alice", nil, time.Now().Add(time.Hour))}))
	seedMatches(s, matches...)
	root := s.State()

	// Defaults: hide removed, but show own removed.
	ids := visibleIDs(VisibleMatches(root))
	if len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Errorf("default visibility = %v, want [1 2]", ids)
	}

	s.Dispatch(ToggleShowOwnRemoved.New(struct{}{}))
	ids = visibleIDs(VisibleMatches(s.State()))
	if len(ids) != 1 || ids[0] != 1 {
		t.Errorf("own-removed hidden = %v, want [1]", ids)
	}

	s.Dispatch(ToggleHideRemoved.New(struct{}{}))
	ids = visibleIDs(VisibleMatches(s.State()))
	if len(ids) != 3 {
		t.Errorf("show all = %v, want all three", ids)
	}
}

func visibleIDs(matches []domain.Match) []int64 {
	out := make([]int64, len(matches))
	for i, m := range matches {
		out[i] = m.ID
	}
	return out
}

func TestServerNow(t *testing.T) {
	s := NewStore()
	local := ts("2024-06-01T00:00:10Z")

	if got := ServerNow(s.State(), local); !got.Equal(local) {
		t.Errorf("unsynced ServerNow = %v, want local time", got)
	}

	// Client is 10s ahead of the server.
	s.Dispatch(SyncTime.Success(struct{}{}, 10*time.Second))
	want := ts("2024-06-01T00:00:00Z")
	if got := ServerNow(s.State(), local); !got.Equal(want) {
		t.Errorf("ServerNow = %v, want %v", got, want)
	}
}

func TestFormatTimestamp(t *testing.T) {
	s := NewStore()
	at := ts("2024-06-01T13:30:00Z")

	if got := FormatTimestamp(s.State(), at); got != "Sat 1 Jun 13:30" {
		t.Errorf("24h format = %q", got)
	}

	s.Dispatch(Toggle12h.New(struct{}{}))
	if got := FormatTimestamp(s.State(), at); got != "Sat 1 Jun 1:30 PM" {
		t.Errorf("12h format = %q", got)
	}
}
