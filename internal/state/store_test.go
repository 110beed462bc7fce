package state

import (
	"errors"
	"testing"
	"time"

	"uhc/internal/domain"
)

var errTest = errors.New("test failure")

func ts(s string) time.Time { t, _ := time.Parse(time.RFC3339, s); return t }

func strp(v string) *string { return &v }

func seedMatches(s *Store, matches ...domain.Match) {
	s.Dispatch(FetchUpcoming.Success(struct{}{}, matches))
}

func TestStore_InitialState(t *testing.T) {
	s := NewStore()
	root := s.State()

	if root.Auth.AccessToken != "" {
		t.Error("expected logged-out initial auth")
	}
	if root.TimeSync.Synced {
		t.Error("expected unsynced initial clock")
	}
	if !root.Settings.IsDarkMode {
		t.Error("expected dark mode default on")
	}
	if root.Settings.Loaded {
		t.Error("settings must not be marked loaded before the seed")
	}
}

func TestStore_UnhandledActionIsNoOpPerSlice(t *testing.T) {
	s := NewStore()
	seedMatches(s, domain.Match{ID: 1, Author: "alice"})
	before := s.State()

	// Auth actions have no matches-slice handler: the matches slice
	// must keep its previous value while the auth slice reacts.
	s.Dispatch(AuthLogin.New(TokenPair{AccessToken: "a", RefreshToken: "r"}))
	after := s.State()

	if len(after.Matches.Upcoming) != len(before.Matches.Upcoming) {
		t.Error("matches slice changed on auth action")
	}
	if after.Auth.AccessToken != "a" {
		t.Error("auth slice did not react")
	}
}

func TestStore_DispatchOrderObservedByTap(t *testing.T) {
	s := NewStore()
	tap := s.Tap()

	s.Dispatch(AuthLogin.New(TokenPair{AccessToken: "a"}))
	s.Dispatch(AuthLogout.New("alice"))
	s.Dispatch(ToggleDarkMode.New(struct{}{}))

	want := []ActionType{AuthLogin.Type(), AuthLogout.Type(), ToggleDarkMode.Type()}
	for i, wantType := range want {
		select {
		case a := <-tap:
			if a.Type != wantType {
				t.Errorf("tap[%d] = %q, want %q", i, a.Type, wantType)
			}
		case <-time.After(time.Second):
			t.Fatalf("tap[%d]: timed out", i)
		}
	}
}

func TestStore_SubscribeAndUnsubscribe(t *testing.T) {
	s := NewStore()
	var seen int
	unsub := s.Subscribe(func(Root) { seen++ })

	s.Dispatch(ToggleDarkMode.New(struct{}{}))
	if seen != 1 {
		t.Fatalf("expected one notification, got %d", seen)
	}

	unsub()
	s.Dispatch(ToggleDarkMode.New(struct{}{}))
	if seen != 1 {
		t.Errorf("notified after unsubscribe: %d", seen)
	}
}

func TestMatches_OptimisticRemoveThenSuccess(t *testing.T) {
	s := NewStore()
	seedMatches(s, domain.Match{ID: 5, Author: "bob"})

	params := RemovalParams{ID: 5, Reason: "spam", Username: "alice"}
	s.Dispatch(RemoveMatch.Started(params, nil))

	m := s.State().Matches.Upcoming[0]
	if !m.Removed || m.RemovedBy == nil || *m.RemovedBy != "alice" || *m.RemovedReason != "spam" {
		t.Fatalf("optimistic removal not applied: %+v", m)
	}

	s.Dispatch(RemoveMatch.Success(params, struct{}{}))
	m = s.State().Matches.Upcoming[0]
	if !m.Removed || *m.RemovedBy != "alice" {
		t.Errorf("success must confirm the optimistic value, got %+v", m)
	}
}

func TestMatches_OptimisticRemoveRollbackOnFailure(t *testing.T) {
	s := NewStore()
	seedMatches(s, domain.Match{ID: 5, Author: "bob"}, domain.Match{ID: 6, Author: "carol"})
	before := s.State().Matches.Upcoming

	params := RemovalParams{ID: 5, Reason: "spam", Username: "alice"}
	s.Dispatch(RemoveMatch.Started(params, nil))
	s.Dispatch(RemoveMatch.Failure(params, errTest))

	after := s.State().Matches.Upcoming
	m := after[0]
	if m.Removed || m.RemovedBy != nil || m.RemovedReason != nil {
		t.Errorf("rollback incomplete: %+v", m)
	}
	if after[1].ID != before[1].ID || after[1].Removed != before[1].Removed {
		t.Errorf("unrelated match disturbed: %+v", after[1])
	}
}

func TestMatches_ApproveRollback(t *testing.T) {
	s := NewStore()
	seedMatches(s, domain.Match{ID: 7, Author: "bob"})

	params := ApprovalParams{ID: 7, Username: "mod"}
	s.Dispatch(ApproveMatch.Started(params, nil))
	if got := s.State().Matches.Upcoming[0].ApprovedBy; got == nil || *got != "mod" {
		t.Fatal("optimistic approval not applied")
	}

	s.Dispatch(ApproveMatch.Failure(params, errTest))
	if got := s.State().Matches.Upcoming[0].ApprovedBy; got != nil {
		t.Errorf("approval not rolled back: %v", *got)
	}
}

func TestUBL_DeleteRollbackRestoresBackup(t *testing.T) {
	s := NewStore()
	bans := []domain.BanEntry{{ID: 1, IGN: "a"}, {ID: 2, IGN: "b"}, {ID: 3, IGN: "c"}}
	s.Dispatch(FetchBans.Success(struct{}{}, bans))

	s.Dispatch(DeleteBan.Started(BanDeleteParams{ID: 2}, nil))
	if got := len(s.State().UBL.Bans); got != 2 {
		t.Fatalf("optimistic delete left %d entries, want 2", got)
	}

	s.Dispatch(DeleteBan.Failure(BanDeleteParams{ID: 2}, errTest))
	got := s.State().UBL.Bans
	if len(got) != 3 || got[1].ID != 2 {
		t.Errorf("backup not restored: %+v", got)
	}
	if s.State().UBL.Backup != nil {
		t.Error("backup not cleared after rollback")
	}
}

func TestUBL_EditSuccessKeepsAuthoritativeEntry(t *testing.T) {
	s := NewStore()
	s.Dispatch(FetchBans.Success(struct{}{}, []domain.BanEntry{{ID: 1, IGN: "old", Reason: "r"}}))

	edited := domain.BanEntry{ID: 1, IGN: "new", Reason: "updated"}
	params := BanEditParams{ID: 1}
	s.Dispatch(EditBan.Started(params, &edited))
	if got := s.State().UBL.Bans[0].IGN; got != "new" {
		t.Fatalf("optimistic edit not applied, ign = %q", got)
	}

	authoritative := domain.BanEntry{ID: 1, IGN: "new", Reason: "updated by server"}
	s.Dispatch(EditBan.Success(params, authoritative))
	if got := s.State().UBL.Bans[0].Reason; got != "updated by server" {
		t.Errorf("authoritative entry not kept, reason = %q", got)
	}
}

func TestPermissions_LetterToggle(t *testing.T) {
	s := NewStore()

	s.Dispatch(PermissionLetter.Toggle("a"))
	if !s.State().Permissions.Expanded["a"] {
		t.Fatal("toggle on failed")
	}
	s.Dispatch(PermissionLetter.Toggle("a"))
	if s.State().Permissions.Expanded["a"] {
		t.Fatal("toggle off failed")
	}
	s.Dispatch(PermissionLetter.Open("b"))
	s.Dispatch(PermissionLetter.Close("b"))
	if s.State().Permissions.Expanded["b"] {
		t.Error("close failed")
	}
}

func TestToasts_PushExpire(t *testing.T) {
	s := NewStore()
	toast := NewToast(ToastError, "boom")
	s.Dispatch(PushToast.New(toast))
	if len(s.State().Toasts.Queue) != 1 {
		t.Fatal("toast not pushed")
	}
	s.Dispatch(ExpireToast.New(toast.ID))
	if len(s.State().Toasts.Queue) != 0 {
		t.Error("toast not expired")
	}
}

func TestTimeSync_SuccessSetsOffset(t *testing.T) {
	s := NewStore()
	if s.State().TimeSync.Synced {
		t.Fatal("must start unsynced")
	}
	s.Dispatch(SyncTime.Success(struct{}{}, 1500*time.Millisecond))
	got := s.State().TimeSync
	if !got.Synced || got.Offset != 1500*time.Millisecond {
		t.Errorf("unexpected sync state %+v", got)
	}
}
