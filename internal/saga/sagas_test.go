package saga

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"uhc/internal/api"
	"uhc/internal/domain"
	"uhc/internal/logger"
	"uhc/internal/state"
)

func TestRemoveMatchRollsBackAndForcesLogout(t *testing.T) {
	st := state.NewStore()
	st.Dispatch(state.AuthLogin.New(state.TokenPair{
		AccessToken:  signToken(t, "alice", time.Now().Add(time.Hour)),
		RefreshToken: signToken(t, "alice", time.Now().Add(24*time.Hour)),
	}))
	st.Dispatch(state.FetchUpcoming.Success(struct{}{}, []domain.Match{
		{ID: 5, Author: "bob", Opens: time.Now().Add(time.Hour), Region: "NA"},
	}))

	proceed := make(chan struct{})
	fa := &fakeAPI{removeMatchFn: func(id int64, reason string) error {
		if id != 5 || reason != "spam" {
			t.Errorf("RemoveMatch(%d, %q), want (5, spam)", id, reason)
		}
		<-proceed
		return &api.Error{Status: 403, Message: "forbidden"}
	}}
	s := New(fa, newMemKV(), st, logger.Default())
	startRunner(t, st, s, nil)

	st.Dispatch(state.RemoveMatch.Start(state.RemovalParams{ID: 5, Reason: "spam"}))

	waitFor(t, "optimistic removal", func() bool {
		m := st.State().Matches.Upcoming[0]
		return m.Removed &&
			m.RemovedBy != nil && *m.RemovedBy == "alice" &&
			m.RemovedReason != nil && *m.RemovedReason == "spam"
	})

	close(proceed)

	waitFor(t, "rollback", func() bool {
		m := st.State().Matches.Upcoming[0]
		return !m.Removed && m.RemovedBy == nil && m.RemovedReason == nil
	})
	waitFor(t, "forced logout", func() bool {
		return !state.IsLoggedIn(st.State())
	})
}

func TestRemoveMatchConfirmsOnSuccess(t *testing.T) {
	st := state.NewStore()
	st.Dispatch(state.FetchUpcoming.Success(struct{}{}, []domain.Match{
		{ID: 7, Author: "bob"},
	}))

	fa := &fakeAPI{}
	s := New(fa, newMemKV(), st, logger.Default())
	startRunner(t, st, s, nil)

	st.Dispatch(state.RemoveMatch.Start(state.RemovalParams{ID: 7, Reason: "dupe", Username: "carol"}))

	waitFor(t, "confirmed removal", func() bool {
		m := st.State().Matches.Upcoming[0]
		return m.Removed && m.RemovedBy != nil && *m.RemovedBy == "carol"
	})
	waitFor(t, "success toast", func() bool {
		for _, toast := range st.State().Toasts.Queue {
			if toast.Kind == state.ToastSuccess {
				return true
			}
		}
		return false
	})
}

func TestConflictCheckFlagsOpensAndRegion(t *testing.T) {
	opens := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	fa := &fakeAPI{matchConflictsFn: func(region string, at time.Time) ([]domain.Match, error) {
		if region != "NA" || !at.Equal(opens) {
			t.Errorf("MatchConflicts(%q, %v), want (NA, %v)", region, at, opens)
		}
		return []domain.Match{{ID: 9, Author: "bob", Count: 42, Opens: opens, Region: "NA"}}, nil
	}}

	st := state.NewStore()
	s := New(fa, newMemKV(), st, logger.Default())
	startRunner(t, st, s, nil)

	st.Dispatch(state.HostFormChanged.New(state.ConflictParams{Region: "NA", Opens: opens}))

	waitFor(t, "conflict errors", func() bool {
		errs := st.State().HostForm.AsyncErrors
		return errs["opens"] != "" && errs["region"] != ""
	})
	msg := st.State().HostForm.AsyncErrors["opens"]
	if !strings.Contains(msg, "bob") || !strings.Contains(msg, "42") {
		t.Errorf("conflict message %q should name the author and match count", msg)
	}
	if got := st.State().HostForm.AsyncErrors["region"]; got != msg {
		t.Errorf("region error %q != opens error %q", got, msg)
	}
}

func TestConflictCheckTournamentCandidateIsExempt(t *testing.T) {
	opens := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	fa := &fakeAPI{matchConflictsFn: func(string, time.Time) ([]domain.Match, error) {
		return []domain.Match{{ID: 9, Author: "bob", Opens: opens}}, nil
	}}

	st := state.NewStore()
	s := New(fa, newMemKV(), st, logger.Default())
	startRunner(t, st, s, nil)

	st.Dispatch(state.HostFormChanged.New(state.ConflictParams{Region: "NA", Opens: opens, Tournament: true}))

	waitFor(t, "conflict check to run", func() bool {
		return fa.read(&fa.conflictCalls) == 1 && !st.State().HostForm.Checking
	})
	if errs := st.State().HostForm.AsyncErrors; len(errs) != 0 {
		t.Errorf("AsyncErrors = %v, want none for a tournament candidate", errs)
	}
}

func TestConflictCheckIncompleteSlotClearsErrors(t *testing.T) {
	opens := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	fa := &fakeAPI{matchConflictsFn: func(string, time.Time) ([]domain.Match, error) {
		return []domain.Match{{ID: 9, Author: "bob", Count: 42, Opens: opens}}, nil
	}}
	st := state.NewStore()
	s := New(fa, newMemKV(), st, logger.Default())
	startRunner(t, st, s, nil)

	// A completed check puts real errors on the form first.
	st.Dispatch(state.HostFormChanged.New(state.ConflictParams{Region: "NA", Opens: opens}))
	waitFor(t, "errors from completed check", func() bool {
		return st.State().HostForm.AsyncErrors["opens"] != ""
	})

	// Clearing the opens field abandons the slot; its errors go with it.
	st.Dispatch(state.HostFormChanged.New(state.ConflictParams{Region: "NA"}))
	waitFor(t, "errors cleared", func() bool {
		return len(st.State().HostForm.AsyncErrors) == 0 && !st.State().HostForm.Checking
	})
}

func TestConflictCheckAbandonedMidFlightStaysSilent(t *testing.T) {
	opens := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	release := make(chan struct{})
	fa := &fakeAPI{matchConflictsFn: func(string, time.Time) ([]domain.Match, error) {
		<-release
		return []domain.Match{{ID: 9, Author: "bob", Count: 42, Opens: opens}}, nil
	}}
	st := state.NewStore()
	s := New(fa, newMemKV(), st, logger.Default())
	r := startRunner(t, st, s, nil)

	st.Dispatch(state.HostFormChanged.New(state.ConflictParams{Region: "NA", Opens: opens}))
	waitFor(t, "check in flight", func() bool {
		return fa.read(&fa.conflictCalls) == 1
	})

	// The host clears the slot while the check is still in flight; the
	// abandoned check must not report against the cleared form.
	st.Dispatch(state.HostFormChanged.New(state.ConflictParams{Region: "NA"}))
	waitFor(t, "errors cleared", func() bool {
		return len(st.State().HostForm.AsyncErrors) == 0 && !st.State().HostForm.Checking
	})

	close(release)
	r.Wait()

	if errs := st.State().HostForm.AsyncErrors; len(errs) != 0 {
		t.Errorf("abandoned check reported stale errors: %v", errs)
	}
	if st.State().HostForm.Checking {
		t.Error("Checking stuck on after the abandoned check returned")
	}
}

func TestDispatchBeforeRunnerLoopIsObserved(t *testing.T) {
	opens := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	fa := &fakeAPI{}
	st := state.NewStore()
	s := New(fa, newMemKV(), st, logger.Default())
	r := NewRunner(st, logger.Default(), nil)
	s.Register(r)

	// Dispatched before the runner loop is scheduled. The tap taken at
	// construction must queue it, not drop it.
	st.Dispatch(state.HostFormChanged.New(state.ConflictParams{Region: "NA", Opens: opens}))

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go r.Run(ctx)

	waitFor(t, "conflict check for the early dispatch", func() bool {
		return fa.read(&fa.conflictCalls) == 1
	})
}

func TestCreateBanShowsProvisionalEntryWhileInFlight(t *testing.T) {
	proceed := make(chan struct{})
	fa := &fakeAPI{createBanFn: func(req api.BanRequest) (*domain.BanEntry, error) {
		<-proceed
		return &domain.BanEntry{ID: 11, IGN: req.IGN, UUID: req.UUID, Reason: req.Reason, Expires: req.Expires}, nil
	}}
	st := state.NewStore()
	st.Dispatch(state.AuthLogin.New(state.TokenPair{
		AccessToken:  signToken(t, "alice", time.Now().Add(time.Hour)),
		RefreshToken: signToken(t, "alice", time.Now().Add(24*time.Hour)),
	}))
	s := New(fa, newMemKV(), st, logger.Default())
	startRunner(t, st, s, nil)

	st.Dispatch(state.CreateBan.Start(api.BanRequest{
		IGN:     "griefer",
		UUID:    "11111111-2222-3333-4444-555555555555",
		Reason:  "xray",
		Expires: time.Now().Add(24 * time.Hour),
	}))

	waitFor(t, "provisional entry in the list", func() bool {
		bans := st.State().UBL.Bans
		return len(bans) == 1 && bans[0].ID == 0 &&
			bans[0].IGN == "griefer" && bans[0].CreatedBy == "alice"
	})

	close(proceed)

	waitFor(t, "stored record replaces the provisional entry", func() bool {
		bans := st.State().UBL.Bans
		return len(bans) == 1 && bans[0].ID == 11
	})
}

func TestEditBanAppliesEditWhileInFlight(t *testing.T) {
	proceed := make(chan struct{})
	fa := &fakeAPI{editBanFn: func(id int64, req api.BanRequest) (*domain.BanEntry, error) {
		<-proceed
		return &domain.BanEntry{ID: id, IGN: req.IGN, Reason: req.Reason, CreatedBy: "mod"}, nil
	}}
	st := state.NewStore()
	st.Dispatch(state.FetchBans.Success(struct{}{}, []domain.BanEntry{
		{ID: 3, IGN: "griefer", Reason: "old reason", CreatedBy: "mod"},
	}))
	s := New(fa, newMemKV(), st, logger.Default())
	startRunner(t, st, s, nil)

	st.Dispatch(state.EditBan.Start(state.BanEditParams{
		ID:      3,
		Request: api.BanRequest{IGN: "griefer", Reason: "new reason"},
	}))

	waitFor(t, "edit visible in the list", func() bool {
		bans := st.State().UBL.Bans
		return len(bans) == 1 && bans[0].Reason == "new reason" &&
			bans[0].CreatedBy == "mod"
	})

	close(proceed)

	waitFor(t, "stored record confirmed", func() bool {
		return st.State().UBL.Backup == nil
	})
}

func TestBootstrapSeedsPersistedSettings(t *testing.T) {
	kv := newMemKV()
	kv.m[keyDarkMode] = "false"
	kv.m[keyTimezone] = "America/New_York"

	st := state.NewStore()
	s := New(&fakeAPI{}, kv, st, logger.Default())
	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	got := st.State().Settings
	if !got.Loaded {
		t.Fatal("settings not marked loaded")
	}
	if got.IsDarkMode {
		t.Error("IsDarkMode = true, want persisted false")
	}
	if got.Timezone != "America/New_York" {
		t.Errorf("Timezone = %q, want America/New_York", got.Timezone)
	}
	// Unset keys keep their defaults.
	if !got.HideRemoved {
		t.Error("HideRemoved = false, want default true")
	}
}

func TestToggleIsPersistedBack(t *testing.T) {
	kv := newMemKV()
	kv.m[keyDarkMode] = "false"

	st := state.NewStore()
	s := New(&fakeAPI{}, kv, st, logger.Default())
	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}
	startRunner(t, st, s, nil)

	st.Dispatch(state.ToggleDarkMode.New(struct{}{}))

	waitFor(t, "slice updated", func() bool {
		return st.State().Settings.IsDarkMode
	})
	waitFor(t, "persisted value", func() bool {
		return kv.get(keyDarkMode) == "true"
	})
}

func TestBootstrapRestoresSession(t *testing.T) {
	access := signToken(t, "alice", time.Now().Add(time.Hour))
	refresh := signToken(t, "alice", time.Now().Add(24*time.Hour))
	kv := newMemKV()
	kv.m[keyAccessToken] = access
	kv.m[keyRefreshToken] = refresh

	st := state.NewStore()
	s := New(&fakeAPI{}, kv, st, logger.Default())
	if err := s.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap: %v", err)
	}

	if !state.IsLoggedIn(st.State()) {
		t.Fatal("session not restored from local store")
	}
	if got := state.CurrentUsername(st.State()); got != "alice" {
		t.Errorf("username = %q, want alice", got)
	}
}

func TestLogoutClearsPersistedTokens(t *testing.T) {
	kv := newMemKV()
	kv.m[keyAccessToken] = "a"
	kv.m[keyRefreshToken] = "r"

	st := state.NewStore()
	s := New(&fakeAPI{}, kv, st, logger.Default())
	startRunner(t, st, s, nil)

	st.Dispatch(state.AuthLogout.New("alice"))

	waitFor(t, "tokens cleared", func() bool {
		return kv.get(keyAccessToken) == "" && kv.get(keyRefreshToken) == ""
	})
}

func TestForcedLogoutRecordsActorInAuditTrail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	audit, err := logger.NewAuditLogger(path, 1)
	if err != nil {
		t.Fatalf("NewAuditLogger: %v", err)
	}
	defer audit.Close()

	st := state.NewStore()
	st.Dispatch(state.AuthLogin.New(state.TokenPair{
		AccessToken:  signToken(t, "alice", time.Now().Add(time.Hour)),
		RefreshToken: signToken(t, "alice", time.Now().Add(24*time.Hour)),
	}))
	fa := &fakeAPI{removeMatchFn: func(int64, string) error {
		return &api.Error{Status: 401, Message: "expired"}
	}}
	s := New(fa, newMemKV(), st, logger.Default()).WithAudit(audit)
	startRunner(t, st, s, nil)

	st.Dispatch(state.RemoveMatch.Start(state.RemovalParams{ID: 5, Reason: "spam"}))

	waitFor(t, "forced logout", func() bool {
		return !state.IsLoggedIn(st.State())
	})
	// The reducer clears the tokens before the logout worker runs, so
	// the trail line must carry the actor from the action itself.
	waitFor(t, "audit line names the actor", func() bool {
		raw, err := os.ReadFile(path)
		if err != nil {
			return false
		}
		line := string(raw)
		return strings.Contains(line, `"action":"logout"`) &&
			strings.Contains(line, `"actor":"alice"`)
	})
}

func TestPermissionChangeTriggersRefetch(t *testing.T) {
	fa := &fakeAPI{}
	st := state.NewStore()
	s := New(fa, newMemKV(), st, logger.Default())
	startRunner(t, st, s, nil)

	st.Dispatch(state.AddPermission.Start(state.PermissionChangeParams{
		Username:   "bob",
		Permission: domain.PermissionHost,
	}))

	waitFor(t, "dependent refetches", func() bool {
		return fa.read(&fa.permCalls) == 1 && fa.read(&fa.permLogCalls) == 1
	})
	waitFor(t, "success toast", func() bool {
		return len(st.State().Toasts.Queue) > 0
	})
}
