package saga

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"uhc/internal/api"
	"uhc/internal/domain"
	"uhc/internal/logger"
	"uhc/internal/state"
)

// fakeAPI implements API with per-call hooks. Calls without a hook
// return zero values.
type fakeAPI struct {
	mu sync.Mutex

	upcomingFn       func() ([]domain.Match, error)
	removeMatchFn    func(id int64, reason string) error
	matchConflictsFn func(region string, opens time.Time) ([]domain.Match, error)
	createBanFn      func(req api.BanRequest) (*domain.BanEntry, error)
	editBanFn        func(id int64, req api.BanRequest) (*domain.BanEntry, error)
	serverTimeFn     func() (time.Time, error)
	refreshFn        func(token string) (*api.TokenPair, error)

	serverTimeCalls int
	refreshCalls    int
	conflictCalls   int
	permCalls       int
	permLogCalls    int
}

func (f *fakeAPI) count(n *int) {
	f.mu.Lock()
	*n++
	f.mu.Unlock()
}

func (f *fakeAPI) UpcomingMatches(context.Context) ([]domain.Match, error) {
	if f.upcomingFn != nil {
		return f.upcomingFn()
	}
	return nil, nil
}

func (f *fakeAPI) Match(context.Context, int64) (*domain.Match, error) { return nil, nil }

func (f *fakeAPI) CreateMatch(context.Context, api.CreateMatchRequest) error { return nil }

func (f *fakeAPI) RemoveMatch(_ context.Context, id int64, reason string) error {
	if f.removeMatchFn != nil {
		return f.removeMatchFn(id, reason)
	}
	return nil
}

func (f *fakeAPI) ApproveMatch(_ context.Context, id int64) (*domain.Match, error) {
	return &domain.Match{ID: id}, nil
}

func (f *fakeAPI) MatchConflicts(_ context.Context, region string, opens time.Time) ([]domain.Match, error) {
	f.count(&f.conflictCalls)
	if f.matchConflictsFn != nil {
		return f.matchConflictsFn(region, opens)
	}
	return nil, nil
}

func (f *fakeAPI) HostMatches(context.Context, string, int64) ([]domain.Match, error) {
	return nil, nil
}

func (f *fakeAPI) CurrentBans(context.Context) ([]domain.BanEntry, error) { return nil, nil }

func (f *fakeAPI) SearchBans(context.Context, string) ([]domain.BanEntry, error) { return nil, nil }

func (f *fakeAPI) CreateBan(_ context.Context, req api.BanRequest) (*domain.BanEntry, error) {
	if f.createBanFn != nil {
		return f.createBanFn(req)
	}
	return &domain.BanEntry{IGN: req.IGN}, nil
}

func (f *fakeAPI) EditBan(_ context.Context, id int64, req api.BanRequest) (*domain.BanEntry, error) {
	if f.editBanFn != nil {
		return f.editBanFn(id, req)
	}
	return &domain.BanEntry{ID: id, IGN: req.IGN}, nil
}

func (f *fakeAPI) DeleteBan(context.Context, int64) error { return nil }

func (f *fakeAPI) Permissions(context.Context) (domain.PermissionSet, error) {
	f.count(&f.permCalls)
	return nil, nil
}

func (f *fakeAPI) PermissionLog(context.Context) ([]domain.PermissionLogEntry, error) {
	f.count(&f.permLogCalls)
	return nil, nil
}

func (f *fakeAPI) AddPermission(context.Context, string, string) error { return nil }

func (f *fakeAPI) RemovePermission(context.Context, string, string) error { return nil }

func (f *fakeAPI) AlertRules(context.Context) ([]domain.AlertRule, error) { return nil, nil }

func (f *fakeAPI) CreateAlertRule(_ context.Context, req api.AlertRuleRequest) (*domain.AlertRule, error) {
	return &domain.AlertRule{AlertOn: req.AlertOn}, nil
}

func (f *fakeAPI) DeleteAlertRule(context.Context, int64) error { return nil }

func (f *fakeAPI) Rules(context.Context) (*api.RulesDocument, error) {
	return &api.RulesDocument{}, nil
}

func (f *fakeAPI) SaveRules(context.Context, string) error { return nil }

func (f *fakeAPI) ServerTime(context.Context) (time.Time, error) {
	f.mu.Lock()
	f.serverTimeCalls++
	f.mu.Unlock()
	if f.serverTimeFn != nil {
		return f.serverTimeFn()
	}
	return time.Time{}, nil
}

func (f *fakeAPI) RefreshTokens(_ context.Context, token string) (*api.TokenPair, error) {
	f.mu.Lock()
	f.refreshCalls++
	f.mu.Unlock()
	if f.refreshFn != nil {
		return f.refreshFn(token)
	}
	return &api.TokenPair{}, nil
}

func (f *fakeAPI) read(n *int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *n
}

var _ API = (*fakeAPI)(nil)

// memKV is an in-memory KV.
type memKV struct {
	mu sync.Mutex
	m  map[string]string
}

func newMemKV() *memKV { return &memKV{m: map[string]string{}} }

func (k *memKV) Get(_ context.Context, key string) (string, bool, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	v, ok := k.m[key]
	return v, ok, nil
}

func (k *memKV) Set(_ context.Context, key, value string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.m[key] = value
	return nil
}

func (k *memKV) Delete(_ context.Context, key string) error {
	k.mu.Lock()
	defer k.mu.Unlock()
	delete(k.m, key)
	return nil
}

func (k *memKV) get(key string) string {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.m[key]
}

// fixedClock returns a constant time; Sleep returns immediately.
type fixedClock struct{ now time.Time }

func (f fixedClock) Now() time.Time { return f.now }

func (f fixedClock) Sleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

// stepClock hands each Sleep to the test: the requested delay is sent
// on sleeps, and the sleeper blocks until the test sends on release.
type stepClock struct {
	now     time.Time
	sleeps  chan time.Duration
	release chan struct{}
}

func newStepClock() *stepClock {
	return &stepClock{
		now:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		sleeps:  make(chan time.Duration),
		release: make(chan struct{}),
	}
}

func (s *stepClock) Now() time.Time { return s.now }

func (s *stepClock) Sleep(ctx context.Context, d time.Duration) error {
	select {
	case s.sleeps <- d:
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-s.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func signToken(t *testing.T, username string, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username":    username,
		"permissions": []string{"moderator"},
		"exp":         exp.Unix(),
	})
	signed, err := tok.SignedString([]byte("test-key"))
	if err != nil {
		t.Fatalf("signing token: %v", err)
	}
	return signed
}

func testContext(st *state.Store, clk Clock) *Context {
	if clk == nil {
		clk = RealClock()
	}
	return &Context{ctx: context.Background(), store: st, log: logger.Default(), clock: clk}
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

// startRunner wires a runner over the store and runs it for the test's
// duration.
func startRunner(t *testing.T, st *state.Store, s *Sagas, clk Clock) *Runner {
	t.Helper()
	r := NewRunner(st, logger.Default(), clk)
	s.Register(r)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go r.Run(ctx)
	return r
}
