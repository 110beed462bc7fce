package state

import (
	"testing"
)

// test-only action families; names must not collide with the real ones.
var (
	testBump  = NewEvent[int]("test/bump")
	testNoop  = NewEvent[struct{}]("test/noop")
	testOther = NewEvent[int]("test/other")
)

func TestBuilder_BuildAndReduce(t *testing.T) {
	b := NewBuilder(10)
	HandleEvent(b, testBump, func(s int, n int) int { return s + n })
	r, err := b.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if got := r.Initial(); got != 10 {
		t.Errorf("Initial() = %d, want 10", got)
	}
	if got := r.Reduce(10, testBump.New(5)); got != 15 {
		t.Errorf("Reduce(bump 5) = %d, want 15", got)
	}
}

func TestBuilder_UnregisteredActionIsIdentity(t *testing.T) {
	b := NewBuilder(42)
	HandleEvent(b, testOther, func(s int, n int) int { return n })
	r := b.MustBuild()

	if got := r.Reduce(42, testNoop.New(struct{}{})); got != 42 {
		t.Errorf("unregistered action changed state: got %d, want 42", got)
	}
}

func TestBuilder_DuplicateRegistrationFailsAtBuildTime(t *testing.T) {
	b := NewBuilder(0)
	HandleEvent(b, testBump, func(s int, n int) int { return s + n })
	HandleEvent(b, testBump, func(s int, n int) int { return s - n })

	if _, err := b.Build(); err == nil {
		t.Fatal("expected duplicate registration to fail Build()")
	}

	defer func() {
		if recover() == nil {
			t.Error("expected MustBuild to panic on duplicate registration")
		}
	}()
	b.MustBuild()
}

func TestRegister_GlobalUniquenessPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected duplicate global action type to panic")
		}
	}()
	NewEvent[int]("test/bump")
}

func TestAsyncFamily_Payloads(t *testing.T) {
	fetch := NewAsync[string, int]("test/asyncFamily")

	start := fetch.Start("q")
	if start.Type != fetch.StartType() {
		t.Errorf("Start type = %q", start.Type)
	}
	if p := fetch.Payload(start); p.Params != "q" || p.Result != nil || p.Err != nil {
		t.Errorf("unexpected start payload %+v", p)
	}

	opt := 7
	started := fetch.Started("q", &opt)
	if p := fetch.Payload(started); p.Result == nil || *p.Result != 7 {
		t.Errorf("optimistic result not carried: %+v", p)
	}

	success := fetch.Success("q", 9)
	if p := fetch.Payload(success); p.Result == nil || *p.Result != 9 {
		t.Errorf("authoritative result not carried: %+v", p)
	}

	failure := fetch.Failure("q", errTest)
	if p := fetch.Payload(failure); p.Err != errTest {
		t.Errorf("error not carried: %+v", p)
	}
}
