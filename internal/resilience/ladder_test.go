package resilience

import (
	"errors"
	"testing"
)

type fakeTier struct {
	name string
	fail bool
}

func synth(f *fakeTier) (string, error) {
	if f.fail {
		return "", errBoom
	}
	return "audio-from-" + f.name, nil
}

func TestLadderUsesPrimaryWhenHealthy(t *testing.T) {
	l := NewLadder(&fakeTier{name: "primary"}, "primary", LadderConfig{})
	l.AddTier("secondary", &fakeTier{name: "secondary"})

	got, used, err := Execute(l, synth)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got != "audio-from-primary" || used != "primary" {
		t.Fatalf("Execute() = (%q, %q), want primary result", got, used)
	}
}

func TestLadderFallsThroughToNextTier(t *testing.T) {
	l := NewLadder(&fakeTier{name: "primary", fail: true}, "primary", LadderConfig{})
	l.AddTier("secondary", &fakeTier{name: "secondary"})

	got, used, err := Execute(l, synth)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got != "audio-from-secondary" || used != "secondary" {
		t.Fatalf("Execute() = (%q, %q), want secondary result", got, used)
	}
}

func TestLadderTerminalTierNeverFails(t *testing.T) {
	l := NewLadder(&fakeTier{name: "primary", fail: true}, "primary", LadderConfig{})
	l.AddTier("secondary", &fakeTier{name: "secondary", fail: true})
	l.SetTerminal("silence", &fakeTier{name: "silence"})

	got, used, err := Execute(l, synth)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got != "audio-from-silence" || used != "silence" {
		t.Fatalf("Execute() = (%q, %q), want terminal result", got, used)
	}
}

func TestLadderAllTiersFailedWithoutTerminal(t *testing.T) {
	l := NewLadder(&fakeTier{name: "primary", fail: true}, "primary", LadderConfig{})
	l.AddTier("secondary", &fakeTier{name: "secondary", fail: true})

	_, _, err := Execute(l, synth)
	if !errors.Is(err, ErrAllTiersFailed) {
		t.Fatalf("Execute() error = %v, want ErrAllTiersFailed", err)
	}
}

func TestLadderSkipsOpenBreaker(t *testing.T) {
	primary := &fakeTier{name: "primary", fail: true}
	l := NewLadder(primary, "primary", LadderConfig{
		CircuitBreaker: CircuitBreakerConfig{MaxFailures: 1},
	})
	l.AddTier("secondary", &fakeTier{name: "secondary"})

	// First call trips the primary breaker.
	if _, used, err := Execute(l, synth); err != nil || used != "secondary" {
		t.Fatalf("first Execute() = (used %q, err %v)", used, err)
	}

	// Primary is healthy again but its breaker is open, so it is skipped.
	primary.fail = false
	calls := 0
	_, used, err := Execute(l, func(f *fakeTier) (string, error) {
		calls++
		return synth(f)
	})
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if used != "secondary" || calls != 1 {
		t.Fatalf("second Execute() used %q with %d calls, want secondary with 1 call", used, calls)
	}
}

func TestLadderTierNames(t *testing.T) {
	l := NewLadder(&fakeTier{}, "cloud", LadderConfig{})
	l.AddTier("local", &fakeTier{})
	l.SetTerminal("silence", &fakeTier{})

	got := l.TierNames()
	if len(got) != 2 || got[0] != "cloud" || got[1] != "local" {
		t.Fatalf("TierNames() = %v, want [cloud local]", got)
	}
}
