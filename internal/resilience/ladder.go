package resilience

import (
	"errors"
	"fmt"
	"log/slog"
)

// ErrAllTiersFailed is returned when every tier in a [Ladder] without a
// terminal tier fails or has an open circuit breaker.
var ErrAllTiersFailed = errors.New("all fallback tiers failed")

// LadderConfig configures the per-tier circuit breaker created for each tier
// in a [Ladder].
type LadderConfig struct {
	CircuitBreaker CircuitBreakerConfig
}

// tier pairs a provider value with its dedicated circuit breaker.
type tier[T any] struct {
	name    string
	value   T
	breaker *CircuitBreaker
}

// Ladder is an ordered list of fallback tiers of the same provider type.
// Tiers are tried in registration order, each behind its own circuit
// breaker, until one succeeds. An optional terminal tier runs without a
// breaker and must not fail; with one set, the ladder as a whole cannot
// fail either.
//
// Ladder is safe for concurrent use once assembled; AddTier and SetTerminal
// are not safe to call concurrently with Execute.
type Ladder[T any] struct {
	tiers    []tier[T]
	terminal *tier[T]
	cfg      LadderConfig
}

// NewLadder creates a [Ladder] with primary as the first tier. Additional
// tiers are registered via [Ladder.AddTier] and [Ladder.SetTerminal].
func NewLadder[T any](primary T, primaryName string, cfg LadderConfig) *Ladder[T] {
	l := &Ladder[T]{cfg: cfg}
	l.AddTier(primaryName, primary)
	return l
}

// AddTier appends a fallback tier. Tiers are tried in the order added.
func (l *Ladder[T]) AddTier(name string, value T) {
	cbCfg := l.cfg.CircuitBreaker
	cbCfg.Name = name
	l.tiers = append(l.tiers, tier[T]{
		name:    name,
		value:   value,
		breaker: NewCircuitBreaker(cbCfg),
	})
}

// SetTerminal installs the always-succeeds tier tried after every regular
// tier has failed. It runs without a circuit breaker. A terminal tier whose
// fn still returns an error is a programming bug; the error is passed
// through so tests catch it.
func (l *Ladder[T]) SetTerminal(name string, value T) {
	l.terminal = &tier[T]{name: name, value: value}
}

// TierNames returns the names of the regular tiers in order, for logging
// and metrics.
func (l *Ladder[T]) TierNames() []string {
	names := make([]string, len(l.tiers))
	for i, t := range l.tiers {
		names[i] = t.name
	}
	return names
}

// Execute tries fn against each tier in order until one succeeds, returning
// the result and the name of the tier that produced it. Tiers with an open
// circuit breaker are skipped. When every regular tier fails, the terminal
// tier runs if present; otherwise [ErrAllTiersFailed] is returned wrapped
// with the last error.
//
// This is a package-level function because Go does not support method-level
// type parameters.
func Execute[T any, R any](l *Ladder[T], fn func(T) (R, error)) (R, string, error) {
	var (
		lastErr error
		zero    R
	)
	for i := range l.tiers {
		t := &l.tiers[i]
		var result R
		err := t.breaker.Execute(func() error {
			var innerErr error
			result, innerErr = fn(t.value)
			return innerErr
		})
		if err == nil {
			return result, t.name, nil
		}
		lastErr = err
		if errors.Is(err, ErrCircuitOpen) {
			slog.Debug("skipping tier (circuit open)", "tier", t.name)
		} else {
			slog.Warn("tier failed, trying next", "tier", t.name, "error", err)
		}
	}

	if l.terminal != nil {
		result, err := fn(l.terminal.value)
		if err != nil {
			return zero, l.terminal.name, fmt.Errorf("terminal tier %q failed: %w", l.terminal.name, err)
		}
		return result, l.terminal.name, nil
	}
	return zero, "", fmt.Errorf("%w: %v", ErrAllTiersFailed, lastErr)
}
