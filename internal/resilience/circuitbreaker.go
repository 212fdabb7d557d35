// Package resilience provides the restart-supervision primitives used by the
// analyzer pipeline: a three-state circuit breaker that stops the pipeline
// from respawning a persistently broken analyzer binary, and an exponential
// backoff schedule for the attempts the breaker does allow.
//
// All types are safe for concurrent use unless noted otherwise.
package resilience

import (
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrCircuitOpen is returned by [CircuitBreaker.Execute] while the breaker is
// open and the reset timeout has not yet elapsed.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State is the current operating mode of a [CircuitBreaker].
type State int

const (
	// StateClosed forwards all calls. This is the normal state.
	StateClosed State = iota

	// StateOpen rejects calls with [ErrCircuitOpen] until the reset timeout
	// elapses. Entered after too many consecutive failures.
	StateOpen

	// StateHalfOpen lets a single probe call through after the reset timeout.
	// Success closes the breaker; failure re-opens it.
	StateHalfOpen
)

// String returns the human-readable name of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreakerConfig holds the tuning knobs for a [CircuitBreaker].
// Zero-value fields get defaults in [NewCircuitBreaker].
type CircuitBreakerConfig struct {
	// Name labels the breaker in log messages (e.g. "analyzer").
	Name string

	// MaxFailures is how many consecutive failures trip the breaker open.
	// Default: 5.
	MaxFailures int

	// ResetTimeout is how long the breaker stays open before allowing a
	// probe. Default: 30s.
	ResetTimeout time.Duration
}

// CircuitBreaker implements the closed → open → half-open breaker pattern
// with a single probe call in the half-open state.
type CircuitBreaker struct {
	name         string
	maxFailures  int
	resetTimeout time.Duration

	mu          sync.Mutex
	state       State
	failures    int
	lastFailure time.Time
	probing     bool
}

// NewCircuitBreaker creates a breaker from cfg, substituting defaults for
// zero-value fields.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.ResetTimeout <= 0 {
		cfg.ResetTimeout = 30 * time.Second
	}
	return &CircuitBreaker{
		name:         cfg.Name,
		maxFailures:  cfg.MaxFailures,
		resetTimeout: cfg.ResetTimeout,
		state:        StateClosed,
	}
}

// Execute runs fn if the breaker allows it. In the open state it returns
// [ErrCircuitOpen] without calling fn; in the half-open state only the first
// caller gets through as the probe.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	cb.mu.Lock()
	switch cb.state {
	case StateOpen:
		if time.Since(cb.lastFailure) < cb.resetTimeout {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		cb.state = StateHalfOpen
		cb.probing = false
		slog.Info("circuit breaker half-open", "name", cb.name)
		fallthrough

	case StateHalfOpen:
		if cb.probing {
			cb.mu.Unlock()
			return ErrCircuitOpen
		}
		cb.probing = true
	}
	inProbe := cb.state == StateHalfOpen
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()

	if err != nil {
		cb.lastFailure = time.Now()
		if inProbe {
			cb.state = StateOpen
			cb.probing = false
			slog.Warn("circuit breaker re-opened after failed probe", "name", cb.name)
			return err
		}
		cb.failures++
		if cb.failures >= cb.maxFailures {
			cb.state = StateOpen
			slog.Warn("circuit breaker opened",
				"name", cb.name,
				"consecutive_failures", cb.failures)
		}
		return err
	}

	if inProbe {
		slog.Info("circuit breaker closed after successful probe", "name", cb.name)
	}
	cb.state = StateClosed
	cb.failures = 0
	cb.probing = false
	return nil
}

// State returns the breaker's current state. An open breaker whose reset
// timeout has elapsed is reported half-open; the actual transition happens
// on the next Execute call.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == StateOpen && time.Since(cb.lastFailure) >= cb.resetTimeout {
		return StateHalfOpen
	}
	return cb.state
}

// Reset forces the breaker back to closed and clears the failure count.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	cb.state = StateClosed
	cb.failures = 0
	cb.probing = false
}
