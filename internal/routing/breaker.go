package routing

import (
	"sync"
	"time"
)

// BreakerState is one of the three states of the process-wide circuit
// breaker (spec §4.7 "Circuit breaker"). No circuit-breaker library
// appears anywhere in the retrieved example pack, so this state machine is
// implemented directly against the spec's exact thresholds, following the
// same per-field sync.Mutex discipline the teacher used for its Graph type.
type BreakerState int

const (
	StateClosed BreakerState = iota
	StateOpen
	StateHalfOpen
)

// Breaker is a process-wide three-state circuit breaker: CLOSED by default,
// OPEN after `threshold` consecutive failures, and HALF_OPEN after `timeout`
// has elapsed since opening — allowing exactly the next request through.
type Breaker struct {
	mu          sync.Mutex
	state       BreakerState
	failures    int
	lastFailure time.Time
	threshold   int
	timeout     time.Duration
	halfOpenInFlight bool
}

// NewBreaker constructs a CLOSED breaker with the given failure threshold
// and open-state timeout.
func NewBreaker(threshold int, timeout time.Duration) *Breaker {
	return &Breaker{threshold: threshold, timeout: timeout}
}

// Allow reports whether a request may proceed. In OPEN state, it checks
// whether the timeout has elapsed; if so it transitions to HALF_OPEN and
// allows exactly one in-flight trial request through.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateClosed:
		return true
	case StateHalfOpen:
		if b.halfOpenInFlight {
			return false
		}
		b.halfOpenInFlight = true
		return true
	case StateOpen:
		if time.Since(b.lastFailure) >= b.timeout {
			b.state = StateHalfOpen
			b.halfOpenInFlight = true
			return true
		}
		return false
	default:
		return false
	}
}

// RecordSuccess resets the breaker to CLOSED.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.state = StateClosed
	b.failures = 0
	b.halfOpenInFlight = false
}

// RecordFailure increments the failure counter, opening the breaker once
// the threshold is reached, or immediately reopening it from HALF_OPEN.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.lastFailure = time.Now()
	b.halfOpenInFlight = false

	if b.state == StateHalfOpen {
		b.state = StateOpen
		return
	}

	b.failures++
	if b.failures >= b.threshold {
		b.state = StateOpen
	}
}

// State returns the current state, for diagnostics and tests.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
