package service

import (
	"sync"
	"time"

	inquiryDomain "github.com/allisson/promptguard/internal/inquiry/domain"
)

// CircuitBreakerConfig configures the breaker protecting the AI backend.
type CircuitBreakerConfig struct {
	// FailureThreshold is the number of consecutive failures before opening
	// the circuit. Default: 3.
	FailureThreshold int
	// ResetTimeout is how long the circuit stays open before a status read or
	// invocation moves it to half-open. Default: 30s.
	ResetTimeout time.Duration
}

// DefaultCircuitBreakerConfig returns the default breaker parameters.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold: 3,
		ResetTimeout:     30 * time.Second,
	}
}

// CircuitBreaker is a consecutive-failure circuit breaker with a lazy,
// pull-based OPEN->HALF_OPEN transition: no background timer runs, the
// time-based check happens at the start of every allowance check and status
// read.
//
// The state is owned by the instance (no package-level globals), so multiple
// independent breakers — e.g. one per downstream dependency — can coexist.
// A single mutex guards every read-then-write step (transition check, outcome
// recording, reset); the downstream call itself runs outside the lock, so
// concurrent callers only serialize on the cheap bookkeeping around it.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	// now is swapped out in tests to drive time-based transitions.
	now func() time.Time

	mu          sync.Mutex
	state       inquiryDomain.BreakerState
	failures    int
	lastFailure *time.Time
	lastSuccess *time.Time
}

// NewCircuitBreaker creates a breaker in the initial state (CLOSED, zero
// failures, no recorded outcomes).
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 3
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 30 * time.Second
	}

	return &CircuitBreaker{
		config: config,
		now:    time.Now,
		state:  inquiryDomain.BreakerClosed,
	}
}

// Allow reports whether a downstream call may proceed right now, applying the
// lazy OPEN->HALF_OPEN transition first. Atomic with respect to concurrent
// Allow/Record/Reset calls.
//
// When it returns false the breaker is open and the caller must reject the
// call immediately — this path performs no I/O and no delay, so an open
// breaker sheds load instead of compounding it.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.maybeHalfOpenLocked()
	return cb.state != inquiryDomain.BreakerOpen
}

// RecordSuccess records a successful downstream outcome.
//
// In CLOSED, a single success clears accumulated failures (consecutive-failure
// policy, not a sliding window). In HALF_OPEN, the trial call succeeded and
// the breaker closes. failures is reset to 0 on every transition into CLOSED.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.now()
	cb.lastSuccess = &now
	cb.failures = 0
	cb.state = inquiryDomain.BreakerClosed
}

// RecordFailure records a failed downstream outcome.
//
// In CLOSED, reaching the failure threshold opens the circuit. In HALF_OPEN,
// the trial call failed and the breaker reopens immediately, without needing
// to re-reach the threshold.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.now()
	cb.lastFailure = &now
	cb.failures++

	switch cb.state {
	case inquiryDomain.BreakerHalfOpen:
		cb.state = inquiryDomain.BreakerOpen
	case inquiryDomain.BreakerClosed:
		if cb.failures >= cb.config.FailureThreshold {
			cb.state = inquiryDomain.BreakerOpen
		}
	}
}

// Status returns a snapshot of the breaker, applying the same lazy
// OPEN->HALF_OPEN check as Allow so status reads reflect the current logical
// state even with no intervening invocation.
func (cb *CircuitBreaker) Status() inquiryDomain.BreakerStatus {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.maybeHalfOpenLocked()

	status := inquiryDomain.BreakerStatus{
		State:    cb.state,
		Failures: cb.failures,
	}
	if cb.lastFailure != nil {
		t := *cb.lastFailure
		status.LastFailure = &t
	}
	if cb.lastSuccess != nil {
		t := *cb.lastSuccess
		status.LastSuccess = &t
	}
	return status
}

// Reset unconditionally returns the breaker to the initial state. Used for
// administrative recovery and test isolation.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = inquiryDomain.BreakerClosed
	cb.failures = 0
	cb.lastFailure = nil
	cb.lastSuccess = nil
}

// maybeHalfOpenLocked applies the lazy time-based transition. Caller MUST
// hold cb.mu.
func (cb *CircuitBreaker) maybeHalfOpenLocked() {
	if cb.state != inquiryDomain.BreakerOpen || cb.lastFailure == nil {
		return
	}
	if cb.now().Sub(*cb.lastFailure) >= cb.config.ResetTimeout {
		cb.state = inquiryDomain.BreakerHalfOpen
	}
}
