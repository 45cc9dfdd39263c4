package domain

import "time"

// BreakerState represents the current state of the circuit breaker protecting
// the downstream AI backend.
type BreakerState string

const (
	// BreakerClosed indicates normal operation — calls flow downstream.
	BreakerClosed BreakerState = "CLOSED"
	// BreakerOpen indicates the downstream is failing — calls are rejected immediately.
	BreakerOpen BreakerState = "OPEN"
	// BreakerHalfOpen indicates the breaker is probing for recovery.
	BreakerHalfOpen BreakerState = "HALF_OPEN"
)

// BreakerStatus is a point-in-time snapshot of the breaker, taken after the
// lazy OPEN->HALF_OPEN transition check has been applied. Timestamps are nil
// when the corresponding outcome has never been recorded.
type BreakerStatus struct {
	State       BreakerState
	Failures    int
	LastFailure *time.Time
	LastSuccess *time.Time
}
