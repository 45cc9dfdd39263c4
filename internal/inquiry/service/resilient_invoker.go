package service

import (
	"context"
	"fmt"
	"time"

	inquiryDomain "github.com/allisson/promptguard/internal/inquiry/domain"
)

// ResilientInvoker wraps the downstream AI capability with the circuit
// breaker: check the breaker, make the call outside the breaker lock, record
// the outcome before returning.
type ResilientInvoker struct {
	client  AIClient
	breaker *CircuitBreaker
	// invokeTimeout bounds a single downstream call; a timeout counts as a
	// failure outcome. Zero disables the bound.
	invokeTimeout time.Duration
}

// NewResilientInvoker creates a ResilientInvoker around the given client and breaker.
func NewResilientInvoker(
	client AIClient,
	breaker *CircuitBreaker,
	invokeTimeout time.Duration,
) *ResilientInvoker {
	return &ResilientInvoker{
		client:        client,
		breaker:       breaker,
		invokeTimeout: invokeTimeout,
	}
}

// Invoke sends the (already redacted) message downstream.
//
// When the breaker is open the call is rejected immediately with
// ErrServiceUnavailable — no downstream call, no delay. An attempted call
// that fails (including a timeout) is recorded against the breaker and
// returned as ErrDownstreamFailure, a distinct error kind: the former means
// the call was never made, the latter that it was made and failed.
func (r *ResilientInvoker) Invoke(ctx context.Context, message string) (string, error) {
	if !r.breaker.Allow() {
		return "", inquiryDomain.ErrServiceUnavailable
	}

	if r.invokeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.invokeTimeout)
		defer cancel()
	}

	response, err := r.client.Invoke(ctx, message)
	if err != nil {
		r.breaker.RecordFailure()
		return "", fmt.Errorf("%w: %v", inquiryDomain.ErrDownstreamFailure, err)
	}

	r.breaker.RecordSuccess()
	return response, nil
}

// Status reports the breaker's current logical state.
func (r *ResilientInvoker) Status() inquiryDomain.BreakerStatus {
	return r.breaker.Status()
}

// Reset administratively resets the breaker to its initial state.
func (r *ResilientInvoker) Reset() {
	r.breaker.Reset()
}
