package domain

import (
	"github.com/allisson/promptguard/internal/errors"
)

// Inquiry pipeline error definitions.
//
// These domain-specific errors wrap standard errors from internal/errors
// to provide context for resilience failures. The two kinds are deliberately
// distinct: ErrServiceUnavailable means the breaker rejected the call without
// attempting it; ErrDownstreamFailure means the call was attempted and failed.
var (
	// ErrServiceUnavailable indicates the circuit breaker is open and the
	// downstream call was rejected outright. Transient; callers should back
	// off and retry later.
	//
	// HTTP Status: 503 Service Unavailable
	ErrServiceUnavailable = errors.Wrap(errors.ErrUnavailable, "ai backend circuit open")

	// ErrDownstreamFailure indicates the downstream AI call was attempted and
	// failed (error, timeout, or simulated failure). May be retried by policy
	// outside the pipeline.
	//
	// HTTP Status: 502 Bad Gateway
	ErrDownstreamFailure = errors.Wrap(errors.ErrUpstream, "ai backend call failed")
)
