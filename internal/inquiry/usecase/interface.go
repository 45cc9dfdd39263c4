package usecase

import (
	"context"

	inquiryDomain "github.com/allisson/promptguard/internal/inquiry/domain"
)

// InquiryUseCase defines the interface for the inquiry processing pipeline.
type InquiryUseCase interface {
	// Process runs the full pipeline for one user inquiry: redact PII, invoke
	// the AI backend with the redacted text, and record an audit entry for the
	// outcome. An audit entry is written on every outcome, including breaker
	// rejections and downstream failures.
	Process(ctx context.Context, userID, message string) (*inquiryDomain.InquiryResult, error)

	// BreakerStatus reports the current logical state of the AI backend
	// circuit breaker.
	BreakerStatus() inquiryDomain.BreakerStatus

	// ResetBreaker administratively restores the breaker to its initial state.
	ResetBreaker()
}
