// Package usecase implements the inquiry pipeline orchestration.
//
// The use case ties the three pipeline stages together: the sanitizer redacts
// PII before anything leaves the process, the resilient invoker guards the AI
// backend with a circuit breaker, and the audit trail records every outcome.
// The audit write is deliberately last and non-fatal: a broken audit store is
// logged loudly but never turns a successful reply into a user-facing error.
package usecase

import (
	"context"
	"log/slog"

	auditUsecase "github.com/allisson/promptguard/internal/audit/usecase"
	inquiryDomain "github.com/allisson/promptguard/internal/inquiry/domain"
	inquiryService "github.com/allisson/promptguard/internal/inquiry/service"
)

// inquiryUseCase implements the InquiryUseCase interface.
type inquiryUseCase struct {
	sanitizer *inquiryService.Sanitizer
	invoker   *inquiryService.ResilientInvoker
	audit     auditUsecase.AuditUseCase
	logger    *slog.Logger
}

// Process runs the pipeline for one inquiry.
//
// The AI backend only ever receives the redacted text. Whatever the
// invocation outcome, an audit entry is recorded with the encrypted original:
// a breaker rejection or downstream failure is auditable history just like a
// success. The pipeline error (if any) is returned after the audit attempt so
// the caller can map it to a transport status.
func (i *inquiryUseCase) Process(
	ctx context.Context,
	userID string,
	message string,
) (*inquiryDomain.InquiryResult, error) {
	sanitized := i.sanitizer.Sanitize(message)

	reply, invokeErr := i.invoker.Invoke(ctx, sanitized.RedactedText)

	var aiResponse *string
	if invokeErr == nil {
		aiResponse = &reply
	}

	if _, err := i.audit.Record(
		ctx,
		userID,
		message,
		sanitized.RedactedText,
		aiResponse,
		invokeErr == nil,
	); err != nil {
		i.logger.Error(
			"audit trail write failed",
			slog.String("user_id", userID),
			slog.Bool("inquiry_success", invokeErr == nil),
			slog.Any("error", err),
		)
	}

	if invokeErr != nil {
		return nil, invokeErr
	}

	return &inquiryDomain.InquiryResult{
		Reply:           reply,
		RedactedMessage: sanitized.RedactedText,
		Redactions:      sanitized.Items,
		Success:         true,
	}, nil
}

// BreakerStatus reports the breaker's current logical state.
func (i *inquiryUseCase) BreakerStatus() inquiryDomain.BreakerStatus {
	return i.invoker.Status()
}

// ResetBreaker restores the breaker to its initial state.
func (i *inquiryUseCase) ResetBreaker() {
	i.invoker.Reset()
}

// NewInquiryUseCase creates a new inquiry use case instance with the provided dependencies.
func NewInquiryUseCase(
	sanitizer *inquiryService.Sanitizer,
	invoker *inquiryService.ResilientInvoker,
	audit auditUsecase.AuditUseCase,
	logger *slog.Logger,
) InquiryUseCase {
	return &inquiryUseCase{
		sanitizer: sanitizer,
		invoker:   invoker,
		audit:     audit,
		logger:    logger,
	}
}
