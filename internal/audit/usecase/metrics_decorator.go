package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/promptguard/internal/audit/domain"
	"github.com/allisson/promptguard/internal/metrics"
)

// auditUseCaseWithMetrics decorates AuditUseCase with metrics instrumentation.
type auditUseCaseWithMetrics struct {
	next    AuditUseCase
	metrics metrics.BusinessMetrics
}

// NewAuditUseCaseWithMetrics wraps an AuditUseCase with metrics recording.
func NewAuditUseCaseWithMetrics(useCase AuditUseCase, m metrics.BusinessMetrics) AuditUseCase {
	return &auditUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Record records metrics for audit entry recording operations.
func (a *auditUseCaseWithMetrics) Record(
	ctx context.Context,
	userID string,
	original string,
	redacted string,
	aiResponse *string,
	success bool,
) (*auditDomain.AuditEntry, error) {
	start := time.Now()
	entry, err := a.next.Record(ctx, userID, original, redacted, aiResponse, success)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "audit", "audit_record", status)
	a.metrics.RecordDuration(ctx, "audit", "audit_record", time.Since(start), status)

	return entry, err
}

// ListByUser records metrics for per-user audit listing operations.
func (a *auditUseCaseWithMetrics) ListByUser(
	ctx context.Context,
	userID string,
	limit int,
) ([]*auditDomain.AuditEntry, error) {
	start := time.Now()
	entries, err := a.next.ListByUser(ctx, userID, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "audit", "audit_list_by_user", status)
	a.metrics.RecordDuration(ctx, "audit", "audit_list_by_user", time.Since(start), status)

	return entries, err
}

// ListAll records metrics for global audit listing operations.
func (a *auditUseCaseWithMetrics) ListAll(
	ctx context.Context,
	limit int,
) ([]*auditDomain.AuditEntry, error) {
	start := time.Now()
	entries, err := a.next.ListAll(ctx, limit)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "audit", "audit_list_all", status)
	a.metrics.RecordDuration(ctx, "audit", "audit_list_all", time.Since(start), status)

	return entries, err
}

// Decrypt records metrics for audit entry decryption operations.
func (a *auditUseCaseWithMetrics) Decrypt(
	ctx context.Context,
	entryID uuid.UUID,
	userID string,
) (string, error) {
	start := time.Now()
	plaintext, err := a.next.Decrypt(ctx, entryID, userID)

	status := "success"
	if err != nil {
		status = "error"
	}

	a.metrics.RecordOperation(ctx, "audit", "audit_decrypt", status)
	a.metrics.RecordDuration(ctx, "audit", "audit_decrypt", time.Since(start), status)

	return plaintext, err
}
