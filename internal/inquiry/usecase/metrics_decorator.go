package usecase

import (
	"context"
	"time"

	inquiryDomain "github.com/allisson/promptguard/internal/inquiry/domain"
	"github.com/allisson/promptguard/internal/metrics"
)

// inquiryUseCaseWithMetrics decorates InquiryUseCase with metrics instrumentation.
type inquiryUseCaseWithMetrics struct {
	next    InquiryUseCase
	metrics metrics.BusinessMetrics
}

// NewInquiryUseCaseWithMetrics wraps an InquiryUseCase with metrics recording.
func NewInquiryUseCaseWithMetrics(useCase InquiryUseCase, m metrics.BusinessMetrics) InquiryUseCase {
	return &inquiryUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Process records metrics for inquiry pipeline runs.
func (i *inquiryUseCaseWithMetrics) Process(
	ctx context.Context,
	userID string,
	message string,
) (*inquiryDomain.InquiryResult, error) {
	start := time.Now()
	result, err := i.next.Process(ctx, userID, message)

	status := "success"
	if err != nil {
		status = "error"
	}

	i.metrics.RecordOperation(ctx, "inquiry", "inquiry_process", status)
	i.metrics.RecordDuration(ctx, "inquiry", "inquiry_process", time.Since(start), status)

	return result, err
}

// BreakerStatus delegates to the wrapped use case.
func (i *inquiryUseCaseWithMetrics) BreakerStatus() inquiryDomain.BreakerStatus {
	return i.next.BreakerStatus()
}

// ResetBreaker records metrics for administrative breaker resets.
func (i *inquiryUseCaseWithMetrics) ResetBreaker() {
	i.next.ResetBreaker()
	i.metrics.RecordOperation(context.Background(), "inquiry", "breaker_reset", "success")
}
