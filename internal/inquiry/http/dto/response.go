// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	inquiryDomain "github.com/allisson/promptguard/internal/inquiry/domain"
)

// RedactionItemResponse reports one redacted PII class and its occurrence count.
type RedactionItemResponse struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// ProcessInquiryResponse represents a processed inquiry in API responses.
// The original message is never echoed back; only the redacted form appears.
type ProcessInquiryResponse struct {
	Reply           string                  `json:"reply"`
	RedactedMessage string                  `json:"redacted_message"`
	Redactions      []RedactionItemResponse `json:"redactions"`
	Success         bool                    `json:"success"`
}

// MapResultToProcessResponse converts a domain inquiry result to an API response.
func MapResultToProcessResponse(result *inquiryDomain.InquiryResult) ProcessInquiryResponse {
	redactions := make([]RedactionItemResponse, 0, len(result.Redactions))
	for _, item := range result.Redactions {
		redactions = append(redactions, RedactionItemResponse{
			Type:  string(item.Type),
			Count: item.Count,
		})
	}

	return ProcessInquiryResponse{
		Reply:           result.Reply,
		RedactedMessage: result.RedactedMessage,
		Redactions:      redactions,
		Success:         result.Success,
	}
}

// BreakerStatusResponse represents the circuit breaker state in API responses.
// Timestamps are RFC 3339 UTC and null until the first corresponding outcome.
type BreakerStatusResponse struct {
	State       string  `json:"state"`
	Failures    int     `json:"failures"`
	LastFailure *string `json:"last_failure"`
	LastSuccess *string `json:"last_success"`
}

// MapStatusToBreakerResponse converts a domain breaker status to an API response.
func MapStatusToBreakerResponse(status inquiryDomain.BreakerStatus) BreakerStatusResponse {
	return BreakerStatusResponse{
		State:       string(status.State),
		Failures:    status.Failures,
		LastFailure: formatTimestamp(status.LastFailure),
		LastSuccess: formatTimestamp(status.LastSuccess),
	}
}

func formatTimestamp(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.UTC().Format(time.RFC3339)
	return &formatted
}
