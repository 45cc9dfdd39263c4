// Package dto provides data transfer objects for HTTP request and response handling.
package dto

import (
	"time"

	auditDomain "github.com/allisson/promptguard/internal/audit/domain"
)

// AuditEntryResponse represents an audit entry in API responses.
// The original message appears only as ciphertext; decryption is a separate,
// explicit operation.
type AuditEntryResponse struct {
	ID                string    `json:"id"`
	UserID            string    `json:"user_id"`
	EncryptedOriginal string    `json:"encrypted_original"`
	RedactedMessage   string    `json:"redacted_message"`
	AIResponse        *string   `json:"ai_response"`
	Success           bool      `json:"success"`
	KeyVersion        uint      `json:"key_version"`
	CreatedAt         time.Time `json:"created_at"`
}

// ListAuditEntriesResponse represents a list of audit entries in API responses.
type ListAuditEntriesResponse struct {
	Data []AuditEntryResponse `json:"data"`
}

// DecryptAuditEntryResponse represents a decrypted audit entry original.
// SECURITY: OriginalMessage contains recovered PII and must only be served
// over trusted channels.
type DecryptAuditEntryResponse struct {
	ID              string `json:"id"`
	UserID          string `json:"user_id"`
	OriginalMessage string `json:"original_message"`
}

// MapEntryToResponse converts a domain audit entry to an API response.
func MapEntryToResponse(entry *auditDomain.AuditEntry) AuditEntryResponse {
	return AuditEntryResponse{
		ID:                entry.ID.String(),
		UserID:            entry.UserID,
		EncryptedOriginal: entry.EncryptedOriginal,
		RedactedMessage:   entry.RedactedMessage,
		AIResponse:        entry.AIResponse,
		Success:           entry.Success,
		KeyVersion:        entry.KeyVersion,
		CreatedAt:         entry.CreatedAt,
	}
}

// MapEntriesToListResponse converts a slice of domain audit entries to a list response.
func MapEntriesToListResponse(entries []*auditDomain.AuditEntry) ListAuditEntriesResponse {
	data := make([]AuditEntryResponse, 0, len(entries))
	for _, entry := range entries {
		data = append(data, MapEntryToResponse(entry))
	}

	return ListAuditEntriesResponse{
		Data: data,
	}
}
