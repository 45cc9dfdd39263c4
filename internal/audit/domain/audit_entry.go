// Package domain defines the core domain models for the encrypted audit
// trail. Audit entries are append-only: every inquiry produces exactly one
// entry, and entries are never updated or deleted.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// AuditEntry is one immutable record of a processed inquiry.
//
// The original user message is stored only as ciphertext, encrypted under a
// key derived for the entry's user at the recorded key version. The redacted
// message is stored in the clear, which is safe because the redaction already
// removed PII from it.
type AuditEntry struct {
	// ID is the unique identifier for this entry (UUIDv7, so ids are
	// time-ordered).
	ID uuid.UUID
	// UserID identifies the user the inquiry belongs to and selects the
	// derived encryption key.
	UserID string
	// EncryptedOriginal is the serialized encrypted payload of the original,
	// unredacted message.
	EncryptedOriginal string
	// RedactedMessage is the sanitized text that was sent downstream.
	RedactedMessage string
	// AIResponse is the downstream reply; nil when the invocation failed.
	AIResponse *string
	// Success records whether the downstream invocation succeeded.
	Success bool
	// KeyVersion is the master key version the original was encrypted under,
	// kept so rotation never strands old entries.
	KeyVersion uint
	// CreatedAt is the UTC timestamp when the entry was recorded.
	CreatedAt time.Time
}
