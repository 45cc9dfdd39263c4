package usecase

import (
	"context"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/promptguard/internal/audit/domain"
)

// AuditEntryRepository defines the interface for audit entry persistence.
type AuditEntryRepository interface {
	Create(ctx context.Context, entry *auditDomain.AuditEntry) error
	Get(ctx context.Context, entryID uuid.UUID) (*auditDomain.AuditEntry, error)
	ListByUser(ctx context.Context, userID string, limit int) ([]*auditDomain.AuditEntry, error)
	ListAll(ctx context.Context, limit int) ([]*auditDomain.AuditEntry, error)
}

// AuditUseCase defines the interface for the encrypted audit trail.
type AuditUseCase interface {
	// Record encrypts the original message for the user and appends an audit
	// entry. aiResponse is nil when the downstream invocation failed.
	Record(
		ctx context.Context,
		userID string,
		original string,
		redacted string,
		aiResponse *string,
		success bool,
	) (*auditDomain.AuditEntry, error)

	// ListByUser returns the user's newest entries first; ciphertext is
	// returned intact, never decrypted on the list path.
	ListByUser(ctx context.Context, userID string, limit int) ([]*auditDomain.AuditEntry, error)

	// ListAll returns the newest entries across all users.
	ListAll(ctx context.Context, limit int) ([]*auditDomain.AuditEntry, error)

	// Decrypt recovers the original message of an entry. The caller supplies
	// the user the entry is expected to belong to; a mismatch fails the
	// authenticated decryption rather than leaking another user's plaintext.
	Decrypt(ctx context.Context, entryID uuid.UUID, userID string) (string, error)
}
