// Package usecase implements business logic orchestration for the encrypted
// audit trail.
//
// The use case layer coordinates between the message cipher (per-user
// authenticated encryption) and the audit entry repository (append-only
// persistence). Entries are immutable: recording appends, listing reads
// ciphertext intact, and decryption is an explicit, separate operation that
// recomputes the derived key on demand.
package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/promptguard/internal/audit/domain"
	cryptoDomain "github.com/allisson/promptguard/internal/crypto/domain"
	cryptoService "github.com/allisson/promptguard/internal/crypto/service"
)

// auditUseCase implements the AuditUseCase interface.
type auditUseCase struct {
	repo   AuditEntryRepository
	cipher cryptoService.MessageCipher
}

// Record encrypts the original message under the current master key version
// and appends an immutable audit entry.
//
// The entry's KeyVersion is taken from the encrypted payload, so rotating the
// current master key never changes how existing entries decrypt. Crypto
// failures surface as ErrKeyUnavailable and repository failures as
// ErrPersistenceFailed; the inquiry orchestrator logs either and continues.
func (a *auditUseCase) Record(
	ctx context.Context,
	userID string,
	original string,
	redacted string,
	aiResponse *string,
	success bool,
) (*auditDomain.AuditEntry, error) {
	payload, err := a.cipher.Encrypt([]byte(original), userID)
	if err != nil {
		return nil, err
	}

	entry := &auditDomain.AuditEntry{
		ID:                uuid.Must(uuid.NewV7()),
		UserID:            userID,
		EncryptedOriginal: payload.String(),
		RedactedMessage:   redacted,
		AIResponse:        aiResponse,
		Success:           success,
		KeyVersion:        payload.KeyVersion,
		CreatedAt:         time.Now().UTC(),
	}

	if err := a.repo.Create(ctx, entry); err != nil {
		return nil, err
	}

	return entry, nil
}

// ListByUser returns the user's newest entries first.
func (a *auditUseCase) ListByUser(
	ctx context.Context,
	userID string,
	limit int,
) ([]*auditDomain.AuditEntry, error) {
	return a.repo.ListByUser(ctx, userID, limit)
}

// ListAll returns the newest entries across all users.
func (a *auditUseCase) ListAll(ctx context.Context, limit int) ([]*auditDomain.AuditEntry, error) {
	return a.repo.ListAll(ctx, limit)
}

// Decrypt recovers the original message of a single audit entry.
//
// The stored payload carries the key version it was encrypted under, so the
// derived key is recomputed for that version regardless of the chain's
// current version. Supplying a userID other than the entry's owner derives a
// different key and the authenticated decryption fails closed.
func (a *auditUseCase) Decrypt(
	ctx context.Context,
	entryID uuid.UUID,
	userID string,
) (string, error) {
	entry, err := a.repo.Get(ctx, entryID)
	if err != nil {
		return "", err
	}

	payload, err := cryptoDomain.NewEncryptedPayload(entry.EncryptedOriginal)
	if err != nil {
		return "", err
	}

	plaintext, err := a.cipher.Decrypt(payload, userID)
	if err != nil {
		return "", err
	}

	return string(plaintext), nil
}

// NewAuditUseCase creates a new audit use case instance with the provided dependencies.
func NewAuditUseCase(
	repo AuditEntryRepository,
	cipher cryptoService.MessageCipher,
) AuditUseCase {
	return &auditUseCase{
		repo:   repo,
		cipher: cipher,
	}
}
