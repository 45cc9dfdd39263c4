package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/promptguard/internal/audit/domain"
	cryptoDomain "github.com/allisson/promptguard/internal/crypto/domain"
	cryptoService "github.com/allisson/promptguard/internal/crypto/service"
	apperrors "github.com/allisson/promptguard/internal/errors"
)

// memoryAuditEntryRepository is an in-memory AuditEntryRepository for tests.
// Entries are kept in append order; listings return newest first.
type memoryAuditEntryRepository struct {
	entries   []*auditDomain.AuditEntry
	createErr error
}

func (m *memoryAuditEntryRepository) Create(ctx context.Context, entry *auditDomain.AuditEntry) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memoryAuditEntryRepository) Get(
	ctx context.Context,
	entryID uuid.UUID,
) (*auditDomain.AuditEntry, error) {
	for _, entry := range m.entries {
		if entry.ID == entryID {
			return entry, nil
		}
	}
	return nil, auditDomain.ErrAuditEntryNotFound
}

func (m *memoryAuditEntryRepository) ListByUser(
	ctx context.Context,
	userID string,
	limit int,
) ([]*auditDomain.AuditEntry, error) {
	result := []*auditDomain.AuditEntry{}
	for i := len(m.entries) - 1; i >= 0 && len(result) < limit; i-- {
		if m.entries[i].UserID == userID {
			result = append(result, m.entries[i])
		}
	}
	return result, nil
}

func (m *memoryAuditEntryRepository) ListAll(
	ctx context.Context,
	limit int,
) ([]*auditDomain.AuditEntry, error) {
	result := []*auditDomain.AuditEntry{}
	for i := len(m.entries) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.entries[i])
	}
	return result, nil
}

func newTestAuditUseCase(t *testing.T) (AuditUseCase, *memoryAuditEntryRepository) {
	t.Helper()

	chain := cryptoDomain.NewDevMasterKeyChain(1)
	t.Cleanup(chain.Close)

	repo := &memoryAuditEntryRepository{}
	return NewAuditUseCase(repo, cryptoService.NewMessageCipher(chain)), repo
}

func TestAuditUseCase_Record(t *testing.T) {
	t.Run("persists an encrypted immutable entry", func(t *testing.T) {
		useCase, repo := newTestAuditUseCase(t)
		response := "AI response to: hello <REDACTED: EMAIL>"

		entry, err := useCase.Record(
			t.Context(),
			"user-1",
			"hello john@example.com",
			"hello <REDACTED: EMAIL>",
			&response,
			true,
		)
		require.NoError(t, err)

		require.Len(t, repo.entries, 1)
		assert.Equal(t, entry, repo.entries[0])
		assert.NotEqual(t, uuid.Nil, entry.ID)
		assert.Equal(t, "user-1", entry.UserID)
		assert.Equal(t, "hello <REDACTED: EMAIL>", entry.RedactedMessage)
		assert.Equal(t, &response, entry.AIResponse)
		assert.True(t, entry.Success)
		assert.Equal(t, uint(1), entry.KeyVersion)
		assert.False(t, entry.CreatedAt.IsZero())

		// The original never appears in the stored form.
		assert.NotContains(t, entry.EncryptedOriginal, "john@example.com")

		payload, err := cryptoDomain.NewEncryptedPayload(entry.EncryptedOriginal)
		require.NoError(t, err)
		assert.Equal(t, uint(1), payload.KeyVersion)
	})

	t.Run("failed invocation is recorded without a response", func(t *testing.T) {
		useCase, repo := newTestAuditUseCase(t)

		entry, err := useCase.Record(t.Context(), "user-1", "hello", "hello", nil, false)
		require.NoError(t, err)

		require.Len(t, repo.entries, 1)
		assert.Nil(t, entry.AIResponse)
		assert.False(t, entry.Success)
	})

	t.Run("repository failure surfaces to the caller", func(t *testing.T) {
		chain := cryptoDomain.NewDevMasterKeyChain(1)
		t.Cleanup(chain.Close)

		repo := &memoryAuditEntryRepository{
			createErr: auditDomain.ErrPersistenceFailed,
		}
		useCase := NewAuditUseCase(repo, cryptoService.NewMessageCipher(chain))

		_, err := useCase.Record(t.Context(), "user-1", "hello", "hello", nil, false)
		require.Error(t, err)
		assert.ErrorIs(t, err, auditDomain.ErrPersistenceFailed)
	})
}

func TestAuditUseCase_Listing(t *testing.T) {
	useCase, _ := newTestAuditUseCase(t)

	for i := range 3 {
		_, err := useCase.Record(
			t.Context(),
			"user-1",
			fmt.Sprintf("message %d", i),
			fmt.Sprintf("message %d", i),
			nil,
			false,
		)
		require.NoError(t, err)
	}
	_, err := useCase.Record(t.Context(), "user-2", "other", "other", nil, false)
	require.NoError(t, err)

	t.Run("list by user returns only that user's entries newest first", func(t *testing.T) {
		entries, err := useCase.ListByUser(t.Context(), "user-1", 50)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, "message 2", entries[0].RedactedMessage)
		assert.Equal(t, "message 0", entries[2].RedactedMessage)
	})

	t.Run("list by user honors the limit", func(t *testing.T) {
		entries, err := useCase.ListByUser(t.Context(), "user-1", 1)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, "message 2", entries[0].RedactedMessage)
	})

	t.Run("list all spans users newest first", func(t *testing.T) {
		entries, err := useCase.ListAll(t.Context(), 50)
		require.NoError(t, err)
		require.Len(t, entries, 4)
		assert.Equal(t, "user-2", entries[0].UserID)
	})
}

func TestAuditUseCase_Decrypt(t *testing.T) {
	t.Run("recovers the original message", func(t *testing.T) {
		useCase, _ := newTestAuditUseCase(t)
		original := "hello john@example.com my ssn is 123-45-6789"

		entry, err := useCase.Record(
			t.Context(),
			"user-1",
			original,
			"hello <REDACTED: EMAIL> my ssn is <REDACTED: SSN>",
			nil,
			false,
		)
		require.NoError(t, err)

		plaintext, err := useCase.Decrypt(t.Context(), entry.ID, "user-1")
		require.NoError(t, err)
		assert.Equal(t, original, plaintext)
	})

	t.Run("wrong user fails closed", func(t *testing.T) {
		useCase, _ := newTestAuditUseCase(t)

		entry, err := useCase.Record(t.Context(), "user-1", "secret message", "secret message", nil, false)
		require.NoError(t, err)

		_, err = useCase.Decrypt(t.Context(), entry.ID, "user-2")
		require.Error(t, err)
		assert.ErrorIs(t, err, cryptoDomain.ErrDecryptionFailed)
	})

	t.Run("unknown entry maps to not found", func(t *testing.T) {
		useCase, _ := newTestAuditUseCase(t)

		_, err := useCase.Decrypt(t.Context(), uuid.Must(uuid.NewV7()), "user-1")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})

	t.Run("decrypts entries recorded under a rotated-out version", func(t *testing.T) {
		// Build a two-version chain whose version 1 matches the dev chain, so
		// an entry recorded with the old chain still decrypts under the new one.
		oldChain := cryptoDomain.NewDevMasterKeyChain(1)
		t.Cleanup(oldChain.Close)

		repo := &memoryAuditEntryRepository{}
		useCase := NewAuditUseCase(repo, cryptoService.NewMessageCipher(oldChain))

		entry, err := useCase.Record(t.Context(), "user-1", "pre-rotation", "pre-rotation", nil, false)
		require.NoError(t, err)
		require.Equal(t, uint(1), entry.KeyVersion)

		newChain := cryptoDomain.NewDevMasterKeyChain(2)
		t.Cleanup(newChain.Close)
		rotated := NewAuditUseCase(repo, cryptoService.NewMessageCipher(newChain))

		plaintext, err := rotated.Decrypt(t.Context(), entry.ID, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "pre-rotation", plaintext)
	})
}
