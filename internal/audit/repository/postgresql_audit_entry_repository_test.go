package repository

import (
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/promptguard/internal/audit/domain"
	apperrors "github.com/allisson/promptguard/internal/errors"
)

var auditEntryColumns = []string{
	"id", "user_id", "encrypted_original", "redacted_message",
	"ai_response", "success", "key_version", "created_at",
}

func newTestAuditEntry(userID string) *auditDomain.AuditEntry {
	response := "AI response to: hello"
	return &auditDomain.AuditEntry{
		ID:                uuid.Must(uuid.NewV7()),
		UserID:            userID,
		EncryptedOriginal: "v1:bm9uY2U=:Y2lwaGVydGV4dA==:dGFn",
		RedactedMessage:   "hello <REDACTED: EMAIL>",
		AIResponse:        &response,
		Success:           true,
		KeyVersion:        1,
		CreatedAt:         time.Now().UTC(),
	}
}

func entryRow(entry *auditDomain.AuditEntry) *sqlmock.Rows {
	return sqlmock.NewRows(auditEntryColumns).AddRow(
		entry.ID,
		entry.UserID,
		entry.EncryptedOriginal,
		entry.RedactedMessage,
		entry.AIResponse,
		entry.Success,
		entry.KeyVersion,
		entry.CreatedAt,
	)
}

func TestPostgreSQLAuditEntryRepository_Create(t *testing.T) {
	t.Run("inserts all entry fields", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLAuditEntryRepository(db)
		entry := newTestAuditEntry("user-1")

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_entries")).
			WithArgs(
				entry.ID,
				entry.UserID,
				entry.EncryptedOriginal,
				entry.RedactedMessage,
				entry.AIResponse,
				entry.Success,
				entry.KeyVersion,
				entry.CreatedAt,
			).
			WillReturnResult(sqlmock.NewResult(1, 1))

		require.NoError(t, repo.Create(t.Context(), entry))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("insert failure maps to persistence error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLAuditEntryRepository(db)
		entry := newTestAuditEntry("user-1")
		entry.AIResponse = nil
		entry.Success = false

		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO audit_entries")).
			WillReturnError(fmt.Errorf("connection refused"))

		err = repo.Create(t.Context(), entry)
		require.Error(t, err)
		assert.ErrorIs(t, err, auditDomain.ErrPersistenceFailed)
	})
}

func TestPostgreSQLAuditEntryRepository_Get(t *testing.T) {
	t.Run("returns the matching entry", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLAuditEntryRepository(db)
		entry := newTestAuditEntry("user-1")

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, encrypted_original")).
			WithArgs(entry.ID).
			WillReturnRows(entryRow(entry))

		got, err := repo.Get(t.Context(), entry.ID)
		require.NoError(t, err)
		assert.Equal(t, entry.ID, got.ID)
		assert.Equal(t, entry.UserID, got.UserID)
		assert.Equal(t, entry.EncryptedOriginal, got.EncryptedOriginal)
		assert.Equal(t, entry.KeyVersion, got.KeyVersion)
	})

	t.Run("missing entry maps to not found", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLAuditEntryRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, user_id, encrypted_original")).
			WillReturnRows(sqlmock.NewRows(auditEntryColumns))

		_, err = repo.Get(t.Context(), uuid.Must(uuid.NewV7()))
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrNotFound)
	})
}

func TestPostgreSQLAuditEntryRepository_ListByUser(t *testing.T) {
	t.Run("queries by user with limit", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLAuditEntryRepository(db)
		first := newTestAuditEntry("user-1")
		second := newTestAuditEntry("user-1")

		// Newest first: the repository orders by id DESC.
		rows := entryRow(second).AddRow(
			first.ID,
			first.UserID,
			first.EncryptedOriginal,
			first.RedactedMessage,
			first.AIResponse,
			first.Success,
			first.KeyVersion,
			first.CreatedAt,
		)

		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY id DESC")).
			WithArgs("user-1", 50).
			WillReturnRows(rows)

		entries, err := repo.ListByUser(t.Context(), "user-1", 50)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, second.ID, entries[0].ID)
		assert.Equal(t, first.ID, entries[1].ID)
	})

	t.Run("no entries returns an empty slice", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLAuditEntryRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY id DESC")).
			WithArgs("user-2", 50).
			WillReturnRows(sqlmock.NewRows(auditEntryColumns))

		entries, err := repo.ListByUser(t.Context(), "user-2", 50)
		require.NoError(t, err)
		assert.NotNil(t, entries)
		assert.Empty(t, entries)
	})
}

func TestPostgreSQLAuditEntryRepository_ListAll(t *testing.T) {
	t.Run("queries across users with limit", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLAuditEntryRepository(db)
		entry := newTestAuditEntry("user-1")

		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY id DESC")).
			WithArgs(10).
			WillReturnRows(entryRow(entry))

		entries, err := repo.ListAll(t.Context(), 10)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, entry.ID, entries[0].ID)
	})

	t.Run("query failure maps to persistence error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		repo := NewPostgreSQLAuditEntryRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("ORDER BY id DESC")).
			WillReturnError(fmt.Errorf("connection refused"))

		_, err = repo.ListAll(t.Context(), 10)
		require.Error(t, err)
		assert.ErrorIs(t, err, auditDomain.ErrPersistenceFailed)
	})
}
