package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/promptguard/internal/audit/domain"
	"github.com/allisson/promptguard/internal/database"
	apperrors "github.com/allisson/promptguard/internal/errors"
)

// MySQLAuditEntryRepository implements AuditEntry persistence for MySQL databases.
type MySQLAuditEntryRepository struct {
	db *sql.DB
}

// Create appends a new audit entry.
func (m *MySQLAuditEntryRepository) Create(ctx context.Context, entry *auditDomain.AuditEntry) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO audit_entries (id, user_id, encrypted_original, redacted_message, ai_response, success, key_version, created_at)
			  VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := querier.ExecContext(
		ctx,
		query,
		entry.ID.String(),
		entry.UserID,
		entry.EncryptedOriginal,
		entry.RedactedMessage,
		entry.AIResponse,
		entry.Success,
		entry.KeyVersion,
		entry.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(auditDomain.ErrPersistenceFailed, err.Error())
	}
	return nil
}

// Get retrieves a single audit entry by its ID.
func (m *MySQLAuditEntryRepository) Get(
	ctx context.Context,
	entryID uuid.UUID,
) (*auditDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, user_id, encrypted_original, redacted_message, ai_response, success, key_version, created_at
			  FROM audit_entries
			  WHERE id = ?
			  LIMIT 1`

	var entry auditDomain.AuditEntry
	err := querier.QueryRowContext(ctx, query, entryID.String()).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.EncryptedOriginal,
		&entry.RedactedMessage,
		&entry.AIResponse,
		&entry.Success,
		&entry.KeyVersion,
		&entry.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, auditDomain.ErrAuditEntryNotFound
		}
		return nil, apperrors.Wrap(auditDomain.ErrPersistenceFailed, err.Error())
	}

	return &entry, nil
}

// ListByUser retrieves the newest entries for a user, most recent first.
func (m *MySQLAuditEntryRepository) ListByUser(
	ctx context.Context,
	userID string,
	limit int,
) ([]*auditDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, user_id, encrypted_original, redacted_message, ai_response, success, key_version, created_at
			  FROM audit_entries
			  WHERE user_id = ?
			  ORDER BY id DESC
			  LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, apperrors.Wrap(auditDomain.ErrPersistenceFailed, err.Error())
	}
	defer rows.Close()

	return scanAuditEntries(rows)
}

// ListAll retrieves the newest entries across all users, most recent first.
func (m *MySQLAuditEntryRepository) ListAll(
	ctx context.Context,
	limit int,
) ([]*auditDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, user_id, encrypted_original, redacted_message, ai_response, success, key_version, created_at
			  FROM audit_entries
			  ORDER BY id DESC
			  LIMIT ?`

	rows, err := querier.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.Wrap(auditDomain.ErrPersistenceFailed, err.Error())
	}
	defer rows.Close()

	return scanAuditEntries(rows)
}

// NewMySQLAuditEntryRepository creates a new MySQL AuditEntry repository instance.
func NewMySQLAuditEntryRepository(db *sql.DB) *MySQLAuditEntryRepository {
	return &MySQLAuditEntryRepository{db: db}
}
