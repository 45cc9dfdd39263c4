// Package repository implements audit entry persistence. Repositories support
// both PostgreSQL and MySQL; entries are append-only and listed newest first.
package repository

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/promptguard/internal/audit/domain"
	"github.com/allisson/promptguard/internal/database"
	apperrors "github.com/allisson/promptguard/internal/errors"
)

// PostgreSQLAuditEntryRepository implements AuditEntry persistence for PostgreSQL databases.
type PostgreSQLAuditEntryRepository struct {
	db *sql.DB
}

// Create appends a new audit entry.
func (p *PostgreSQLAuditEntryRepository) Create(ctx context.Context, entry *auditDomain.AuditEntry) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO audit_entries (id, user_id, encrypted_original, redacted_message, ai_response, success, key_version, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := querier.ExecContext(
		ctx,
		query,
		entry.ID,
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
func (p *PostgreSQLAuditEntryRepository) Get(
	ctx context.Context,
	entryID uuid.UUID,
) (*auditDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, encrypted_original, redacted_message, ai_response, success, key_version, created_at
			  FROM audit_entries
			  WHERE id = $1
			  LIMIT 1`

	var entry auditDomain.AuditEntry
	err := querier.QueryRowContext(ctx, query, entryID).Scan(
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
func (p *PostgreSQLAuditEntryRepository) ListByUser(
	ctx context.Context,
	userID string,
	limit int,
) ([]*auditDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, p.db)

	// UUIDv7 ids are time-ordered, so id DESC is newest first.
	query := `SELECT id, user_id, encrypted_original, redacted_message, ai_response, success, key_version, created_at
			  FROM audit_entries
			  WHERE user_id = $1
			  ORDER BY id DESC
			  LIMIT $2`

	rows, err := querier.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, apperrors.Wrap(auditDomain.ErrPersistenceFailed, err.Error())
	}
	defer rows.Close()

	return scanAuditEntries(rows)
}

// ListAll retrieves the newest entries across all users, most recent first.
func (p *PostgreSQLAuditEntryRepository) ListAll(
	ctx context.Context,
	limit int,
) ([]*auditDomain.AuditEntry, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, encrypted_original, redacted_message, ai_response, success, key_version, created_at
			  FROM audit_entries
			  ORDER BY id DESC
			  LIMIT $1`

	rows, err := querier.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, apperrors.Wrap(auditDomain.ErrPersistenceFailed, err.Error())
	}
	defer rows.Close()

	return scanAuditEntries(rows)
}

// scanAuditEntries collects audit entries from an executed query.
func scanAuditEntries(rows *sql.Rows) ([]*auditDomain.AuditEntry, error) {
	entries := []*auditDomain.AuditEntry{}
	for rows.Next() {
		var entry auditDomain.AuditEntry
		err := rows.Scan(
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
			return nil, apperrors.Wrap(auditDomain.ErrPersistenceFailed, err.Error())
		}
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(auditDomain.ErrPersistenceFailed, err.Error())
	}

	return entries, nil
}

// NewPostgreSQLAuditEntryRepository creates a new PostgreSQL AuditEntry repository instance.
func NewPostgreSQLAuditEntryRepository(db *sql.DB) *PostgreSQLAuditEntryRepository {
	return &PostgreSQLAuditEntryRepository{db: db}
}
