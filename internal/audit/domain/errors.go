package domain

import (
	apperrors "github.com/allisson/promptguard/internal/errors"
)

var (
	// ErrAuditEntryNotFound is returned when an audit entry lookup matches no row.
	ErrAuditEntryNotFound = apperrors.Wrap(apperrors.ErrNotFound, "audit entry not found")
	// ErrPersistenceFailed is returned when the audit store rejects an append
	// or query. Callers on the inquiry path log it and continue; the audit
	// trail must never mask a successful reply.
	ErrPersistenceFailed = apperrors.Wrap(apperrors.ErrInternal, "audit persistence failed")
)
