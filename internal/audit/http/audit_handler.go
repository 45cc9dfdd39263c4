// Package http provides HTTP handlers for the encrypted audit trail.
// Listing endpoints return ciphertext intact; decryption is a separate,
// explicit operation.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/promptguard/internal/audit/http/dto"
	auditUseCase "github.com/allisson/promptguard/internal/audit/usecase"
	"github.com/allisson/promptguard/internal/httputil"
	customValidation "github.com/allisson/promptguard/internal/validation"
)

// AuditHandler handles HTTP requests for audit trail operations.
type AuditHandler struct {
	auditUseCase auditUseCase.AuditUseCase
	logger       *slog.Logger
}

// NewAuditHandler creates a new audit handler with required dependencies.
func NewAuditHandler(useCase auditUseCase.AuditUseCase, logger *slog.Logger) *AuditHandler {
	return &AuditHandler{
		auditUseCase: useCase,
		logger:       logger,
	}
}

// ListHandler retrieves the newest audit entries across all users.
// GET /v1/audit/entries?limit=50
// Returns 200 OK with entries newest first; originals stay encrypted.
func (h *AuditHandler) ListHandler(c *gin.Context) {
	limit, err := httputil.ParseLimit(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	entries, err := h.auditUseCase.ListAll(c.Request.Context(), limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEntriesToListResponse(entries))
}

// ListByUserHandler retrieves the newest audit entries for one user.
// GET /v1/audit/users/:user_id/entries?limit=50
// Returns 200 OK with the user's entries newest first.
func (h *AuditHandler) ListByUserHandler(c *gin.Context) {
	userID := c.Param("user_id")
	if err := customValidation.UserID.Validate(userID); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	limit, err := httputil.ParseLimit(c)
	if err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	entries, err := h.auditUseCase.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEntriesToListResponse(entries))
}

// DecryptHandler recovers the original message of one audit entry.
// POST /v1/audit/entries/:id/decrypt
// Returns 200 OK with the plaintext original. A user mismatch fails the
// authenticated decryption and maps to 422, never to another user's data.
func (h *AuditHandler) DecryptHandler(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleValidationErrorGin(
			c,
			fmt.Errorf("invalid entry id: must be a UUID"),
			h.logger,
		)
		return
	}

	var req dto.DecryptAuditEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	plaintext, err := h.auditUseCase.Decrypt(c.Request.Context(), entryID, req.UserID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	h.logger.Info(
		"audit entry decrypted",
		slog.String("entry_id", entryID.String()),
		slog.String("user_id", req.UserID),
	)

	c.JSON(http.StatusOK, dto.DecryptAuditEntryResponse{
		ID:              entryID.String(),
		UserID:          req.UserID,
		OriginalMessage: plaintext,
	})
}
