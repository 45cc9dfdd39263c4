// Package http provides HTTP handlers for the inquiry pipeline: processing
// user inquiries and inspecting or resetting the AI backend circuit breaker.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/allisson/promptguard/internal/httputil"
	"github.com/allisson/promptguard/internal/inquiry/http/dto"
	inquiryUseCase "github.com/allisson/promptguard/internal/inquiry/usecase"
	customValidation "github.com/allisson/promptguard/internal/validation"
)

// InquiryHandler handles HTTP requests for inquiry processing and breaker
// administration.
type InquiryHandler struct {
	inquiryUseCase inquiryUseCase.InquiryUseCase
	logger         *slog.Logger
}

// NewInquiryHandler creates a new inquiry handler with required dependencies.
func NewInquiryHandler(
	useCase inquiryUseCase.InquiryUseCase,
	logger *slog.Logger,
) *InquiryHandler {
	return &InquiryHandler{
		inquiryUseCase: useCase,
		logger:         logger,
	}
}

// ProcessHandler runs the inquiry pipeline for one user message.
// POST /v1/inquiries
// Returns 200 OK with the AI reply and redaction summary, 503 when the
// breaker rejects the call, 502 when the AI backend fails.
func (h *InquiryHandler) ProcessHandler(c *gin.Context) {
	var req dto.ProcessInquiryRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	result, err := h.inquiryUseCase.Process(c.Request.Context(), req.UserID, req.Message)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapResultToProcessResponse(result))
}

// BreakerStatusHandler reports the current circuit breaker state.
// GET /v1/breaker
// Returns 200 OK with state, failure count, and last outcome timestamps.
func (h *InquiryHandler) BreakerStatusHandler(c *gin.Context) {
	status := h.inquiryUseCase.BreakerStatus()
	c.JSON(http.StatusOK, dto.MapStatusToBreakerResponse(status))
}

// BreakerResetHandler administratively resets the circuit breaker.
// POST /v1/breaker/reset
// Returns 200 OK with the post-reset breaker state.
func (h *InquiryHandler) BreakerResetHandler(c *gin.Context) {
	h.inquiryUseCase.ResetBreaker()
	h.logger.Warn("circuit breaker administratively reset")

	status := h.inquiryUseCase.BreakerStatus()
	c.JSON(http.StatusOK, dto.MapStatusToBreakerResponse(status))
}
