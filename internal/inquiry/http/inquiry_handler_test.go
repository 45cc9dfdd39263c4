package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/allisson/promptguard/internal/httputil"
	"github.com/allisson/promptguard/internal/inquiry/domain"
	"github.com/allisson/promptguard/internal/inquiry/http/dto"
)

// stubInquiryUseCase is a hand-rolled InquiryUseCase stub for handler tests.
type stubInquiryUseCase struct {
	result     *domain.InquiryResult
	processErr error
	status     domain.BreakerStatus
	resets     int

	gotUserID  string
	gotMessage string
}

func (s *stubInquiryUseCase) Process(
	ctx context.Context,
	userID string,
	message string,
) (*domain.InquiryResult, error) {
	s.gotUserID = userID
	s.gotMessage = message
	if s.processErr != nil {
		return nil, s.processErr
	}
	return s.result, nil
}

func (s *stubInquiryUseCase) BreakerStatus() domain.BreakerStatus {
	return s.status
}

func (s *stubInquiryUseCase) ResetBreaker() {
	s.resets++
	s.status = domain.BreakerStatus{State: domain.BreakerClosed}
}

func setupTestHandler(t *testing.T, useCase *stubInquiryUseCase) *InquiryHandler {
	t.Helper()

	gin.SetMode(gin.TestMode)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewInquiryHandler(useCase, logger)
}

func createTestContext(t *testing.T, method, target string, body any) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(method, target, reader)
	c.Request.Header.Set("Content-Type", "application/json")
	return c, recorder
}

func TestInquiryHandler_ProcessHandler(t *testing.T) {
	t.Run("returns reply and redaction summary", func(t *testing.T) {
		useCase := &stubInquiryUseCase{
			result: &domain.InquiryResult{
				Reply:           "AI response to: contact <REDACTED: EMAIL>",
				RedactedMessage: "contact <REDACTED: EMAIL>",
				Redactions: []domain.RedactionItem{
					{Type: domain.PIIClassEmail, Count: 1},
				},
				Success: true,
			},
		}
		handler := setupTestHandler(t, useCase)

		c, w := createTestContext(t, http.MethodPost, "/v1/inquiries", dto.ProcessInquiryRequest{
			UserID:  "user-1",
			Message: "contact john@example.com",
		})
		handler.ProcessHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "user-1", useCase.gotUserID)
		assert.Equal(t, "contact john@example.com", useCase.gotMessage)

		var response dto.ProcessInquiryResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, useCase.result.Reply, response.Reply)
		assert.Equal(t, useCase.result.RedactedMessage, response.RedactedMessage)
		require.Len(t, response.Redactions, 1)
		assert.Equal(t, "EMAIL", response.Redactions[0].Type)
		assert.Equal(t, 1, response.Redactions[0].Count)
		assert.True(t, response.Success)
	})

	t.Run("missing fields fail validation with 422", func(t *testing.T) {
		handler := setupTestHandler(t, &stubInquiryUseCase{})

		tests := []dto.ProcessInquiryRequest{
			{UserID: "", Message: "hello"},
			{UserID: "user-1", Message: ""},
			{UserID: "not a valid id!", Message: "hello"},
		}
		for _, request := range tests {
			c, w := createTestContext(t, http.MethodPost, "/v1/inquiries", request)
			handler.ProcessHandler(c)
			assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		}
	})

	t.Run("malformed JSON fails with 422", func(t *testing.T) {
		handler := setupTestHandler(t, &stubInquiryUseCase{})

		recorder := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(recorder)
		c.Request = httptest.NewRequest(http.MethodPost, "/v1/inquiries", bytes.NewReader([]byte("{not json")))
		c.Request.Header.Set("Content-Type", "application/json")

		handler.ProcessHandler(c)
		assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
	})

	t.Run("breaker rejection maps to 503", func(t *testing.T) {
		handler := setupTestHandler(t, &stubInquiryUseCase{
			processErr: domain.ErrServiceUnavailable,
		})

		c, w := createTestContext(t, http.MethodPost, "/v1/inquiries", dto.ProcessInquiryRequest{
			UserID:  "user-1",
			Message: "hello",
		})
		handler.ProcessHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)

		var body httputil.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "service_unavailable", body.Error)
	})

	t.Run("downstream failure maps to 502", func(t *testing.T) {
		handler := setupTestHandler(t, &stubInquiryUseCase{
			processErr: domain.ErrDownstreamFailure,
		})

		c, w := createTestContext(t, http.MethodPost, "/v1/inquiries", dto.ProcessInquiryRequest{
			UserID:  "user-1",
			Message: "hello",
		})
		handler.ProcessHandler(c)

		assert.Equal(t, http.StatusBadGateway, w.Code)

		var body httputil.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "upstream_error", body.Error)
	})
}

func TestInquiryHandler_BreakerStatusHandler(t *testing.T) {
	t.Run("reports state and timestamps", func(t *testing.T) {
		lastFailure := time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC)
		handler := setupTestHandler(t, &stubInquiryUseCase{
			status: domain.BreakerStatus{
				State:       domain.BreakerOpen,
				Failures:    3,
				LastFailure: &lastFailure,
			},
		})

		c, w := createTestContext(t, http.MethodGet, "/v1/breaker", nil)
		handler.BreakerStatusHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)

		var response dto.BreakerStatusResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "OPEN", response.State)
		assert.Equal(t, 3, response.Failures)
		require.NotNil(t, response.LastFailure)
		assert.Equal(t, "2026-08-25T12:00:00Z", *response.LastFailure)
		assert.Nil(t, response.LastSuccess)
	})

	t.Run("unset timestamps serialize as null", func(t *testing.T) {
		handler := setupTestHandler(t, &stubInquiryUseCase{
			status: domain.BreakerStatus{State: domain.BreakerClosed},
		})

		c, w := createTestContext(t, http.MethodGet, "/v1/breaker", nil)
		handler.BreakerStatusHandler(c)

		assert.Contains(t, w.Body.String(), `"last_failure":null`)
		assert.Contains(t, w.Body.String(), `"last_success":null`)
	})
}

func TestInquiryHandler_BreakerResetHandler(t *testing.T) {
	useCase := &stubInquiryUseCase{
		status: domain.BreakerStatus{State: domain.BreakerOpen, Failures: 3},
	}
	handler := setupTestHandler(t, useCase)

	c, w := createTestContext(t, http.MethodPost, "/v1/breaker/reset", nil)
	handler.BreakerResetHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, useCase.resets)

	var response dto.BreakerStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "CLOSED", response.State)
}
