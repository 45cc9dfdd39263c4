package usecase

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/promptguard/internal/audit/domain"
	auditUsecase "github.com/allisson/promptguard/internal/audit/usecase"
	cryptoDomain "github.com/allisson/promptguard/internal/crypto/domain"
	cryptoService "github.com/allisson/promptguard/internal/crypto/service"
	apperrors "github.com/allisson/promptguard/internal/errors"
	inquiryDomain "github.com/allisson/promptguard/internal/inquiry/domain"
	inquiryService "github.com/allisson/promptguard/internal/inquiry/service"
)

// stubAIClient returns canned outcomes in order and records the messages it
// was invoked with.
type stubAIClient struct {
	outcomes []error
	messages []string
}

func (c *stubAIClient) Invoke(ctx context.Context, message string) (string, error) {
	call := len(c.messages)
	c.messages = append(c.messages, message)
	if call < len(c.outcomes) && c.outcomes[call] != nil {
		return "", c.outcomes[call]
	}
	return fmt.Sprintf("AI response to: %s", message), nil
}

// memoryAuditRepo is an in-memory audit entry store for pipeline tests.
type memoryAuditRepo struct {
	entries   []*auditDomain.AuditEntry
	createErr error
}

func (m *memoryAuditRepo) Create(ctx context.Context, entry *auditDomain.AuditEntry) error {
	if m.createErr != nil {
		return m.createErr
	}
	m.entries = append(m.entries, entry)
	return nil
}

func (m *memoryAuditRepo) Get(ctx context.Context, entryID uuid.UUID) (*auditDomain.AuditEntry, error) {
	for _, entry := range m.entries {
		if entry.ID == entryID {
			return entry, nil
		}
	}
	return nil, auditDomain.ErrAuditEntryNotFound
}

func (m *memoryAuditRepo) ListByUser(
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

func (m *memoryAuditRepo) ListAll(ctx context.Context, limit int) ([]*auditDomain.AuditEntry, error) {
	result := []*auditDomain.AuditEntry{}
	for i := len(m.entries) - 1; i >= 0 && len(result) < limit; i-- {
		result = append(result, m.entries[i])
	}
	return result, nil
}

type pipelineFixture struct {
	useCase InquiryUseCase
	client  *stubAIClient
	repo    *memoryAuditRepo
	audit   auditUsecase.AuditUseCase
}

func newPipelineFixture(t *testing.T, outcomes ...error) *pipelineFixture {
	t.Helper()

	chain := cryptoDomain.NewDevMasterKeyChain(1)
	t.Cleanup(chain.Close)

	client := &stubAIClient{outcomes: outcomes}
	repo := &memoryAuditRepo{}
	audit := auditUsecase.NewAuditUseCase(repo, cryptoService.NewMessageCipher(chain))
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	useCase := NewInquiryUseCase(
		inquiryService.NewSanitizer(),
		inquiryService.NewResilientInvoker(
			client,
			inquiryService.NewCircuitBreaker(inquiryService.DefaultCircuitBreakerConfig()),
			0,
		),
		audit,
		logger,
	)

	return &pipelineFixture{useCase: useCase, client: client, repo: repo, audit: audit}
}

func TestInquiryUseCase_Process(t *testing.T) {
	backendErr := fmt.Errorf("ai backend processing error")

	t.Run("redacts before invoking and returns the reply", func(t *testing.T) {
		fixture := newPipelineFixture(t)

		result, err := fixture.useCase.Process(
			t.Context(),
			"user-1",
			"Contact me at john@example.com, card 4111-1111-1111-1111, SSN 123-45-6789",
		)
		require.NoError(t, err)

		// The backend saw only the redacted text.
		require.Len(t, fixture.client.messages, 1)
		assert.NotContains(t, fixture.client.messages[0], "john@example.com")
		assert.NotContains(t, fixture.client.messages[0], "4111-1111-1111-1111")
		assert.NotContains(t, fixture.client.messages[0], "123-45-6789")

		assert.True(t, result.Success)
		assert.Equal(t, "AI response to: "+result.RedactedMessage, result.Reply)
		require.Len(t, result.Redactions, 3)
		assert.Equal(t, inquiryDomain.PIIClassEmail, result.Redactions[0].Type)
		assert.Equal(t, inquiryDomain.PIIClassCreditCard, result.Redactions[1].Type)
		assert.Equal(t, inquiryDomain.PIIClassSSN, result.Redactions[2].Type)
	})

	t.Run("successful outcome writes an audit entry", func(t *testing.T) {
		fixture := newPipelineFixture(t)

		result, err := fixture.useCase.Process(t.Context(), "user-1", "my email is john@example.com")
		require.NoError(t, err)

		require.Len(t, fixture.repo.entries, 1)
		entry := fixture.repo.entries[0]
		assert.Equal(t, "user-1", entry.UserID)
		assert.Equal(t, result.RedactedMessage, entry.RedactedMessage)
		assert.True(t, entry.Success)
		require.NotNil(t, entry.AIResponse)
		assert.Equal(t, result.Reply, *entry.AIResponse)

		// The stored original decrypts back to the unredacted message.
		plaintext, err := fixture.audit.Decrypt(t.Context(), entry.ID, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "my email is john@example.com", plaintext)
	})

	t.Run("downstream failure is audited and surfaced", func(t *testing.T) {
		fixture := newPipelineFixture(t, backendErr)

		_, err := fixture.useCase.Process(t.Context(), "user-1", "hello")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrUpstream)

		require.Len(t, fixture.repo.entries, 1)
		entry := fixture.repo.entries[0]
		assert.False(t, entry.Success)
		assert.Nil(t, entry.AIResponse)
	})

	t.Run("breaker rejection is audited and surfaced as unavailable", func(t *testing.T) {
		fixture := newPipelineFixture(t, backendErr, backendErr, backendErr)

		for range 3 {
			_, _ = fixture.useCase.Process(t.Context(), "user-1", "hello")
		}
		require.Equal(t, inquiryDomain.BreakerOpen, fixture.useCase.BreakerStatus().State)

		_, err := fixture.useCase.Process(t.Context(), "user-1", "hello")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperrors.ErrUnavailable)

		// Three attempted calls plus one rejection: four audit entries, and
		// the backend never saw the fourth message.
		assert.Len(t, fixture.repo.entries, 4)
		assert.Len(t, fixture.client.messages, 3)
		assert.False(t, fixture.repo.entries[3].Success)
	})

	t.Run("audit failure never masks a successful reply", func(t *testing.T) {
		chain := cryptoDomain.NewDevMasterKeyChain(1)
		t.Cleanup(chain.Close)

		client := &stubAIClient{}
		repo := &memoryAuditRepo{createErr: auditDomain.ErrPersistenceFailed}
		useCase := NewInquiryUseCase(
			inquiryService.NewSanitizer(),
			inquiryService.NewResilientInvoker(
				client,
				inquiryService.NewCircuitBreaker(inquiryService.DefaultCircuitBreakerConfig()),
				0,
			),
			auditUsecase.NewAuditUseCase(repo, cryptoService.NewMessageCipher(chain)),
			slog.New(slog.NewTextHandler(io.Discard, nil)),
		)

		result, err := useCase.Process(t.Context(), "user-1", "hello")
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, "AI response to: hello", result.Reply)
	})
}

func TestInquiryUseCase_Breaker(t *testing.T) {
	backendErr := fmt.Errorf("ai backend processing error")

	t.Run("status reflects recorded outcomes", func(t *testing.T) {
		fixture := newPipelineFixture(t, backendErr)

		_, _ = fixture.useCase.Process(t.Context(), "user-1", "hello")

		status := fixture.useCase.BreakerStatus()
		assert.Equal(t, inquiryDomain.BreakerClosed, status.State)
		assert.Equal(t, 1, status.Failures)
		assert.NotNil(t, status.LastFailure)
	})

	t.Run("reset restores service immediately", func(t *testing.T) {
		fixture := newPipelineFixture(t, backendErr, backendErr, backendErr)

		for range 3 {
			_, _ = fixture.useCase.Process(t.Context(), "user-1", "hello")
		}
		require.Equal(t, inquiryDomain.BreakerOpen, fixture.useCase.BreakerStatus().State)

		fixture.useCase.ResetBreaker()
		assert.Equal(t, inquiryDomain.BreakerClosed, fixture.useCase.BreakerStatus().State)

		result, err := fixture.useCase.Process(t.Context(), "user-1", "hello")
		require.NoError(t, err)
		assert.True(t, result.Success)
	})
}
