package service

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"
)

// AIClient is the downstream AI capability the pipeline invokes. The message
// passed in is always the redacted text; implementations never see the
// original. Any returned error is a recordable failure for breaker purposes.
type AIClient interface {
	Invoke(ctx context.Context, message string) (string, error)
}

// MockAIClientConfig configures the simulated AI backend.
type MockAIClientConfig struct {
	// Latency is the simulated processing delay per invocation.
	Latency time.Duration
	// FailureRate is the probability [0,1] that an invocation fails.
	FailureRate float64
	// Seed seeds the failure decisions. Zero means a time-based seed.
	Seed int64
}

// MockAIClient simulates a downstream AI backend with a fixed processing
// delay and a randomized failure decision.
//
// The random source is seedable and the sleep function injectable, so tests
// can drive the failure sequence and skip real delays deterministically.
type MockAIClient struct {
	config MockAIClientConfig

	mu  sync.Mutex
	rng *rand.Rand

	// sleep is swapped out in tests to avoid real delays.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewMockAIClient creates a mock AI backend with the provided configuration.
func NewMockAIClient(config MockAIClientConfig) *MockAIClient {
	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &MockAIClient{
		config: config,
		rng:    rand.New(rand.NewSource(seed)),
		sleep:  sleepContext,
	}
}

// Invoke simulates one downstream call: wait out the configured latency, then
// fail with the configured probability. Context cancellation during the delay
// is returned as an error and therefore counts as a failure outcome.
func (m *MockAIClient) Invoke(ctx context.Context, message string) (string, error) {
	if err := m.sleep(ctx, m.config.Latency); err != nil {
		return "", err
	}

	m.mu.Lock()
	failed := m.rng.Float64() < m.config.FailureRate
	m.mu.Unlock()

	if failed {
		return "", fmt.Errorf("ai backend processing error")
	}

	return fmt.Sprintf("AI response to: %s", message), nil
}

// sleepContext sleeps for d or until the context is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
