package app

import (
	"fmt"

	inquiryDomain "github.com/allisson/promptguard/internal/inquiry/domain"
	inquiryHTTP "github.com/allisson/promptguard/internal/inquiry/http"
	inquiryService "github.com/allisson/promptguard/internal/inquiry/service"
	inquiryUseCase "github.com/allisson/promptguard/internal/inquiry/usecase"
	"github.com/allisson/promptguard/internal/metrics"
)

// Sanitizer returns the PII sanitizer service.
func (c *Container) Sanitizer() *inquiryService.Sanitizer {
	c.sanitizerInit.Do(func() {
		c.sanitizer = inquiryService.NewSanitizer()
	})
	return c.sanitizer
}

// AIClient returns the downstream AI backend client.
func (c *Container) AIClient() inquiryService.AIClient {
	c.aiClientInit.Do(func() {
		c.aiClient = c.initAIClient()
	})
	return c.aiClient
}

// CircuitBreaker returns the circuit breaker guarding the AI backend.
func (c *Container) CircuitBreaker() *inquiryService.CircuitBreaker {
	c.circuitBreakerInit.Do(func() {
		c.circuitBreaker = c.initCircuitBreaker()
	})
	return c.circuitBreaker
}

// ResilientInvoker returns the breaker-guarded AI invoker.
func (c *Container) ResilientInvoker() *inquiryService.ResilientInvoker {
	c.resilientInvokerInit.Do(func() {
		c.resilientInvoker = c.initResilientInvoker()
	})
	return c.resilientInvoker
}

// InquiryUseCase returns the inquiry processing use case.
func (c *Container) InquiryUseCase() (inquiryUseCase.InquiryUseCase, error) {
	var err error
	c.inquiryUseCaseInit.Do(func() {
		c.inquiryUC, err = c.initInquiryUseCase()
		if err != nil {
			c.initErrors["inquiryUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["inquiryUseCase"]; exists {
		return nil, storedErr
	}
	return c.inquiryUC, nil
}

// InquiryHandler returns the inquiry HTTP handler.
func (c *Container) InquiryHandler() (*inquiryHTTP.InquiryHandler, error) {
	var err error
	c.inquiryHandlerInit.Do(func() {
		c.inquiryHandler, err = c.initInquiryHandler()
		if err != nil {
			c.initErrors["inquiryHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["inquiryHandler"]; exists {
		return nil, storedErr
	}
	return c.inquiryHandler, nil
}

// initAIClient creates the mock AI backend client from configuration.
func (c *Container) initAIClient() inquiryService.AIClient {
	return inquiryService.NewMockAIClient(inquiryService.MockAIClientConfig{
		Latency:     c.config.AIBackendLatency,
		FailureRate: c.config.AIBackendFailureRate,
		Seed:        c.config.AIBackendSeed,
	})
}

// initCircuitBreaker creates the circuit breaker from configuration.
func (c *Container) initCircuitBreaker() *inquiryService.CircuitBreaker {
	return inquiryService.NewCircuitBreaker(inquiryService.CircuitBreakerConfig{
		FailureThreshold: c.config.BreakerFailureThreshold,
		ResetTimeout:     c.config.BreakerResetTimeout,
	})
}

// initResilientInvoker creates the breaker-guarded invoker around the AI client.
func (c *Container) initResilientInvoker() *inquiryService.ResilientInvoker {
	return inquiryService.NewResilientInvoker(c.AIClient(), c.CircuitBreaker(), c.config.AIInvokeTimeout)
}

// initInquiryUseCase creates the inquiry use case with all its dependencies.
func (c *Container) initInquiryUseCase() (inquiryUseCase.InquiryUseCase, error) {
	audit, err := c.AuditUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get audit use case for inquiry use case: %w", err)
	}

	invoker := c.ResilientInvoker()
	useCase := inquiryUseCase.NewInquiryUseCase(c.Sanitizer(), invoker, audit, c.Logger())

	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for inquiry use case: %w", err)
		}
		useCase = inquiryUseCase.NewInquiryUseCaseWithMetrics(useCase, businessMetrics)

		provider, err := c.MetricsProvider()
		if err != nil {
			return nil, fmt.Errorf("failed to get metrics provider for breaker gauges: %w", err)
		}
		err = metrics.RegisterBreakerGauges(provider.MeterProvider(), c.config.MetricsNamespace, func() (int64, int64) {
			status := invoker.Status()
			var state int64
			switch status.State {
			case inquiryDomain.BreakerHalfOpen:
				state = 1
			case inquiryDomain.BreakerOpen:
				state = 2
			}
			return state, int64(status.Failures)
		})
		if err != nil {
			return nil, fmt.Errorf("failed to register breaker gauges: %w", err)
		}
	}

	return useCase, nil
}

// initInquiryHandler creates the inquiry HTTP handler.
func (c *Container) initInquiryHandler() (*inquiryHTTP.InquiryHandler, error) {
	useCase, err := c.InquiryUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get inquiry use case for inquiry handler: %w", err)
	}
	return inquiryHTTP.NewInquiryHandler(useCase, c.Logger()), nil
}
