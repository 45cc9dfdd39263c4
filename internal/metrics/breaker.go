package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/metric"
)

// BreakerObserver reports the current breaker state code and consecutive
// failure count. State codes: 0 closed, 1 half-open, 2 open.
type BreakerObserver func() (state, failures int64)

// RegisterBreakerGauges registers observable gauges for the circuit breaker
// state and consecutive failure count. The observer is invoked on every
// metrics collection.
func RegisterBreakerGauges(meterProvider metric.MeterProvider, namespace string, observe BreakerObserver) error {
	meter := meterProvider.Meter(namespace)

	stateGauge, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_circuit_breaker_state", namespace),
		metric.WithDescription("Circuit breaker state (0 closed, 1 half-open, 2 open)"),
	)
	if err != nil {
		return fmt.Errorf("failed to create breaker state gauge: %w", err)
	}

	failuresGauge, err := meter.Int64ObservableGauge(
		fmt.Sprintf("%s_circuit_breaker_failures", namespace),
		metric.WithDescription("Consecutive downstream failures recorded by the circuit breaker"),
		metric.WithUnit("{failure}"),
	)
	if err != nil {
		return fmt.Errorf("failed to create breaker failures gauge: %w", err)
	}

	_, err = meter.RegisterCallback(func(ctx context.Context, o metric.Observer) error {
		state, failures := observe()
		o.ObserveInt64(stateGauge, state)
		o.ObserveInt64(failuresGauge, failures)
		return nil
	}, stateGauge, failuresGauge)
	if err != nil {
		return fmt.Errorf("failed to register breaker gauges callback: %w", err)
	}

	return nil
}
