package telemetry

import (
	"fmt"

	"go.opentelemetry.io/contrib/instrumentation/runtime"
	"go.opentelemetry.io/otel/sdk/metric"
)

// InitTelemetry wires up business metrics and Go runtime instrumentation
// against the given meter provider.
func InitTelemetry(provider *metric.MeterProvider) error {
	if err := InitBusinessMetrics(provider); err != nil {
		return fmt.Errorf("failed to initialize business metrics: %w", err)
	}

	if err := runtime.Start(runtime.WithMeterProvider(provider)); err != nil {
		return fmt.Errorf("failed to start runtime instrumentation: %w", err)
	}

	return nil
}
