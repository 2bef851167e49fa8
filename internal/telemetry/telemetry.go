// Package telemetry sets up OpenTelemetry metrics for the gateway.
// Metrics are exported in the Prometheus format and served on /metrics when enabled.
package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Config holds the configuration for OpenTelemetry.
type Config struct {
	ServiceName string
	Enabled     bool
}

// Providers holds the initialized OpenTelemetry providers.
type Providers struct {
	Meter metric.Meter

	config        *Config
	meterProvider *sdkmetric.MeterProvider
}

// Init initializes the OpenTelemetry meter provider with a Prometheus exporter.
// If telemetry is disabled, a no-op meter is returned and nothing is registered globally.
func Init(ctx context.Context, c *Config) (*Providers, error) {
	if !c.Enabled {
		return &Providers{
			Meter:  noop.NewMeterProvider().Meter(c.ServiceName),
			config: c,
		}, nil
	}

	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(attribute.String("service.name", c.ServiceName)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create otel resource: %w", err)
	}

	// the exporter registers itself with the default prometheus registerer,
	// which is what promhttp.Handler() serves
	exporter, err := otelprom.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(exporter),
	)
	otel.SetMeterProvider(mp)

	return &Providers{
		Meter:         mp.Meter(c.ServiceName),
		config:        c,
		meterProvider: mp,
	}, nil
}

// IsEnabled returns true if telemetry is enabled.
func (p *Providers) IsEnabled() bool {
	return p != nil && p.config != nil && p.config.Enabled
}

// ServiceName returns the service name reported to the telemetry backend.
func (p *Providers) ServiceName() string {
	if p == nil || p.config == nil {
		return ""
	}
	return p.config.ServiceName
}

// Shutdown flushes and stops the meter provider.
func (p *Providers) Shutdown(ctx context.Context) error {
	if p == nil || p.meterProvider == nil {
		return nil
	}
	return p.meterProvider.Shutdown(ctx)
}
