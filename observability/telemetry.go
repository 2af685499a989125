package observability

import (
	"context"
	"errors"
	"fmt"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/zillusion/capsule/component"
	"github.com/zillusion/capsule/logger"
)

var _ component.Component = (*Telemetry)(nil)

// Telemetry owns the tracer and meter providers for the process lifetime.
type Telemetry struct {
	cfg  Config
	info ServiceInfo
	log  *logger.Logger
	tp   *sdktrace.TracerProvider
	mp   *sdkmetric.MeterProvider
}

// New creates a Telemetry component. Nothing is exported until Start.
func New(cfg Config, info ServiceInfo, log *logger.Logger) *Telemetry {
	return &Telemetry{cfg: cfg, info: info, log: log.WithComponent("telemetry")}
}

func (t *Telemetry) Name() string { return "telemetry" }

// Start installs the OTLP providers globally when enabled.
func (t *Telemetry) Start(ctx context.Context) error {
	if !t.cfg.Enabled {
		t.log.Debug("telemetry disabled")
		return nil
	}
	res, err := newResource(ctx, t.info)
	if err != nil {
		return fmt.Errorf("creating resource: %w", err)
	}
	if t.tp, err = newTracerProvider(ctx, t.cfg, res); err != nil {
		return err
	}
	if t.mp, err = newMeterProvider(ctx, t.cfg, res); err != nil {
		return errors.Join(err, t.tp.Shutdown(ctx))
	}
	t.log.Info("telemetry exporting", logger.Fields("endpoint", t.cfg.Endpoint, "sample_rate", t.cfg.SampleRate))
	return nil
}

// Stop flushes and shuts down the providers.
func (t *Telemetry) Stop(ctx context.Context) error {
	var errs []error
	if t.mp != nil {
		errs = append(errs, t.mp.Shutdown(ctx))
	}
	if t.tp != nil {
		errs = append(errs, t.tp.Shutdown(ctx))
	}
	return errors.Join(errs...)
}

func (t *Telemetry) Health(context.Context) component.Health {
	msg := "disabled"
	if t.cfg.Enabled {
		msg = t.cfg.Endpoint
	}
	return component.Health{Name: t.Name(), Status: component.StatusHealthy, Message: msg}
}
