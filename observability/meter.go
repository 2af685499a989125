package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
)

// Outcomes attached to transcription and analysis metrics.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

func newMeterProvider(ctx context.Context, cfg Config, res *resource.Resource) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}
	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.MetricInterval))),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)
	return mp, nil
}

// Metrics holds the service's instruments. A nil *Metrics records nothing.
type Metrics struct {
	transcriptions  metric.Int64Counter
	analyses        metric.Int64Counter
	upstreamLatency metric.Float64Histogram
	listPages       metric.Int64Counter
}

// NewMetrics creates the instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	transcriptions, err := meter.Int64Counter("capsule.transcriptions",
		metric.WithDescription("Transcription requests by outcome"))
	if err != nil {
		return nil, fmt.Errorf("creating capsule.transcriptions counter: %w", err)
	}
	analyses, err := meter.Int64Counter("capsule.analyses",
		metric.WithDescription("Transcript analyses by outcome"))
	if err != nil {
		return nil, fmt.Errorf("creating capsule.analyses counter: %w", err)
	}
	upstreamLatency, err := meter.Float64Histogram("capsule.upstream.duration",
		metric.WithDescription("Latency of calls to storage, transcription and analysis services"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, fmt.Errorf("creating capsule.upstream.duration histogram: %w", err)
	}
	listPages, err := meter.Int64Counter("capsule.list.pages",
		metric.WithDescription("Transcription list pages served, by cache hit"))
	if err != nil {
		return nil, fmt.Errorf("creating capsule.list.pages counter: %w", err)
	}
	return &Metrics{
		transcriptions:  transcriptions,
		analyses:        analyses,
		upstreamLatency: upstreamLatency,
		listPages:       listPages,
	}, nil
}

// NewGlobalMetrics creates instruments on the global meter provider.
func NewGlobalMetrics() (*Metrics, error) {
	return NewMetrics(otel.Meter(instrumentationName))
}

func outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// RecordTranscription counts one transcription attempt.
func (m *Metrics) RecordTranscription(ctx context.Context, err error) {
	if m == nil {
		return
	}
	m.transcriptions.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome(err))))
}

// RecordAnalysis counts one analysis attempt.
func (m *Metrics) RecordAnalysis(ctx context.Context, err error) {
	if m == nil {
		return
	}
	m.analyses.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", outcome(err))))
}

// ObserveUpstream records the latency of one upstream call.
func (m *Metrics) ObserveUpstream(ctx context.Context, upstream string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.upstreamLatency.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("upstream", upstream),
		attribute.String("outcome", outcome(err)),
	))
}

// RecordListPage counts one served list page.
func (m *Metrics) RecordListPage(ctx context.Context, cacheHit bool) {
	if m == nil {
		return
	}
	m.listPages.Add(ctx, 1, metric.WithAttributes(attribute.Bool("cache_hit", cacheHit)))
}
