// Package observability wires OpenTelemetry tracing and metrics.
//
// When enabled, spans and metrics are exported over OTLP/HTTP. When disabled
// the global no-op providers stay in place, so instrumented code never has to
// check whether telemetry is on.
package observability
