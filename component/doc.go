// Package component defines the lifecycle contract shared by long-lived
// infrastructure (database, cache, HTTP server, telemetry) and a registry
// that starts them in order and stops them in reverse.
package component
