// Package resilience guards calls to upstream services: a circuit breaker
// that fails fast while an upstream keeps failing, and retry with
// exponential backoff for transient errors.
package resilience
