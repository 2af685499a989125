// Package redis wraps go-redis with capsule logging and lifecycle support.
//
// The service uses it as an optional read-through cache for transcription
// list pages. When disabled, Component.Client returns nil and callers skip
// caching.
package redis
