package storage

import (
	"context"
	"io"
	"time"
)

// Presigned is a time-limited URL for one object operation.
type Presigned struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ObjectStore is the subset of object storage the service needs.
type ObjectStore interface {
	// Put stores body under key. size may be -1 when unknown.
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error

	// PresignGet returns a URL that reads key until ttl elapses.
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)

	// PresignPut returns a URL that lets a client upload key with the given
	// content type until ttl elapses.
	PresignPut(ctx context.Context, key, contentType string, ttl time.Duration) (Presigned, error)
}
