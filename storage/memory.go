package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Memory is an in-process ObjectStore. Presigned URLs use the memory://
// scheme and are only meaningful to the Memory instance that issued them.
type Memory struct {
	mu      sync.RWMutex
	objects map[string]MemoryObject
	now     func() time.Time
}

// MemoryObject is one stored object.
type MemoryObject struct {
	Data        []byte
	ContentType string
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]MemoryObject), now: time.Now}
}

func (m *Memory) Put(ctx context.Context, key string, body io.Reader, _ int64, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return fmt.Errorf("storage: read body: %w", err)
	}
	m.mu.Lock()
	m.objects[key] = MemoryObject{Data: data, ContentType: contentType}
	m.mu.Unlock()
	return nil
}

func (m *Memory) PresignGet(_ context.Context, key string, ttl time.Duration) (string, error) {
	return m.url(key, http.MethodGet, ttl), nil
}

func (m *Memory) PresignPut(_ context.Context, key, _ string, ttl time.Duration) (Presigned, error) {
	return Presigned{
		Key:       key,
		URL:       m.url(key, http.MethodPut, ttl),
		Method:    http.MethodPut,
		ExpiresAt: m.now().Add(ttl),
	}, nil
}

// Object returns the stored object for key.
func (m *Memory) Object(key string) (MemoryObject, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	o, ok := m.objects[key]
	return o, ok
}

func (m *Memory) url(key, method string, ttl time.Duration) string {
	q := url.Values{}
	q.Set("method", method)
	q.Set("expires", fmt.Sprintf("%d", int(ttl.Seconds())))
	return (&url.URL{Scheme: "memory", Path: "/" + key, RawQuery: q.Encode()}).String()
}
