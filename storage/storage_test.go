package storage

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/zillusion/capsule/component"
	"github.com/zillusion/capsule/logger"
)

func TestConfigDefaults(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Provider != ProviderS3 || cfg.Bucket != DefaultBucket || cfg.Region != DefaultRegion {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.URLExpiry != time.Hour {
		t.Errorf("expected 60m GET expiry, got %v", cfg.URLExpiry)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"s3 ok", Config{Provider: ProviderS3, Bucket: "b", Region: "r"}, false},
		{"s3 no bucket", Config{Provider: ProviderS3, Region: "r"}, true},
		{"half credentials", Config{Provider: ProviderS3, Bucket: "b", Region: "r", AccessKey: "k"}, true},
		{"memory", Config{Provider: ProviderMemory}, false},
		{"unknown", Config{Provider: "gcs"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.cfg.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestMemoryStore(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	if err := m.Put(ctx, "audio/a.webm", strings.NewReader("bytes"), 5, "audio/webm"); err != nil {
		t.Fatalf("Put: %v", err)
	}
	obj, ok := m.Object("audio/a.webm")
	if !ok || string(obj.Data) != "bytes" || obj.ContentType != "audio/webm" {
		t.Errorf("unexpected object %+v", obj)
	}

	raw, err := m.PresignGet(ctx, "audio/a.webm", time.Hour)
	if err != nil {
		t.Fatalf("PresignGet: %v", err)
	}
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	if u.Path != "/audio/a.webm" || u.Query().Get("expires") != "3600" {
		t.Errorf("unexpected presigned url %q", raw)
	}

	put, err := m.PresignPut(ctx, "audio/b.m4a", "audio/x-m4a", 15*time.Minute)
	if err != nil {
		t.Fatalf("PresignPut: %v", err)
	}
	if put.Method != http.MethodPut || put.Key != "audio/b.m4a" || put.ExpiresAt.IsZero() {
		t.Errorf("unexpected presigned put %+v", put)
	}
}

func TestComponentWithMemoryProvider(t *testing.T) {
	c := NewComponent(Config{Provider: ProviderMemory}, logger.Nop())
	ctx := context.Background()
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if c.Store() == nil {
		t.Fatal("expected store after Start")
	}
	if h := c.Health(ctx); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy, got %s", h.Status)
	}
}

func TestNewUnregisteredProvider(t *testing.T) {
	factoriesMu.Lock()
	saved, had := factories[ProviderS3]
	delete(factories, ProviderS3)
	factoriesMu.Unlock()
	if had {
		defer RegisterFactory(ProviderS3, saved)
	}

	if _, err := New(context.Background(), Config{Provider: ProviderS3}, logger.Nop()); err == nil {
		t.Fatal("expected error for unregistered provider")
	}
}
