package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/zillusion/capsule/httpclient"
)

// New creates an httpclient.Client that sends and accepts JSON.
func New(cfg httpclient.Config) (*httpclient.Client, error) {
	headers := map[string]string{"Accept": "application/json"}
	for k, v := range cfg.Headers {
		headers[k] = v
	}
	cfg.Headers = headers
	return httpclient.New(cfg)
}

// RequestOption configures a single request.
type RequestOption func(*httpclient.Request)

// WithQuery sets query parameters.
func WithQuery(params map[string]string) RequestOption {
	return func(r *httpclient.Request) { r.Query = params }
}

// WithHeader sets one request header.
func WithHeader(key, value string) RequestOption {
	return func(r *httpclient.Request) {
		if r.Headers == nil {
			r.Headers = make(map[string]string)
		}
		r.Headers[key] = value
	}
}

// WithAuth overrides the client's authentication.
func WithAuth(auth *httpclient.AuthConfig) RequestOption {
	return func(r *httpclient.Request) { r.Auth = auth }
}

// Get performs a GET and decodes the JSON response into T.
func Get[T any](ctx context.Context, c *httpclient.Client, path string, opts ...RequestOption) (T, error) {
	return do[T](ctx, c, http.MethodGet, path, nil, opts...)
}

// Post sends body and decodes the JSON response into T.
func Post[T any](ctx context.Context, c *httpclient.Client, path string, body any, opts ...RequestOption) (T, error) {
	return do[T](ctx, c, http.MethodPost, path, body, opts...)
}

func do[T any](ctx context.Context, c *httpclient.Client, method, path string, body any, opts ...RequestOption) (T, error) {
	var out T
	req := httpclient.Request{Method: method, Path: path, Body: body}
	for _, opt := range opts {
		opt(&req)
	}

	resp, err := c.Do(ctx, req)
	if err != nil {
		return out, err
	}
	if len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, &out); err != nil {
			return out, fmt.Errorf("rest: decode %s %s: %w", method, path, err)
		}
	}
	return out, nil
}
