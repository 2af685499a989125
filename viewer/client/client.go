// Package client is the typed capsule API client the terminal viewer uses.
// Every failure is returned as an *errors.AppError: server error bodies are
// decoded back into their AppError, transport failures become external
// service errors.
package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	apperrors "github.com/zillusion/capsule/errors"
	"github.com/zillusion/capsule/httpclient"
	"github.com/zillusion/capsule/httpclient/rest"
	"github.com/zillusion/capsule/internal/api"
	"github.com/zillusion/capsule/internal/listing"
	"github.com/zillusion/capsule/storage"
	"github.com/zillusion/capsule/viewer/transcript"
)

const service = "capsule"

// Config points the client at a server.
type Config struct {
	BaseURL string        `mapstructure:"base_url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Client struct {
	http *httpclient.Client
}

func New(cfg Config) (*Client, error) {
	hc, err := rest.New(httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Auth:    httpclient.BearerAuth(cfg.Token),
	})
	if err != nil {
		return nil, err
	}
	return &Client{http: hc}, nil
}

// Transcript fetches and parses one record.
func (c *Client) Transcript(ctx context.Context, id string) (*transcript.Transcript, error) {
	raw, err := rest.Get[json.RawMessage](ctx, c.http, "/transcription/v2/"+url.PathEscape(id))
	if err != nil {
		return nil, toAppError(err)
	}
	tr, err := transcript.Parse(raw)
	if err != nil {
		return nil, apperrors.Malformed("transcript", err)
	}
	return tr, nil
}

// Page fetches one list page.
func (c *Client) Page(ctx context.Context, page, limit int) (*listing.Page, error) {
	p, err := rest.Get[listing.Page](ctx, c.http, "/transcriptionList", rest.WithQuery(map[string]string{
		"page":  strconv.Itoa(page),
		"limit": strconv.Itoa(limit),
	}))
	if err != nil {
		return nil, toAppError(err)
	}
	return &p, nil
}

// UploadURL asks for a presigned PUT.
func (c *Client) UploadURL(ctx context.Context, contentType string, durationSeconds float64) (storage.Presigned, error) {
	p, err := rest.Post[storage.Presigned](ctx, c.http, "/uploadUrl", api.UploadURLRequest{
		ContentType:     contentType,
		DurationSeconds: durationSeconds,
	})
	if err != nil {
		return storage.Presigned{}, toAppError(err)
	}
	return p, nil
}

// StartTranscription transcribes an uploaded object and returns the new
// record id. Analysis finishes later; poll Transcript for it.
func (c *Client) StartTranscription(ctx context.Context, key string) (string, error) {
	resp, err := rest.Post[api.StartResponse](ctx, c.http, "/startTranscription", api.StartRequest{Key: key})
	if err != nil {
		return "", toAppError(err)
	}
	return resp.ID, nil
}

// Upload sends audio straight to storage through a presigned URL, then
// starts its transcription.
func (c *Client) Upload(ctx context.Context, audio []byte, contentType string, durationSeconds float64) (string, error) {
	p, err := c.UploadURL(ctx, contentType, durationSeconds)
	if err != nil {
		return "", err
	}
	_, err = c.http.Do(ctx, httpclient.Request{
		Method:  http.MethodPut,
		Path:    p.URL,
		Headers: map[string]string{"Content-Type": contentType},
		Body:    audio,
		Auth:    &httpclient.AuthConfig{},
	})
	if err != nil {
		return "", httpclient.ToAppError("storage", err)
	}
	return c.StartTranscription(ctx, p.Key)
}

func toAppError(err error) *apperrors.AppError {
	if appErr := httpclient.AsResponseError(err); appErr != nil {
		return appErr
	}
	return httpclient.ToAppError(service, err)
}
