// Package vapi is a thin synchronous client for the Vapi REST API.
package vapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	xerrors "screenerbot-gateway/internal/pkg/errors"
)

const maxErrorBody = 64 << 10

// ErrBodyTooLarge means an upstream body exceeded the configured cap. It is
// reported as an unavailable upstream.
var ErrBodyTooLarge = fmt.Errorf("%w: upstream body too large", xerrors.ErrUpstreamUnavailable)

type Config struct {
	BaseURL        string
	StorageBaseURL string
	APIKey         string
	Timeout        time.Duration
	// MaxRecordingBytes caps a buffered recording. Zero means MaxRecordingBytes.
	MaxRecordingBytes int64
}

// Client talks to the calling platform. Every request carries the bearer
// credential, which never leaves the gateway.
type Client struct {
	httpClient     *http.Client
	baseURL        string
	storageBaseURL string
	apiKey         string
	maxRecording   int64
}

func New(cfg Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	maxRecording := cfg.MaxRecordingBytes
	if maxRecording <= 0 {
		maxRecording = MaxRecordingBytes
	}
	return &Client{
		httpClient:     &http.Client{Timeout: timeout},
		baseURL:        cfg.BaseURL,
		storageBaseURL: cfg.StorageBaseURL,
		apiKey:         cfg.APIKey,
		maxRecording:   maxRecording,
	}
}

func (c *Client) postJSON(ctx context.Context, path string, body any, result any) error {
	return c.doJSON(ctx, http.MethodPost, path, body, result)
}

func (c *Client) getJSON(ctx context.Context, path string, result any) error {
	return c.doJSON(ctx, http.MethodGet, path, nil, result)
}

func (c *Client) doJSON(ctx context.Context, method, path string, body any, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	contentType := ""
	if body != nil {
		contentType = "application/json"
	}
	raw, err := c.do(ctx, method, c.baseURL+path, bodyReader, contentType, -1)
	if err != nil {
		return err
	}

	if result != nil && len(bytes.TrimSpace(raw)) > 0 {
		if err := json.Unmarshal(raw, result); err != nil {
			return fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
		}
	}
	return nil
}

// do sends one request and classifies the outcome. Transport failures,
// including timeouts, wrap ErrUpstreamUnavailable; non-2xx responses become
// *xerrors.UpstreamError. limit caps the success body, -1 reads it all; a
// body over the cap is an ErrBodyTooLarge, never a truncated success.
func (c *Client) do(ctx context.Context, method, url string, body io.Reader, contentType string, limit int64) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if requestID, ok := ctx.Value(contextKeyRequestID).(string); ok {
		req.Header.Set("X-Request-ID", requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %s: %v", xerrors.ErrUpstreamUnavailable, method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, xerrors.NewUpstreamError(resp.StatusCode, respBody)
	}

	if limit > 0 && resp.ContentLength > limit {
		return nil, fmt.Errorf("%w: %s is %d bytes, cap %d", ErrBodyTooLarge, req.URL.Path, resp.ContentLength, limit)
	}

	var reader io.Reader = resp.Body
	if limit > 0 {
		reader = io.LimitReader(resp.Body, limit+1)
	}
	raw, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s body: %v", xerrors.ErrUpstreamUnavailable, req.URL.Path, err)
	}
	if limit > 0 && int64(len(raw)) > limit {
		return nil, fmt.Errorf("%w: %s exceeds %d bytes", ErrBodyTooLarge, req.URL.Path, limit)
	}
	return raw, nil
}

type contextKey string

const contextKeyRequestID contextKey = "request_id"

// WithRequestID stores the inbound request id so upstream calls can be correlated.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, requestID)
}
