package vapi

import (
	"context"
	"net/http"
	"net/url"
)

// MaxRecordingBytes is the default cap on a buffered recording body.
const MaxRecordingBytes = 200 << 20

// RecordingURL builds the storage URL for an opaque recording id. The host
// always comes from configuration.
func (c *Client) RecordingURL(recordingID string) string {
	return c.storageBaseURL + "/" + url.PathEscape(recordingID)
}

// FetchRecording buffers the full recording body. A recording larger than the
// cap fails with ErrBodyTooLarge.
func (c *Client) FetchRecording(ctx context.Context, recordingID string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, c.RecordingURL(recordingID), nil, "", c.maxRecording)
}
