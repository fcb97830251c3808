package vapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
)

// Assistant holds the summary fields of an upstream assistant.
type Assistant struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// CreateAssistant forwards an assembled assistant configuration.
func (c *Client) CreateAssistant(ctx context.Context, config any) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.postJSON(ctx, "/assistant", config, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ListAssistants decodes only the summary fields of each assistant.
func (c *Client) ListAssistants(ctx context.Context) ([]Assistant, error) {
	var out []Assistant
	if err := c.getJSON(ctx, "/assistant", &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) DeleteAssistant(ctx context.Context, assistantID string) error {
	return c.doJSON(ctx, http.MethodDelete, "/assistant/"+url.PathEscape(assistantID), nil, nil)
}
