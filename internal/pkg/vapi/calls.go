package vapi

import (
	"context"
	"encoding/json"
	"net/url"
)

type Customer struct {
	Number string `json:"number"`
}

// PhoneCallRequest is the body of POST /call/phone.
type PhoneCallRequest struct {
	AssistantID     string   `json:"assistantId"`
	PhoneNumberID   string   `json:"phoneNumberId"`
	Customer        Customer `json:"customer"`
	KnowledgeBaseID string   `json:"knowledgeBaseId,omitempty"`
}

type CallRef struct {
	ID     string `json:"id"`
	Status string `json:"status,omitempty"`
}

// CreatePhoneCall places one outbound call.
func (c *Client) CreatePhoneCall(ctx context.Context, req PhoneCallRequest) (*CallRef, error) {
	var ref CallRef
	if err := c.postJSON(ctx, "/call/phone", req, &ref); err != nil {
		return nil, err
	}
	return &ref, nil
}

// GetCall returns the raw call record.
func (c *Client) GetCall(ctx context.Context, callID string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "/call/"+url.PathEscape(callID), &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// ListCalls returns the raw call list.
func (c *Client) ListCalls(ctx context.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.getJSON(ctx, "/call", &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
