package vapi

import (
	"context"
	"encoding/json"
)

type CampaignRequest struct {
	Name          string          `json:"name"`
	PhoneNumberID string          `json:"phoneNumberId"`
	AssistantID   string          `json:"assistantId"`
	Customers     json.RawMessage `json:"customers"`
}

func (c *Client) CreateCampaign(ctx context.Context, req CampaignRequest) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.postJSON(ctx, "/campaign", req, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}
