// internal/domain/campaign/dto.go
package campaign

import (
	"bytes"
	"encoding/json"
	"strings"
)

// CreateCampaignRequest is forwarded to the platform after presence checks.
type CreateCampaignRequest struct {
	Name          string          `json:"name"`
	PhoneNumberID string          `json:"phoneNumberId"`
	AssistantID   string          `json:"assistantId"`
	Customers     json.RawMessage `json:"customers"`
}

// Complete reports whether every field is present and customers is non-empty.
func (r *CreateCampaignRequest) Complete() bool {
	if strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.PhoneNumberID) == "" || strings.TrimSpace(r.AssistantID) == "" {
		return false
	}
	c := bytes.TrimSpace(r.Customers)
	switch {
	case len(c) == 0, bytes.Equal(c, []byte("null")), bytes.Equal(c, []byte("[]")),
		bytes.Equal(c, []byte("{}")), bytes.Equal(c, []byte(`""`)), bytes.Equal(c, []byte("false")):
		return false
	}
	return true
}
