// internal/domain/event/entity.go
package event

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeLogin               Type = "auth.login"
	TypeCallInitiated       Type = "call.initiated"
	TypeCallFailed          Type = "call.failed"
	TypeCallQuotaExceeded   Type = "call.quota_exceeded"
	TypeAssistantCreated    Type = "assistant.created"
	TypeAssistantDeleted    Type = "assistant.deleted"
	TypeCampaignCreated     Type = "campaign.created"
	TypeKnowledgeBaseLoaded Type = "knowledgebase.uploaded"
)

// Event is one gateway-side outcome worth keeping.
type Event struct {
	ID             string    `json:"id"`
	Type           Type      `json:"type"`
	Actor          string    `json:"actor,omitempty"`
	CallID         string    `json:"callId,omitempty"`
	AssistantID    string    `json:"assistantId,omitempty"`
	CustomerNumber string    `json:"customerNumber,omitempty"`
	Status         string    `json:"status,omitempty"`
	Message        string    `json:"message,omitempty"`
	FileIDs        []string  `json:"fileIds,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// New stamps an event with a fresh id and the current time.
func New(t Type) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      t,
		CreatedAt: time.Now().UTC(),
	}
}

// IsFailure reports whether the event also belongs in the error log.
func (e *Event) IsFailure() bool {
	return e.Type == TypeCallFailed || e.Type == TypeCallQuotaExceeded
}

// Recorder persists or forwards events.
type Recorder interface {
	Record(ctx context.Context, e *Event) error
}

// Store is a Recorder that can also list what it kept.
type Store interface {
	Recorder
	Recent(ctx context.Context, limit int) ([]*Event, error)
	Close() error
}
