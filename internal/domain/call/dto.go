// internal/domain/call/dto.go
package call

// OutboundCallRequest body of POST /make-outbound-call
type OutboundCallRequest struct {
	PhoneNumber     string `json:"phoneNumber"`
	AssistantID     string `json:"assistantId"`
	KnowledgeBaseID string `json:"knowledgeBaseId"`
}

// OutboundCallResult identifies the call the platform queued.
type OutboundCallResult struct {
	CallID string `json:"callId"`
}
