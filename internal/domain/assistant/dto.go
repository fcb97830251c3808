// internal/domain/assistant/dto.go
package assistant

// CreateAssistantRequest body of POST /create-assistant. Content and
// SystemPrompt are aliases; Content wins when both are set.
type CreateAssistantRequest struct {
	Name                             string `json:"name"`
	FirstMessage                     string `json:"firstMessage"`
	Content                          string `json:"content"`
	SystemPrompt                     string `json:"systemPrompt"`
	FirstMessageInterruptionsEnabled *bool  `json:"firstMessageInterruptionsEnabled"`
	EndCallMessage                   string `json:"endCallMessage"`
}

// Summary is what the assistant listing exposes.
type Summary struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

// DeleteResponse confirms an assistant removal.
type DeleteResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
