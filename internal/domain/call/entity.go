// internal/domain/call/entity.go
package call

import "encoding/json"

// RawCall is the subset of an upstream call record the gateway reads.
type RawCall struct {
	ID                      string          `json:"id"`
	Type                    string          `json:"type"`
	Transcript              json.RawMessage `json:"transcript"`
	MessagesOpenAIFormatted json.RawMessage `json:"messagesOpenAIFormatted"`
	StructuredOutputs       json.RawMessage `json:"structuredOutputs"`
	RecordingURL            string          `json:"recordingUrl"`
	CreatedAt               *string         `json:"createdAt"`
	StartedAt               *string         `json:"startedAt"`
	EndedAt                 *string         `json:"endedAt"`
	Artifact                *Artifact       `json:"artifact"`
}

type Artifact struct {
	RecordingURL            string          `json:"recordingUrl"`
	Transcript              json.RawMessage `json:"transcript"`
	MessagesOpenAIFormatted json.RawMessage `json:"messagesOpenAIFormatted"`
	StructuredOutputs       json.RawMessage `json:"structuredOutputs"`
}

// StructuredOutput is one named result extracted by the platform.
type StructuredOutput struct {
	Name   string          `json:"name"`
	Result json.RawMessage `json:"result"`
}

// NormalizedCall is the client-facing projection of a call record.
type NormalizedCall struct {
	ID                string                     `json:"id"`
	Type              string                     `json:"type"`
	Transcript        json.RawMessage            `json:"transcript"`
	CreatedAt         *string                    `json:"createdAt"`
	RecordingURL      *string                    `json:"recordingUrl"`
	StructuredOutputs map[string]json.RawMessage `json:"structuredOutputs"`
}

// LogEntry is the only shape the call-log listing exposes.
type LogEntry struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	CreatedAt *string `json:"createdAt"`
	StartedAt *string `json:"startedAt"`
	EndedAt   *string `json:"endedAt"`
}

// Recording is a buffered audio payload ready to send.
type Recording struct {
	ID          string
	ContentType string
	Body        []byte
}
