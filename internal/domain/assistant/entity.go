// internal/domain/assistant/entity.go
package assistant

// Config is the assistant definition forwarded to the platform as-is.
type Config struct {
	Name                             string      `json:"name"`
	FirstMessage                     string      `json:"firstMessage"`
	FirstMessageInterruptionsEnabled bool        `json:"firstMessageInterruptionsEnabled"`
	EndCallMessage                   string      `json:"endCallMessage"`
	Model                            Model       `json:"model"`
	Voice                            Voice       `json:"voice"`
	Transcriber                      Transcriber `json:"transcriber"`
	Hooks                            []Hook      `json:"hooks"`
}

type Model struct {
	Provider string    `json:"provider"`
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Tools    []Tool    `json:"tools"`
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type Tool struct {
	Type string `json:"type"`
}

type Voice struct {
	Provider string `json:"provider"`
	VoiceID  string `json:"voiceId"`
}

type Transcriber struct {
	Provider string `json:"provider"`
	Model    string `json:"model"`
	Language string `json:"language"`
}

type Hook struct {
	On      string       `json:"on"`
	Options HookOptions  `json:"options"`
	Do      []HookAction `json:"do"`
	Name    string       `json:"name"`
}

type HookOptions struct {
	TimeoutSeconds   int    `json:"timeoutSeconds"`
	TriggerMaxCount  int    `json:"triggerMaxCount"`
	TriggerResetMode string `json:"triggerResetMode"`
}

type HookAction struct {
	Type   string `json:"type"`
	Prompt string `json:"prompt"`
}
