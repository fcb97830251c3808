// internal/service/assistant/assistant.go
package assistant

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"screenerbot-gateway/internal/domain/assistant"
	"screenerbot-gateway/internal/domain/event"
	xerrors "screenerbot-gateway/internal/pkg/errors"
	"screenerbot-gateway/internal/pkg/vapi"

	"go.uber.org/zap"
)

const (
	DefaultEndCallMessage = "Thank you for your time. Goodbye."
	endCallInstruction    = " When the user says goodbye or indicates they want to end the call, use the endCall function."
	timeoutPrompt         = "Are you still there? Please let me know how I can help you."
)

// Delete outcomes exposed to clients. Upstream text is never echoed here.
var (
	ErrAssistantNotFound = fmt.Errorf("%w: assistant", xerrors.ErrNotFound)
	ErrUpstreamAuth      = fmt.Errorf("%w: upstream rejected credential", xerrors.ErrUnauthorized)
)

// Defaults are the model, voice and transcriber applied to new assistants.
type Defaults struct {
	Model            string
	VoiceID          string
	TranscriberModel string
}

type AssistantService struct {
	vapi     *vapi.Client
	activity event.Recorder
	defaults Defaults
	logger   *zap.Logger
}

func NewAssistantService(client *vapi.Client, activity event.Recorder, defaults Defaults, logger *zap.Logger) *AssistantService {
	if defaults.Model == "" {
		defaults.Model = "gpt-4.1-mini"
	}
	if defaults.VoiceID == "" {
		defaults.VoiceID = "Neha"
	}
	if defaults.TranscriberModel == "" {
		defaults.TranscriberModel = "nova-2"
	}
	return &AssistantService{
		vapi:     client,
		activity: activity,
		defaults: defaults,
		logger:   logger,
	}
}

// BuildConfig assembles the full assistant definition from a create request.
func BuildConfig(req *assistant.CreateAssistantRequest, d Defaults) (*assistant.Config, error) {
	name := strings.TrimSpace(req.Name)
	firstMessage := strings.TrimSpace(req.FirstMessage)
	prompt := strings.TrimSpace(req.Content)
	if prompt == "" {
		prompt = strings.TrimSpace(req.SystemPrompt)
	}
	if name == "" || firstMessage == "" || prompt == "" {
		return nil, xerrors.Invalid("Name, first message and system prompt are required")
	}

	interruptions := true
	if req.FirstMessageInterruptionsEnabled != nil {
		interruptions = *req.FirstMessageInterruptionsEnabled
	}
	endCall := strings.TrimSpace(req.EndCallMessage)
	if endCall == "" {
		endCall = DefaultEndCallMessage
	}

	return &assistant.Config{
		Name:                             name,
		FirstMessage:                     firstMessage,
		FirstMessageInterruptionsEnabled: interruptions,
		EndCallMessage:                   endCall,
		Model: assistant.Model{
			Provider: "openai",
			Model:    d.Model,
			Messages: []assistant.Message{{Role: "system", Content: prompt + endCallInstruction}},
			Tools:    []assistant.Tool{{Type: "endCall"}},
		},
		Voice: assistant.Voice{Provider: "vapi", VoiceID: d.VoiceID},
		Transcriber: assistant.Transcriber{
			Provider: "deepgram",
			Model:    d.TranscriberModel,
			Language: "multi",
		},
		Hooks: []assistant.Hook{{
			On: "customer.speech.timeout",
			Options: assistant.HookOptions{
				TimeoutSeconds:   10,
				TriggerMaxCount:  2,
				TriggerResetMode: "onUserSpeech",
			},
			Do:   []assistant.HookAction{{Type: "say", Prompt: timeoutPrompt}},
			Name: "customer_timeout_check",
		}},
	}, nil
}

// CreateAssistant returns the upstream assistant document unchanged.
func (s *AssistantService) CreateAssistant(ctx context.Context, actor string, req *assistant.CreateAssistantRequest) (json.RawMessage, error) {
	cfg, err := BuildConfig(req, s.defaults)
	if err != nil {
		return nil, err
	}

	raw, err := s.vapi.CreateAssistant(ctx, cfg)
	if err != nil {
		s.logger.Error("failed to create assistant",
			zap.String("actor", actor),
			zap.String("name", cfg.Name),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to create assistant: %w", err)
	}

	var created struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(raw, &created)

	ev := event.New(event.TypeAssistantCreated)
	ev.Actor, ev.AssistantID, ev.Message = actor, created.ID, cfg.Name
	s.record(ctx, ev)

	s.logger.Info("assistant created", zap.String("actor", actor), zap.String("assistant_id", created.ID))
	return raw, nil
}

// ListAssistants returns the summary view of every assistant.
func (s *AssistantService) ListAssistants(ctx context.Context) ([]assistant.Summary, error) {
	items, err := s.vapi.ListAssistants(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list assistants: %w", err)
	}

	out := make([]assistant.Summary, 0, len(items))
	for _, a := range items {
		out = append(out, assistant.Summary{
			ID:        a.ID,
			Name:      a.Name,
			CreatedAt: a.CreatedAt,
			UpdatedAt: a.UpdatedAt,
		})
	}
	return out, nil
}

// DeleteAssistant removes an assistant. Upstream 404 and 401 map to
// ErrAssistantNotFound and ErrUpstreamAuth; every other failure is returned
// as-is for the caller to mask.
func (s *AssistantService) DeleteAssistant(ctx context.Context, actor, assistantID string) error {
	assistantID = strings.TrimSpace(assistantID)
	if assistantID == "" {
		return xerrors.Invalid("Assistant ID required")
	}

	if err := s.vapi.DeleteAssistant(ctx, assistantID); err != nil {
		s.logger.Warn("failed to delete assistant",
			zap.String("actor", actor),
			zap.String("assistant_id", assistantID),
			zap.Error(err),
		)
		if ue, ok := xerrors.AsUpstream(err); ok {
			switch ue.Status {
			case http.StatusNotFound:
				return ErrAssistantNotFound
			case http.StatusUnauthorized:
				return ErrUpstreamAuth
			}
		}
		return fmt.Errorf("failed to delete assistant %s: %w", assistantID, err)
	}

	ev := event.New(event.TypeAssistantDeleted)
	ev.Actor, ev.AssistantID = actor, assistantID
	s.record(ctx, ev)
	return nil
}

func (s *AssistantService) record(ctx context.Context, ev *event.Event) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(ctx, ev); err != nil {
		s.logger.Warn("failed to record activity", zap.String("type", string(ev.Type)), zap.Error(err))
	}
}
