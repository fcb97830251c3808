package call

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"screenerbot-gateway/internal/domain/call"
	"screenerbot-gateway/internal/domain/event"
	xerrors "screenerbot-gateway/internal/pkg/errors"
	"screenerbot-gateway/internal/pkg/vapi"

	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"
)

// QuotaMessage is the fixed reply when the platform reports exhausted credit.
const QuotaMessage = "You have exceeded your call limit. Kindly contact the admin."

type Options struct {
	PhoneNumberID          string
	DefaultAssistantID     string
	RecordingMaxConcurrent int64
}

type CallService struct {
	vapi               *vapi.Client
	activity           event.Recorder
	phoneNumberID      string
	defaultAssistantID string
	recordingSlots     *semaphore.Weighted
	logger             *zap.Logger
}

func NewCallService(client *vapi.Client, activity event.Recorder, opts Options, logger *zap.Logger) *CallService {
	slots := opts.RecordingMaxConcurrent
	if slots <= 0 {
		slots = 8
	}
	return &CallService{
		vapi:               client,
		activity:           activity,
		phoneNumberID:      opts.PhoneNumberID,
		defaultAssistantID: opts.DefaultAssistantID,
		recordingSlots:     semaphore.NewWeighted(slots),
		logger:             logger,
	}
}

// PlaceOutboundCall validates the destination and asks the platform to dial it.
// Identical concurrent requests place two calls.
func (s *CallService) PlaceOutboundCall(ctx context.Context, actor string, req *call.OutboundCallRequest) (*call.OutboundCallResult, error) {
	phone := strings.TrimSpace(req.PhoneNumber)
	if phone == "" {
		return nil, xerrors.Invalid("Phone number required")
	}
	if !ValidPhone(phone) {
		return nil, xerrors.Invalid(PhoneFormatMessage)
	}

	assistantID := strings.TrimSpace(req.AssistantID)
	if assistantID == "" {
		assistantID = s.defaultAssistantID
	}
	if assistantID == "" {
		return nil, xerrors.Invalid("Assistant ID required")
	}

	ref, err := s.vapi.CreatePhoneCall(ctx, vapi.PhoneCallRequest{
		AssistantID:     assistantID,
		PhoneNumberID:   s.phoneNumberID,
		Customer:        vapi.Customer{Number: phone},
		KnowledgeBaseID: strings.TrimSpace(req.KnowledgeBaseID),
	})
	if err != nil {
		ev := event.New(event.TypeCallFailed)
		ev.Actor, ev.AssistantID, ev.CustomerNumber = actor, assistantID, phone
		ev.Message = err.Error()
		if xerrors.IsQuotaExceeded(err) {
			ev.Type = event.TypeCallQuotaExceeded
			s.record(ctx, ev)
			s.logger.Warn("call quota exceeded",
				zap.String("actor", actor),
				zap.String("assistant_id", assistantID),
				zap.Error(err),
			)
			return nil, fmt.Errorf("%w: %v", xerrors.ErrQuotaExceeded, err)
		}
		s.record(ctx, ev)
		s.logger.Error("failed to place outbound call",
			zap.String("actor", actor),
			zap.String("assistant_id", assistantID),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to place outbound call: %w", err)
	}

	ev := event.New(event.TypeCallInitiated)
	ev.Actor, ev.AssistantID, ev.CustomerNumber = actor, assistantID, phone
	ev.CallID, ev.Status = ref.ID, ref.Status
	s.record(ctx, ev)

	s.logger.Info("outbound call initiated",
		zap.String("actor", actor),
		zap.String("call_id", ref.ID),
		zap.String("assistant_id", assistantID),
	)
	return &call.OutboundCallResult{CallID: ref.ID}, nil
}

// GetCall fetches one call record and normalizes it.
func (s *CallService) GetCall(ctx context.Context, callID string) (*call.NormalizedCall, error) {
	callID = strings.TrimSpace(callID)
	if callID == "" {
		return nil, xerrors.Invalid("Call ID required")
	}

	raw, err := s.vapi.GetCall(ctx, callID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch call %s: %w", callID, err)
	}

	var record call.RawCall
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("failed to decode call %s: %w", callID, err)
	}
	return Normalize(&record), nil
}

// ListCallLogs returns the call list reduced to {id, type, createdAt, startedAt, endedAt}.
func (s *CallService) ListCallLogs(ctx context.Context) ([]call.LogEntry, error) {
	raw, err := s.vapi.ListCalls(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list calls: %w", err)
	}

	entries := []call.LogEntry{}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode call list: %w", err)
	}
	if entries == nil {
		entries = []call.LogEntry{}
	}
	return entries, nil
}

// FetchRecording loads recording bytes from the configured storage origin.
// The content type follows the caller's extension hint.
func (s *CallService) FetchRecording(ctx context.Context, recordingID, ext string) (*call.Recording, error) {
	if !validRecordingID(recordingID) {
		return nil, xerrors.Invalid("Invalid recording id")
	}

	if err := s.recordingSlots.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: waiting for recording slot: %v", xerrors.ErrBusy, err)
	}
	defer s.recordingSlots.Release(1)

	body, err := s.vapi.FetchRecording(ctx, recordingID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch recording %s: %w", recordingID, err)
	}

	return &call.Recording{
		ID:          recordingID,
		ContentType: ContentTypeFor(ext),
		Body:        body,
	}, nil
}

// ContentTypeFor maps wav to audio/wav and everything else to audio/mpeg.
func ContentTypeFor(ext string) string {
	if strings.EqualFold(strings.TrimSpace(ext), "wav") {
		return "audio/wav"
	}
	return "audio/mpeg"
}

func validRecordingID(id string) bool {
	if strings.TrimSpace(id) == "" {
		return false
	}
	return !strings.ContainsAny(id, `/\`) && !strings.Contains(id, "..")
}

func (s *CallService) record(ctx context.Context, ev *event.Event) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(ctx, ev); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("failed to record activity", zap.String("type", string(ev.Type)), zap.Error(err))
	}
}
