// internal/service/campaign/campaign.go
package campaign

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"screenerbot-gateway/internal/domain/campaign"
	"screenerbot-gateway/internal/domain/event"
	xerrors "screenerbot-gateway/internal/pkg/errors"
	"screenerbot-gateway/internal/pkg/vapi"

	"go.uber.org/zap"
)

// RequiredFieldsMessage is returned when any campaign field is absent.
const RequiredFieldsMessage = "All campaign fields are required"

type CampaignService struct {
	vapi     *vapi.Client
	activity event.Recorder
	logger   *zap.Logger
}

func NewCampaignService(client *vapi.Client, activity event.Recorder, logger *zap.Logger) *CampaignService {
	return &CampaignService{
		vapi:     client,
		activity: activity,
		logger:   logger,
	}
}

// CreateCampaign forwards a complete campaign definition and returns the
// upstream document.
func (s *CampaignService) CreateCampaign(ctx context.Context, actor string, req *campaign.CreateCampaignRequest) (json.RawMessage, error) {
	if req == nil || !req.Complete() {
		return nil, xerrors.Invalid(RequiredFieldsMessage)
	}

	raw, err := s.vapi.CreateCampaign(ctx, vapi.CampaignRequest{
		Name:          strings.TrimSpace(req.Name),
		PhoneNumberID: strings.TrimSpace(req.PhoneNumberID),
		AssistantID:   strings.TrimSpace(req.AssistantID),
		Customers:     req.Customers,
	})
	if err != nil {
		s.logger.Error("failed to create campaign",
			zap.String("actor", actor),
			zap.String("name", req.Name),
			zap.Error(err),
		)
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	if s.activity != nil {
		ev := event.New(event.TypeCampaignCreated)
		ev.Actor, ev.AssistantID, ev.Message = actor, req.AssistantID, req.Name
		if err := s.activity.Record(ctx, ev); err != nil {
			s.logger.Warn("failed to record activity", zap.String("type", string(ev.Type)), zap.Error(err))
		}
	}

	s.logger.Info("campaign created", zap.String("actor", actor), zap.String("name", req.Name))
	return raw, nil
}
