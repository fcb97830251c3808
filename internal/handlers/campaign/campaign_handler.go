// internal/handlers/campaign/campaign_handler.go
package campaign

import (
	"net/http"

	"screenerbot-gateway/internal/domain/campaign"
	"screenerbot-gateway/internal/middleware"
	"screenerbot-gateway/internal/pkg/response"
	service "screenerbot-gateway/internal/service/campaign"

	"github.com/gin-gonic/gin"
)

type CampaignHandler struct {
	campaignService *service.CampaignService
}

func NewCampaignHandler(campaignService *service.CampaignService) *CampaignHandler {
	return &CampaignHandler{
		campaignService: campaignService,
	}
}

// ========== Admin Only Endpoints ==========

// CreateCampaign creates an outbound campaign (admin only)
func (h *CampaignHandler) CreateCampaign(c *gin.Context) {
	var req campaign.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Fail(c, http.StatusBadRequest, service.RequiredFieldsMessage)
		return
	}

	raw, err := h.campaignService.CreateCampaign(c.Request.Context(), middleware.GetEmail(c), &req)
	if err != nil {
		response.FailFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, response.Result{Success: true, Campaign: raw})
}
