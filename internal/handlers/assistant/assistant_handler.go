// internal/handlers/assistant/assistant_handler.go
package assistant

import (
	"errors"
	"net/http"

	"screenerbot-gateway/internal/domain/assistant"
	"screenerbot-gateway/internal/middleware"
	xerrors "screenerbot-gateway/internal/pkg/errors"
	"screenerbot-gateway/internal/pkg/response"
	service "screenerbot-gateway/internal/service/assistant"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AssistantHandler struct {
	assistantService *service.AssistantService
	logger           *zap.Logger
}

func NewAssistantHandler(assistantService *service.AssistantService, logger *zap.Logger) *AssistantHandler {
	return &AssistantHandler{
		assistantService: assistantService,
		logger:           logger,
	}
}

// ========== Admin Only Endpoints ==========

// CreateAssistant assembles the assistant configuration and returns the
// upstream document (admin only)
func (h *AssistantHandler) CreateAssistant(c *gin.Context) {
	var req assistant.CreateAssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body")
		return
	}

	raw, err := h.assistantService.CreateAssistant(c.Request.Context(), middleware.GetEmail(c), &req)
	if err != nil {
		if ue, ok := xerrors.AsUpstream(err); ok {
			response.Error(c, ue.Status, "Failed to create assistant: "+ue.Body)
			return
		}
		if errors.Is(err, xerrors.ErrInvalidInput) {
			response.ValidationError(c, xerrors.PublicMessage(err))
			return
		}
		response.FromError(c, err)
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// DeleteAssistant removes an assistant. Upstream text is never echoed (admin only)
func (h *AssistantHandler) DeleteAssistant(c *gin.Context) {
	err := h.assistantService.DeleteAssistant(c.Request.Context(), middleware.GetEmail(c), c.Param("id"))
	switch {
	case err == nil:
		response.Success(c, http.StatusOK, assistant.DeleteResponse{
			Success: true,
			Message: "Assistant deleted successfully",
		})
	case errors.Is(err, service.ErrAssistantNotFound):
		response.NotFound(c, "Assistant not found")
	case errors.Is(err, service.ErrUpstreamAuth):
		response.Unauthorized(c, "Upstream authentication failed")
	default:
		response.Error(c, http.StatusInternalServerError, "Failed to delete assistant")
	}
}

// ========== Public Endpoints ==========

// ListAssistants returns the assistant summaries.
func (h *AssistantHandler) ListAssistants(c *gin.Context) {
	items, err := h.assistantService.ListAssistants(c.Request.Context())
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, items)
}
