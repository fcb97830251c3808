// internal/handlers/activity/activity_handler.go
package activity

import (
	"net/http"
	"strconv"

	"screenerbot-gateway/internal/pkg/response"
	service "screenerbot-gateway/internal/service/activity"

	"github.com/gin-gonic/gin"
)

const (
	defaultLimit = 50
	maxLimit     = 500
)

type ActivityHandler struct {
	activityService *service.Service
}

func NewActivityHandler(activityService *service.Service) *ActivityHandler {
	return &ActivityHandler{activityService: activityService}
}

// ListRecent returns the newest recorded events (admin only)
func (h *ActivityHandler) ListRecent(c *gin.Context) {
	limit := defaultLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			response.ValidationError(c, "limit must be a positive integer")
			return
		}
		limit = min(n, maxLimit)
	}

	events, err := h.activityService.Recent(c.Request.Context(), limit)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, events)
}
