// internal/handlers/call/call_handler.go
package call

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"screenerbot-gateway/internal/domain/call"
	"screenerbot-gateway/internal/middleware"
	xerrors "screenerbot-gateway/internal/pkg/errors"
	"screenerbot-gateway/internal/pkg/response"
	service "screenerbot-gateway/internal/service/call"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type CallHandler struct {
	callService *service.CallService
	logger      *zap.Logger
}

func NewCallHandler(callService *service.CallService, logger *zap.Logger) *CallHandler {
	return &CallHandler{
		callService: callService,
		logger:      logger,
	}
}

// ========== Admin Only Endpoints ==========

// MakeOutboundCall places one outbound call (admin only)
func (h *CallHandler) MakeOutboundCall(c *gin.Context) {
	var req call.OutboundCallRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "phoneNumber" {
			response.Fail(c, http.StatusBadRequest, "Phone number required")
			return
		}
		response.Fail(c, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.callService.PlaceOutboundCall(c.Request.Context(), middleware.GetEmail(c), &req)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrQuotaExceeded):
			response.Fail(c, http.StatusPaymentRequired, service.QuotaMessage)
		default:
			response.FailFromError(c, err)
		}
		return
	}

	response.Success(c, http.StatusOK, response.Result{
		Success: true,
		Message: "Call initiated successfully",
		CallID:  result.CallID,
	})
}

// GetCallLogs lists calls reduced to their timestamps (admin only)
func (h *CallHandler) GetCallLogs(c *gin.Context) {
	entries, err := h.callService.ListCallLogs(c.Request.Context())
	if err != nil {
		h.logger.Warn("failed to list call logs", zap.Error(err))
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, entries)
}

// ========== Public Endpoints ==========

// GetCall returns the normalized view of one call.
func (h *CallHandler) GetCall(c *gin.Context) {
	view, err := h.callService.GetCall(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, view)
}

// GetRecording streams recording bytes through the gateway.
func (h *CallHandler) GetRecording(c *gin.Context) {
	rec, err := h.callService.FetchRecording(c.Request.Context(), c.Param("id"), c.Query("ext"))
	if err != nil {
		if xerrors.StatusCode(err) >= http.StatusInternalServerError {
			h.logger.Warn("recording fetch failed", zap.String("recording_id", c.Param("id")), zap.Error(err))
		}
		response.FromError(c, err)
		return
	}

	c.Header("Content-Length", strconv.Itoa(len(rec.Body)))
	c.Data(http.StatusOK, rec.ContentType, rec.Body)
}
