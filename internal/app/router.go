// internal/app/router.go
package app

import (
	"net/http"

	activityHandler "screenerbot-gateway/internal/handlers/activity"
	assistantHandler "screenerbot-gateway/internal/handlers/assistant"
	authHandler "screenerbot-gateway/internal/handlers/auth"
	callHandler "screenerbot-gateway/internal/handlers/call"
	campaignHandler "screenerbot-gateway/internal/handlers/campaign"
	kbHandler "screenerbot-gateway/internal/handlers/knowledgebase"
	wsHandler "screenerbot-gateway/internal/handlers/websocket"
	"screenerbot-gateway/internal/middleware"

	"github.com/gin-gonic/gin"
)

type Handlers struct {
	AuthHandler          *authHandler.AuthHandler
	CallHandler          *callHandler.CallHandler
	AssistantHandler     *assistantHandler.AssistantHandler
	CampaignHandler      *campaignHandler.CampaignHandler
	KnowledgeBaseHandler *kbHandler.KnowledgeBaseHandler
	ActivityHandler      *activityHandler.ActivityHandler
	WSHandler            *wsHandler.WebSocketHandler
	AuthMiddleware       *middleware.AuthMiddleware
	StorageBackend       string
}

func SetupRouter(r *gin.Engine, h *Handlers) {
	admin := func(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
		return append(h.AuthMiddleware.AdminOnly(), handlers...)
	}

	// ==================== Health Check ====================
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true, "service": "screenerbot", "version": "v1"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "storage": h.StorageBackend})
	})

	// ==================== Auth ====================
	r.POST("/auth/google", h.AuthHandler.GoogleLogin)
	r.GET("/auth/me", h.AuthMiddleware.Auth(), h.AuthHandler.Me)

	// ==================== Calls ====================
	r.POST("/make-outbound-call", admin(h.CallHandler.MakeOutboundCall)...)
	r.GET("/get-call-logs", admin(h.CallHandler.GetCallLogs)...)
	r.GET("/call/:id", h.CallHandler.GetCall)
	r.GET("/recording/:id", h.CallHandler.GetRecording)

	// ==================== Assistants ====================
	r.POST("/create-assistant", admin(h.AssistantHandler.CreateAssistant)...)
	r.GET("/list-assistants", h.AssistantHandler.ListAssistants)
	r.DELETE("/delete-assistant/:id", admin(h.AssistantHandler.DeleteAssistant)...)

	// ==================== Campaigns ====================
	r.POST("/create-campaign", admin(h.CampaignHandler.CreateCampaign)...)

	// ==================== Knowledge Base ====================
	r.POST("/upload-files", h.KnowledgeBaseHandler.UploadFiles)

	// ==================== Activity ====================
	r.GET("/activity", admin(h.ActivityHandler.ListRecent)...)
	r.GET("/activity/stats", admin(h.WSHandler.GetStats)...)
	r.GET("/ws/activity", admin(h.WSHandler.HandleConnection)...)
}
