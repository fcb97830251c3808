// internal/handlers/auth/auth_handler.go
package auth

import (
	"errors"
	"net/http"

	"screenerbot-gateway/internal/domain/auth"
	"screenerbot-gateway/internal/middleware"
	xerrors "screenerbot-gateway/internal/pkg/errors"
	"screenerbot-gateway/internal/pkg/response"
	authUsecase "screenerbot-gateway/internal/service/auth"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AuthHandler struct {
	authService *authUsecase.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *authUsecase.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// ========== Login ==========

// GoogleLogin exchanges a Google ID token for a session credential.
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	var req auth.GoogleLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, authUsecase.ErrMissingToken.Error())
		return
	}

	req.IPAddress = c.ClientIP()
	req.UserAgent = c.GetHeader("User-Agent")

	loginResp, err := h.authService.LoginWithGoogle(c.Request.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, xerrors.ErrInvalidInput):
			response.ValidationError(c, xerrors.PublicMessage(err))
		case errors.Is(err, xerrors.ErrRateLimited):
			response.Error(c, http.StatusTooManyRequests, "too many login attempts")
		case errors.Is(err, xerrors.ErrUnauthorized):
			response.Unauthorized(c, "invalid google token")
		default:
			h.logger.Error("google login failed", zap.String("ip", req.IPAddress), zap.Error(err))
			response.Error(c, http.StatusInternalServerError, "login failed")
		}
		return
	}

	response.Success(c, http.StatusOK, loginResp)
}

// ========== Session ==========

// Me echoes the identity behind the presented credential.
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := middleware.GetIdentity(c)
	if !ok {
		response.Unauthorized(c, "missing authorization token")
		return
	}
	response.Success(c, http.StatusOK, auth.MeResponse{Email: identity.Email, Role: identity.Role})
}
