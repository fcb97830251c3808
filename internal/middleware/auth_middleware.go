// internal/middleware/auth_middleware.go
package middleware

import (
	"errors"
	"net/http"
	"strings"

	"screenerbot-gateway/internal/domain/auth"
	"screenerbot-gateway/internal/pkg/jwt"
	"screenerbot-gateway/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// Guard denials. Each carries the status and message written to the client.
var (
	ErrMissingToken     = &Denial{Status: http.StatusUnauthorized, Message: "missing authorization token"}
	ErrInvalidHeader    = &Denial{Status: http.StatusUnauthorized, Message: "invalid authorization header"}
	ErrTokenExpired     = &Denial{Status: http.StatusUnauthorized, Message: "token expired"}
	ErrInvalidToken     = &Denial{Status: http.StatusUnauthorized, Message: "invalid token"}
	ErrInsufficientRole = &Denial{Status: http.StatusForbidden, Message: "insufficient permissions"}
)

// Denial is a guard decision that stops the request.
type Denial struct {
	Status  int
	Message string
}

func (d *Denial) Error() string { return d.Message }

// TokenValidator turns a bearer credential into an identity.
type TokenValidator interface {
	ValidateToken(token string) (*auth.Identity, error)
}

type AuthMiddleware struct {
	validator TokenValidator
}

func NewAuthMiddleware(validator TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{
		validator: validator,
	}
}

// Evaluate decides a request from its Authorization header alone. An empty
// requiredRole only checks authentication.
func (m *AuthMiddleware) Evaluate(header, requiredRole string) (*auth.Identity, error) {
	token, err := bearerToken(header)
	if err != nil {
		return nil, err
	}

	identity, err := m.validator.ValidateToken(token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	if requiredRole != "" && identity.Role != requiredRole {
		return identity, ErrInsufficientRole
	}
	return identity, nil
}

// Auth validates the bearer credential and stores the identity on the context.
func (m *AuthMiddleware) Auth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := m.Evaluate(c.GetHeader("Authorization"), "")
		if err != nil {
			deny(c, err)
			return
		}

		c.Set(ctxIdentity, identity)
		c.Set(ctxEmail, identity.Email)
		c.Set(ctxRole, identity.Role)
		c.Set(ctxJTI, identity.JTI)

		c.Next()
	}
}

// RequireRole checks the role stored by Auth. MUST be used after Auth().
func (m *AuthMiddleware) RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok {
			deny(c, ErrMissingToken)
			return
		}
		if identity.Role != role {
			deny(c, ErrInsufficientRole)
			return
		}
		c.Next()
	}
}

// AdminOnly returns middlewares for admin-only routes (Auth + RequireRole)
func (m *AuthMiddleware) AdminOnly() []gin.HandlerFunc {
	return []gin.HandlerFunc{
		m.Auth(),
		m.RequireRole(auth.RoleAdmin),
	}
}

// bearerToken extracts the credential from "Bearer <token>".
func bearerToken(header string) (string, error) {
	header = strings.TrimSpace(header)
	if header == "" {
		return "", ErrMissingToken
	}
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", ErrInvalidHeader
	}
	return parts[1], nil
}

func deny(c *gin.Context, err error) {
	var d *Denial
	if errors.As(err, &d) {
		response.Error(c, d.Status, d.Message)
		return
	}
	response.Error(c, http.StatusUnauthorized, ErrInvalidToken.Message)
}
