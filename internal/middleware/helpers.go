// internal/middleware/helpers.go
package middleware

import (
	"screenerbot-gateway/internal/domain/auth"

	"github.com/gin-gonic/gin"
)

const (
	ctxIdentity  = "identity"
	ctxEmail     = "email"
	ctxRole      = "role"
	ctxJTI       = "jti"
	ctxRequestID = "request_id"
)

// GetIdentity returns the identity stored by Auth.
func GetIdentity(c *gin.Context) (*auth.Identity, bool) {
	v, exists := c.Get(ctxIdentity)
	if !exists {
		return nil, false
	}
	identity, ok := v.(*auth.Identity)
	return identity, ok && identity != nil
}

// GetEmail gets the authenticated email from context
func GetEmail(c *gin.Context) string {
	return c.GetString(ctxEmail)
}

// GetRole gets the authenticated role from context
func GetRole(c *gin.Context) string {
	return c.GetString(ctxRole)
}

// GetJTI gets the session id from context
func GetJTI(c *gin.Context) string {
	return c.GetString(ctxJTI)
}

// GetRequestID returns the id assigned by LoggingMiddleware.
func GetRequestID(c *gin.Context) string {
	return c.GetString(ctxRequestID)
}

// IsAdmin checks if user is an admin
func IsAdmin(c *gin.Context) bool {
	identity, ok := GetIdentity(c)
	return ok && identity.IsAdmin()
}
