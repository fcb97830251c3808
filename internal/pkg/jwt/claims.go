// internal/pkg/jwt/claims.go
package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Roles carried by a session credential.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Claims represents the session credential payload.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin checks if the credential carries the admin role.
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}

// ValidRole reports whether role is one the gateway issues.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleUser
}
