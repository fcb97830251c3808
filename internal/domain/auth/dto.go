// internal/domain/auth/dto.go
package auth

import "time"

// GoogleLoginRequest carries the provider ID token.
type GoogleLoginRequest struct {
	Token     string `json:"token"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse successful login response
type LoginResponse struct {
	Success   bool      `json:"success"`
	Token     string    `json:"token"`
	Role      string    `json:"role"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// MeResponse echoes the identity behind the presented credential.
type MeResponse struct {
	Email string `json:"email"`
	Role  string `json:"role"`
}
