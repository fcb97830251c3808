// internal/pkg/jwt/keys.go
package jwt

import (
	"errors"
	"fmt"
	"strings"
)

// MinSecretLength is the shortest HMAC secret accepted at startup.
const MinSecretLength = 16

var ErrWeakSecret = errors.New("jwt secret is too short")

// LoadSecret trims and validates the shared signing secret.
func LoadSecret(raw string) ([]byte, error) {
	secret := strings.TrimSpace(raw)
	if secret == "" {
		return nil, fmt.Errorf("jwt secret is not configured")
	}
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("%w: need at least %d bytes", ErrWeakSecret, MinSecretLength)
	}
	return []byte(secret), nil
}
