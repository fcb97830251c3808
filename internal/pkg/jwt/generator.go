// internal/pkg/jwt/generator.go
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

type Generator struct {
	secret []byte
	issuer string
	Ttl    time.Duration
	now    func() time.Time
}

func NewGenerator(secret []byte, issuer string, ttl time.Duration) *Generator {
	return &Generator{
		secret: secret,
		issuer: issuer,
		Ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a credential for email and role that expires Ttl from now.
func (g *Generator) Issue(email, role string) (string, time.Time, error) {
	if len(g.secret) == 0 {
		return "", time.Time{}, fmt.Errorf("jwt generator has empty secret")
	}
	if !ValidRole(role) {
		return "", time.Time{}, fmt.Errorf("unknown role %q", role)
	}

	now := g.now()
	expiresAt := now.Add(g.Ttl)

	claims := &Claims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    g.issuer,
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        ulid.Make().String(),
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(g.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, claims.ExpiresAt.Time, nil
}
