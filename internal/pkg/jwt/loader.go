// internal/pkg/jwt/loader.go
package jwt

import (
	"fmt"
	"time"
)

type Config struct {
	Secret string
	Issuer string
	TTL    time.Duration
}

type Manager struct {
	Generator *Generator
	Verifier  *Verifier
}

func LoadAndBuild(cfg Config) (*Manager, error) {
	secret, err := LoadSecret(cfg.Secret)
	if err != nil {
		return nil, fmt.Errorf("failed to load signing secret: %w", err)
	}
	if cfg.TTL <= 0 {
		return nil, fmt.Errorf("session ttl must be positive, got %s", cfg.TTL)
	}

	return &Manager{
		Generator: NewGenerator(secret, cfg.Issuer, cfg.TTL),
		Verifier:  NewVerifier(secret, cfg.Issuer),
	}, nil
}

// WithClock pins both halves of the manager to a fixed time source.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.Generator.now = now
	m.Verifier.now = now
	return m
}
