// internal/service/auth/auth.go
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"screenerbot-gateway/internal/domain/auth"
	"screenerbot-gateway/internal/domain/event"
	xerrors "screenerbot-gateway/internal/pkg/errors"
	"screenerbot-gateway/internal/pkg/identity"
	"screenerbot-gateway/internal/pkg/jwt"

	"go.uber.org/zap"
)

var (
	ErrMissingToken        = xerrors.Invalid("token is required")
	ErrAudienceMissing     = xerrors.Invalid("google sign-in is not configured")
	ErrInvalidAssertion    = fmt.Errorf("%w: invalid google token", xerrors.ErrUnauthorized)
	ErrProviderUnavailable = fmt.Errorf("%w: identity provider unavailable", xerrors.ErrInternal)
	ErrTooManyAttempts     = fmt.Errorf("%w: too many login attempts", xerrors.ErrRateLimited)
)

// AssertionVerifier checks a provider-signed ID token for one audience.
type AssertionVerifier interface {
	Verify(ctx context.Context, assertion, audience string) (*identity.Identity, error)
}

// LoginLimiter counts login attempts per client address.
type LoginLimiter interface {
	CheckLoginAttempt(ctx context.Context, ip string) (bool, int64, error)
	ResetLoginAttempts(ctx context.Context, ip string) error
}

type Options struct {
	GoogleClientID string
	AdminEmails    []string
}

type AuthService struct {
	verifier    AssertionVerifier
	jwtManager  *jwt.Manager
	rateLimiter LoginLimiter
	activity    event.Recorder
	opts        Options
	logger      *zap.Logger
}

func NewAuthService(
	verifier AssertionVerifier,
	jwtManager *jwt.Manager,
	rateLimiter LoginLimiter,
	activity event.Recorder,
	opts Options,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		verifier:    verifier,
		jwtManager:  jwtManager,
		rateLimiter: rateLimiter,
		activity:    activity,
		opts:        opts,
		logger:      logger,
	}
}

// ========== Login ==========

// LoginWithGoogle exchanges a Google ID token for a session credential.
func (s *AuthService) LoginWithGoogle(ctx context.Context, req *auth.GoogleLoginRequest) (*auth.LoginResponse, error) {
	assertion := strings.TrimSpace(req.Token)
	if assertion == "" {
		return nil, ErrMissingToken
	}
	if s.opts.GoogleClientID == "" {
		return nil, ErrAudienceMissing
	}

	// Rate limiting fails open when Redis is unreachable.
	if s.rateLimiter != nil {
		allowed, _, err := s.rateLimiter.CheckLoginAttempt(ctx, req.IPAddress)
		if err != nil {
			s.logger.Warn("login rate limiter unavailable", zap.String("ip", req.IPAddress), zap.Error(err))
		} else if !allowed {
			s.logger.Warn("login rate limit exceeded", zap.String("ip", req.IPAddress))
			return nil, ErrTooManyAttempts
		}
	}

	id, err := s.verifier.Verify(ctx, assertion, s.opts.GoogleClientID)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrNoAudience):
			return nil, ErrAudienceMissing
		case errors.Is(err, identity.ErrProviderUnavailable):
			s.logger.Error("google key fetch failed", zap.Error(err))
			return nil, ErrProviderUnavailable
		default:
			s.logger.Info("rejected google token", zap.String("ip", req.IPAddress), zap.Error(err))
			return nil, ErrInvalidAssertion
		}
	}

	role := auth.RoleFor(id.Email, s.opts.AdminEmails)
	token, expiresAt, err := s.jwtManager.Generator.Issue(id.Email, role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	if s.rateLimiter != nil {
		if err := s.rateLimiter.ResetLoginAttempts(ctx, req.IPAddress); err != nil {
			s.logger.Warn("failed to reset login attempts", zap.String("ip", req.IPAddress), zap.Error(err))
		}
	}

	if s.activity != nil {
		ev := event.New(event.TypeLogin)
		ev.Actor, ev.Status = id.Email, role
		if err := s.activity.Record(ctx, ev); err != nil {
			s.logger.Warn("failed to record activity", zap.String("type", string(ev.Type)), zap.Error(err))
		}
	}

	s.logger.Info("user logged in",
		zap.String("email", id.Email),
		zap.String("role", role),
		zap.String("ip", req.IPAddress),
	)

	return &auth.LoginResponse{
		Success:   true,
		Token:     token,
		Role:      role,
		Email:     id.Email,
		ExpiresAt: expiresAt,
	}, nil
}

// ========== Tokens ==========

// ValidateToken verifies a session credential and returns its identity.
func (s *AuthService) ValidateToken(token string) (*auth.Identity, error) {
	claims, err := s.jwtManager.Verifier.Validate(token)
	if err != nil {
		return nil, err
	}
	return &auth.Identity{Email: claims.Email, Role: claims.Role, JTI: claims.ID}, nil
}

// IssueToken mints a credential without a provider round trip. Used by the
// operator CLI.
func (s *AuthService) IssueToken(email, role string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", xerrors.Invalid("email is required")
	}
	if role == "" {
		role = auth.RoleFor(email, s.opts.AdminEmails)
	}
	token, _, err := s.jwtManager.Generator.Issue(email, role)
	return token, err
}
