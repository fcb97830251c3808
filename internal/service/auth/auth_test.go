package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"screenerbot-gateway/internal/domain/auth"
	xerrors "screenerbot-gateway/internal/pkg/errors"
	"screenerbot-gateway/internal/pkg/identity"
	"screenerbot-gateway/internal/pkg/jwt"

	"go.uber.org/zap"
)

type stubVerifier struct {
	id  *identity.Identity
	err error
}

func (s stubVerifier) Verify(_ context.Context, _, _ string) (*identity.Identity, error) {
	return s.id, s.err
}

type countingLimiter struct {
	max    int64
	counts map[string]int64
	resets int
	err    error
}

func (l *countingLimiter) CheckLoginAttempt(_ context.Context, ip string) (bool, int64, error) {
	if l.err != nil {
		return true, 0, l.err
	}
	l.counts[ip]++
	return l.counts[ip] <= l.max, l.max - l.counts[ip], nil
}

func (l *countingLimiter) ResetLoginAttempts(_ context.Context, ip string) error {
	l.resets++
	delete(l.counts, ip)
	return nil
}

func newManager(t *testing.T) *jwt.Manager {
	t.Helper()
	m, err := jwt.LoadAndBuild(jwt.Config{Secret: "0123456789abcdef0123456789abcdef", Issuer: "test", TTL: time.Hour})
	if err != nil {
		t.Fatalf("LoadAndBuild() error = %v", err)
	}
	return m
}

func newService(t *testing.T, v AssertionVerifier, l LoginLimiter) *AuthService {
	t.Helper()
	return NewAuthService(v, newManager(t), l, nil, Options{
		GoogleClientID: "client-123",
		AdminEmails:    []string{"admin@example.com"},
	}, zap.NewNop())
}

func TestLoginWithGoogleRoles(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"admin@example.com": auth.RoleAdmin,
		"user@example.com":  auth.RoleUser,
	}
	for email, wantRole := range cases {
		t.Run(email, func(t *testing.T) {
			t.Parallel()

			svc := newService(t, stubVerifier{id: &identity.Identity{Email: email}}, nil)
			resp, err := svc.LoginWithGoogle(context.Background(), &auth.GoogleLoginRequest{Token: "assertion"})
			if err != nil {
				t.Fatalf("LoginWithGoogle() error = %v", err)
			}
			if resp.Role != wantRole || resp.Email != email || !resp.Success {
				t.Errorf("response = %+v, want role %s", resp, wantRole)
			}

			id, err := svc.ValidateToken(resp.Token)
			if err != nil {
				t.Fatalf("ValidateToken() error = %v", err)
			}
			if id.Email != email || id.Role != wantRole || id.JTI == "" {
				t.Errorf("identity = %+v", id)
			}
		})
	}
}

func TestLoginWithGoogleErrors(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		token    string
		verifier stubVerifier
		want     int
	}{
		{"missing token", "", stubVerifier{}, http.StatusBadRequest},
		{"invalid assertion", "x", stubVerifier{err: fmt.Errorf("%w: bad signature", identity.ErrInvalidAssertion)}, http.StatusUnauthorized},
		{"provider down", "x", stubVerifier{err: fmt.Errorf("%w: 503", identity.ErrProviderUnavailable)}, http.StatusInternalServerError},
		{"no audience", "x", stubVerifier{err: identity.ErrNoAudience}, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, err := newService(t, tc.verifier, nil).LoginWithGoogle(context.Background(), &auth.GoogleLoginRequest{Token: tc.token})
			if got := xerrors.StatusCode(err); got != tc.want {
				t.Errorf("StatusCode() = %d, want %d (err %v)", got, tc.want, err)
			}
		})
	}
}

func TestLoginRequiresConfiguredAudience(t *testing.T) {
	t.Parallel()

	svc := NewAuthService(stubVerifier{id: &identity.Identity{Email: "a@example.com"}}, newManager(t), nil, nil, Options{}, zap.NewNop())
	if _, err := svc.LoginWithGoogle(context.Background(), &auth.GoogleLoginRequest{Token: "x"}); !errors.Is(err, ErrAudienceMissing) {
		t.Fatalf("error = %v, want ErrAudienceMissing", err)
	}
}

func TestLoginRateLimit(t *testing.T) {
	t.Parallel()

	limiter := &countingLimiter{max: 2, counts: map[string]int64{}}
	bad := newService(t, stubVerifier{err: identity.ErrInvalidAssertion}, limiter)
	req := &auth.GoogleLoginRequest{Token: "x", IPAddress: "10.0.0.9"}

	for i := 0; i < 2; i++ {
		if _, err := bad.LoginWithGoogle(context.Background(), req); !errors.Is(err, ErrInvalidAssertion) {
			t.Fatalf("attempt %d error = %v, want ErrInvalidAssertion", i+1, err)
		}
	}
	_, err := bad.LoginWithGoogle(context.Background(), req)
	if !errors.Is(err, xerrors.ErrRateLimited) {
		t.Fatalf("error = %v, want ErrRateLimited", err)
	}

	limiter.counts = map[string]int64{}
	good := newService(t, stubVerifier{id: &identity.Identity{Email: "u@example.com"}}, limiter)
	if _, err := good.LoginWithGoogle(context.Background(), req); err != nil {
		t.Fatalf("LoginWithGoogle() error = %v", err)
	}
	if limiter.resets != 1 {
		t.Errorf("resets = %d, want 1", limiter.resets)
	}
}

func TestLoginLimiterFailsOpen(t *testing.T) {
	t.Parallel()

	limiter := &countingLimiter{err: errors.New("redis: connection refused")}
	svc := newService(t, stubVerifier{id: &identity.Identity{Email: "u@example.com"}}, limiter)
	if _, err := svc.LoginWithGoogle(context.Background(), &auth.GoogleLoginRequest{Token: "x"}); err != nil {
		t.Fatalf("LoginWithGoogle() error = %v", err)
	}
}

func TestIssueToken(t *testing.T) {
	t.Parallel()

	svc := newService(t, stubVerifier{}, nil)
	token, err := svc.IssueToken("Admin@Example.com", "")
	if err != nil {
		t.Fatalf("IssueToken() error = %v", err)
	}
	id, err := svc.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if id.Role != auth.RoleAdmin || id.Email != "admin@example.com" {
		t.Errorf("identity = %+v, want admin@example.com/admin", id)
	}

	if _, err := svc.IssueToken("u@example.com", "root"); err == nil {
		t.Error("IssueToken() with unknown role should fail")
	}
}
