// Package identity verifies Google ID tokens presented at login.
package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/MicahParks/keyfunc/v3"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/time/rate"
)

const GoogleJWKSURL = "https://www.googleapis.com/oauth2/v3/certs"

const (
	keyRefreshInterval = time.Hour
	unknownKIDInterval = 5 * time.Minute
	keyFetchTimeout    = 5 * time.Second
	refreshWaitMax     = time.Second
)

var googleIssuers = map[string]bool{
	"accounts.google.com":         true,
	"https://accounts.google.com": true,
}

var (
	ErrInvalidAssertion    = errors.New("invalid identity assertion")
	ErrProviderUnavailable = errors.New("identity provider unavailable")
	ErrNoAudience          = errors.New("identity audience not configured")
)

// Identity is the verified subject of an assertion.
type Identity struct {
	Email   string
	Subject string
	Name    string
}

// Verifier checks Google ID tokens against the provider key set. Keys are
// loaded on first use and refreshed hourly; an unknown kid triggers at most
// one extra refresh per unknownKIDInterval.
type Verifier struct {
	JWKSURL string

	http *http.Client
	now  func() time.Time

	mu      sync.Mutex
	keys    keyfunc.Keyfunc
	refresh *rate.Limiter
	cancel  context.CancelFunc
}

func NewVerifier() *Verifier {
	return &Verifier{
		JWKSURL: GoogleJWKSURL,
		http:    &http.Client{Timeout: keyFetchTimeout},
		now:     time.Now,
		refresh: rate.NewLimiter(rate.Every(unknownKIDInterval), 1),
	}
}

// WithHTTPClient swaps the client used for key fetches.
func (v *Verifier) WithHTTPClient(c *http.Client) *Verifier {
	v.http = c
	return v
}

// Close stops the background key refresh.
func (v *Verifier) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
		v.keys = nil
	}
}

func (v *Verifier) keySet() (keyfunc.Keyfunc, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.keys != nil {
		return v.keys, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	kf, err := keyfunc.NewDefaultOverrideCtx(ctx, []string{v.JWKSURL}, keyfunc.Override{
		Client:            v.http,
		HTTPTimeout:       keyFetchTimeout,
		RateLimitWaitMax:  refreshWaitMax,
		RefreshInterval:   keyRefreshInterval,
		RefreshUnknownKID: v.refresh,
		RefreshErrorHandlerFunc: func(string) func(context.Context, error) {
			return func(context.Context, error) {}
		},
	})
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	v.keys = kf
	v.cancel = cancel
	return kf, nil
}

type googleClaims struct {
	jwt.RegisteredClaims
	Email         string `json:"email"`
	EmailVerified any    `json:"email_verified"`
	Name          string `json:"name"`
}

func (c *googleClaims) emailVerified() bool {
	switch v := c.EmailVerified.(type) {
	case nil:
		return true
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	default:
		return false
	}
}

// Verify checks the assertion signature against the provider keys and
// returns the verified email. Provider outages are not retried.
func (v *Verifier) Verify(ctx context.Context, assertion, audience string) (*Identity, error) {
	if audience == "" {
		return nil, ErrNoAudience
	}
	if strings.TrimSpace(assertion) == "" {
		return nil, ErrInvalidAssertion
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"RS256"}),
		jwt.WithAudience(audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	claims := &googleClaims{}
	_, err := parser.ParseWithClaims(assertion, claims, func(t *jwt.Token) (any, error) {
		if kid, _ := t.Header["kid"].(string); kid == "" {
			return nil, errors.New("missing kid")
		}
		kf, err := v.keySet()
		if err != nil {
			return nil, err
		}
		key, err := kf.KeyfuncCtx(ctx)(t)
		if err != nil {
			// An empty key set means the provider was never reached.
			if all, readErr := kf.Storage().KeyReadAll(ctx); readErr == nil && len(all) == 0 {
				return nil, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
			}
			return nil, err
		}
		return key, nil
	})
	if err != nil {
		if errors.Is(err, ErrProviderUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidAssertion, err)
	}

	if !googleIssuers[claims.Issuer] {
		return nil, fmt.Errorf("%w: unexpected issuer %q", ErrInvalidAssertion, claims.Issuer)
	}
	if claims.Email == "" {
		return nil, fmt.Errorf("%w: email claim missing", ErrInvalidAssertion)
	}
	if !claims.emailVerified() {
		return nil, fmt.Errorf("%w: email not verified", ErrInvalidAssertion)
	}

	return &Identity{
		Email:   strings.ToLower(strings.TrimSpace(claims.Email)),
		Subject: claims.Subject,
		Name:    claims.Name,
	}, nil
}
