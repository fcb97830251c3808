package xerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestIsQuotaExceeded(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"status 402", NewUpstreamError(http.StatusPaymentRequired, []byte(`{"message":"payment required"}`)), true},
		{"balance text", NewUpstreamError(http.StatusBadRequest, []byte(`{"message":"Balance too low"}`)), true},
		{"limit text", NewUpstreamError(http.StatusBadRequest, []byte("Daily LIMIT reached")), true},
		{"exceed text", NewUpstreamError(http.StatusForbidden, []byte("concurrency exceeded")), true},
		{"plain 400", NewUpstreamError(http.StatusBadRequest, []byte(`{"message":"customer.number must be E.164"}`)), false},
		{"wrapped", fmt.Errorf("place call: %w", NewUpstreamError(http.StatusPaymentRequired, nil)), true},
		{"sentinel", ErrQuotaExceeded, true},
		{"transport", ErrUpstreamUnavailable, false},
		{"nil", nil, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := IsQuotaExceeded(tc.err); got != tc.want {
				t.Errorf("IsQuotaExceeded() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestStatusCode(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid", Invalid("Phone number required"), http.StatusBadRequest},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"quota", ErrQuotaExceeded, http.StatusPaymentRequired},
		{"upstream passthrough", NewUpstreamError(http.StatusNotFound, nil), http.StatusNotFound},
		{"unavailable", fmt.Errorf("%w: dial tcp", ErrUpstreamUnavailable), http.StatusBadGateway},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests},
		{"busy", ErrBusy, http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := StatusCode(tc.err); got != tc.want {
				t.Errorf("StatusCode() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestUpstreamErrorMessage(t *testing.T) {
	t.Parallel()

	err := NewUpstreamError(http.StatusNotFound, []byte("no such call"))
	if got, want := err.Error(), "Vapi API error: 404 - no such call"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrUpstream) {
		t.Error("UpstreamError should wrap ErrUpstream")
	}
}

func TestPublicMessage(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		want string
	}{
		{"upstream", fmt.Errorf("failed to fetch call: %w", NewUpstreamError(http.StatusNotFound, []byte("no call"))), "Vapi API error: 404 - no call"},
		{"input", Invalid("Phone number required"), "Phone number required"},
		{"unavailable", fmt.Errorf("%w: dial tcp: i/o timeout", ErrUpstreamUnavailable), "Upstream service unavailable"},
		{"internal detail hidden", errors.New("pq: relation does not exist"), "internal server error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := PublicMessage(tc.err); got != tc.want {
				t.Errorf("PublicMessage() = %q, want %q", got, tc.want)
			}
		})
	}
}
