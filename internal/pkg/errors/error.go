package xerrors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Common reusable application errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrUnauthorized        = errors.New("unauthorized access")
	ErrForbidden           = errors.New("forbidden")
	ErrInvalidInput        = errors.New("invalid input")
	ErrInternal            = errors.New("internal server error")
	ErrRateLimited         = errors.New("too many requests")
	ErrQuotaExceeded       = errors.New("upstream call quota exceeded")
	ErrUpstream            = errors.New("upstream request failed")
	ErrUpstreamUnavailable = errors.New("upstream service unavailable")
	ErrBusy                = errors.New("service busy")
)

// UpstreamError is a non-success response from the calling platform.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("Vapi API error: %d - %s", e.Status, e.Body)
}

func (e *UpstreamError) Unwrap() error {
	return ErrUpstream
}

// NewUpstreamError builds an UpstreamError from a status and raw body.
func NewUpstreamError(status int, body []byte) *UpstreamError {
	return &UpstreamError{Status: status, Body: string(body)}
}

// AsUpstream extracts an UpstreamError from the chain.
func AsUpstream(err error) (*UpstreamError, bool) {
	var ue *UpstreamError
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

var quotaMarkers = []string{"limit", "exceed", "balance"}

// IsQuotaExceeded reports whether an upstream failure signals exhausted
// credit: either status 402 or a body mentioning a limit or balance.
func IsQuotaExceeded(err error) bool {
	if errors.Is(err, ErrQuotaExceeded) {
		return true
	}
	ue, ok := AsUpstream(err)
	if !ok {
		return false
	}
	if ue.Status == http.StatusPaymentRequired {
		return true
	}
	body := strings.ToLower(ue.Body)
	for _, marker := range quotaMarkers {
		if strings.Contains(body, marker) {
			return true
		}
	}
	return false
}

// StatusCode maps an error onto the HTTP status the gateway answers with.
func StatusCode(err error) int {
	if ue, ok := AsUpstream(err); ok {
		return ue.Status
	}
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrQuotaExceeded):
		return http.StatusPaymentRequired
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, ErrUpstreamUnavailable):
		return http.StatusBadGateway
	case errors.Is(err, ErrBusy):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text a client may see for err. Upstream failures
// keep their status and body, input errors keep their message and everything
// else collapses to a fixed phrase.
func PublicMessage(err error) string {
	if ue, ok := AsUpstream(err); ok {
		return ue.Error()
	}
	var ie *inputError
	if errors.As(err, &ie) {
		return ie.msg
	}
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrQuotaExceeded):
		return ErrQuotaExceeded.Error()
	case errors.Is(err, ErrUpstreamUnavailable):
		return "Upstream service unavailable"
	case errors.Is(err, ErrBusy):
		return "Too many concurrent requests, try again shortly"
	case errors.Is(err, ErrNotFound):
		return "Not found"
	case errors.Is(err, ErrRateLimited):
		return ErrRateLimited.Error()
	case errors.Is(err, ErrUnauthorized):
		return "Unauthorized"
	case errors.Is(err, ErrForbidden):
		return "Forbidden"
	default:
		return "internal server error"
	}
}

// Wrap adds context to an error (similar to fmt.Errorf("%w")).
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Invalid returns an ErrInvalidInput carrying a client-facing message.
func Invalid(message string) error {
	return &inputError{msg: message}
}

type inputError struct{ msg string }

func (e *inputError) Error() string { return e.msg }
func (e *inputError) Unwrap() error { return ErrInvalidInput }

// Is allows checking whether an error is a specific sentinel error.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// MessageOrDefault returns err.Error() or a fallback message if err is nil.
func MessageOrDefault(err error, fallback string) string {
	if err != nil {
		return err.Error()
	}
	return fallback
}
