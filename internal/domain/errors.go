package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredentials signals a capability configured without its API key.
	ErrMissingCredentials = errors.New("missing credentials")
	// ErrSearchFailed signals a search capability failure (transport or non-2xx).
	ErrSearchFailed = errors.New("search provider error")
	// ErrModelFailed signals a text-generation capability failure (transport or non-2xx).
	ErrModelFailed = errors.New("model provider error")
	// ErrModelNonJSON signals model output that contains no parseable JSON.
	ErrModelNonJSON = errors.New("model returned non-JSON output")
	// ErrNoToolCall signals a strict-mode response without the expected tool call.
	ErrNoToolCall = errors.New("model returned no tool call")
	// ErrModelQuotaExceeded signals an exhausted model token budget.
	ErrModelQuotaExceeded = errors.New("model token quota exceeded")
	// ErrUnknownProvider signals a request for a model provider that is not registered.
	ErrUnknownProvider = errors.New("unknown model provider")
)

// maxDiagnosticBody caps the provider response body kept for diagnostics.
const maxDiagnosticBody = 500

// Capability names used in ProviderError.
const (
	CapabilitySearch = "search"
	CapabilityModel  = "model"
)

// ProviderError wraps a hard external failure with the upstream status code and
// a truncated diagnostic body.
type ProviderError struct {
	Capability string
	Provider   string
	StatusCode int
	Body       string
}

// NewProviderError creates a ProviderError, truncating body for diagnostics.
func NewProviderError(capability, provider string, statusCode int, body string) *ProviderError {
	return &ProviderError{
		Capability: capability,
		Provider:   provider,
		StatusCode: statusCode,
		Body:       Truncate(body, maxDiagnosticBody),
	}
}

func (e *ProviderError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s: %s: %s", e.Unwrap().Error(), e.Provider, e.Body)
	}
	return fmt.Sprintf("%s: %s returned HTTP %d: %s", e.Unwrap().Error(), e.Provider, e.StatusCode, e.Body)
}

// Unwrap maps the failing capability onto its sentinel.
func (e *ProviderError) Unwrap() error {
	if e.Capability == CapabilitySearch {
		return ErrSearchFailed
	}
	return ErrModelFailed
}

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
