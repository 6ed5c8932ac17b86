package pricecheck

import "github.com/kailas-cloud/pricecheck/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrMissingCredentials = domain.ErrMissingCredentials
	ErrSearchFailed       = domain.ErrSearchFailed
	ErrModelFailed        = domain.ErrModelFailed
	ErrModelNonJSON       = domain.ErrModelNonJSON
	ErrNoToolCall         = domain.ErrNoToolCall
	ErrUnknownProvider    = domain.ErrUnknownProvider
	ErrModelQuotaExceeded = domain.ErrModelQuotaExceeded
)

// ProviderError carries the upstream status code and a truncated body. Use errors.As() to extract.
type ProviderError = domain.ProviderError
