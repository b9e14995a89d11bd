package sdk

import "github.com/kailas-cloud/helpdex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrConfiguration          = domain.ErrConfiguration
	ErrInvalidQuery           = domain.ErrInvalidQuery
	ErrVectorDimMismatch      = domain.ErrVectorDimMismatch
	ErrEmbeddingProviderError = domain.ErrEmbeddingProviderError
	ErrGraphUnavailable       = domain.ErrGraphUnavailable
)
