package domain

import "errors"

var (
	// ErrConfiguration signals a missing or malformed corpus or config. Fatal at startup.
	ErrConfiguration = errors.New("configuration error")
	// ErrInvalidQuery signals an unusable search request (non-positive k).
	ErrInvalidQuery = errors.New("invalid query")
	// ErrVectorDimMismatch signals a vector dimension mismatch.
	ErrVectorDimMismatch = errors.New("vector dimension mismatch")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrGraphUnavailable signals that the graph store could not serve a traversal.
	// An unknown start node is not an error and never wraps this.
	ErrGraphUnavailable = errors.New("graph store unavailable")
)
