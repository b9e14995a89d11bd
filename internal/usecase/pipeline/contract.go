package pipeline

import (
	"context"

	"github.com/kailas-cloud/helpdex/internal/domain"
)

// Searcher returns the k nearest documents for a query.
type Searcher interface {
	Search(ctx context.Context, query string, k int) ([]domain.Hit, error)
}

// PathFetcher expands a procedure id into step titles.
type PathFetcher interface {
	FetchPath(ctx context.Context, startID string) ([]string, error)
}
