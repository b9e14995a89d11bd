package db

import (
	"context"
	"time"
)

// GraphStore is the facade every graph driver implements.
type GraphStore interface {
	Pinger
	PathFinder
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks database connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations (embedding cache).
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// PathFinder walks a single relation from a start node.
type PathFinder interface {
	// FindPath returns the nodes reachable from q.StartID in traversal order,
	// starting with the start node itself. An unknown start node yields an empty slice.
	FindPath(ctx context.Context, q *PathQuery) ([]PathNode, error)
}
