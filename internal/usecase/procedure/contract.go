package procedure

import (
	"context"

	"github.com/kailas-cloud/helpdex/internal/db"
)

// PathFinder is the graph traversal a driver provides.
type PathFinder interface {
	FindPath(ctx context.Context, q *db.PathQuery) ([]db.PathNode, error)
}
