package sdk

import (
	"context"

	"github.com/kailas-cloud/helpdex/internal/db"
)

// PathQuery describes one procedure traversal.
type PathQuery struct {
	StartID   string
	Label     string
	IDProp    string
	TitleProp string
	Relation  string
	MaxNodes  int // start node included
}

// Step is one node on a procedure path.
type Step struct {
	ID    string
	Title string
}

// PathFinder walks a procedure from its start node. An unknown start node
// must yield no steps and no error. If the value also has a
// Ping(context.Context) error method, it is used for Ping and Health.
type PathFinder interface {
	FindPath(ctx context.Context, q PathQuery) ([]Step, error)
}

// finderAdapter exposes a public PathFinder as a driver.
type finderAdapter struct {
	inner PathFinder
}

func (a *finderAdapter) FindPath(ctx context.Context, q *db.PathQuery) ([]db.PathNode, error) {
	steps, err := a.inner.FindPath(ctx, PathQuery{
		StartID:   q.StartID,
		Label:     q.Label,
		IDProp:    q.IDProp,
		TitleProp: q.TitleProp,
		Relation:  q.Relation,
		MaxNodes:  q.MaxNodes,
	})
	if err != nil {
		return nil, err
	}
	nodes := make([]db.PathNode, len(steps))
	for i, s := range steps {
		nodes[i] = db.PathNode{ID: s.ID, Title: s.Title}
	}
	return nodes, nil
}

func (a *finderAdapter) Ping(ctx context.Context) error {
	if p, ok := a.inner.(db.Pinger); ok {
		return p.Ping(ctx)
	}
	return nil
}
