// Package procedure expands a procedure id into its ordered step titles.
package procedure

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/helpdex/internal/db"
	"github.com/kailas-cloud/helpdex/internal/domain"
	"github.com/kailas-cloud/helpdex/internal/logger"
	"github.com/kailas-cloud/helpdex/internal/metrics"
)

// DefaultMaxDepth caps the number of steps returned for one procedure.
const DefaultMaxDepth = 64

// Schema names the graph elements of a procedure.
type Schema struct {
	Label     string // default Step
	IDProp    string // default nodeId
	TitleProp string // default title
	Relation  string // default NEXT
}

// DefaultSchema returns the stock graph layout.
func DefaultSchema() Schema {
	return Schema{Label: "Step", IDProp: "nodeId", TitleProp: "title", Relation: "NEXT"}
}

// Service fetches step paths. Safe for concurrent use when the PathFinder is.
type Service struct {
	finder   PathFinder
	driver   string
	schema   Schema
	maxDepth int
}

// New creates a procedure service. driver labels metrics; maxDepth <= 0 selects DefaultMaxDepth.
func New(finder PathFinder, driver string, schema Schema, maxDepth int) *Service {
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	return &Service{finder: finder, driver: driver, schema: schema, maxDepth: maxDepth}
}

// FetchPath returns the step titles from startID along the relation, start node first.
// An empty or unknown startID yields an empty path. Paths stop before a repeated node and
// are truncated at maxDepth steps.
func (s *Service) FetchPath(ctx context.Context, startID string) ([]string, error) {
	if startID == "" {
		return []string{}, nil
	}

	// One extra node tells a path of exactly maxDepth apart from a longer one.
	nodes, err := s.finder.FindPath(ctx, &db.PathQuery{
		StartID:   startID,
		Label:     s.schema.Label,
		IDProp:    s.schema.IDProp,
		TitleProp: s.schema.TitleProp,
		Relation:  s.schema.Relation,
		MaxNodes:  s.maxDepth + 1,
	})
	if err != nil {
		metrics.GraphQueriesTotal.WithLabelValues(s.driver, "error").Inc()
		return nil, fmt.Errorf("fetch path from %q: %w: %w", startID, domain.ErrGraphUnavailable, err)
	}
	metrics.GraphQueriesTotal.WithLabelValues(s.driver, "ok").Inc()

	nodes = cutAtRepeat(nodes)
	if len(nodes) > s.maxDepth {
		logger.FromContext(ctx).Warn("Procedure path truncated",
			zap.String("start_id", startID),
			zap.Int("max_depth", s.maxDepth),
		)
		nodes = nodes[:s.maxDepth]
	}

	titles := make([]string, len(nodes))
	for i, n := range nodes {
		titles[i] = n.Title
	}
	return titles, nil
}

// cutAtRepeat enforces the no-revisit rule for drivers that do not track visited nodes.
func cutAtRepeat(nodes []db.PathNode) []db.PathNode {
	seen := make(map[string]struct{}, len(nodes))
	for i, n := range nodes {
		if _, dup := seen[n.ID]; dup {
			return nodes[:i]
		}
		seen[n.ID] = struct{}{}
	}
	return nodes
}
