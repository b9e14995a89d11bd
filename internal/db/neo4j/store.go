// Package neo4j implements db.GraphStore on a Neo4j server via the official Bolt driver.
package neo4j

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/kailas-cloud/helpdex/internal/db"
)

var _ db.GraphStore = (*Store)(nil)

// Config holds Bolt connection parameters.
type Config struct {
	URI      string // bolt://host:7687 or neo4j://host:7687
	Username string
	Password string
	Database string // empty selects the server default
}

// Store is a read-only graph client. The underlying driver is safe for concurrent use;
// every FindPath opens its own session.
type Store struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewStore creates a driver. No connection is made until the first query or Ping.
func NewStore(cfg Config) (*Store, error) {
	if cfg.URI == "" {
		return nil, errors.New("uri is required")
	}

	driver, err := neo4j.NewDriverWithContext(cfg.URI, neo4j.BasicAuth(cfg.Username, cfg.Password, ""))
	if err != nil {
		return nil, &db.Error{Op: db.OpConnect, Err: err}
	}
	return &Store{driver: driver, database: cfg.Database}, nil
}

// Ping verifies that the server is reachable and the credentials are accepted.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.driver.VerifyConnectivity(ctx); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close releases pooled connections.
func (s *Store) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = s.driver.Close(ctx)
}

// WaitForReady polls Ping until the server responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for neo4j: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

// FindPath returns the longest chain of q.Relation edges starting at q.StartID.
func (s *Store) FindPath(ctx context.Context, q *db.PathQuery) ([]db.PathNode, error) {
	if q.StartID == "" {
		return nil, nil
	}

	cypher, err := buildPathCypher(q)
	if err != nil {
		return nil, err
	}

	session := s.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeRead,
		DatabaseName: s.database,
	})
	defer session.Close(ctx)

	raw, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, map[string]any{"start": q.StartID})
		if err != nil {
			return nil, err
		}
		records, err := res.Collect(ctx)
		if err != nil {
			return nil, err
		}
		if len(records) == 0 {
			return nil, nil
		}
		steps, _ := records[0].Get("steps")
		return steps, nil
	})
	if err != nil {
		return nil, &db.Error{Op: db.OpMatchPath, Err: err}
	}

	nodes, err := decodeSteps(raw)
	if err != nil {
		return nil, &db.Error{Op: db.OpMatchPath, Err: err}
	}
	return nodes, nil
}
