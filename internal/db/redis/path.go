package redis

import (
	"context"
	"strings"

	"github.com/kailas-cloud/helpdex/internal/db"
)

// Steps are stored as hashes:
//
//	HSET helpdex:step:p1 title "Start" next p2
//
// Schema names are matched in lower case: the hash key is prefix + lower(label) + ":" + id,
// the title lives in the field lower(titleProp) and the successor in lower(relation).
// Node ids are used verbatim.

// StepKey returns the hash key of a node.
func (s *Store) StepKey(label, id string) string {
	return s.prefix + strings.ToLower(label) + ":" + id
}

// FindPath walks the relation one HGETALL per hop. The walk stops at a node without
// a successor, at a dangling successor, before revisiting a node, or at q.MaxNodes.
func (s *Store) FindPath(ctx context.Context, q *db.PathQuery) ([]db.PathNode, error) {
	if q.StartID == "" {
		return nil, nil
	}

	titleField := strings.ToLower(q.TitleProp)
	relField := strings.ToLower(q.Relation)
	seen := make(map[string]struct{})
	var path []db.PathNode

	for id := q.StartID; id != ""; {
		if q.MaxNodes > 0 && len(path) >= q.MaxNodes {
			break
		}
		if _, dup := seen[id]; dup {
			break
		}
		seen[id] = struct{}{}

		cmd := s.b().Hgetall().Key(s.StepKey(q.Label, id)).Build()
		fields, err := s.do(ctx, cmd).AsStrMap()
		if err != nil {
			return nil, &db.Error{Op: db.OpHGetAll, Err: err}
		}
		if len(fields) == 0 {
			break
		}

		path = append(path, db.PathNode{ID: id, Title: fields[titleField]})
		id = fields[relField]
	}

	return path, nil
}
