package neo4j

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/kailas-cloud/helpdex/internal/db"
)

// ErrInvalidIdentifier is returned when a label, property or relation name cannot be
// embedded in a Cypher statement. Identifiers come from configuration, never from users.
var ErrInvalidIdentifier = errors.New("neo4j: invalid identifier")

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidateIdentifier reports whether name is a plain Cypher identifier.
func ValidateIdentifier(name string) error {
	if !identRe.MatchString(name) {
		return fmt.Errorf("%q: %w", name, ErrInvalidIdentifier)
	}
	return nil
}

// buildPathCypher renders the traversal. The lower bound of 0 makes a lone start node
// a valid path of length zero; the longest matching path wins.
func buildPathCypher(q *db.PathQuery) (string, error) {
	for _, ident := range []string{q.Label, q.IDProp, q.TitleProp, q.Relation} {
		if err := ValidateIdentifier(ident); err != nil {
			return "", err
		}
	}

	hops := ""
	if q.MaxNodes > 0 {
		hops = fmt.Sprintf("%d", q.MaxNodes-1)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "MATCH path = (s:%s {%s: $start})-[:%s*0..%s]->(:%s) ",
		q.Label, q.IDProp, q.Relation, hops, q.Label)
	fmt.Fprintf(&b, "RETURN [n IN nodes(path) | {id: n.%s, title: n.%s}] AS steps ",
		q.IDProp, q.TitleProp)
	b.WriteString("ORDER BY length(path) DESC LIMIT 1")
	return b.String(), nil
}

// decodeSteps converts the "steps" column into nodes. Variable-length matches may
// revisit a node on a cycle; the result is cut just before the first repeat.
func decodeSteps(raw any) ([]db.PathNode, error) {
	if raw == nil {
		return nil, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("steps: expected list, got %T", raw)
	}

	seen := make(map[string]struct{}, len(list))
	nodes := make([]db.PathNode, 0, len(list))
	for i, item := range list {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("steps[%d]: expected map, got %T", i, item)
		}
		id := asString(m["id"])
		if _, dup := seen[id]; dup {
			break
		}
		seen[id] = struct{}{}
		nodes = append(nodes, db.PathNode{ID: id, Title: asString(m["title"])})
	}
	return nodes, nil
}

func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	default:
		return fmt.Sprint(t)
	}
}
