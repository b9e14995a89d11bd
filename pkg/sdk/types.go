package sdk

import "github.com/kailas-cloud/helpdex/internal/domain"

// DocType classifies a corpus document.
type DocType string

// Document types.
const (
	DocProcedure DocType = DocType(domain.DocProcedure)
	DocArticle   DocType = DocType(domain.DocArticle)
	DocScript    DocType = DocType(domain.DocScript)
)

// Document is one corpus record. Procedure IDs are graph start nodes.
type Document struct {
	ID   string
	Type DocType
	Text string
}

// Answer is the pipeline result. Procedure is never nil.
type Answer struct {
	Procedure []string `json:"procedure"`
	Article   string   `json:"article"`
	Script    string   `json:"script"`
}

// IsEmpty reports whether nothing matched.
func (a Answer) IsEmpty() bool {
	return len(a.Procedure) == 0 && a.Article == "" && a.Script == ""
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component → "ok"/"error"
}

func toDomainDocs(docs []Document) []domain.Document {
	out := make([]domain.Document, len(docs))
	for i, d := range docs {
		out[i] = domain.Document{ID: d.ID, Type: domain.DocType(d.Type), Text: d.Text}
	}
	return out
}

func fromDomainAnswer(a domain.Answer) Answer {
	proc := a.Procedure
	if proc == nil {
		proc = []string{}
	}
	return Answer{Procedure: proc, Article: a.Article, Script: a.Script}
}
