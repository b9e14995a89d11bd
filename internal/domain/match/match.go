// Package match picks one representative document per type from ranked search hits.
package match

import "github.com/kailas-cloud/helpdex/internal/domain"

// Match holds the nearest document of each type. Empty fields mean "no match".
type Match struct {
	ProcedureID string
	Article     string
	Script      string
}

// Complete reports whether every slot is filled.
func (m Match) Complete() bool {
	return m.ProcedureID != "" && m.Article != "" && m.Script != ""
}

// Select scans hits nearest-first and fills each slot from the first document of its type.
// Procedures contribute their ID (the graph start node), articles and scripts their text.
// Lower-ranked documents of an already filled type are ignored.
func Select(hits []domain.Hit) Match {
	var m Match
	for _, h := range hits {
		switch h.Document.Type {
		case domain.DocProcedure:
			if m.ProcedureID == "" {
				m.ProcedureID = h.Document.ID
			}
		case domain.DocArticle:
			if m.Article == "" {
				m.Article = h.Document.Text
			}
		case domain.DocScript:
			if m.Script == "" {
				m.Script = h.Document.Text
			}
		}
		if m.Complete() {
			break
		}
	}
	return m
}
