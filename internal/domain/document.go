package domain

import "fmt"

// DocType is the kind of a corpus document.
type DocType string

const (
	// DocArticle is a free-form knowledge article.
	DocArticle DocType = "article"
	// DocScript is an agent script.
	DocScript DocType = "script"
	// DocProcedure is the entry point of a step chain in the graph store.
	DocProcedure DocType = "procedure"
)

// ParseDocType validates a raw type tag.
func ParseDocType(s string) (DocType, error) {
	switch t := DocType(s); t {
	case DocArticle, DocScript, DocProcedure:
		return t, nil
	default:
		return "", fmt.Errorf("unknown document type %q", s)
	}
}

// Document is an immutable corpus entry. For procedures ID is also the graph node id.
type Document struct {
	ID   string  `json:"id"`
	Type DocType `json:"type"`
	Text string  `json:"text"`
}

// Hit is a single nearest-neighbour match. Distance is Euclidean, lower is closer.
type Hit struct {
	Document Document
	Distance float32
}
