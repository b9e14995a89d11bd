// Package corpus holds the immutable document set the index is built from.
package corpus

import (
	"fmt"

	"github.com/kailas-cloud/helpdex/internal/domain"
)

// Store is the validated, read-only document collection.
// Position in the store is the positional index used by the vector index.
type Store struct {
	docs []domain.Document
	byID map[string]int
}

// New validates documents and creates a Store. An empty slice is valid.
// Every document needs a unique non-empty ID, a known type and non-empty text.
func New(docs []domain.Document) (*Store, error) {
	s := &Store{
		docs: make([]domain.Document, len(docs)),
		byID: make(map[string]int, len(docs)),
	}
	for i, d := range docs {
		if d.ID == "" {
			return nil, fmt.Errorf("document %d: id is required: %w", i, domain.ErrConfiguration)
		}
		if _, err := domain.ParseDocType(string(d.Type)); err != nil {
			return nil, fmt.Errorf("document %q: %w: %w", d.ID, domain.ErrConfiguration, err)
		}
		if d.Text == "" {
			return nil, fmt.Errorf("document %q: text is required: %w", d.ID, domain.ErrConfiguration)
		}
		if prev, dup := s.byID[d.ID]; dup {
			return nil, fmt.Errorf("document %q: duplicate id (first at %d): %w", d.ID, prev, domain.ErrConfiguration)
		}
		s.byID[d.ID] = i
		s.docs[i] = d
	}
	return s, nil
}

// Len returns the number of documents.
func (s *Store) Len() int { return len(s.docs) }

// At returns the document at position i.
func (s *Store) At(i int) (domain.Document, bool) {
	if i < 0 || i >= len(s.docs) {
		return domain.Document{}, false
	}
	return s.docs[i], true
}

// Get returns a document by ID.
func (s *Store) Get(id string) (domain.Document, bool) {
	i, ok := s.byID[id]
	if !ok {
		return domain.Document{}, false
	}
	return s.docs[i], true
}

// Texts returns document texts in positional order.
func (s *Store) Texts() []string {
	out := make([]string, len(s.docs))
	for i, d := range s.docs {
		out[i] = d.Text
	}
	return out
}

// CountByType returns how many documents of each type the store holds.
func (s *Store) CountByType() map[domain.DocType]int {
	out := make(map[domain.DocType]int, 3)
	for _, d := range s.docs {
		out[d.Type]++
	}
	return out
}
