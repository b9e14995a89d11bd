package index

import (
	"context"

	"github.com/kailas-cloud/helpdex/internal/domain"
)

// Embedder vectorizes text into embeddings.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// Corpus is the read side of the document store.
type Corpus interface {
	Len() int
	At(i int) (domain.Document, bool)
	Texts() []string
}
