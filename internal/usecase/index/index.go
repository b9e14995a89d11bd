// Package index embeds the corpus once and answers nearest-neighbour queries over it.
package index

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/helpdex/internal/db/flat"
	"github.com/kailas-cloud/helpdex/internal/domain"
)

// Index maps flat-index positions back to corpus documents.
// Read-only after Build and safe for concurrent Search.
type Index struct {
	corpus Corpus
	vecs   *flat.Index
	query  Embedder
}

// Build embeds every document text in corpus order. docEmbedder and queryEmbedder may be
// the same value; they differ when the model expects instruction prefixes.
func Build(
	ctx context.Context, corpus Corpus,
	docEmbedder, queryEmbedder Embedder, logger *zap.Logger,
) (*Index, error) {
	x := &Index{corpus: corpus, vecs: flat.New(0), query: queryEmbedder}
	if corpus.Len() == 0 {
		logger.Warn("Corpus is empty, every search will return no hits")
		return x, nil
	}

	start := time.Now()
	res, err := domain.EmbedAll(ctx, docEmbedder, corpus.Texts())
	if err != nil {
		return nil, fmt.Errorf("embed corpus: %w", err)
	}
	if err := x.vecs.Add(res.Embeddings...); err != nil {
		return nil, mapFlatError(err)
	}

	logger.Info("Index built",
		zap.Int("documents", x.vecs.Len()),
		zap.Int("dimensions", x.vecs.Dim()),
		zap.Int("total_tokens", res.TotalTokens),
		zap.Duration("duration", time.Since(start)),
	)
	return x, nil
}

// Len returns the number of indexed documents.
func (x *Index) Len() int { return x.vecs.Len() }

// Dim returns the vector dimension, 0 for an empty index.
func (x *Index) Dim() int { return x.vecs.Dim() }

// Search returns up to k documents nearest to query, ascending by L2 distance.
// An empty index returns no hits without embedding the query.
func (x *Index) Search(ctx context.Context, query string, k int) ([]domain.Hit, error) {
	if k <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d: %w", k, domain.ErrInvalidQuery)
	}
	if x.vecs.Len() == 0 {
		return nil, nil
	}

	emb, err := x.query.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	domain.UsageFromContext(ctx).AddTokens(emb.TotalTokens)

	neighbors, err := x.vecs.Search(emb.Embedding, k)
	if err != nil {
		return nil, mapFlatError(err)
	}

	hits := make([]domain.Hit, 0, len(neighbors))
	for _, n := range neighbors {
		doc, ok := x.corpus.At(n.Pos)
		if !ok {
			return nil, fmt.Errorf("index position %d outside corpus of %d", n.Pos, x.corpus.Len())
		}
		hits = append(hits, domain.Hit{Document: doc, Distance: n.Distance})
	}
	return hits, nil
}

func mapFlatError(err error) error {
	if errors.Is(err, flat.ErrDimMismatch) {
		return fmt.Errorf("%w: %w", domain.ErrVectorDimMismatch, err)
	}
	return err
}
