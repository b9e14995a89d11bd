package index

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/helpdex/internal/domain"
	"github.com/kailas-cloud/helpdex/internal/domain/corpus"
)

// tableEmbedder returns a fixed vector per text.
type tableEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (m *tableEmbedder) Embed(_ context.Context, text string) (domain.EmbeddingResult, error) {
	m.calls++
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	v, ok := m.vectors[text]
	if !ok {
		return domain.EmbeddingResult{}, errors.New("no vector for " + text)
	}
	return domain.EmbeddingResult{Embedding: v}, nil
}

func newCorpus(t *testing.T, docs ...domain.Document) *corpus.Store {
	t.Helper()
	s, err := corpus.New(docs)
	if err != nil {
		t.Fatalf("corpus.New: %v", err)
	}
	return s
}

func fixture(t *testing.T) (*corpus.Store, *tableEmbedder) {
	t.Helper()
	c := newCorpus(t,
		domain.Document{ID: "a1", Type: domain.DocArticle, Text: "article"},
		domain.Document{ID: "s1", Type: domain.DocScript, Text: "script"},
		domain.Document{ID: "p1", Type: domain.DocProcedure, Text: "procedure"},
	)
	emb := &tableEmbedder{vectors: map[string][]float32{
		"article":   {0, 0},
		"script":    {3, 0},
		"procedure": {1, 0},
		"query":     {0.9, 0},
	}}
	return c, emb
}

func TestSearch_AscendingDistance(t *testing.T) {
	c, emb := fixture(t)
	x, err := Build(context.Background(), c, emb, emb, zap.NewNop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	hits, err := x.Search(context.Background(), "query", 3)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	wantIDs := []string{"p1", "a1", "s1"}
	for i, id := range wantIDs {
		if hits[i].Document.ID != id {
			t.Errorf("hit %d = %s, want %s", i, hits[i].Document.ID, id)
		}
	}
	for i := 1; i < len(hits); i++ {
		if hits[i].Distance < hits[i-1].Distance {
			t.Errorf("hits not ascending: %v", hits)
		}
	}
}

func TestSearch_KLargerThanCorpus(t *testing.T) {
	c, emb := fixture(t)
	x, _ := Build(context.Background(), c, emb, emb, zap.NewNop())

	hits, err := x.Search(context.Background(), "query", 50)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != c.Len() {
		t.Errorf("expected %d hits, got %d", c.Len(), len(hits))
	}
}

func TestSearch_NonPositiveK(t *testing.T) {
	c, emb := fixture(t)
	x, _ := Build(context.Background(), c, emb, emb, zap.NewNop())

	for _, k := range []int{0, -1} {
		if _, err := x.Search(context.Background(), "query", k); !errors.Is(err, domain.ErrInvalidQuery) {
			t.Errorf("k=%d: expected ErrInvalidQuery, got %v", k, err)
		}
	}
}

func TestSearch_EmptyCorpusSkipsEmbedder(t *testing.T) {
	emb := &tableEmbedder{}
	x, err := Build(context.Background(), newCorpus(t), emb, emb, zap.NewNop())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	hits, err := x.Search(context.Background(), "anything", 5)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(hits) != 0 || emb.calls != 0 {
		t.Errorf("hits=%d embed calls=%d, want 0/0", len(hits), emb.calls)
	}
}

func TestBuild_DimMismatchAcrossDocuments(t *testing.T) {
	c := newCorpus(t,
		domain.Document{ID: "a1", Type: domain.DocArticle, Text: "x"},
		domain.Document{ID: "a2", Type: domain.DocArticle, Text: "y"},
	)
	emb := &tableEmbedder{vectors: map[string][]float32{"x": {1, 2}, "y": {1}}}

	_, err := Build(context.Background(), c, emb, emb, zap.NewNop())
	if !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestSearch_QueryDimMismatch(t *testing.T) {
	c, emb := fixture(t)
	x, _ := Build(context.Background(), c, emb, emb, zap.NewNop())
	emb.vectors["short"] = []float32{1}

	if _, err := x.Search(context.Background(), "short", 1); !errors.Is(err, domain.ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestBuild_EmbedderError(t *testing.T) {
	c, _ := fixture(t)
	emb := &tableEmbedder{err: domain.ErrEmbeddingProviderError}

	if _, err := Build(context.Background(), c, emb, emb, zap.NewNop()); !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
}

func TestSearch_UsesQueryEmbedder(t *testing.T) {
	c, docEmb := fixture(t)
	queryEmb := &tableEmbedder{vectors: map[string][]float32{"query": {3, 0}}}
	x, _ := Build(context.Background(), c, docEmb, queryEmb, zap.NewNop())
	docCalls := docEmb.calls

	hits, err := x.Search(context.Background(), "query", 1)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if hits[0].Document.ID != "s1" {
		t.Errorf("expected s1 via query embedder, got %s", hits[0].Document.ID)
	}
	if docEmb.calls != docCalls || queryEmb.calls != 1 {
		t.Errorf("query must be embedded by the query embedder only")
	}
}

func TestSearch_Deterministic(t *testing.T) {
	c, emb := fixture(t)
	x, _ := Build(context.Background(), c, emb, emb, zap.NewNop())

	first, _ := x.Search(context.Background(), "query", 3)
	for range 3 {
		again, _ := x.Search(context.Background(), "query", 3)
		for i := range first {
			if first[i] != again[i] {
				t.Fatalf("non-deterministic search: %v vs %v", first, again)
			}
		}
	}
}

func TestSearch_RecordsQueryTokens(t *testing.T) {
	c, docEmb := fixture(t)
	queryEmb := &tokenEmbedder{inner: docEmb, tokens: 7}
	x, _ := Build(context.Background(), c, docEmb, queryEmb, zap.NewNop())

	ctx, usage := domain.NewContextWithUsage(context.Background())
	if _, err := x.Search(ctx, "query", 1); err != nil {
		t.Fatalf("Search: %v", err)
	}
	if !usage.Used || usage.TotalTokens != 7 {
		t.Errorf("usage = %+v, want 7 tokens", *usage)
	}
}

type tokenEmbedder struct {
	inner  domain.Embedder
	tokens int
}

func (e *tokenEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := e.inner.Embed(ctx, text)
	res.TotalTokens = e.tokens
	return res, err
}
