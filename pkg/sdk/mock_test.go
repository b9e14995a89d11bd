package sdk

import (
	"context"
	"errors"
	"sync"

	"github.com/kailas-cloud/helpdex/internal/domain"
)

// --- PathFinder mock ---

type mapFinder struct {
	mu      sync.Mutex
	paths   map[string][]Step
	err     error
	pingErr error
	queries []PathQuery
}

func (m *mapFinder) FindPath(_ context.Context, q PathQuery) ([]Step, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queries = append(m.queries, q)
	if m.err != nil {
		return nil, m.err
	}
	return m.paths[q.StartID], nil
}

func (m *mapFinder) Ping(context.Context) error { return m.pingErr }

// bareFinder has no Ping method.
type bareFinder struct{}

func (bareFinder) FindPath(context.Context, PathQuery) ([]Step, error) { return nil, nil }

// --- Embedder mocks ---

type mockEmbedder struct {
	fn func(ctx context.Context, text string) (EmbeddingResult, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) (EmbeddingResult, error) {
	return m.fn(ctx, text)
}

type mockBatchEmbedder struct {
	mockEmbedder
	batchCalls int
}

func (m *mockBatchEmbedder) BatchEmbed(ctx context.Context, texts []string) (BatchEmbeddingResult, error) {
	m.batchCalls++
	out := BatchEmbeddingResult{Embeddings: make([][]float32, len(texts))}
	for i, t := range texts {
		r, err := m.fn(ctx, t)
		if err != nil {
			return BatchEmbeddingResult{}, err
		}
		out.Embeddings[i] = r.Embedding
	}
	return out, nil
}

// --- answerUseCase mock ---

type mockAnswerUC struct {
	answerFn func(ctx context.Context, query string) (domain.Answer, error)
}

func (m *mockAnswerUC) Answer(ctx context.Context, query string) (domain.Answer, error) {
	return m.answerFn(ctx, query)
}

// --- helpers ---

var errProviderDown = errors.New("provider down")

func supportDocs() []Document {
	return []Document{
		{ID: "p1", Type: DocProcedure, Text: "reset a forgotten password"},
		{ID: "a1", Type: DocArticle, Text: "password reset from the account settings page"},
		{ID: "s1", Type: DocScript, Text: "I will help you reset your password"},
		{ID: "p2", Type: DocProcedure, Text: "cancel a subscription and refund"},
	}
}

func supportFinder() *mapFinder {
	return &mapFinder{paths: map[string][]Step{
		"p1": {{ID: "p1", Title: "Verify identity"}, {ID: "p1b", Title: "Send reset link"}},
		"p2": {{ID: "p2", Title: "Confirm cancellation"}},
	}}
}
