package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/helpdex/internal/domain"
)

func newTestEmbedder(t *testing.T, srv *httptest.Server, retries int) *Embedder {
	t.Helper()
	e, err := NewEmbedder(&Config{
		Host:       srv.URL,
		Model:      "nomic-embed-text",
		MaxRetries: retries,
		Logger:     zap.NewNop(),
	})
	if err != nil {
		t.Fatalf("NewEmbedder: %v", err)
	}
	e.backoff = time.Millisecond
	return e
}

func TestEmbedder_BatchEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embed" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var req struct {
			Model string   `json:"model"`
			Input []string `json:"input"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "nomic-embed-text" || len(req.Input) != 2 {
			t.Errorf("unexpected request: %+v", req)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"model":             req.Model,
			"embeddings":        [][]float32{{0.1, 0.2}, {0.3, 0.4}},
			"prompt_eval_count": 7,
		})
	}))
	defer srv.Close()

	res, err := newTestEmbedder(t, srv, 0).BatchEmbed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("BatchEmbed failed: %v", err)
	}
	if len(res.Embeddings) != 2 || res.Embeddings[1][0] != 0.3 {
		t.Fatalf("unexpected embeddings: %v", res.Embeddings)
	}
	if res.PromptTokens != 7 {
		t.Errorf("PromptTokens = %d, want 7", res.PromptTokens)
	}
}

func TestEmbedder_Embed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"embeddings": [][]float32{{1, 0, 0}},
		})
	}))
	defer srv.Close()

	res, err := newTestEmbedder(t, srv, 0).Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}
	if len(res.Embedding) != 3 {
		t.Errorf("expected 3 dims, got %d", len(res.Embedding))
	}
}

func TestEmbedder_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "model not found"})
	}))
	defer srv.Close()

	_, err := newTestEmbedder(t, srv, 3).Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
	if calls.Load() != 1 {
		t.Errorf("4xx must not be retried, got %d calls", calls.Load())
	}
}

func TestEmbedder_RetriesServerError(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "loading model"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": [][]float32{{1}}})
	}))
	defer srv.Close()

	if _, err := newTestEmbedder(t, srv, 2).Embed(context.Background(), "hello"); err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("expected 2 calls, got %d", calls.Load())
	}
}

func TestEmbedder_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": [][]float32{}})
	}))
	defer srv.Close()

	_, err := newTestEmbedder(t, srv, 0).Embed(context.Background(), "hello")
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected ErrEmbeddingProviderError, got %v", err)
	}
}

func TestNewEmbedder_BadHost(t *testing.T) {
	if _, err := NewEmbedder(&Config{Host: "://bad", Logger: zap.NewNop()}); err == nil {
		t.Fatal("expected error for malformed host")
	}
}
