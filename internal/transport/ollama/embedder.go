// Package ollama is an embedding provider backed by a local Ollama server.
package ollama

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/ollama/ollama/api"
	"go.uber.org/zap"

	"github.com/kailas-cloud/helpdex/internal/domain"
	"github.com/kailas-cloud/helpdex/internal/metrics"
)

const providerName = "ollama"

var (
	_ domain.Embedder      = (*Embedder)(nil)
	_ domain.BatchEmbedder = (*Embedder)(nil)
	_ domain.HealthChecker = (*Embedder)(nil)
)

// Config holds the Ollama connection settings.
type Config struct {
	Host       string        // e.g. http://localhost:11434
	Model      string        // e.g. nomic-embed-text
	Timeout    time.Duration // per-request HTTP timeout
	MaxRetries int           // extra attempts after a failed request
	Logger     *zap.Logger
}

// Embedder calls POST /api/embed.
type Embedder struct {
	client     *api.Client
	model      string
	maxRetries int
	backoff    time.Duration
	logger     *zap.Logger
}

// NewEmbedder creates an Ollama embedding provider.
func NewEmbedder(cfg *Config) (*Embedder, error) {
	host := cfg.Host
	if host == "" {
		host = "http://localhost:11434"
	}
	u, err := url.Parse(host)
	if err != nil {
		return nil, fmt.Errorf("parse ollama host %q: %w", host, err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Embedder{
		client:     api.NewClient(u, &http.Client{Timeout: timeout}),
		model:      cfg.Model,
		maxRetries: cfg.MaxRetries,
		backoff:    500 * time.Millisecond,
		logger:     cfg.Logger,
	}, nil
}

// Embed implements domain.Embedder.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	res, err := e.embed(ctx, []string{text})
	if err != nil {
		return domain.EmbeddingResult{}, err
	}
	return domain.EmbeddingResult{
		Embedding:    res.Embeddings[0],
		PromptTokens: res.PromptTokens,
		TotalTokens:  res.TotalTokens,
	}, nil
}

// BatchEmbed implements domain.BatchEmbedder; /api/embed accepts a list of inputs.
func (e *Embedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}
	return e.embed(ctx, texts)
}

// HealthCheck pings the server.
func (e *Embedder) HealthCheck(ctx context.Context) error {
	if err := e.client.Heartbeat(ctx); err != nil {
		return fmt.Errorf("ollama heartbeat: %w", err)
	}
	return nil
}

func (e *Embedder) embed(ctx context.Context, inputs []string) (domain.BatchEmbeddingResult, error) {
	req := &api.EmbedRequest{Model: e.model, Input: inputs}

	start := time.Now()
	resp, err := e.withRetry(ctx, req)
	duration := time.Since(start)

	if err != nil {
		metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, e.model, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(providerName, e.model, "api_error").Inc()
		return domain.BatchEmbeddingResult{}, parseAPIError(err)
	}
	if len(resp.Embeddings) != len(inputs) {
		metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, e.model, "error").Inc()
		metrics.EmbeddingErrorsTotal.WithLabelValues(providerName, e.model, "count_mismatch").Inc()
		return domain.BatchEmbeddingResult{}, fmt.Errorf("got %d embeddings for %d inputs: %w",
			len(resp.Embeddings), len(inputs), domain.ErrEmbeddingProviderError)
	}

	metrics.EmbeddingRequestsTotal.WithLabelValues(providerName, e.model, "success").Inc()
	metrics.EmbeddingRequestDuration.WithLabelValues(providerName, e.model).Observe(duration.Seconds())
	if resp.PromptEvalCount > 0 {
		metrics.EmbeddingTokensTotal.WithLabelValues(providerName, e.model, "prompt").Add(float64(resp.PromptEvalCount))
	}

	return domain.BatchEmbeddingResult{
		Embeddings:   resp.Embeddings,
		PromptTokens: resp.PromptEvalCount,
		TotalTokens:  resp.PromptEvalCount,
	}, nil
}

// withRetry retries transient failures with exponential backoff. Client errors (4xx) are final.
func (e *Embedder) withRetry(ctx context.Context, req *api.EmbedRequest) (*api.EmbedResponse, error) {
	var lastErr error
	delay := e.backoff

	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		resp, err := e.client.Embed(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if !retryable(err) || attempt == e.maxRetries {
			break
		}
		e.logger.Warn("Ollama embed failed, retrying",
			zap.Int("attempt", attempt+1),
			zap.Duration("backoff", delay),
			zap.Error(err),
		)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
	return nil, lastErr
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se api.StatusError
	if errors.As(err, &se) {
		return se.StatusCode >= 500 || se.StatusCode == http.StatusTooManyRequests
	}
	return true
}

// parseAPIError wraps every failure with domain.ErrEmbeddingProviderError for 502 mapping.
func parseAPIError(err error) error {
	var se api.StatusError
	if errors.As(err, &se) {
		msg := se.ErrorMessage
		if msg == "" {
			msg = se.Status
		}
		return fmt.Errorf("ollama error %d: %s: %w", se.StatusCode, msg, domain.ErrEmbeddingProviderError)
	}
	return fmt.Errorf("ollama request failed: %v: %w", err, domain.ErrEmbeddingProviderError)
}
