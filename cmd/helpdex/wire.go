package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/helpdex/internal/config"
	"github.com/kailas-cloud/helpdex/internal/db"
	dbNeo4j "github.com/kailas-cloud/helpdex/internal/db/neo4j"
	dbRedis "github.com/kailas-cloud/helpdex/internal/db/redis"
	"github.com/kailas-cloud/helpdex/internal/domain"
	"github.com/kailas-cloud/helpdex/internal/metrics"
	corpusrepo "github.com/kailas-cloud/helpdex/internal/repository/corpus"
	"github.com/kailas-cloud/helpdex/internal/repository/embcache"
	"github.com/kailas-cloud/helpdex/internal/transport/hashing"
	ollamaEmb "github.com/kailas-cloud/helpdex/internal/transport/ollama"
	openaiEmb "github.com/kailas-cloud/helpdex/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/helpdex/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/helpdex/internal/usecase/health"
	"github.com/kailas-cloud/helpdex/internal/usecase/index"
	"github.com/kailas-cloud/helpdex/internal/usecase/pipeline"
	"github.com/kailas-cloud/helpdex/internal/usecase/procedure"
)

// app is the process-wide context: built once at startup, read-only afterwards.
type app struct {
	pipeline *pipeline.Pipeline
	health   *healthuc.Service
	closers  []func()
}

// Close releases stores in reverse order of creation.
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// newApp is the composition root shared by serve and ask.
func newApp(ctx context.Context, cfg config.Config, logger *zap.Logger) (_ *app, err error) {
	a := &app{}
	defer func() {
		if err != nil {
			a.Close()
		}
	}()

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return nil, err
	}

	docs, err := corpusrepo.LoadFile(cfg.Corpus.Path)
	if err != nil {
		return nil, err
	}
	for t, n := range docs.CountByType() {
		metrics.IndexDocuments.WithLabelValues(string(t)).Set(float64(n))
	}
	logger.Info("Corpus loaded", zap.String("path", cfg.Corpus.Path), zap.Int("documents", docs.Len()))

	var cache *dbRedis.Store
	if cfg.Cache.Enabled {
		cache, err = dbRedis.NewStore(redisConfig(cfg.Cache.Redis))
		if err != nil {
			return nil, fmt.Errorf("embedding cache: %w", err)
		}
		a.closers = append(a.closers, cache.Close)
	}

	base, err := newProvider(cfg.Embedding, logger)
	if err != nil {
		return nil, err
	}
	docEmbedder := buildEmbedder(base, cfg, cfg.Embedding.DocumentInstruction, cache, logger)
	queryEmbedder := buildEmbedder(base, cfg, cfg.Embedding.QueryInstruction, cache, logger)
	logger.Info("Embedders created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Bool("cache", cache != nil),
	)

	graph, err := newGraphStore(cfg.Graph)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, graph.Close)

	readiness := time.Duration(cfg.Graph.ReadinessTimeout) * time.Second
	if err := graph.WaitForReady(ctx, readiness); err != nil {
		return nil, fmt.Errorf("graph store not ready: %w: %w", domain.ErrGraphUnavailable, err)
	}
	logger.Info("Connected to graph store", zap.String("driver", cfg.Graph.Driver))

	idx, err := index.Build(ctx, docs, docEmbedder, queryEmbedder, logger)
	if err != nil {
		return nil, err
	}

	procedures := procedure.New(graph, cfg.Graph.Driver, procedure.Schema{
		Label:     cfg.Graph.Label,
		IDProp:    cfg.Graph.IDProperty,
		TitleProp: cfg.Graph.TitleProperty,
		Relation:  cfg.Graph.Relation,
	}, cfg.Graph.MaxDepth)

	a.pipeline = pipeline.New(idx, procedures, cfg.Search.TopK, logger)
	a.health = healthuc.New(graph, newEmbeddingHealthChecker(docEmbedder))
	if cache != nil {
		a.health.WithCache(cache)
	}
	return a, nil
}

func redisConfig(c config.RedisConfig) dbRedis.Config {
	return dbRedis.Config{
		Addrs:     c.Addrs,
		Username:  c.Username,
		Password:  c.Password,
		DB:        c.DB,
		KeyPrefix: c.KeyPrefix,
	}
}

func newGraphStore(c config.GraphConfig) (db.GraphStore, error) {
	var (
		store db.GraphStore
		err   error
	)
	switch c.Driver {
	case config.DriverNeo4j:
		store, err = dbNeo4j.NewStore(dbNeo4j.Config{
			URI:      c.Neo4j.URI,
			Username: c.Neo4j.Username,
			Password: c.Neo4j.Password,
			Database: c.Neo4j.Database,
		})
	case config.DriverRedis:
		store, err = dbRedis.NewStore(redisConfig(c.Redis))
	default:
		return nil, fmt.Errorf("unknown graph driver %q: %w", c.Driver, domain.ErrConfiguration)
	}
	if err != nil {
		return nil, fmt.Errorf("create %s graph store: %w", c.Driver, err)
	}
	return store, nil
}

// newProvider creates the base embedding provider.
func newProvider(c config.EmbeddingConfig, logger *zap.Logger) (domain.Embedder, error) {
	switch c.Provider {
	case config.ProviderHash:
		return hashing.NewEmbedder(c.Dimensions), nil
	case config.ProviderOpenAI:
		return openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     c.APIKey,
			BaseURL:    c.BaseURL,
			Model:      c.Model,
			Dimensions: c.Dimensions,
			Provider:   c.Provider,
			Logger:     logger,
		}), nil
	case config.ProviderOllama:
		e, err := ollamaEmb.NewEmbedder(&ollamaEmb.Config{
			Host:       c.BaseURL,
			Model:      c.Model,
			Timeout:    time.Duration(c.TimeoutSec) * time.Second,
			MaxRetries: c.MaxRetries,
			Logger:     logger,
		})
		if err != nil {
			return nil, fmt.Errorf("create ollama embedder: %w", err)
		}
		return e, nil
	default:
		return nil, fmt.Errorf("unknown embedding provider %q: %w", c.Provider, domain.ErrConfiguration)
	}
}

// buildEmbedder assembles the decorator chain: provider -> cached -> instrumented -> instruction.
// cache may be nil.
func buildEmbedder(
	base domain.Embedder,
	cfg config.Config,
	instruction string,
	cache *dbRedis.Store,
	logger *zap.Logger,
) domain.Embedder {
	embedder := base

	if cache != nil {
		embedder = embcache.New(embedder, cache, embcache.Options{
			KeyPrefix:  cacheKeyPrefix(cache, cfg.Embedding),
			TTL:        time.Duration(cfg.Cache.TTLSec) * time.Second,
			CacheTotal: metrics.EmbeddingCacheTotal,
		}, logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(
		embedder, cfg.Embedding.Provider, cfg.Embedding.Model, cfg.Embedding.BatchSize, logger,
	)

	// Outermost, so the cache key includes the instruction.
	if instruction != "" {
		return domain.NewInstructionEmbedder(embedder, instruction)
	}
	return embedder
}

// cacheKeyPrefix scopes cached vectors by provider, model and dimensions.
func cacheKeyPrefix(cache *dbRedis.Store, c config.EmbeddingConfig) string {
	return cache.Key(fmt.Sprintf("emb:%s:%s:%d:", c.Provider, c.Model, c.Dimensions))
}

// embeddingHealthChecker wraps domain.Embedder to implement health.EmbeddingChecker.
// Providers without a health endpoint always pass.
type embeddingHealthChecker struct {
	embedder domain.Embedder
}

func newEmbeddingHealthChecker(embedder domain.Embedder) *embeddingHealthChecker {
	return &embeddingHealthChecker{embedder: embedder}
}

func (h *embeddingHealthChecker) HealthCheck(ctx context.Context) error {
	if hc, ok := h.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
}
