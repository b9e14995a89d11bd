package sdk

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/helpdex/internal/db"
	dbNeo4j "github.com/kailas-cloud/helpdex/internal/db/neo4j"
	dbRedis "github.com/kailas-cloud/helpdex/internal/db/redis"
	"github.com/kailas-cloud/helpdex/internal/domain"
	domcorpus "github.com/kailas-cloud/helpdex/internal/domain/corpus"
	"github.com/kailas-cloud/helpdex/internal/metrics"
	corpusrepo "github.com/kailas-cloud/helpdex/internal/repository/corpus"
	"github.com/kailas-cloud/helpdex/internal/transport/hashing"
	healthuc "github.com/kailas-cloud/helpdex/internal/usecase/health"
	"github.com/kailas-cloud/helpdex/internal/usecase/index"
	"github.com/kailas-cloud/helpdex/internal/usecase/pipeline"
	"github.com/kailas-cloud/helpdex/internal/usecase/procedure"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultRedisPrefix      = "helpdex:"
)

// answerUseCase is the internal interface for the pipeline, replaceable in tests.
type answerUseCase interface {
	Answer(ctx context.Context, query string) (domain.Answer, error)
}

// graphStore is what the client owns of a graph connection.
type graphStore interface {
	procedure.PathFinder
	db.Pinger
}

// Client is the helpdex SDK entry point.
type Client struct {
	answers   answerUseCase
	graph     db.Pinger
	closer    func()
	healthSvc healthUseCase
	obs       *observer
	documents int
}

// New loads the corpus, embeds it, connects to the graph store and wires the pipeline.
// The provided context bounds embedding and the readiness check.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{readinessTimeout: defaultReadinessTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	docs, err := loadCorpus(cfg)
	if err != nil {
		return nil, err
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}
	if cfg.metricsReg != nil {
		if err := metrics.Register(cfg.metricsReg); err != nil {
			return nil, fmt.Errorf("helpdex: %w", err)
		}
	}

	graph, closer, err := connectGraph(ctx, cfg)
	if err != nil {
		return nil, err
	}

	c, err := wireClient(ctx, cfg, docs, graph, obs)
	if err != nil {
		closer()
		return nil, err
	}
	c.closer = closer
	return c, nil
}

func loadCorpus(cfg *clientConfig) (*domcorpus.Store, error) {
	switch {
	case cfg.hasDocs && cfg.corpusPath != "":
		return nil, fmt.Errorf("helpdex: WithDocuments and WithCorpusFile are exclusive: %w", domain.ErrConfiguration)
	case cfg.hasDocs:
		s, err := domcorpus.New(toDomainDocs(cfg.documents))
		if err != nil {
			return nil, fmt.Errorf("helpdex: %w", err)
		}
		return s, nil
	case cfg.corpusPath != "":
		s, err := corpusrepo.LoadFile(cfg.corpusPath)
		if err != nil {
			return nil, fmt.Errorf("helpdex: %w", err)
		}
		return s, nil
	default:
		return nil, fmt.Errorf("helpdex: corpus required (use WithDocuments or WithCorpusFile): %w", domain.ErrConfiguration)
	}
}

// connectGraph opens the configured store and waits for it. The returned closer is never nil.
func connectGraph(ctx context.Context, cfg *clientConfig) (graphStore, func(), error) {
	var store db.GraphStore
	switch cfg.driver {
	case driverCustom:
		if cfg.finder == nil {
			return nil, nil, fmt.Errorf("helpdex: nil PathFinder: %w", domain.ErrConfiguration)
		}
		return &finderAdapter{inner: cfg.finder}, func() {}, nil
	case driverNeo4j:
		s, err := dbNeo4j.NewStore(dbNeo4j.Config{
			URI:      cfg.neo4jURI,
			Username: cfg.neo4jUser,
			Password: cfg.neo4jPassword,
			Database: cfg.neo4jDatabase,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("helpdex: create neo4j store: %w", err)
		}
		store = s
	case driverRedis:
		prefix := cfg.redisPrefix
		if prefix == "" {
			prefix = defaultRedisPrefix
		}
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:     cfg.redisAddrs,
			Password:  cfg.redisPassword,
			KeyPrefix: prefix,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("helpdex: create redis store: %w", err)
		}
		store = s
	default:
		return nil, nil, fmt.Errorf(
			"helpdex: graph store required (use WithNeo4j, WithRedis or WithPathFinder): %w",
			domain.ErrConfiguration,
		)
	}

	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("helpdex: graph store not ready: %w: %w", domain.ErrGraphUnavailable, err)
	}
	return store, store.Close, nil
}

func wireClient(
	ctx context.Context, cfg *clientConfig,
	docs *domcorpus.Store, graph graphStore, obs *observer,
) (*Client, error) {
	var base domain.Embedder = hashing.NewEmbedder(0)
	if cfg.embedder != nil {
		base = adaptEmbedder(cfg.embedder)
	}
	docEmbedder := withInstruction(base, cfg.documentInstruction)
	queryEmbedder := withInstruction(base, cfg.queryInstruction)

	log := zap.NewNop()
	idx, err := index.Build(ctx, docs, docEmbedder, queryEmbedder, log)
	if err != nil {
		return nil, fmt.Errorf("helpdex: build index: %w", err)
	}

	schema := procedure.DefaultSchema()
	if cfg.label != "" {
		schema.Label = cfg.label
	}
	if cfg.idProp != "" {
		schema.IDProp = cfg.idProp
	}
	if cfg.titleProp != "" {
		schema.TitleProp = cfg.titleProp
	}
	if cfg.relation != "" {
		schema.Relation = cfg.relation
	}
	if cfg.driver == driverNeo4j {
		for _, id := range []string{schema.Label, schema.IDProp, schema.TitleProp, schema.Relation} {
			if err := dbNeo4j.ValidateIdentifier(id); err != nil {
				return nil, fmt.Errorf("helpdex: graph schema: %w: %w", domain.ErrConfiguration, err)
			}
		}
	}

	procedures := procedure.New(graph, string(cfg.driver), schema, cfg.maxDepth)

	var checker healthuc.EmbeddingChecker
	if hc, ok := cfg.embedder.(domain.HealthChecker); ok {
		checker = hc
	}

	return &Client{
		answers:   pipeline.New(idx, procedures, cfg.topK, log),
		graph:     graph,
		closer:    func() {},
		healthSvc: healthuc.New(graph, checker),
		obs:       obs,
		documents: docs.Len(),
	}, nil
}

func withInstruction(e domain.Embedder, instruction string) domain.Embedder {
	if instruction == "" {
		return e
	}
	return domain.NewInstructionEmbedder(e, instruction)
}

// Answer runs the pipeline for one question. Empty fields mean nothing matched;
// an error means the answer could not be produced (ErrGraphUnavailable,
// ErrEmbeddingProviderError, ErrInvalidQuery).
func (c *Client) Answer(ctx context.Context, query string) (ans Answer, err error) {
	start := time.Now()
	defer func() { c.obs.observe("answer", start, err) }()

	a, err := c.answers.Answer(ctx, query)
	if err != nil {
		return Answer{}, fmt.Errorf("answer: %w", err)
	}
	return fromDomainAnswer(a), nil
}

// Documents returns the number of indexed documents.
func (c *Client) Documents() int { return c.documents }

// Ping checks graph store connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if c.graph == nil {
		return errors.New("helpdex: client is not connected")
	}
	if err = c.graph.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Close releases the graph store connection. Safe to call more than once.
func (c *Client) Close() {
	if c.closer != nil {
		c.closer()
		c.closer = nil
	}
}
