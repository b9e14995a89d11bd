package sdk

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type graphDriver string

const (
	driverNeo4j  graphDriver = "neo4j"
	driverRedis  graphDriver = "redis"
	driverCustom graphDriver = "custom"
)

type clientConfig struct {
	documents  []Document
	hasDocs    bool
	corpusPath string

	embedder            Embedder
	documentInstruction string
	queryInstruction    string

	driver        graphDriver
	neo4jURI      string
	neo4jUser     string
	neo4jPassword string
	neo4jDatabase string
	redisAddrs    []string
	redisPassword string
	redisPrefix   string
	finder        PathFinder

	label     string
	idProp    string
	titleProp string
	relation  string

	topK             int
	maxDepth         int
	readinessTimeout time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithDocuments sets the corpus directly. Order defines index positions.
// An empty slice is a valid, empty corpus.
func WithDocuments(docs []Document) Option {
	return optionFunc(func(c *clientConfig) {
		c.documents = docs
		c.hasDocs = true
	})
}

// WithCorpusFile loads the corpus from a JSON array of {"id","type","text"}
// records (YAML when the extension is .yaml or .yml).
func WithCorpusFile(path string) Option {
	return optionFunc(func(c *clientConfig) {
		c.corpusPath = path
	})
}

// WithEmbedder sets the text embedding provider.
// Defaults to the offline hashing embedder.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithInstructions sets prefixes prepended to document and query texts before
// embedding, for models trained with asymmetric instructions.
func WithInstructions(document, query string) Option {
	return optionFunc(func(c *clientConfig) {
		c.documentInstruction = document
		c.queryInstruction = query
	})
}

// WithNeo4j reads procedures from a Neo4j server over Bolt.
func WithNeo4j(uri, username, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverNeo4j
		c.neo4jURI = uri
		c.neo4jUser = username
		c.neo4jPassword = password
	})
}

// WithNeo4jDatabase selects a non-default Neo4j database.
func WithNeo4jDatabase(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.neo4jDatabase = name
	})
}

// WithRedis reads procedures from Redis or Valkey hashes
// ("helpdex:step:<id>" with fields "title" and "next").
func WithRedis(addr, password string) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverRedis
		c.redisAddrs = []string{addr}
		c.redisPassword = password
	})
}

// WithRedisKeyPrefix overrides the "helpdex:" key prefix.
func WithRedisKeyPrefix(prefix string) Option {
	return optionFunc(func(c *clientConfig) {
		c.redisPrefix = prefix
	})
}

// WithPathFinder replaces the graph store with a custom traversal.
func WithPathFinder(f PathFinder) Option {
	return optionFunc(func(c *clientConfig) {
		c.driver = driverCustom
		c.finder = f
	})
}

// WithGraphSchema overrides the node label, id and title properties and the relation.
// Empty arguments keep the defaults Step, nodeId, title and NEXT.
func WithGraphSchema(label, idProp, titleProp, relation string) Option {
	return optionFunc(func(c *clientConfig) {
		c.label = label
		c.idProp = idProp
		c.titleProp = titleProp
		c.relation = relation
	})
}

// WithTopK sets how many nearest documents are inspected per question. Default: 5.
func WithTopK(k int) Option {
	return optionFunc(func(c *clientConfig) {
		c.topK = k
	})
}

// WithMaxDepth caps the number of steps per procedure. Default: 64.
func WithMaxDepth(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.maxDepth = n
	})
}

// WithReadinessTimeout bounds the wait for the graph store in New. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithLogger enables structured logging for SDK operations.
// Pass nil to disable (default). Uses standard library slog.
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers SDK metrics (operation counts and durations) and the
// pipeline, embedding and graph metrics on the given registerer.
// Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
