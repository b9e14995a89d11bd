package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kailas-cloud/helpdex/internal/domain"
)

// Config holds the helpdex configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	Corpus    CorpusConfig    `yaml:"corpus"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Cache     CacheConfig     `yaml:"cache"`
	Graph     GraphConfig     `yaml:"graph"`
	Search    SearchConfig    `yaml:"search"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CorpusConfig points at the document file (JSON array, or YAML by extension).
type CorpusConfig struct {
	Path string `yaml:"path"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	Provider            string `yaml:"provider"` // hash, openai, ollama (default: hash)
	Model               string `yaml:"model"`
	Dimensions          int    `yaml:"dimensions"`
	APIKey              string `yaml:"api_key"`
	BaseURL             string `yaml:"base_url"` // openai-compatible base URL or ollama host
	TimeoutSec          int    `yaml:"timeout_sec"`
	MaxRetries          int    `yaml:"max_retries"`
	BatchSize           int    `yaml:"batch_size"`
	DocumentInstruction string `yaml:"document_instruction"`
	QueryInstruction    string `yaml:"query_instruction"`
}

// RedisConfig holds a Redis/Valkey connection.
type RedisConfig struct {
	Addrs     []string `yaml:"addrs"`
	Username  string   `yaml:"username"`
	Password  string   `yaml:"password"`
	DB        int      `yaml:"db"`
	KeyPrefix string   `yaml:"key_prefix"`
}

// CacheConfig enables the Redis-backed embedding cache.
type CacheConfig struct {
	Enabled bool        `yaml:"enabled"`
	TTLSec  int         `yaml:"ttl_sec"` // 0 = keep forever
	Redis   RedisConfig `yaml:"redis"`
}

// Neo4jConfig holds Bolt connection settings.
type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// GraphConfig selects the procedure graph store and its schema.
type GraphConfig struct {
	Driver           string      `yaml:"driver"` // neo4j, redis (default: neo4j)
	Neo4j            Neo4jConfig `yaml:"neo4j"`
	Redis            RedisConfig `yaml:"redis"`
	Label            string      `yaml:"label"`
	IDProperty       string      `yaml:"id_property"`
	TitleProperty    string      `yaml:"title_property"`
	Relation         string      `yaml:"relation"`
	MaxDepth         int         `yaml:"max_depth"`
	ReadinessTimeout int         `yaml:"readiness_timeout_sec"`
}

// SearchConfig holds retrieval settings.
type SearchConfig struct {
	TopK int `yaml:"top_k"`
}

// Provider and driver names.
const (
	ProviderHash   = "hash"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"

	DriverNeo4j = "neo4j"
	DriverRedis = "redis"
)

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	return LoadFile(findConfigPath(env))
}

// LoadFile reads, expands, defaults and validates a YAML config file.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w: %w", configPath, domain.ErrConfiguration, err)
	}
	return Parse(data)
}

// Parse decodes YAML config bytes.
func Parse(data []byte) (Config, error) {
	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w: %w", domain.ErrConfiguration, err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w: %w", domain.ErrConfiguration, err)
	}

	return cfg, nil
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = ProviderHash
	}
	if c.Embedding.Provider == ProviderHash && c.Embedding.Dimensions <= 0 {
		c.Embedding.Dimensions = 384
	}
	if c.Embedding.TimeoutSec <= 0 {
		c.Embedding.TimeoutSec = 30
	}
	if c.Cache.Redis.KeyPrefix == "" {
		c.Cache.Redis.KeyPrefix = "helpdex:"
	}
	if c.Graph.Driver == "" {
		c.Graph.Driver = DriverNeo4j
	}
	if c.Graph.Redis.KeyPrefix == "" {
		c.Graph.Redis.KeyPrefix = "helpdex:"
	}
	if c.Graph.Label == "" {
		c.Graph.Label = "Step"
	}
	if c.Graph.IDProperty == "" {
		c.Graph.IDProperty = "nodeId"
	}
	if c.Graph.TitleProperty == "" {
		c.Graph.TitleProperty = "title"
	}
	if c.Graph.Relation == "" {
		c.Graph.Relation = "NEXT"
	}
	if c.Graph.MaxDepth <= 0 {
		c.Graph.MaxDepth = 64
	}
	if c.Graph.ReadinessTimeout <= 0 {
		c.Graph.ReadinessTimeout = 10
	}
	if c.Search.TopK <= 0 {
		c.Search.TopK = 5
	}
}

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Corpus.Path == "" {
		return fmt.Errorf("corpus.path is required")
	}
	if err := c.Embedding.validate(); err != nil {
		return err
	}
	if c.Cache.Enabled && len(c.Cache.Redis.Addrs) == 0 {
		return fmt.Errorf("cache.redis.addrs is required when cache is enabled")
	}
	return c.Graph.validate()
}

func (e *EmbeddingConfig) validate() error {
	switch e.Provider {
	case ProviderHash:
	case ProviderOpenAI, ProviderOllama:
		if e.Model == "" {
			return fmt.Errorf("embedding.model is required for provider %q", e.Provider)
		}
	default:
		return fmt.Errorf("embedding.provider must be %q, %q or %q, got %q",
			ProviderHash, ProviderOpenAI, ProviderOllama, e.Provider)
	}
	if e.Dimensions < 0 {
		return fmt.Errorf("embedding.dimensions must not be negative, got %d", e.Dimensions)
	}
	return nil
}

func (g *GraphConfig) validate() error {
	switch g.Driver {
	case DriverNeo4j:
		if g.Neo4j.URI == "" {
			return fmt.Errorf("graph.neo4j.uri is required")
		}
	case DriverRedis:
		if len(g.Redis.Addrs) == 0 {
			return fmt.Errorf("graph.redis.addrs is required")
		}
	default:
		return fmt.Errorf("graph.driver must be %q or %q, got %q", DriverNeo4j, DriverRedis, g.Driver)
	}

	idents := []struct{ key, val string }{
		{"graph.label", g.Label},
		{"graph.id_property", g.IDProperty},
		{"graph.title_property", g.TitleProperty},
		{"graph.relation", g.Relation},
	}
	for _, id := range idents {
		if !identRe.MatchString(id.val) {
			return fmt.Errorf("%s must be a plain identifier, got %q", id.key, id.val)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
