// Package config loads the docdex configuration from a TOML file.
// Every field has a working default so the tool runs with no config
// file at all.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Config holds the docdex configuration.
type Config struct {
	Corpus    CorpusConfig    `toml:"corpus"`
	Chunking  ChunkingConfig  `toml:"chunking"`
	Embedding EmbeddingConfig `toml:"embedding"`
	Storage   StorageConfig   `toml:"storage"`
	Search    SearchConfig    `toml:"search"`
	Watch     WatchConfig     `toml:"watch"`
	Logging   LoggingConfig   `toml:"logging"`
}

// CorpusConfig holds corpus directory settings.
type CorpusConfig struct {
	// Path is the documentation root to index.
	Path string `toml:"path"`
}

// ChunkingConfig holds text splitting settings.
type ChunkingConfig struct {
	// Size is the chunk window in characters.
	Size int `toml:"size"`

	// Overlap is the backtrack window searched for a natural
	// break. Must be smaller than Size.
	Overlap int `toml:"overlap"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	// Provider selects the backend: ollama, openai, hash.
	Provider string `toml:"provider"`

	// Model is the embedding model name.
	Model string `toml:"model"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `toml:"base_url"`

	// APIKey authenticates against hosted providers. Supports
	// ${VAR} expansion so keys stay out of the file.
	APIKey string `toml:"api_key"`

	// BatchSize is the number of texts sent per request.
	BatchSize int `toml:"batch_size"`

	// TimeoutSec bounds a single embedding request.
	TimeoutSec int `toml:"timeout_sec"`

	// RateLimitPerSec caps requests per second. 0 = unlimited.
	RateLimitPerSec int `toml:"rate_limit_per_sec"`

	// Dimensions is required by the hash provider and optional
	// for the others, where the model determines it.
	Dimensions int `toml:"dimensions"`
}

// StorageConfig holds artifact persistence settings.
type StorageConfig struct {
	// Dir is where the database and artifact files live.
	Dir string `toml:"dir"`

	// Backend selects the store chain: auto (sqlite with file
	// fallback), sqlite, file.
	Backend string `toml:"backend"`
}

// SearchConfig holds retrieval settings.
type SearchConfig struct {
	// MaxResults is the default result count.
	MaxResults int `toml:"max_results"`

	// MinScore is the default relevance floor.
	MinScore float64 `toml:"min_score"`

	// BoostClusters override the built-in keyword clusters used
	// for score boosting. Each cluster is a list of equivalent
	// terms; the first term is the canonical form.
	BoostClusters [][]string `toml:"boost_clusters"`
}

// WatchConfig holds corpus watching settings.
type WatchConfig struct {
	// DebounceMS is how long to wait after the last file event
	// before triggering a rebuild.
	DebounceMS int `toml:"debounce_ms"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Format is "console" or "json".
	Format string `toml:"format"`

	// Level is debug, info, warn or error.
	Level string `toml:"level"`
}

// Load reads configuration from the given TOML file. An empty path
// searches ./docdex.toml then ~/.docdex/config.toml; when neither
// exists the defaults are returned.
func Load(path string) (Config, error) {
	var cfg Config

	resolved, found := resolvePath(path)
	if path != "" && !found {
		return Config{}, fmt.Errorf("config file %s: %w", path, os.ErrNotExist)
	}

	if found {
		data, err := os.ReadFile(filepath.Clean(resolved))
		if err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", resolved, err)
		}

		// Substitute env variables of the form ${VAR}
		data = expandEnvVars(data)

		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.Corpus.Path == "" {
		c.Corpus.Path = "./docs"
	}
	if c.Chunking.Size <= 0 {
		c.Chunking.Size = 1000
	}
	if c.Chunking.Overlap <= 0 {
		c.Chunking.Overlap = 200
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "ollama"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = defaultModel(c.Embedding.Provider)
	}
	if c.Embedding.BatchSize <= 0 {
		c.Embedding.BatchSize = 32
	}
	if c.Embedding.TimeoutSec <= 0 {
		c.Embedding.TimeoutSec = 60
	}
	if c.Storage.Dir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.Storage.Dir = filepath.Join(home, ".docdex")
		} else {
			c.Storage.Dir = ".docdex"
		}
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "auto"
	}
	if c.Search.MaxResults <= 0 {
		c.Search.MaxResults = 5
	}
	if c.Search.MinScore == 0 {
		c.Search.MinScore = 0.3
	}
	if c.Watch.DebounceMS <= 0 {
		c.Watch.DebounceMS = 500
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	switch c.Embedding.Provider {
	case "ollama", "openai", "hash":
		// ok
	default:
		return fmt.Errorf("embedding.provider must be ollama, openai or hash, got %q", c.Embedding.Provider)
	}
	if c.Embedding.Provider == "hash" && c.Embedding.Dimensions <= 0 {
		return fmt.Errorf("embedding.dimensions is required for the hash provider")
	}
	if c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("chunking.overlap (%d) must be smaller than chunking.size (%d)",
			c.Chunking.Overlap, c.Chunking.Size)
	}
	switch c.Storage.Backend {
	case "auto", "sqlite", "file":
		// ok
	default:
		return fmt.Errorf("storage.backend must be auto, sqlite or file, got %q", c.Storage.Backend)
	}
	if c.Search.MinScore < 0 || c.Search.MinScore > 1 {
		return fmt.Errorf("search.min_score must be in [0, 1], got %g", c.Search.MinScore)
	}
	for i, cluster := range c.Search.BoostClusters {
		if len(cluster) == 0 {
			return fmt.Errorf("search.boost_clusters[%d] is empty", i)
		}
	}
	return nil
}

func defaultModel(provider string) string {
	switch provider {
	case "openai":
		return "text-embedding-3-small"
	case "hash":
		return "hash-embed"
	default:
		return "nomic-embed-text"
	}
}

// resolvePath picks the config file to read. Explicit paths are
// returned as-is; otherwise the default locations are probed.
func resolvePath(path string) (string, bool) {
	if path != "" {
		return path, fileExists(path)
	}
	if fileExists("docdex.toml") {
		return "docdex.toml", true
	}
	if home, err := os.UserHomeDir(); err == nil {
		p := filepath.Join(home, ".docdex", "config.toml")
		if fileExists(p) {
			return p, true
		}
	}
	return "", false
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
