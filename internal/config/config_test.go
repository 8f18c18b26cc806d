package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Corpus.Path != "./docs" {
		t.Errorf("expected Corpus.Path='./docs', got %q", cfg.Corpus.Path)
	}
	if cfg.Chunking.Size != 1000 {
		t.Errorf("expected Chunking.Size=1000, got %d", cfg.Chunking.Size)
	}
	if cfg.Chunking.Overlap != 200 {
		t.Errorf("expected Chunking.Overlap=200, got %d", cfg.Chunking.Overlap)
	}
	if cfg.Embedding.Provider != "ollama" {
		t.Errorf("expected Embedding.Provider='ollama', got %q", cfg.Embedding.Provider)
	}
	if cfg.Embedding.Model != "nomic-embed-text" {
		t.Errorf("expected Embedding.Model='nomic-embed-text', got %q", cfg.Embedding.Model)
	}
	if cfg.Embedding.BatchSize != 32 {
		t.Errorf("expected Embedding.BatchSize=32, got %d", cfg.Embedding.BatchSize)
	}
	if cfg.Search.MaxResults != 5 {
		t.Errorf("expected Search.MaxResults=5, got %d", cfg.Search.MaxResults)
	}
	if cfg.Search.MinScore != 0.3 {
		t.Errorf("expected Search.MinScore=0.3, got %g", cfg.Search.MinScore)
	}
	if cfg.Watch.DebounceMS != 500 {
		t.Errorf("expected Watch.DebounceMS=500, got %d", cfg.Watch.DebounceMS)
	}
	if cfg.Logging.Format != "console" {
		t.Errorf("expected Logging.Format='console', got %q", cfg.Logging.Format)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		Corpus:    CorpusConfig{Path: "/srv/docs"},
		Chunking:  ChunkingConfig{Size: 500, Overlap: 50},
		Embedding: EmbeddingConfig{Provider: "openai", BatchSize: 8},
		Search:    SearchConfig{MaxResults: 10, MinScore: 0.5},
	}
	cfg.ApplyDefaults()

	if cfg.Corpus.Path != "/srv/docs" {
		t.Errorf("expected Corpus.Path='/srv/docs', got %q", cfg.Corpus.Path)
	}
	if cfg.Chunking.Size != 500 {
		t.Errorf("expected Chunking.Size=500, got %d", cfg.Chunking.Size)
	}
	if cfg.Embedding.Model != "text-embedding-3-small" {
		t.Errorf("expected openai default model, got %q", cfg.Embedding.Model)
	}
	if cfg.Search.MaxResults != 10 {
		t.Errorf("expected Search.MaxResults=10, got %d", cfg.Search.MaxResults)
	}
}

func TestValidate_UnknownProvider(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	cfg.Embedding.Provider = "anthropic"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestValidate_HashRequiresDimensions(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	cfg.Embedding.Provider = "hash"

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for hash provider without dimensions")
	}

	cfg.Embedding.Dimensions = 256
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error with dimensions set: %v", err)
	}
}

func TestValidate_OverlapBounds(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	cfg.Chunking.Size = 100
	cfg.Chunking.Overlap = 100

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when overlap >= size")
	}
}

func TestValidate_MinScoreRange(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	cfg.Search.MinScore = 1.5

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for min_score > 1")
	}
}

func TestValidate_EmptyBoostCluster(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	cfg.Search.BoostClusters = [][]string{{"install", "setup"}, {}}

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty boost cluster")
	}
}

func TestLoad_MissingExplicitPath(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "docdex.toml")
	content := `
[corpus]
path = "/srv/manuals"

[chunking]
size = 800
overlap = 150

[embedding]
provider = "hash"
dimensions = 128

[search]
max_results = 3
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Corpus.Path != "/srv/manuals" {
		t.Errorf("expected corpus path '/srv/manuals', got %q", cfg.Corpus.Path)
	}
	if cfg.Chunking.Size != 800 || cfg.Chunking.Overlap != 150 {
		t.Errorf("unexpected chunking config: %+v", cfg.Chunking)
	}
	if cfg.Embedding.Provider != "hash" || cfg.Embedding.Dimensions != 128 {
		t.Errorf("unexpected embedding config: %+v", cfg.Embedding)
	}
	if cfg.Search.MaxResults != 3 {
		t.Errorf("expected max_results=3, got %d", cfg.Search.MaxResults)
	}
	// Unset fields still get defaults.
	if cfg.Logging.Level != "info" {
		t.Errorf("expected default log level, got %q", cfg.Logging.Level)
	}
}

func TestLoad_EnvExpansion(t *testing.T) {
	t.Setenv("DOCDEX_TEST_KEY", "sk-123")

	dir := t.TempDir()
	path := filepath.Join(dir, "docdex.toml")
	content := `
[embedding]
provider = "openai"
api_key = "${DOCDEX_TEST_KEY}"
base_url = "${DOCDEX_TEST_URL:-https://api.openai.com/v1}"
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Embedding.APIKey != "sk-123" {
		t.Errorf("expected expanded api key, got %q", cfg.Embedding.APIKey)
	}
	if cfg.Embedding.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("expected default-expanded base url, got %q", cfg.Embedding.BaseURL)
	}
}
