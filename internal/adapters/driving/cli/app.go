package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/docsmith-labs/docdex/internal/adapters/driven/embedding/hash"
	"github.com/docsmith-labs/docdex/internal/adapters/driven/embedding/ollama"
	"github.com/docsmith-labs/docdex/internal/adapters/driven/embedding/openai"
	"github.com/docsmith-labs/docdex/internal/adapters/driven/storage/file"
	"github.com/docsmith-labs/docdex/internal/adapters/driven/storage/sqlite"
	"github.com/docsmith-labs/docdex/internal/adapters/driven/vectorindex/flat"
	"github.com/docsmith-labs/docdex/internal/config"
	"github.com/docsmith-labs/docdex/internal/core/domain"
	"github.com/docsmith-labs/docdex/internal/core/ports/driven"
	"github.com/docsmith-labs/docdex/internal/core/ports/driving"
	"github.com/docsmith-labs/docdex/internal/core/services"
	"github.com/docsmith-labs/docdex/internal/corpus"
	"github.com/docsmith-labs/docdex/internal/ingest"
	"github.com/docsmith-labs/docdex/internal/logger"
	"github.com/docsmith-labs/docdex/internal/metrics"
	"github.com/docsmith-labs/docdex/internal/normalisers"
	"github.com/docsmith-labs/docdex/internal/normalisers/html"
	"github.com/docsmith-labs/docdex/internal/normalisers/markdown"
	"github.com/docsmith-labs/docdex/internal/normalisers/plaintext"
	"github.com/docsmith-labs/docdex/internal/normalisers/rst"
	"github.com/docsmith-labs/docdex/internal/postprocessors/chunker"
)

// Application state shared by the commands, assembled by ensureEngine.
var (
	appCfg   config.Config
	appLog   *zap.Logger
	registry *normalisers.Registry
	provider driven.EmbeddingService
	stores   []driven.ArtifactStore
	engine   driving.RetrievalEngine
)

// ensureEngine wires the application on first use: config, logger,
// metrics, stores, embedding provider, ingest pipeline, engine.
// The composition order follows the dependency direction, so a
// failure reports the first thing that is actually broken.
func ensureEngine() error {
	if engine != nil {
		return nil
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	level := cfg.Logging.Level
	if verbose {
		level = "debug"
	}
	log, err := logger.New(cfg.Logging.Format, level)
	if err != nil {
		return err
	}

	metrics.Register()

	sts, err := buildStores(cfg, log)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}

	prov, err := buildProvider(cfg)
	if err != nil {
		return fmt.Errorf("configuring embedding provider: %w", err)
	}

	reg := normalisers.NewRegistry(
		markdown.New(),
		rst.New(),
		html.New(),
		plaintext.New(),
	)
	reader := corpus.NewReader(cfg.Corpus.Path, reg.Extensions(), log)
	chunk := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.Size),
		chunker.WithOverlap(cfg.Chunking.Overlap),
	)
	source := ingest.New(reader, reg, chunk, log)

	eng, err := services.NewEngine(source, prov, flat.NewCodec(), sts, log,
		services.WithBoostClusters(cfg.Search.BoostClusters))
	if err != nil {
		return err
	}

	appCfg = cfg
	appLog = log
	registry = reg
	provider = prov
	stores = sts
	engine = eng
	return nil
}

// buildStores opens the artifact store chain for the configured
// backend. "auto" wants SQLite with the file store as fallback, but
// a database that cannot even open leaves the file store alone in
// the chain rather than failing the command.
func buildStores(cfg config.Config, log *zap.Logger) ([]driven.ArtifactStore, error) {
	switch cfg.Storage.Backend {
	case "sqlite":
		s, err := sqlite.NewStore(cfg.Storage.Dir)
		if err != nil {
			return nil, err
		}
		return []driven.ArtifactStore{s}, nil
	case "file":
		s, err := file.NewStore(cfg.Storage.Dir)
		if err != nil {
			return nil, err
		}
		return []driven.ArtifactStore{s}, nil
	default:
		fallback, err := file.NewStore(cfg.Storage.Dir)
		if err != nil {
			return nil, err
		}
		primary, err := sqlite.NewStore(cfg.Storage.Dir)
		if err != nil {
			log.Warn("sqlite store unavailable, using file store only", zap.Error(err))
			return []driven.ArtifactStore{fallback}, nil
		}
		return []driven.ArtifactStore{primary, fallback}, nil
	}
}

func buildProvider(cfg config.Config) (driven.EmbeddingService, error) {
	e := cfg.Embedding
	switch e.Provider {
	case "openai":
		return openai.NewEmbeddingService(openai.Config{
			APIKey:     e.APIKey,
			BaseURL:    e.BaseURL,
			Model:      e.Model,
			Timeout:    time.Duration(e.TimeoutSec) * time.Second,
			Dimensions: e.Dimensions,
		})
	case "hash":
		return hash.NewEmbeddingService(hash.Config{Dimensions: e.Dimensions}), nil
	default:
		return ollama.NewEmbeddingService(ollama.Config{
			BaseURL:           e.BaseURL,
			Model:             e.Model,
			Timeout:           time.Duration(e.TimeoutSec) * time.Second,
			Dimensions:        e.Dimensions,
			Concurrency:       e.BatchSize,
			RequestsPerSecond: float64(e.RateLimitPerSec),
		}), nil
	}
}

// readyEngine brings the engine to Ready, loading persisted
// artifacts when they exist. A build that could not persist is
// tolerated: the index serves from memory and the engine already
// logged the failure.
func readyEngine(ctx context.Context) error {
	if err := engine.Build(ctx); err != nil && !errors.Is(err, domain.ErrPersistenceFailure) {
		return fmt.Errorf("building index: %w", err)
	}
	return nil
}

// searchOptions merges command flags over the configured retrieval
// defaults. Zero flag values keep the config.
func searchOptions(limit int, minScore float64) domain.SearchOptions {
	opts := domain.SearchOptions{
		MaxResults: appCfg.Search.MaxResults,
		MinScore:   appCfg.Search.MinScore,
	}
	if limit > 0 {
		opts.MaxResults = limit
	}
	if minScore != 0 {
		opts.MinScore = minScore
	}
	return opts
}

// closeEngine releases the engine's stores and provider. Commands
// that wired the app call it before returning.
func closeEngine() {
	if engine == nil {
		return
	}
	if err := engine.Close(); err != nil && appLog != nil {
		appLog.Warn("close", zap.Error(err))
	}
	if appLog != nil {
		_ = appLog.Sync()
	}
}
