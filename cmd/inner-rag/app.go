package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/k02miu/inner-rag/internal/adapters/driven/ai"
	"github.com/k02miu/inner-rag/internal/adapters/driven/memory"
	"github.com/k02miu/inner-rag/internal/adapters/driven/postgres"
	redisadapter "github.com/k02miu/inner-rag/internal/adapters/driven/redis"
	"github.com/k02miu/inner-rag/internal/adapters/driven/vespa"
	"github.com/k02miu/inner-rag/internal/adapters/driven/web"
	"github.com/k02miu/inner-rag/internal/config"
	"github.com/k02miu/inner-rag/internal/core/ports/driven"
	"github.com/k02miu/inner-rag/internal/core/services"
	"github.com/k02miu/inner-rag/internal/extractors"
	"github.com/k02miu/inner-rag/internal/postprocessors"
)

// app holds the adapters shared by every command
type app struct {
	cfg        *config.Config
	logger     *slog.Logger
	dimensions int

	index     driven.VectorIndex
	embedder  driven.EmbeddingService
	generator driven.Generator
	extractor driven.ContentExtractor
	chunker   driven.TextChunker
	fetcher   driven.Fetcher
	metrics   driven.PipelineMetrics

	closers []func() error
}

// loadConfig reads configuration and installs the process logger
func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := cfg.Log.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

// newApp connects the index and builds the local pipeline stages. AI clients
// are added by withAI.
func newApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app, error) {
	a := &app{
		cfg:     cfg,
		logger:  logger,
		metrics: driven.NopMetrics{},
	}
	a.dimensions = a.aiSettings().EmbeddingDimensions()

	if err := a.connectIndex(ctx); err != nil {
		a.Close()
		return nil, err
	}

	chunker, err := postprocessors.NewChunker(cfg.Ingest)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.chunker = chunker
	a.extractor = extractors.NewRegistry()
	a.fetcher = web.NewFetcher(web.Config{
		Timeout:      cfg.Fetch.Timeout,
		UserAgent:    cfg.Fetch.UserAgent,
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
		Logger:       logger,
	})

	return a, nil
}

// withAI builds the embedding client, and the generator when withGenerator
// is set. Commands that never answer questions skip the generator.
func (a *app) withAI(withGenerator bool) error {
	settings := a.aiSettings()
	embedder, err := ai.NewEmbeddingService(settings)
	if err != nil {
		return fmt.Errorf("create embedding service: %w", err)
	}
	if embedder.Dimensions() != a.dimensions {
		return fmt.Errorf("embedding model produces %d dimensions, index expects %d", embedder.Dimensions(), a.dimensions)
	}
	a.embedder = embedder

	if withGenerator {
		generator, err := ai.NewGenerator(settings)
		if err != nil {
			return fmt.Errorf("create generator: %w", err)
		}
		a.generator = generator
	}
	return nil
}

func (a *app) aiSettings() ai.Settings {
	c := a.cfg.AI
	return ai.Settings{
		Provider:             c.Provider,
		APIKey:               c.APIKey,
		BaseURL:              c.BaseURL,
		EmbeddingModel:       c.EmbeddingModel,
		EmbeddingAPIVersion:  c.EmbeddingAPIVersion,
		Dimensions:           c.Dimensions,
		CompletionModel:      c.CompletionModel,
		CompletionAPIVersion: c.CompletionAPIVersion,
		MaxCompletionTokens:  c.MaxCompletionTokens,
		SystemPrompt:         c.SystemPrompt,
	}
}

// connectIndex opens the configured vector index backend
func (a *app) connectIndex(ctx context.Context) error {
	switch a.cfg.Index.Backend {
	case config.IndexVespa:
		vc := a.cfg.Index.Vespa
		deployer, err := vespa.NewDeployer(vc.ConfigEndpoint, a.logger)
		if err != nil {
			return fmt.Errorf("create vespa deployer: %w", err)
		}
		index, err := vespa.NewVectorIndex(vespa.Config{
			Endpoint:       vc.Endpoint,
			ConfigEndpoint: vc.ConfigEndpoint,
			Dimensions:     a.dimensions,
			Timeout:        vc.Timeout,
		}, deployer, a.logger)
		if err != nil {
			return fmt.Errorf("create vespa index: %w", err)
		}
		if err := index.HealthCheck(ctx); err != nil {
			log.Printf("Warning: Vespa health check failed: %v (search may not work)", err)
		}
		a.index = index

	default:
		pc := a.cfg.Index.Postgres
		db, err := postgres.Connect(ctx, postgres.Config{
			URL:             pc.URL,
			MaxOpenConns:    pc.MaxOpenConns,
			MaxIdleConns:    pc.MaxIdleConns,
			ConnMaxLifetime: pc.ConnMaxLifetime,
			ConnMaxIdleTime: pc.ConnMaxIdleTime,
		})
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		a.closers = append(a.closers, db.Close)
		a.index = postgres.NewVectorIndex(db, a.dimensions, a.logger)
	}
	return nil
}

// newDedup builds the configured event deduplicator
func (a *app) newDedup(ctx context.Context) (driven.EventDeduplicator, error) {
	if a.cfg.Dedup.Backend == config.DedupRedis {
		client, err := redisadapter.Connect(ctx, a.cfg.Dedup.RedisURL)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)
		return redisadapter.NewEventDeduplicator(client, a.cfg.Dedup.Capacity), nil
	}
	dedup, err := memory.NewEventDeduplicator(a.cfg.Dedup.Capacity)
	if err != nil {
		return nil, err
	}
	return dedup, nil
}

// newIngestion builds an ingestion orchestrator that reports through notifier
func (a *app) newIngestion(files driven.FileStore, notifier driven.Notifier) *services.IngestionOrchestrator {
	return services.NewIngestionOrchestrator(services.IngestionOrchestratorConfig{
		FileStore: files,
		Fetcher:   a.fetcher,
		Extractor: a.extractor,
		Chunker:   a.chunker,
		Embedder:  a.embedder,
		Index:     a.index,
		Notifier:  notifier,
		Metrics:   a.metrics,
		Logger:    a.logger,
	})
}

// newQuery builds a query orchestrator that reports through notifier
func (a *app) newQuery(notifier driven.Notifier) *services.QueryOrchestrator {
	return services.NewQueryOrchestrator(services.QueryOrchestratorConfig{
		Embedder:  a.embedder,
		Index:     a.index,
		Generator: a.generator,
		Notifier:  notifier,
		Metrics:   a.metrics,
		TopK:      a.cfg.Query.TopK,
		Logger:    a.logger,
	})
}

// Close releases connections in reverse order of acquisition
func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			a.logger.Warn("close failed", "error", err)
		}
	}
	a.closers = nil
}
