package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/k02miu/inner-rag/internal/adapters/driven/auth"
	"github.com/k02miu/inner-rag/internal/adapters/driven/metrics"
	"github.com/k02miu/inner-rag/internal/adapters/driven/slack"
	"github.com/k02miu/inner-rag/internal/adapters/driving/http"
	"github.com/k02miu/inner-rag/internal/config"
	"github.com/k02miu/inner-rag/internal/core/ports/driven"
	"github.com/k02miu/inner-rag/internal/core/ports/driving"
	"github.com/k02miu/inner-rag/internal/core/services"
	"github.com/k02miu/inner-rag/internal/worker"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Slack events endpoint and admin API",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	if err := cfg.ValidateServe(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log.Printf("inner-rag %s starting (index=%s, dedup=%s, events=%s)",
		version, cfg.Index.Backend, cfg.Dedup.Backend, cfg.Events.Mode)

	// Setup context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()
	if err := a.withAI(true); err != nil {
		return err
	}

	prom := metrics.NewPrometheus("")
	a.metrics = prom

	dedup, err := a.newDedup(ctx)
	if err != nil {
		return fmt.Errorf("create event deduplicator: %w", err)
	}

	// ===== Slack =====
	client := slack.NewClient(slack.ClientConfig{
		BotToken: cfg.Slack.BotToken,
		APIURL:   cfg.Slack.APIURL,
		Timeout:  cfg.Slack.Timeout,
	})
	notifier := slack.NewNotifier(slack.NotifierConfig{
		Client:         client,
		PostsPerSecond: cfg.Slack.PostsPerSecond,
		Burst:          cfg.Slack.Burst,
		Logger:         logger,
	})
	fileStore := slack.NewFileStore(client)

	// ===== Services =====
	query := a.newQuery(notifier)
	router := services.NewEventRouter(services.EventRouterConfig{
		Dedup:     dedup,
		Ingestion: a.newIngestion(fileStore, notifier),
		Query:     query,
		Notifier:  notifier,
		Metrics:   prom,
		Logger:    logger,
	})
	admin := services.NewIndexAdmin(a.index, dedup, logger)

	var authService driving.AuthService
	if cfg.Admin.JWTSecret != "" {
		authService = services.NewAuthService(auth.NewAdapter(cfg.Admin.JWTSecret))
	} else {
		log.Println("Admin API disabled: no JWT secret configured")
	}

	// ===== Event dispatch =====
	var dispatcher http.EventDispatcher
	if cfg.Events.Mode == config.EventsAsync {
		w := worker.NewWorker(worker.WorkerConfig{
			Events:       router,
			Logger:       logger,
			Concurrency:  cfg.Events.Concurrency,
			QueueSize:    cfg.Events.QueueSize,
			EventTimeout: cfg.Events.Timeout,
		})
		if err := w.Start(ctx); err != nil {
			return fmt.Errorf("start worker: %w", err)
		}
		defer w.Stop()
		dispatcher = w
	} else {
		dispatcher = worker.NewInline(router, cfg.Events.Timeout)
	}

	server := http.NewServer(http.Config{
		Host:               cfg.Server.Host,
		Port:               cfg.Server.Port,
		Version:            version,
		SlackSigningSecret: cfg.Slack.SigningSecret,
	}, http.Deps{
		Events: dispatcher,
		Admin:  admin,
		Auth:   authService,
		AdminQuery: func(n driven.Notifier) driving.QueryService {
			return query.WithNotifier(n)
		},
		Metrics:        prom,
		MetricsHandler: prom.Handler(),
		Logger:         logger,
	})

	log.Printf("API server starting on %s:%d", cfg.Server.Host, cfg.Server.Port)
	return server.Start()
}
