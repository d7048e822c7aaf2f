package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"
	_ "time/tzdata" // reminder timezone in minimal images

	"cloud.google.com/go/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"

	"github.com/iho/debtledger/internal/adapter/archive"
	"github.com/iho/debtledger/internal/adapter/document"
	httpAdapter "github.com/iho/debtledger/internal/adapter/http"
	"github.com/iho/debtledger/internal/adapter/http/handler"
	"github.com/iho/debtledger/internal/adapter/http/middleware"
	"github.com/iho/debtledger/internal/adapter/messaging/wppconnect"
	postgresRepo "github.com/iho/debtledger/internal/adapter/repository/postgres"
	redisRepo "github.com/iho/debtledger/internal/adapter/repository/redis"
	"github.com/iho/debtledger/internal/adapter/vision/gemini"
	"github.com/iho/debtledger/internal/adapter/vision/ollama"
	"github.com/iho/debtledger/internal/domain"
	"github.com/iho/debtledger/internal/extraction"
	"github.com/iho/debtledger/internal/infrastructure/auth"
	"github.com/iho/debtledger/internal/infrastructure/config"
	"github.com/iho/debtledger/internal/infrastructure/logger"
	"github.com/iho/debtledger/internal/infrastructure/metrics"
	"github.com/iho/debtledger/internal/infrastructure/postgres"
	"github.com/iho/debtledger/internal/infrastructure/redis"
	"github.com/iho/debtledger/internal/infrastructure/scheduler"
	"github.com/iho/debtledger/internal/usecase"
)

const (
	limiterCleanupInterval = 10 * time.Minute
	limiterMaxIdle         = 30 * time.Minute
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, appLogger); err != nil {
		appLogger.Fatal().Err(err).Msg("server failed")
	}

	appLogger.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, appLogger zerolog.Logger) error {
	// Migrations
	if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, appLogger); err != nil {
		return err
	}

	// Connect to PostgreSQL
	pool, err := postgres.NewPoolWithConfig(ctx, postgres.PoolConfig{
		DatabaseURL:    cfg.DatabaseURL,
		MaxConns:       cfg.DatabaseMaxConns,
		MinConns:       cfg.DatabaseMinConns,
		ConnectTimeout: cfg.DatabaseTimeout,
	})
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	appLogger.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("connect to redis: %w", err)
	}
	defer redisClient.Close()
	appLogger.Info().Msg("connected to redis")

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	recorder := metrics.New(registry)

	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	txnRepo := postgresRepo.NewTransactionRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(appLogger)
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	dedup := redisRepo.NewEventDeduplicator(redisClient)

	// Outbound adapters
	messenger := wppconnect.New(wppconnect.Config{
		BaseURL: cfg.WPPBaseURL,
		Session: cfg.WPPSession,
		Token:   cfg.WPPToken,
		Timeout: cfg.WPPTimeout,
	})

	model, err := newVisionModel(ctx, cfg)
	if err != nil {
		return err
	}
	extractor := extraction.NewExtractor(extraction.Config{
		Model:          model,
		Beneficiary:    cfg.BeneficiaryName,
		ReleaseTimeout: cfg.AIReleaseTimeout,
		Logger:         appLogger.With().Str("component", "extraction").Logger(),
	})

	receiptArchive, closeArchive, err := newArchive(ctx, cfg, idGen)
	if err != nil {
		return err
	}
	defer closeArchive()

	business := businessFromConfig(cfg)
	window, err := reminderWindow(cfg)
	if err != nil {
		return err
	}

	// Use cases
	ledgerUC := usecase.NewLedgerUseCase(txManager, accountRepo, txnRepo, idGen, retrier, recorder)
	coordinator := usecase.NewConfirmationCoordinator(recorder, appLogger)
	pipelineUC := usecase.NewPipelineUseCase(usecase.PipelineConfig{
		Ledger:      ledgerUC,
		Coordinator: coordinator,
		Extractor:   extractor,
		Converter:   document.NewPDFConverter(document.DefaultDPI),
		Archive:     receiptArchive,
		Messenger:   messenger,
		Business:    business,
		Metrics:     recorder,
		Logger:      appLogger.With().Str("component", "pipeline").Logger(),
	})
	commandUC := usecase.NewCommandUseCase(ledgerUC, pipelineUC, messenger, idGen, business, appLogger)
	eventUC := usecase.NewEventUseCase(usecase.EventConfig{
		Commands:   commandUC,
		Pipeline:   pipelineUC,
		Dedup:      dedup,
		DedupTTL:   cfg.EventDedupTTL,
		AdminPhone: cfg.AdminPhone,
		Logger:     appLogger,
	})
	reminderUC := usecase.NewReminderUseCase(ledgerUC, messenger, business, window, recorder,
		appLogger.With().Str("component", "reminder").Logger())

	// HTTP
	webhookHandler := handler.NewWebhookHandler(handler.WebhookConfig{
		Events:         eventUC,
		Logger:         appLogger,
		Async:          cfg.WebhookAsync,
		ProcessTimeout: cfg.WebhookTimeout,
	})
	rateLimiter := middleware.NewRateLimiter(cfg.WebhookRateLimit, cfg.WebhookRateBurst)

	routerCfg := httpAdapter.RouterConfig{
		AccountHandler:   handler.NewAccountHandler(ledgerUC),
		WebhookHandler:   webhookHandler,
		HealthHandler:    handler.NewHealthHandler(postgres.NewChecker(pool), redis.NewChecker(redisClient)),
		Logger:           appLogger,
		Registry:         registry,
		RateLimiter:      rateLimiter,
		IdempotencyStore: idempotencyStore,
		IdempotencyTTL:   cfg.IdempotencyTTL,
	}
	if cfg.AuthEnabled {
		routerCfg.TokenVerifier = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
	}

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      httpAdapter.NewRouter(routerCfg),
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Background workers
	workers := []*scheduler.Worker{
		scheduler.NewWorker(scheduler.Config{
			Name:     "reminders",
			Job:      reminderUC,
			Logger:   appLogger,
			Interval: cfg.ReminderInterval,
		}),
		scheduler.NewWorker(scheduler.Config{
			Name: "ratelimit-cleanup",
			Job: scheduler.JobFunc(func(ctx context.Context, now time.Time) (int, error) {
				return rateLimiter.CleanupLimiters(ctx, now, limiterMaxIdle), nil
			}),
			Logger:   appLogger,
			Interval: limiterCleanupInterval,
		}),
	}

	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	var wg sync.WaitGroup
	for _, w := range workers {
		wg.Add(1)
		go func(w *scheduler.Worker) {
			defer wg.Done()
			runWorker(workerCtx, w, appLogger)
		}(w)
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		appLogger.Info().Str("port", cfg.HTTPPort).Str("ai_provider", cfg.AIProvider).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case <-ctx.Done():
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	}

	appLogger.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("server forced to shutdown")
	}

	cancelWorkers()
	wg.Wait()
	webhookHandler.Wait()

	return nil
}

// newVisionModel selects the extraction backend.
func newVisionModel(ctx context.Context, cfg *config.Config) (extraction.VisionModel, error) {
	switch cfg.AIProvider {
	case config.AIProviderGemini:
		client, err := gemini.New(ctx, gemini.Config{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.AIModel,
			Timeout: cfg.AITimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		return client, nil
	case config.AIProviderOllama:
		return ollama.New(ollama.Config{
			BaseURL: cfg.AIURL,
			Model:   cfg.AIModel,
			Timeout: cfg.AITimeout,
		}), nil
	default:
		return nil, fmt.Errorf("unknown AI_PROVIDER %q", cfg.AIProvider)
	}
}

// newArchive returns a nil archive when no bucket is configured.
func newArchive(ctx context.Context, cfg *config.Config, idGen usecase.IDGenerator) (usecase.ReceiptArchive, func(), error) {
	if cfg.ReceiptBucket == "" {
		return nil, func() {}, nil
	}

	client, err := storage.NewClient(ctx, storageOptions(cfg)...)
	if err != nil {
		return nil, nil, fmt.Errorf("create storage client: %w", err)
	}

	return archive.NewGCSArchive(client, cfg.ReceiptBucket, idGen), func() { _ = client.Close() }, nil
}

func storageOptions(cfg *config.Config) []option.ClientOption {
	if cfg.GCSEndpoint == "" {
		return nil
	}

	return []option.ClientOption{
		option.WithEndpoint(cfg.GCSEndpoint),
		option.WithoutAuthentication(),
	}
}

func businessFromConfig(cfg *config.Config) usecase.Business {
	return usecase.Business{
		Beneficiary:    cfg.BeneficiaryName,
		PixKey:         cfg.PixKey,
		CurrencySymbol: cfg.CurrencySymbol,
		AdminChannel:   domain.NormalizeAccountID(cfg.AdminPhone),
	}
}

func reminderWindow(cfg *config.Config) (usecase.ReminderWindow, error) {
	loc, err := cfg.ReminderLocation()
	if err != nil {
		return usecase.ReminderWindow{}, err
	}

	return usecase.ReminderWindow{
		Location:  loc,
		StartHour: cfg.ReminderStartHour,
		EndHour:   cfg.ReminderEndHour,
	}, nil
}

type backgroundWorker interface {
	Name() string
	Start(ctx context.Context) error
}

// runWorker blocks until w stops and logs any exit other than cancellation.
func runWorker(ctx context.Context, w backgroundWorker, log zerolog.Logger) {
	if err := w.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error().Err(err).Str("worker", w.Name()).Msg("worker stopped")
	}
}
