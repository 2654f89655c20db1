package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	httpadapter "github.com/patrolwatch/incident-etl/internal/adapter/http"
	kafkaadapter "github.com/patrolwatch/incident-etl/internal/adapter/kafka"
	"github.com/patrolwatch/incident-etl/internal/adapter/sheets"
	"github.com/patrolwatch/incident-etl/internal/config"
	"github.com/patrolwatch/incident-etl/internal/domain"
	"github.com/patrolwatch/incident-etl/internal/observability"
	"github.com/patrolwatch/incident-etl/internal/pipeline"
	"github.com/patrolwatch/incident-etl/internal/ratelimit"
	"github.com/patrolwatch/incident-etl/internal/snapshot"
)

func main() {
	// Local development convenience; the file is absent in deployment.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	limiter := ratelimit.New(cfg.RateLimitRequests, cfg.RateLimitWindow, clockwork.NewRealClock())
	fetcher := sheets.NewClient(cfg.FetchTimeout, limiter, metrics, logger)

	// Snapshot store: Redis when enabled so restarts serve the last result
	// immediately, in-memory otherwise.
	var store snapshot.Store
	var redisStore *snapshot.Redis
	if cfg.RedisEnabled {
		redisStore = snapshot.NewRedis(cfg.RedisAddr, cfg.SnapshotTTL)
		store = redisStore
		logger.Info("redis snapshot store enabled", "addr", cfg.RedisAddr, "ttl", cfg.SnapshotTTL)
	} else {
		store = snapshot.NewMemory()
		logger.Info("in-memory snapshot store enabled")
	}

	// Kafka sink is feature-flagged; without it the HTTP API is the only
	// consumer surface.
	var publisher pipeline.Publisher
	var writer *kafkaadapter.Writer
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka sink disabled")
	}

	sources := []pipeline.Source{
		{Format: domain.SourceTraffic, URL: cfg.TrafficSheetURL},
		{Format: domain.SourceEnforcement, URL: cfg.EnforcementSheetURL},
		{Format: domain.SourceSafety, URL: cfg.SafetySheetURL},
	}
	p := pipeline.New(fetcher, store, publisher, sources, cfg.RefreshInterval, logger, metrics)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, store, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}
	if redisStore != nil {
		if err := redisStore.Close(); err != nil {
			logger.Error("redis close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
