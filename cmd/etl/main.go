package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/navwarn-etl/internal/adapter/cache"
	httpadapter "github.com/couchcryptid/navwarn-etl/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/navwarn-etl/internal/adapter/kafka"
	"github.com/couchcryptid/navwarn-etl/internal/config"
	"github.com/couchcryptid/navwarn-etl/internal/domain"
	"github.com/couchcryptid/navwarn-etl/internal/index"
	"github.com/couchcryptid/navwarn-etl/internal/observability"
	"github.com/couchcryptid/navwarn-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	parser := cache.NewCachedParser(
		domain.NewParser(domain.WithCircleSegments(cfg.CircleSegments)),
		cfg.ParseCacheSize,
		metrics,
	)

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(parser, metrics, logger)

	// The index is fed after the sink write succeeds, so it never holds a
	// warning that was not published.
	var loader pipeline.BatchLoader = writer
	var warnings httpadapter.WarningQuerier
	if cfg.IndexEnabled {
		idx := index.New(metrics, logger)
		loader = pipeline.MultiLoader{writer, idx}
		warnings = idx
		logger.Info("warning index enabled")
	} else {
		logger.Info("warning index disabled")
	}

	p := pipeline.New(reader, transformer, loader, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, parser, warnings, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ETL pipeline.
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
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
