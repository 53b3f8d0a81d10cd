// Package main provides the CV OCR API server entrypoint.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/applyflow/cv-ocr/internal/config"
	"github.com/applyflow/cv-ocr/internal/delivery"
	"github.com/applyflow/cv-ocr/internal/normalize"
	"github.com/applyflow/cv-ocr/internal/observability"
	"github.com/applyflow/cv-ocr/internal/ocr/tesseract"
	"github.com/applyflow/cv-ocr/internal/pipeline"
	"github.com/applyflow/cv-ocr/internal/preprocess"
	"github.com/applyflow/cv-ocr/internal/raster"
	"github.com/applyflow/cv-ocr/internal/workspace"
)

func main() {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	cfgPath := ""
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: "cv-ocr-api",
	})

	logger.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Bool("webhook_configured", cfg.Delivery.WebhookURL != "").
		Msg("Starting CV OCR API")

	workspaces, err := workspace.NewManager(cfg.Workspace.BaseDir, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("Failed to initialize workspace manager")
	}

	// The recognition engine is expensive to initialize and shared across all
	// requests; construct it once and inject it.
	engine := tesseract.NewEngine()

	converter := normalize.NewSofficeConverter(cfg.Conversion.SofficePath, cfg.Conversion.Timeout, logger)
	normalizer := normalize.NewService(converter, logger)
	rasterizer := raster.NewRenderer(cfg.Raster.Scale, logger)
	preprocessor := preprocess.NewGrayscaler(logger)

	var sink delivery.Sink = delivery.NopSink{}
	if cfg.Delivery.WebhookURL != "" {
		sink = delivery.NewWebhookSink(cfg.Delivery.WebhookURL, cfg.Delivery.Timeout)
	}

	svc := pipeline.NewService(workspaces, normalizer, rasterizer, preprocessor, engine, sink, pipeline.Config{
		OCRConcurrency:  cfg.OCR.Concurrency,
		OCRLanguages:    cfg.OCR.Languages,
		RasterDPI:       int(72 * cfg.Raster.Scale),
		DeliveryTimeout: cfg.Delivery.Timeout,
	}, logger)

	router := NewRouter(svc, cfg.Server.MaxUploadBytes, cfg.Server.WriteTimeout, logger)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error().Err(err).Msg("Server error")
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		if err := srv.Close(); err != nil {
			logger.Error().Err(err).Msg("Forced shutdown failed")
		}
	}

	logger.Info().Msg("Server stopped")
}
