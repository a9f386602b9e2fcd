package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/leshuiju/shipment-entry/internal/common"
	"github.com/leshuiju/shipment-entry/internal/export"
	"github.com/leshuiju/shipment-entry/internal/extract"
	"github.com/leshuiju/shipment-entry/internal/llm/openai"
	"github.com/leshuiju/shipment-entry/internal/pipeline"
	"github.com/leshuiju/shipment-entry/internal/repository"
	"github.com/leshuiju/shipment-entry/internal/server"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	cfg := common.LoadConfig()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	db, err := repository.Open(cfg.History.DBPath)
	if err != nil {
		logger.Error("open history store", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	fallback := extract.NewFallbackExtractor(logger)
	var semantic extract.Extractor
	if cfg.LLM.APIKey != "" {
		client := openai.NewClient(openai.Config{
			APIKey:      cfg.LLM.APIKey,
			BaseURL:     cfg.LLM.BaseURL,
			Model:       cfg.LLM.Model,
			Temperature: cfg.LLM.Temperature,
			MaxTokens:   cfg.LLM.MaxTokens,
			Timeout:     cfg.LLM.Timeout,
		}, logger)
		semantic = extract.NewSemanticExtractor(client, fallback, logger)
	} else {
		logger.Warn("OPENAI_API_KEY not set; semantic mode degrades to fallback extraction")
	}

	sink := export.NewService(cfg.Excel, logger)
	processor := pipeline.NewProcessor(logger, fallback, semantic, sink, db.Runs)

	srv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           server.NewRouter(processor, db, logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http serving", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http serve", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "error", err)
	}
}
