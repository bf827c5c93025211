// Package main is the entry point for the landmark-finder HTTP server.
// It wires config, logging, the LLM classifier and both Google searchers,
// then serves the gallery UI until SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fleveque/landmark-finder/internal/config"
	"github.com/fleveque/landmark-finder/internal/intent"
	"github.com/fleveque/landmark-finder/internal/llm"
	"github.com/fleveque/landmark-finder/internal/provider"
	"github.com/fleveque/landmark-finder/internal/server"
	"github.com/fleveque/landmark-finder/internal/service"
	"github.com/fleveque/landmark-finder/internal/storage"
)

func main() {
	// Deferred cleanup in run() does not survive os.Exit, so exit happens here.
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := os.Getenv("LANDMARK_CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var logger *zap.Logger
	if cfg.Log.Level == "debug" {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	// Sync commonly fails on stdout/stderr; nothing useful to do with that.
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	httpClient := &http.Client{Timeout: cfg.HTTP.Timeout}

	// Optional classification audit log.
	var callRepo storage.ClassificationRepository
	if cfg.Storage.DatabasePath != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.Storage.DatabasePath), 0755); err != nil {
			return fmt.Errorf("creating database directory: %w", err)
		}
		db, err := storage.NewDatabase(cfg.Storage.DatabasePath)
		if err != nil {
			return fmt.Errorf("opening database: %w", err)
		}
		defer db.Close()
		callRepo = storage.NewClassificationRepository(db)
		logger.Info("classification audit log enabled", zap.String("path", cfg.Storage.DatabasePath))
	}

	clients, err := llm.NewClients(cfg.LLM, httpClient)
	if err != nil {
		if !errors.Is(err, llm.ErrNoClients) {
			return fmt.Errorf("creating LLM clients: %w", err)
		}
		// Still serve: every prompt will render the classification error message.
		logger.Warn("no LLM providers configured")
	}
	for _, c := range clients {
		logger.Info("LLM provider ready", zap.String("provider", c.ProviderName()), zap.String("model", c.ModelName()))
	}

	places := provider.NewPlacesProvider(cfg.Places, httpClient, logger)
	images, err := provider.NewCustomSearchProvider(ctx, cfg.CustomSearch, httpClient, logger)
	if err != nil {
		return fmt.Errorf("creating custom search provider: %w", err)
	}

	classifier := intent.NewClassifier(clients, callRepo, logger)
	landmarks := service.NewLandmarkService(classifier, places, images, logger)

	srv, err := server.New(cfg, server.Deps{Finder: landmarks, CallRepo: callRepo}, logger)
	if err != nil {
		return fmt.Errorf("creating server: %w", err)
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case sig := <-quit:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
	case err := <-errChan:
		if err != nil {
			return err
		}
	}

	// Give in-flight requests 10 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
