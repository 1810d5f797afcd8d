package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/soltixdb/rdplines/internal/config"
	"github.com/soltixdb/rdplines/internal/events"
	"github.com/soltixdb/rdplines/internal/logging"
	"github.com/soltixdb/rdplines/internal/router"
	"github.com/soltixdb/rdplines/internal/services"
	"github.com/soltixdb/rdplines/internal/store"
	"github.com/soltixdb/rdplines/internal/utils"
)

var (
	Version   = "dev"     // Injected via ldflags during build
	GitCommit = "unknown" // Injected via ldflags during build
	BuildTime = "unknown" // Injected via ldflags during build
)

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := logging.NewFromConfig(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	logging.SetGlobal(logger)
	logger.Info("rdplines server starting...",
		"version", Version, "commit", GitCommit, "build time", BuildTime)

	if err := cfg.EnsureDirectories(); err != nil {
		logger.Fatal("Failed to create data directories", "error", err)
	}

	artifacts, err := store.New(cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to open artifact store", "error", err, "storage", cfg.Storage.String())
	}
	defer func() { _ = artifacts.Close() }()
	logger.Info("Artifact store ready",
		"storage", cfg.Storage.String(),
		"compression", cfg.Storage.Compression,
		"ttl", cfg.Storage.TTL)

	publisher, err := events.NewPublisher(cfg.Events)
	if err != nil {
		logger.Fatal("Failed to connect event publisher", "error", err, "type", cfg.Events.Type)
	}
	defer func() { _ = publisher.Close() }()
	logger.Info("Event publisher ready", "type", cfg.Events.Type, "subject", cfg.Events.Subject)

	if cfg.Auth.Enabled {
		logger.Info("API key authentication enabled", "num_keys", len(cfg.Auth.APIKeys))
	} else {
		logger.Warn("API key authentication DISABLED - all requests will be allowed")
	}

	subject := cfg.Events.Subject
	if utils.EventsType(cfg.Events.Type) == utils.EventsTypeNone {
		subject = ""
	}
	svc := services.NewSimplifyService(logger, artifacts, publisher, cfg.Simplify, cfg.Storage.TTL, subject)
	app := router.New(logger, svc, *cfg)

	go func() {
		addr := cfg.GetServerAddress()
		logger.Info("Server listening", "address", addr, "workers", cfg.Simplify.Workers())
		if err := app.Listen(addr); err != nil {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), utils.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("Server forced to shutdown", "error", err)
	}

	logger.Info("Server exited")
}
