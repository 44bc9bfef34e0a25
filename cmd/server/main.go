package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/example/preorder/api"
	"github.com/example/preorder/pkg/config"
	"github.com/example/preorder/pkg/repository"
)

func main() {
	configPath := flag.String("config", "config/server.yaml", "path to the YAML config file")
	flag.Parse()

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	// Setup logger
	logger, err := cfg.Log.BuildLogger()
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	defer logger.Sync()

	logger.Info("Starting preorder service",
		zap.String("name", cfg.Server.Name),
		zap.Int("port", cfg.Server.Port))

	// Storage
	store, err := repository.NewMySQLStore(&cfg.MySQL)
	if err != nil {
		logger.Fatal("Failed to connect to MySQL", zap.Error(err))
	}
	defer store.Close()

	// Redis order cache
	cache := repository.NewRedisCache(&cfg.Redis)
	defer cache.Close()

	// MongoDB audit log
	audit, err := repository.NewMongoAudit(&cfg.MongoDB)
	if err != nil {
		logger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}

	// Ping dependencies
	ctx := context.Background()
	if err := cache.Ping(ctx); err != nil {
		logger.Warn("Redis connection failed", zap.Error(err))
	} else {
		logger.Info("Redis connected successfully")
	}
	if err := audit.Ping(ctx); err != nil {
		logger.Warn("MongoDB connection failed", zap.Error(err))
	}

	srv := api.NewServer(store, cache, audit, logger)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: srv.Router(),
	}

	// Start server in goroutine
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", zap.String("address", httpServer.Addr))
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case <-sigCh:
		logger.Info("Received shutdown signal")
	case err := <-serverErr:
		logger.Fatal("Server error", zap.Error(err))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("Shutdown error", zap.Error(err))
	}
	if err := audit.Close(shutdownCtx); err != nil {
		logger.Error("MongoDB disconnect error", zap.Error(err))
	}

	logger.Info("Service stopped")
}
