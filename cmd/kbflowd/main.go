// Kbflowd is the knowledge-base flow daemon.
//
// It serves retrieval endpoints over HTTP and optionally watches a data
// directory, upserting changed documents into the remote knowledge base.
//
// Configuration is loaded from a YAML file and environment variables. See
// internal/config for details.
//
// Usage:
//
//	# Start with defaults
//	KBFLOW_KB_BASE_URL=https://kb.example.com/api/v1/kb/abc kbflowd
//
//	# Start with a config file and directory watching
//	kbflowd -config config.yaml -watch
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/kbflow/internal/config"
	"github.com/fyrsmithlabs/kbflow/internal/document"
	"github.com/fyrsmithlabs/kbflow/internal/httpapi"
	"github.com/fyrsmithlabs/kbflow/internal/ingest"
	"github.com/fyrsmithlabs/kbflow/internal/kb"
	"github.com/fyrsmithlabs/kbflow/internal/logging"
	"github.com/fyrsmithlabs/kbflow/internal/search"
)

// Version information (set via ldflags during build)
var (
	version   = "dev"
	gitCommit = "unknown"
	buildDate = "unknown"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	watch := flag.Bool("watch", false, "watch the data directory and ingest changed files")
	showVersion := flag.Bool("version", false, "print version information and exit")
	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	// Local overrides for development; absence is not an error.
	_ = godotenv.Load()

	// Setup signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		log.Printf("Received signal %v, shutting down gracefully...", sig)
		cancel()
	}()

	if err := run(ctx, *configPath, *watch); err != nil {
		log.Fatalf("Server error: %v", err)
	}

	log.Println("Server shutdown complete")
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("kbflowd by Fyrsmith Labs\n")
	fmt.Printf("Version:    %s\n", version)
	fmt.Printf("Commit:     %s\n", gitCommit)
	fmt.Printf("Build Date: %s\n", buildDate)
}

// run starts the daemon and blocks until context cancellation.
//
// This function initializes all dependencies and services:
//  1. Loads and validates configuration
//  2. Initializes the logger
//  3. Creates the knowledge-base client
//  4. Wires the search executor and comparison cache
//  5. Optionally starts the data-directory watcher
//  6. Starts the HTTP server
//  7. Performs graceful shutdown on context cancellation
func run(ctx context.Context, configPath string, watch bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := initLogger(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync() // Best-effort sync on shutdown
	}()

	logger.Info("Starting kbflowd",
		zap.Int("port", cfg.Server.Port),
		zap.String("kb_url", cfg.KB.BaseURL),
		zap.Duration("shutdown_timeout", cfg.Server.ShutdownTimeout.Duration()))

	gateway, err := kb.NewClient(kb.ClientConfig{
		URL:       cfg.KB.BaseURL,
		APIKey:    cfg.KB.Token.Value(),
		Timeout:   cfg.KB.Timeout.Duration(),
		RateLimit: cfg.KB.RateLimit,
		RateBurst: cfg.KB.RateBurst,
	}, logger)
	if err != nil {
		return fmt.Errorf("failed to create knowledge-base client: %w", err)
	}

	cache := search.NewComparisonCache(cfg.Search.CacheCapacity)
	executor, err := search.NewExecutor(gateway, cache, logger)
	if err != nil {
		return fmt.Errorf("failed to create search executor: %w", err)
	}

	if watch || cfg.Ingest.Watch {
		watcher, err := initWatcher(ctx, cfg, gateway, logger)
		if err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		defer watcher.Stop()

		logger.Info("Watching data directory",
			zap.String("dir", cfg.Ingest.DataDir),
			zap.String("extension", cfg.Ingest.Extension))
	}

	srv, err := httpapi.NewServer(executor, logger, &httpapi.Config{
		Host:     cfg.Server.Host,
		Port:     cfg.Server.Port,
		APIKey:   cfg.Server.APIKey.Value(),
		PageSize: cfg.Search.PageSize,
	})
	if err != nil {
		return fmt.Errorf("failed to create http server: %w", err)
	}

	// Register metrics endpoint
	srv.Echo().GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	logger.Info("Server configured",
		zap.String("health_endpoint", fmt.Sprintf("http://%s:%d/health", cfg.Server.Host, cfg.Server.Port)),
		zap.String("metrics_endpoint", "/metrics"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout.Duration())
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// initLogger initializes the structured logger.
func initLogger(cfg *config.Config) (*zap.Logger, error) {
	return logging.New(cfg.Logging)
}

// initWatcher wires the data-directory watcher onto a fresh coordinator.
func initWatcher(ctx context.Context, cfg *config.Config, gateway kb.Gateway, logger *zap.Logger) (*ingest.Watcher, error) {
	poller, err := ingest.NewPoller(gateway, ingest.PollerConfig{
		Interval: cfg.Ingest.PollInterval.Duration(),
		Timeout:  cfg.Ingest.PollTimeout.Duration(),
	}, logger)
	if err != nil {
		return nil, err
	}

	coordinator, err := ingest.NewCoordinator(gateway, poller, logger)
	if err != nil {
		return nil, err
	}

	watcher, err := ingest.NewWatcher(coordinator, cfg.Ingest.DataDir, ingest.BatchConfig{
		Extension: cfg.Ingest.Extension,
		Language:  cfg.Ingest.Language,
		Options: document.ProcessingOptions{
			InterpretTables:   cfg.Ingest.InterpretTables,
			BlanklineSplitter: cfg.Ingest.BlanklineSplitter,
			ExtractStrategy:   cfg.Ingest.ExtractStrategy,
			SplitStrategy:     cfg.Ingest.SplitStrategy,
		},
	}, logger)
	if err != nil {
		return nil, err
	}

	if err := watcher.Start(ctx); err != nil {
		return nil, err
	}
	return watcher, nil
}
