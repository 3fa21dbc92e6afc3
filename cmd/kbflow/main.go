// Package main implements the kbflow CLI for manual knowledge-base operations.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/kbflow/internal/config"
	"github.com/fyrsmithlabs/kbflow/internal/kb"
	"github.com/fyrsmithlabs/kbflow/internal/logging"
	"github.com/fyrsmithlabs/kbflow/internal/search"
)

var (
	// configPath is the YAML config file shared by all commands.
	configPath string
	// version information
	version = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "kbflow",
	Short: "CLI for knowledge-base ingestion and retrieval",
	Long: `kbflow is a command-line interface for the knowledge-base flow tooling.
It uploads documents, asks questions against the indexed corpus, and
compares retrieval strategies.`,
	Version: version,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file")
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(compareCmd)
	rootCmd.AddCommand(healthCmd)
}

// loadApp loads configuration and wires the shared dependencies.
func loadApp() (*config.Config, *zap.Logger, kb.Gateway, error) {
	// Local overrides for development; absence is not an error.
	_ = godotenv.Load()

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	gateway, err := kb.NewClient(kb.ClientConfig{
		URL:       cfg.KB.BaseURL,
		APIKey:    cfg.KB.Token.Value(),
		Timeout:   cfg.KB.Timeout.Duration(),
		RateLimit: cfg.KB.RateLimit,
		RateBurst: cfg.KB.RateBurst,
	}, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create knowledge-base client: %w", err)
	}

	return cfg, logger, gateway, nil
}

// newExecutor builds a search executor without a comparison cache. CLI
// invocations are one-shot, so caching buys nothing here.
func newExecutor(gateway kb.Gateway, logger *zap.Logger) (*search.Executor, error) {
	return search.NewExecutor(gateway, nil, logger)
}
