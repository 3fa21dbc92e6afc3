package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/kbflow/internal/document"
	"github.com/fyrsmithlabs/kbflow/internal/ingest"
)

var (
	uploadWait          bool
	uploadDir           string
	uploadSplitStrategy string
)

// uploadCmd ingests every matching file in the data directory.
var uploadCmd = &cobra.Command{
	Use:   "upload",
	Short: "Upload documents from the data directory",
	Long: `Upload every matching document from the data directory into the
knowledge base. Files whose content fingerprint already matches the
remote copy are skipped.

Examples:
  # Upload new and changed documents
  kbflow upload

  # Upload and block until every document is processed
  kbflow upload --wait

  # Upload from a different directory with a custom split strategy
  kbflow upload --dir ./papers --split-strategy <strategy-id>`,
	Args: cobra.NoArgs,
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().BoolVar(&uploadWait, "wait", false, "wait until each uploaded document is processed")
	uploadCmd.Flags().StringVar(&uploadDir, "dir", "", "data directory (default from config)")
	uploadCmd.Flags().StringVar(&uploadSplitStrategy, "split-strategy", "", "split strategy id forwarded to processing")
}

// runUpload handles the upload command
func runUpload(cmd *cobra.Command, args []string) error {
	cfg, logger, gateway, err := loadApp()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	poller, err := ingest.NewPoller(gateway, ingest.PollerConfig{
		Interval: cfg.Ingest.PollInterval.Duration(),
		Timeout:  cfg.Ingest.PollTimeout.Duration(),
	}, logger)
	if err != nil {
		return err
	}

	coordinator, err := ingest.NewCoordinator(gateway, poller, logger)
	if err != nil {
		return err
	}

	splitStrategy := cfg.Ingest.SplitStrategy
	if uploadSplitStrategy != "" {
		splitStrategy = uploadSplitStrategy
	}

	batch, err := ingest.NewBatch(coordinator, ingest.BatchConfig{
		Extension:   cfg.Ingest.Extension,
		Language:    cfg.Ingest.Language,
		Concurrency: cfg.Ingest.Concurrency,
		Options: document.ProcessingOptions{
			InterpretTables:   cfg.Ingest.InterpretTables,
			BlanklineSplitter: cfg.Ingest.BlanklineSplitter,
			ExtractStrategy:   cfg.Ingest.ExtractStrategy,
			SplitStrategy:     splitStrategy,
		},
	}, logger)
	if err != nil {
		return err
	}

	dir := cfg.Ingest.DataDir
	if uploadDir != "" {
		dir = uploadDir
	}

	wait := uploadWait || cfg.Ingest.Wait
	outcomes, err := batch.IngestDirectory(cmd.Context(), dir, wait)
	if err != nil {
		return fmt.Errorf("upload failed: %w", err)
	}

	if len(outcomes) == 0 {
		fmt.Printf("No %s files found in %s\n", cfg.Ingest.Extension, dir)
		return nil
	}

	names := make([]string, 0, len(outcomes))
	for name := range outcomes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		outcome := outcomes[name]
		switch {
		case outcome.Created:
			fmt.Printf("%-40s created  %s\n", name, outcome.ResourceID)
		case outcome.Uploaded:
			fmt.Printf("%-40s updated  %s\n", name, outcome.ResourceID)
		default:
			fmt.Printf("%-40s skipped  %s\n", name, outcome.ResourceID)
		}
	}
	return nil
}
