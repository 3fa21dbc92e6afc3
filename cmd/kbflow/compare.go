package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/kbflow/internal/search"
)

// compareCmd runs every strategy for one question.
var compareCmd = &cobra.Command{
	Use:   "compare <question>",
	Short: "Compare retrieval strategies for one question",
	Long: `Run the semantic, hybrid, and merged strategies for the same
question and print each strategy's results side by side.

Examples:
  kbflow compare "what is an activity object"`,
	Args: cobra.ExactArgs(1),
	RunE: runCompare,
}

// runCompare handles the compare command
func runCompare(cmd *cobra.Command, args []string) error {
	cfg, logger, gateway, err := loadApp()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	executor, err := newExecutor(gateway, logger)
	if err != nil {
		return err
	}

	comparison, err := executor.Compare(cmd.Context(), args[0], cfg.Search.PageSize)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	for _, strategy := range []search.Strategy{search.StrategySemantic, search.StrategyHybrid, search.StrategyMerged} {
		fmt.Printf("== %s ==\n", strategy)
		hits := comparison[strategy]
		if len(hits) == 0 {
			fmt.Println("  (no results)")
			continue
		}
		for _, hit := range hits {
			fmt.Printf("  [%.3f] %s\n", hit.Score, snippet(hit.Text))
		}
	}
	return nil
}
