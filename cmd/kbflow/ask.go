package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fyrsmithlabs/kbflow/internal/search"
)

const (
	// askPageSize keeps answers short enough to read in a terminal.
	askPageSize = 3
	// snippetWidth caps each echoed passage.
	snippetWidth = 160
)

// askCmd answers a single question.
var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask one question against the knowledge base",
	Long: `Ask one question and print the best matching passages.

Examples:
  kbflow ask "what is an activity object"`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

// chatCmd answers questions in a loop.
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Ask questions interactively",
	Long: `Read questions from stdin in a loop and print matching passages
for each. Type "exit" to quit.`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

// runAsk handles the ask command
func runAsk(cmd *cobra.Command, args []string) error {
	_, logger, gateway, err := loadApp()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	executor, err := newExecutor(gateway, logger)
	if err != nil {
		return err
	}

	return answer(cmd, executor, args[0])
}

// runChat handles the chat command
func runChat(cmd *cobra.Command, args []string) error {
	_, logger, gateway, err := loadApp()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	executor, err := newExecutor(gateway, logger)
	if err != nil {
		return err
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			continue
		}
		if question == "exit" {
			break
		}
		if err := answer(cmd, executor, question); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	}
	return scanner.Err()
}

// answer runs a merged search and echoes truncated passages.
func answer(cmd *cobra.Command, executor *search.Executor, question string) error {
	hits, err := executor.Merged(cmd.Context(), question, askPageSize, nil)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if len(hits) == 0 {
		fmt.Println("No results.")
		return nil
	}

	for _, hit := range hits {
		fmt.Printf("[%.3f] %s\n", hit.Score, snippet(hit.Text))
	}
	return nil
}

// snippet truncates text to one printable line.
func snippet(text string) string {
	text = strings.Join(strings.Fields(text), " ")
	runes := []rune(text)
	if len(runes) <= snippetWidth {
		return text
	}
	return string(runes[:snippetWidth]) + "..."
}
