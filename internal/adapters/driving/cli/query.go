package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	queryLimit    int
	queryMinScore float64
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Ask a question and print a formatted report",
	Long: `Searches the corpus and renders the results as a readable report:
matches grouped by source file, scored sections with snippets, and
related search suggestions.`,
	Args: cobra.ExactArgs(1),
	RunE: runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryLimit, "limit", "n", 0, "maximum number of results (default from config)")
	queryCmd.Flags().Float64Var(&queryMinScore, "min-score", 0, "relevance floor in [0, 1], -1 disables it")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	if err := ensureEngine(); err != nil {
		return err
	}
	defer closeEngine()
	ctx := cmd.Context()

	if err := readyEngine(ctx); err != nil {
		return err
	}

	report, err := engine.Report(ctx, args[0], searchOptions(queryLimit, queryMinScore))
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	cmd.Print(report)
	return nil
}
