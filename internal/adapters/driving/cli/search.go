package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/docsmith-labs/docdex/internal/core/domain"
)

var (
	searchLimit    int
	searchMinScore float64
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search the indexed documentation",
	Long: `Runs a semantic search over the indexed corpus and prints the
ranked chunks. Persisted artifacts are loaded first; when none exist
the corpus is ingested and indexed before the query runs.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 0, "maximum number of results (default from config)")
	searchCmd.Flags().Float64Var(&searchMinScore, "min-score", 0, "relevance floor in [0, 1], -1 disables it")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if err := ensureEngine(); err != nil {
		return err
	}
	defer closeEngine()
	ctx := cmd.Context()

	if err := readyEngine(ctx); err != nil {
		return err
	}

	resp, err := engine.Search(ctx, args[0], searchOptions(searchLimit, searchMinScore))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, resp)
	}
	return outputSearchTable(cmd, resp)
}

// searchResultView is the JSON output shape.
type searchResultView struct {
	ID      string  `json:"id"`
	Source  string  `json:"source"`
	Section string  `json:"section"`
	Score   float64 `json:"score"`
	Text    string  `json:"text"`
}

func outputSearchJSON(cmd *cobra.Command, resp domain.SearchResponse) error {
	views := make([]searchResultView, 0, len(resp.Results))
	for _, res := range resp.Results {
		views = append(views, searchResultView{
			ID:      res.Document.ID,
			Source:  res.Document.SourcePath(),
			Section: res.Document.Section(),
			Score:   res.Score,
			Text:    res.Document.Text,
		})
	}

	data, err := json.MarshalIndent(views, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, resp domain.SearchResponse) error {
	if len(resp.Results) == 0 {
		if resp.Reason != "" {
			cmd.Printf("No results: %s\n", resp.Reason)
		} else {
			cmd.Println("No results found.")
		}
		return nil
	}

	cmd.Println("Results:")
	cmd.Println()
	for i, res := range resp.Results {
		doc := res.Document
		cmd.Printf("  [%d] %s (%.2f)\n", i+1, resultLabel(doc), res.Score)
		if src := doc.SourcePath(); src != "" {
			cmd.Printf("      Source: %s\n", src)
		}
		if text := excerpt(doc.Text, 120); text != "" {
			cmd.Printf("      %s\n", text)
		}
		cmd.Println()
	}
	return nil
}

// resultLabel picks the most specific name a chunk carries.
func resultLabel(doc domain.Document) string {
	for _, label := range []string{doc.Section(), doc.Title(), doc.FileName()} {
		if label != "" {
			return label
		}
	}
	return doc.ID
}

// excerpt collapses whitespace and truncates to max runes.
func excerpt(text string, max int) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	runes := []rune(collapsed)
	if len(runes) <= max {
		return collapsed
	}
	return string(runes[:max]) + "..."
}
