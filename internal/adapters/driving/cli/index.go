package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var indexForce bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build the search index from the corpus",
	Long: `Ingests the documentation corpus, embeds every chunk and builds
the vector index. Persisted artifacts from a previous run are reused
unless --force is given.`,
	Args: cobra.NoArgs,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVarP(&indexForce, "force", "f", false, "rebuild even when persisted artifacts exist")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, _ []string) error {
	if err := ensureEngine(); err != nil {
		return err
	}
	defer closeEngine()
	ctx := cmd.Context()

	build := engine.Build
	if indexForce {
		build = engine.Rebuild
	}
	// Unlike search, index exists to produce durable artifacts, so a
	// persistence failure fails the command.
	if err := build(ctx); err != nil {
		return fmt.Errorf("index failed: %w", err)
	}

	st := engine.Stats()
	cmd.Printf("Indexed %d chunks with %s (%d dimensions)\n",
		st.Documents, st.Model.Name, st.Model.Dimension)
	return nil
}
