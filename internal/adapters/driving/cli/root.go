// Package cli implements the docdex command line interface.
//
// Commands run against package-level application state assembled on
// first use, so `docdex version` and `--help` never touch config or
// storage. Tests swap the engine variable for a double.
package cli

import (
	"github.com/spf13/cobra"
)

// version is overridden at build time via -ldflags.
var version = "dev"

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "docdex",
	Short: "Semantic search over local documentation",
	Long: `Docdex indexes a documentation directory and answers questions
against it. It chunks the corpus, embeds every chunk, and serves
ranked semantic search results from a persisted vector index.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
