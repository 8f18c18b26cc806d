package cli

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/docsmith-labs/docdex/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Index the corpus and rebuild on file changes",
	Long: `Builds the index, then watches the corpus directory and rebuilds
after file changes settle. Runs until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, _ []string) error {
	if err := ensureEngine(); err != nil {
		return err
	}
	defer closeEngine()

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
	defer cancel()

	if err := readyEngine(ctx); err != nil {
		return err
	}
	st := engine.Stats()
	cmd.Printf("Indexed %d chunks, watching %s\n", st.Documents, appCfg.Corpus.Path)

	w, err := watcher.New(
		appCfg.Corpus.Path,
		registry.Extensions(),
		time.Duration(appCfg.Watch.DebounceMS)*time.Millisecond,
		engine.Rebuild,
		appLog,
	)
	if err != nil {
		return err
	}

	if err := w.Watch(ctx); !errors.Is(err, context.Canceled) {
		return err
	}
	cmd.Println("Stopped.")
	return nil
}
