package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/docsmith-labs/docdex/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show engine state and persisted artifacts",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	if err := ensureEngine(); err != nil {
		return err
	}
	defer closeEngine()
	ctx := cmd.Context()

	cmd.Printf("Corpus:  %s\n", appCfg.Corpus.Path)
	cmd.Printf("Storage: %s (%s)\n", appCfg.Storage.Backend, appCfg.Storage.Dir)
	cmd.Printf("Model:   %s (%d dimensions)\n", provider.ModelName(), provider.Dimensions())
	cmd.Printf("State:   %s\n", engine.State())

	for _, store := range stores {
		docs, err := store.LoadDocuments(ctx)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			cmd.Printf("  %s: empty\n", store.Name())
			continue
		case err != nil:
			cmd.Printf("  %s: unavailable (%v)\n", store.Name(), err)
			continue
		}

		indexed, err := store.HasEmbeddings(ctx, provider.ModelName())
		switch {
		case err != nil:
			cmd.Printf("  %s: %d chunks, embeddings unavailable (%v)\n", store.Name(), len(docs), err)
		case indexed:
			cmd.Printf("  %s: %d chunks indexed for %s\n", store.Name(), len(docs), provider.ModelName())
		default:
			cmd.Printf("  %s: %d chunks, no embeddings for %s\n", store.Name(), len(docs), provider.ModelName())
		}
	}
	return nil
}
