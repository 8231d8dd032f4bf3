package cmd

import (
	"github.com/spf13/cobra"

	"github.com/snipstash/snipstash/internal/ui"
)

func newReindexCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reindex",
		Short: "Backfill missing embeddings",
		Long: `Embed every snippet that has no stored vector.

Snippets lose their vector when an embedding attempt failed, when a
library was imported, or when the embedding model changed. Reindexing
also reconciles the stored model name: if the configured model differs
from the one the vectors were generated with, all vectors are cleared
and regenerated.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), global)
			if err != nil {
				return err
			}
			defer a.Close()

			p := ui.NewPrinter(cmd.OutOrStdout())
			if !a.Config.Ollama.Enabled {
				p.Warning("embedding provider is disabled; nothing to reindex")
				return nil
			}

			count, err := a.Indexer.Backfill(cmd.Context())
			if err != nil {
				return err
			}

			p.Successf("embedded %d snippets", count)
			return nil
		},
	}

	return cmd
}
