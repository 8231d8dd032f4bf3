package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/snipstash/snipstash/internal/store"
	"github.com/snipstash/snipstash/internal/ui"
)

func newListCmd(global *globalOptions) *cobra.Command {
	var (
		recent   int
		language string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List snippets",
		Long: `List snippets in the store.

By default all snippets are listed. --recent shows only snippets that
have been used, most recently touched first. --language narrows the
listing to one language.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), global)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			var snippets []*store.Snippet
			switch {
			case recent > 0:
				snippets, err = a.Store.RecentlyUsed(ctx, recent)
			case language != "":
				snippets, err = a.Store.ByLanguage(ctx, language)
			default:
				snippets, err = a.Store.All(ctx)
			}
			if err != nil {
				return err
			}

			printSnippetRows(ctx, a, cmd, snippets)
			return nil
		},
	}

	cmd.Flags().IntVar(&recent, "recent", 0, "Show the N most recently used snippets")
	cmd.Flags().StringVarP(&language, "language", "l", "", "Filter by language")

	return cmd
}

// printSnippetRows renders listing rows with their tags. Tag lookup
// failures degrade to an untagged row rather than failing the listing.
func printSnippetRows(ctx context.Context, a *app, cmd *cobra.Command, snippets []*store.Snippet) {
	p := ui.NewPrinter(cmd.OutOrStdout())
	if len(snippets) == 0 {
		p.Line("no snippets")
		return
	}
	for _, sn := range snippets {
		tags, err := a.Store.TagsFor(ctx, sn.ID)
		if err != nil {
			tags = nil
		}
		p.SnippetRow(sn, tags)
	}
}
