package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/snipstash/snipstash/internal/ui"
)

func newEditCmd(global *globalOptions) *cobra.Command {
	var (
		title    string
		content  string
		language string
		favorite string
	)

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a snippet",
		Long: `Edit a snippet's fields. Only the given flags change; everything else
is left as it was. Changing title or content re-queues the snippet for
embedding.`,
		Example: `  snipstash edit 7 --title "drain node (with grace period)"
  snipstash edit 7 --favorite=true
  snipstash edit 7 --language sql`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			a, err := openApp(cmd.Context(), global)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			sn, err := a.Store.Get(ctx, id)
			if err != nil {
				return err
			}

			textChanged := false
			if cmd.Flags().Changed("title") {
				sn.Title = title
				textChanged = true
			}
			if cmd.Flags().Changed("content") {
				sn.Content = content
				textChanged = true
			}
			if cmd.Flags().Changed("language") {
				sn.Language = language
			}
			if cmd.Flags().Changed("favorite") {
				fav, err := strconv.ParseBool(favorite)
				if err != nil {
					return fmt.Errorf("invalid --favorite value %q", favorite)
				}
				sn.Favorite = fav
			}

			if err := a.Store.Update(ctx, sn); err != nil {
				return err
			}
			if textChanged {
				a.Indexer.Enqueue(sn.ID, embedText(sn))
			}

			ui.NewPrinter(cmd.OutOrStdout()).Successf("updated #%d %q", sn.ID, sn.Title)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&content, "content", "", "New content")
	cmd.Flags().StringVar(&language, "language", "", "New language")
	cmd.Flags().StringVar(&favorite, "favorite", "", "Set favorite: true or false")

	return cmd
}

// parseID parses a snippet id argument.
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid snippet id %q", arg)
	}
	return id, nil
}
