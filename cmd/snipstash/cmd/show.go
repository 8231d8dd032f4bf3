package cmd

import (
	"github.com/spf13/cobra"

	"github.com/snipstash/snipstash/internal/ui"
)

func newShowCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a snippet with its full content",
		Args:  cobra.ExactArgs(1),
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
			tags, err := a.Store.TagsFor(ctx, sn.ID)
			if err != nil {
				tags = nil
			}

			ui.NewPrinter(cmd.OutOrStdout()).Snippet(sn, tags)
			return nil
		},
	}

	return cmd
}
