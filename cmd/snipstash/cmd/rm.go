package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snipstash/snipstash/internal/ui"
)

func newRmCmd(global *globalOptions) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "rm [id]",
		Short: "Remove a snippet",
		Long: `Remove a snippet by id. Removing an id that does not exist is a no-op.
--all removes every snippet and tag.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return fmt.Errorf("give either an id or --all")
			}

			a, err := openApp(cmd.Context(), global)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			p := ui.NewPrinter(cmd.OutOrStdout())

			if all {
				if err := a.Store.DeleteAll(ctx); err != nil {
					return err
				}
				p.Success("removed all snippets")
				return nil
			}

			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.Store.Delete(ctx, id); err != nil {
				return err
			}
			p.Successf("removed #%d", id)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Remove every snippet and tag")

	return cmd
}
