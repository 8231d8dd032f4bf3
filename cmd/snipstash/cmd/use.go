package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newUseCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <id>",
		Short: "Print a snippet's content and record the use",
		Long: `Print a snippet's raw content to stdout and bump its usage count.
Usage counts feed ranking: heavily used snippets surface first on ties
and in the --recent listing.

Pipe the output wherever it is needed:
  snipstash use 7 | pbcopy`,
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
			if err := a.Store.RecordUse(ctx, sn.ID); err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), sn.Content)
			return err
		},
	}

	return cmd
}
