package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/snipstash/snipstash/internal/transfer"
	"github.com/snipstash/snipstash/internal/ui"
)

func newExportCmd(global *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the library as JSON",
		Long: `Export every snippet with its tags as a version-1 JSON document,
sorted by title. Writes to stdout unless --output is given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), global)
			if err != nil {
				return err
			}
			defer a.Close()

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer func() { _ = f.Close() }()
				w = f
			}

			if err := a.Transfer.Export(cmd.Context(), w); err != nil {
				return err
			}
			if output != "" {
				ui.NewPrinter(cmd.OutOrStdout()).Successf("exported to %s", output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to file instead of stdout")

	return cmd
}

func newImportCmd(global *globalOptions) *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a library from JSON",
		Long: `Import snippets from a version-1 JSON document. The default mode is
merge: existing snippets stay and imported ones are inserted fresh with
their original timestamps, usage reset and embeddings recomputed later.
--replace deletes everything first.

A snippet that fails to import is skipped and reported; the rest of the
document still imports. Use "-" to read from stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), global)
			if err != nil {
				return err
			}
			defer a.Close()

			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", args[0], err)
				}
				defer func() { _ = f.Close() }()
				r = f
			}

			mode := transfer.Merge
			if replace {
				mode = transfer.Replace
			}

			result, err := a.Transfer.Import(cmd.Context(), r, mode)
			if err != nil {
				return err
			}

			// Imported snippets arrive without vectors; backfill now so
			// semantic search covers them without waiting for an edit.
			if a.Config.Ollama.Enabled {
				if _, err := a.Indexer.Backfill(cmd.Context()); err != nil {
					ui.NewPrinter(cmd.OutOrStdout()).Warning(
						"embedding backfill failed: " + err.Error())
				}
			}

			p := ui.NewPrinter(cmd.OutOrStdout())
			if result.Skipped > 0 {
				p.Warning(result.Message())
			} else {
				p.Success(result.Message())
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Delete all existing snippets and tags first")

	return cmd
}
