package cmd

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snipstash/snipstash/internal/store"
	"github.com/snipstash/snipstash/internal/ui"
)

// searchOptions holds CLI flags for search.
type searchOptions struct {
	language string
	semantic bool
	format   string
}

func newSearchCmd(global *globalOptions) *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search snippets",
		Long: `Search snippets by query.

The default mode is lexical: full-text matching over title and content,
exact title matches first, with usage count breaking ties. --semantic
ranks by embedding similarity instead, and silently falls back to
lexical search when the embedding provider is disabled or unreachable.`,
		Example: `  snipstash search "drain node"
  snipstash search rollback --language sql
  snipstash search "rotate credentials" --semantic
  snipstash search deploy --format json`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return runSearch(cmd, global, query, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "Filter by language (lexical mode)")
	cmd.Flags().BoolVarP(&opts.semantic, "semantic", "s", false, "Rank by embedding similarity")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "text", "Output format: text, json")

	return cmd
}

func runSearch(cmd *cobra.Command, global *globalOptions, query string, opts searchOptions) error {
	a, err := openApp(cmd.Context(), global)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	slog.Info("search_started",
		slog.String("query", query),
		slog.Bool("semantic", opts.semantic))

	var results []*store.Snippet
	if opts.semantic {
		results, err = a.Engine.SemanticSearch(ctx, query)
	} else {
		results, err = a.Engine.Search(ctx, query, opts.language)
	}
	if err != nil {
		return err
	}
	slog.Info("search_complete", slog.Int("results", len(results)))

	if opts.format == "json" {
		return printSearchJSON(cmd, results)
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	if len(results) == 0 {
		p.Line("no results for %q", query)
		return nil
	}
	printSnippetRows(ctx, a, cmd, results)
	return nil
}

func printSearchJSON(cmd *cobra.Command, results []*store.Snippet) error {
	type jsonResult struct {
		ID       int64  `json:"id"`
		Title    string `json:"title"`
		Language string `json:"language"`
		Content  string `json:"content"`
		Usage    int    `json:"usage_count"`
	}

	out := make([]jsonResult, 0, len(results))
	for _, sn := range results {
		out = append(out, jsonResult{
			ID:       sn.ID,
			Title:    sn.Title,
			Language: sn.Language,
			Content:  sn.Content,
			Usage:    sn.UsageCount,
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
