package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snipstash/snipstash/internal/store"
	"github.com/snipstash/snipstash/internal/ui"
)

// addOptions holds CLI flags for add.
type addOptions struct {
	content  string
	file     string
	language string
	favorite bool
	tags     []string
}

func newAddCmd(global *globalOptions) *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a snippet",
		Long: `Add a snippet to the store.

Content comes from --content, from --file, or from stdin when neither
is given. The snippet is indexed for lexical search immediately; the
semantic embedding is computed in the background when the provider is
enabled.`,
		Example: `  # Inline content
  snipstash add "kubectl drain" -c "kubectl drain node-1 --ignore-daemonsets" -l bash -t k8s

  # From a file
  snipstash add "nginx proxy block" -f proxy.conf -l nginx

  # From stdin
  pbpaste | snipstash add "clipboard snippet"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd, global, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.content, "content", "c", "", "Snippet content")
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read content from file")
	cmd.Flags().StringVarP(&opts.language, "language", "l", "", "Snippet language (default plaintext)")
	cmd.Flags().BoolVar(&opts.favorite, "favorite", false, "Mark as favorite")
	cmd.Flags().StringSliceVarP(&opts.tags, "tag", "t", nil, "Attach tag (repeatable)")

	return cmd
}

func runAdd(cmd *cobra.Command, global *globalOptions, title string, opts addOptions) error {
	content, err := resolveContent(cmd.InOrStdin(), opts)
	if err != nil {
		return err
	}

	a, err := openApp(cmd.Context(), global)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	sn := &store.Snippet{
		Title:    title,
		Content:  content,
		Language: opts.language,
	}
	if err := a.Store.Insert(ctx, sn, false); err != nil {
		return err
	}

	// Insert stamps fresh metadata, so the favorite flag goes on after.
	if opts.favorite {
		sn.Favorite = true
		if err := a.Store.Update(ctx, sn); err != nil {
			return fmt.Errorf("snippet saved, but favorite flag failed: %w", err)
		}
	}

	for _, name := range opts.tags {
		if _, err := a.Store.AttachTag(ctx, name, sn.ID); err != nil {
			return fmt.Errorf("snippet saved, but tag %q failed: %w", name, err)
		}
	}

	// Vector population is async; the insert is already durable.
	a.Indexer.Enqueue(sn.ID, embedText(sn))
	slog.Info("snippet_added", slog.Int64("id", sn.ID), slog.String("title", sn.Title))

	ui.NewPrinter(cmd.OutOrStdout()).Successf("added #%d %q", sn.ID, sn.Title)
	return nil
}

// resolveContent picks the content source: flag, file, then stdin.
func resolveContent(stdin io.Reader, opts addOptions) (string, error) {
	if opts.content != "" && opts.file != "" {
		return "", fmt.Errorf("--content and --file are mutually exclusive")
	}
	if opts.content != "" {
		return opts.content, nil
	}
	if opts.file != "" {
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", opts.file, err)
		}
		return string(data), nil
	}

	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return strings.TrimRight(string(data), "\n"), nil
}
