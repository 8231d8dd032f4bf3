package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/snipstash/snipstash/internal/ui"
)

func newTagCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag <id> <name>...",
		Short: "Attach tags to a snippet",
		Long: `Attach one or more tags to a snippet. Tag names are normalized to
lowercase and trimmed; attaching a tag the snippet already has is a
no-op.`,
		Args: cobra.MinimumNArgs(2),
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
			// Fail cleanly on a missing snippet before touching tags
			if _, err := a.Store.Get(ctx, id); err != nil {
				return err
			}

			attached := make([]string, 0, len(args)-1)
			for _, name := range args[1:] {
				tag, err := a.Store.AttachTag(ctx, name, id)
				if err != nil {
					return err
				}
				attached = append(attached, tag.Name)
			}

			ui.NewPrinter(cmd.OutOrStdout()).Successf("tagged #%d with %s",
				id, strings.Join(attached, ", "))
			return nil
		},
	}

	return cmd
}

func newUntagCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "untag <id> <name>",
		Short: "Detach a tag from a snippet",
		Long: `Detach a tag from a snippet. Detaching a tag the snippet does not
have is a no-op.`,
		Args: cobra.ExactArgs(2),
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
			tags, err := a.Store.TagsFor(ctx, id)
			if err != nil {
				return err
			}

			name := strings.ToLower(strings.TrimSpace(args[1]))
			for _, tag := range tags {
				if tag.Name == name {
					if err := a.Store.DetachTag(ctx, tag.ID, id); err != nil {
						return err
					}
					break
				}
			}

			ui.NewPrinter(cmd.OutOrStdout()).Successf("untagged %q from #%d", name, id)
			return nil
		},
	}

	return cmd
}

func newTagsCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List all tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), global)
			if err != nil {
				return err
			}
			defer a.Close()

			tags, err := a.Store.AllTags(cmd.Context())
			if err != nil {
				return err
			}

			p := ui.NewPrinter(cmd.OutOrStdout())
			if len(tags) == 0 {
				p.Line("no tags")
				return nil
			}
			for _, tag := range tags {
				p.Line("%s", tag.Name)
			}
			return nil
		},
	}

	return cmd
}

func newLanguagesCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "languages",
		Short: "List languages in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := openApp(cmd.Context(), global)
			if err != nil {
				return err
			}
			defer a.Close()

			languages, err := a.Store.Languages(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, lang := range languages {
				if _, err := fmt.Fprintln(out, lang); err != nil {
					return err
				}
			}
			return nil
		},
	}

	return cmd
}
