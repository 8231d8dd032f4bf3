package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/snipstash/snipstash/internal/config"
	"github.com/snipstash/snipstash/internal/ui"
)

func newConfigCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show the effective configuration",
		Long: `Print the effective configuration as YAML: file values, defaults for
anything unset, and SNIPSTASH_* environment overrides applied.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := global.configPath
			if path == "" {
				path = config.DefaultConfigPath()
			}
			cfg, err := config.Load(path)
			if err != nil {
				return err
			}

			data, err := yaml.Marshal(cfg)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), string(data))
			return err
		},
	}

	cmd.AddCommand(newConfigInitCmd(global))

	return cmd
}

func newConfigInitCmd(global *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path := global.configPath
			if path == "" {
				path = config.DefaultConfigPath()
			}

			if err := config.Save(config.Default(), path); err != nil {
				return err
			}
			ui.NewPrinter(cmd.OutOrStdout()).Successf("wrote %s", path)
			return nil
		},
	}

	return cmd
}
