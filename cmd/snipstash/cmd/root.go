// Package cmd provides the CLI commands for snipstash.
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snipstash/snipstash/internal/profiling"
	"github.com/snipstash/snipstash/pkg/version"
)

// globalOptions holds the persistent flags shared by every subcommand.
type globalOptions struct {
	configPath string
	debug      bool

	profileCPU string
	profileMem string

	profiler   *profiling.Profiler
	cpuCleanup func()
}

// NewRootCmd creates the root command for the snipstash CLI.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	cmd := &cobra.Command{
		Use:   "snipstash",
		Short: "Personal snippet store with hybrid search",
		Long: `snipstash keeps your snippets in a local SQLite store and finds them
with lexical full-text ranking, tag and language facets, and optional
semantic search through a local Ollama embedding model.

Everything runs locally; semantic search degrades to lexical search
whenever the embedding provider is disabled or unreachable.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.SetVersionTemplate("snipstash version {{.Version}}\n")

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "Config file path (default ~/.snipstash/config.yaml)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug logging to ~/.snipstash/logs/")
	cmd.PersistentFlags().StringVar(&opts.profileCPU, "profile-cpu", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&opts.profileMem, "profile-mem", "", "Write memory profile to file")

	cmd.PersistentPreRunE = func(_ *cobra.Command, _ []string) error {
		return opts.startProfiling()
	}
	cmd.PersistentPostRunE = func(_ *cobra.Command, _ []string) error {
		return opts.stopProfiling()
	}

	cmd.AddCommand(newAddCmd(opts))
	cmd.AddCommand(newListCmd(opts))
	cmd.AddCommand(newShowCmd(opts))
	cmd.AddCommand(newSearchCmd(opts))
	cmd.AddCommand(newEditCmd(opts))
	cmd.AddCommand(newRmCmd(opts))
	cmd.AddCommand(newUseCmd(opts))
	cmd.AddCommand(newTagCmd(opts))
	cmd.AddCommand(newUntagCmd(opts))
	cmd.AddCommand(newTagsCmd(opts))
	cmd.AddCommand(newLanguagesCmd(opts))
	cmd.AddCommand(newExportCmd(opts))
	cmd.AddCommand(newImportCmd(opts))
	cmd.AddCommand(newReindexCmd(opts))
	cmd.AddCommand(newAgentCmd(opts))
	cmd.AddCommand(newDoctorCmd(opts))
	cmd.AddCommand(newConfigCmd(opts))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startProfiling starts CPU profiling if requested.
func (o *globalOptions) startProfiling() error {
	if o.profileCPU == "" {
		return nil
	}
	o.profiler = profiling.NewProfiler()
	cleanup, err := o.profiler.StartCPU(o.profileCPU)
	if err != nil {
		return fmt.Errorf("failed to start CPU profile: %w", err)
	}
	o.cpuCleanup = cleanup
	return nil
}

// stopProfiling stops CPU profiling and writes the memory profile if
// requested.
func (o *globalOptions) stopProfiling() error {
	if o.cpuCleanup != nil {
		o.cpuCleanup()
		o.cpuCleanup = nil
	}
	if o.profileMem != "" {
		if o.profiler == nil {
			o.profiler = profiling.NewProfiler()
		}
		if err := o.profiler.WriteHeap(o.profileMem); err != nil {
			return fmt.Errorf("failed to write memory profile: %w", err)
		}
	}
	return nil
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
