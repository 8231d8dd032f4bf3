package cmd

import (
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/snipstash/snipstash/internal/config"
	"github.com/snipstash/snipstash/internal/ui"
)

// defaultSweepInterval is how often the agent looks for snippets
// missing an embedding.
const defaultSweepInterval = 5 * time.Minute

func newAgentCmd(global *globalOptions) *cobra.Command {
	var sweepEvery time.Duration

	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Run the resident background agent",
		Long: `Run snipstash as a resident process until interrupted.

The agent watches the config file and applies embedding provider
changes (endpoint, model, enabled) without a restart, and periodically
sweeps for snippets that are missing an embedding, for example because
the provider was down when they were written.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAgent(cmd, global, sweepEvery)
		},
	}

	cmd.Flags().DurationVar(&sweepEvery, "sweep-every", defaultSweepInterval, "Interval between embedding sweeps")

	return cmd
}

func runAgent(cmd *cobra.Command, global *globalOptions, sweepEvery time.Duration) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := openApp(ctx, global)
	if err != nil {
		return err
	}
	defer a.Close()

	// The watcher callback runs on its own goroutine; the enabled flag is
	// the only piece of state the sweep loop shares with it.
	var mu sync.Mutex
	enabled := a.Config.Ollama.Enabled
	providerEnabled := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return enabled
	}

	// Hot-reload: provider settings apply immediately, a model change is
	// reconciled (old vectors cleared) on the next sweep.
	watcher := config.NewWatcher(a.ConfigPath, func(cfg *config.Config) {
		a.Client.Reconfigure(embedConfig(cfg))
		mu.Lock()
		enabled = cfg.Ollama.Enabled
		mu.Unlock()
	})
	if err := watcher.Start(ctx); err != nil {
		slog.Warn("config_watch_unavailable", slog.String("error", err.Error()))
	} else {
		defer watcher.Stop()
	}

	p := ui.NewPrinter(cmd.OutOrStdout())
	p.Line("agent running (config: %s), ctrl-c to stop", a.ConfigPath)
	slog.Info("agent_started", slog.Duration("sweep_every", sweepEvery))

	ticker := time.NewTicker(sweepEvery)
	defer ticker.Stop()

	sweep := func() {
		if !providerEnabled() {
			return
		}
		count, err := a.Indexer.Backfill(ctx)
		if err != nil {
			slog.Warn("sweep_failed", slog.String("error", err.Error()))
			return
		}
		if count > 0 {
			slog.Info("sweep_complete", slog.Int("embedded", count))
		}
	}

	sweep()
	for {
		select {
		case <-ctx.Done():
			slog.Info("agent_stopped")
			return nil
		case <-ticker.C:
			sweep()
		}
	}
}
