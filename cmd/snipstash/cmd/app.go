package cmd

import (
	"context"
	"log/slog"

	"github.com/snipstash/snipstash/internal/config"
	"github.com/snipstash/snipstash/internal/embed"
	"github.com/snipstash/snipstash/internal/index"
	"github.com/snipstash/snipstash/internal/logging"
	"github.com/snipstash/snipstash/internal/search"
	"github.com/snipstash/snipstash/internal/store"
	"github.com/snipstash/snipstash/internal/transfer"
)

// app bundles the wired services a command needs. One app is created
// per command invocation and torn down when the command returns.
type app struct {
	Config     *config.Config
	ConfigPath string
	Store      *store.Store
	Client     *embed.OllamaClient
	Embedder   embed.Embedder
	Indexer    *index.Indexer
	Engine     *search.Engine
	Transfer   *transfer.Service

	cleanups []func()
}

// openApp loads configuration, sets up logging, and wires the store,
// embedder, background indexer, search engine and transfer service.
func openApp(ctx context.Context, opts *globalOptions) (*app, error) {
	configPath := opts.configPath
	if configPath == "" {
		configPath = config.DefaultConfigPath()
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	logCfg := logging.Config{
		Level:    cfg.Logging.Level,
		FilePath: cfg.Logging.FilePath,
	}
	if logCfg.FilePath == "" {
		logCfg.FilePath = logging.DefaultLogPath()
	}
	if opts.debug {
		logCfg.Level = "debug"
	}
	logCleanup, err := logging.SetupDefault(logCfg)
	if err != nil {
		return nil, err
	}

	a := &app{Config: cfg, ConfigPath: configPath}
	a.cleanups = append(a.cleanups, logCleanup)

	st, err := store.Open(cfg.Store.Path)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.Store = st
	a.cleanups = append(a.cleanups, func() { _ = st.Close() })

	a.Client = embed.NewOllamaClient(embedConfig(cfg))
	a.Embedder = embed.NewCachedEmbedder(a.Client, embed.DefaultCacheSize)
	a.cleanups = append(a.cleanups, func() { _ = a.Embedder.Close() })

	a.Indexer = index.New(st, a.Embedder)
	if cfg.Ollama.Enabled {
		if err := a.Indexer.EnsureModel(ctx); err != nil {
			slog.Warn("embedding_model_check_failed", slog.String("error", err.Error()))
		}
	}
	a.Indexer.Start(ctx)
	a.cleanups = append(a.cleanups, a.Indexer.Stop)

	a.Engine = search.NewEngine(st, a.Embedder, cfg.Search.SemanticLimit)
	a.Transfer = transfer.NewService(st)

	return a, nil
}

// Close tears the app down in reverse wiring order.
func (a *app) Close() {
	for i := len(a.cleanups) - 1; i >= 0; i-- {
		a.cleanups[i]()
	}
	a.cleanups = nil
}

// embedText is the canonical text embedded per snippet.
func embedText(sn *store.Snippet) string {
	return sn.Title + " " + sn.Content
}

// embedConfig maps the provider section of the config onto the client
// configuration.
func embedConfig(cfg *config.Config) embed.Config {
	return embed.Config{
		Enabled:  cfg.Ollama.Enabled,
		Endpoint: cfg.Ollama.Endpoint,
		Model:    cfg.Ollama.Model,
	}
}
