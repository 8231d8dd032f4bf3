// Package config loads and persists the snipstash configuration.
// Configuration is YAML on disk with environment variable overrides
// (SNIPSTASH_*), highest priority last.
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// CurrentVersion is the config schema version written by this build.
const CurrentVersion = 1

// Config represents the complete snipstash configuration.
type Config struct {
	Version int           `yaml:"version"`
	Store   StoreConfig   `yaml:"store"`
	Ollama  OllamaConfig  `yaml:"ollama"`
	Search  SearchConfig  `yaml:"search"`
	Logging LoggingConfig `yaml:"logging"`
}

// StoreConfig configures the snippet store.
type StoreConfig struct {
	// Path is the SQLite database file path.
	// Defaults to ~/.snipstash/snippets.db.
	Path string `yaml:"path"`
}

// OllamaConfig configures the embedding provider.
// Endpoint and model mirror the Ollama HTTP API.
type OllamaConfig struct {
	// Enabled turns semantic search on. When false, all searches are
	// lexical and no network calls are made.
	Enabled bool `yaml:"enabled"`

	// Endpoint is the Ollama base URL (default: http://localhost:11434).
	Endpoint string `yaml:"endpoint"`

	// Model is the embedding model name (default: nomic-embed-text).
	Model string `yaml:"model"`
}

// SearchConfig configures search behavior.
type SearchConfig struct {
	// SemanticLimit is the default result count for semantic search.
	SemanticLimit int `yaml:"semantic_limit"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level    string `yaml:"level"`
	FilePath string `yaml:"file_path"`
}

// DefaultDataDir returns the snipstash data directory (~/.snipstash).
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "snipstash")
	}
	return filepath.Join(home, ".snipstash")
}

// DefaultConfigPath returns the default config file location.
func DefaultConfigPath() string {
	return filepath.Join(DefaultDataDir(), "config.yaml")
}

// Default returns the default configuration.
func Default() *Config {
	dataDir := DefaultDataDir()
	return &Config{
		Version: CurrentVersion,
		Store: StoreConfig{
			Path: filepath.Join(dataDir, "snippets.db"),
		},
		Ollama: OllamaConfig{
			Enabled:  false,
			Endpoint: "http://localhost:11434",
			Model:    "nomic-embed-text",
		},
		Search: SearchConfig{
			SemanticLimit: 20,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Load reads the config file at path, falling back to defaults when the
// file does not exist. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file is fine; defaults plus env apply.
	case err != nil:
		return nil, fmt.Errorf("failed to read config: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnv(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as YAML to path, creating directories as needed.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version %d (expected %d)", c.Version, CurrentVersion)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store.path must not be empty")
	}
	if c.Search.SemanticLimit <= 0 {
		c.Search.SemanticLimit = 20
	}
	if c.Ollama.Enabled {
		if err := validateEndpoint(c.Ollama.Endpoint); err != nil {
			return err
		}
	}
	return nil
}

// validateEndpoint checks the endpoint is a well-formed http(s) URL.
func validateEndpoint(endpoint string) error {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return fmt.Errorf("invalid ollama.endpoint %q: %w", endpoint, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid ollama.endpoint %q: expected http(s) URL with host", endpoint)
	}
	return nil
}

// applyEnv applies SNIPSTASH_* environment variable overrides.
func applyEnv(cfg *Config) {
	if v := os.Getenv("SNIPSTASH_STORE_PATH"); v != "" {
		cfg.Store.Path = v
	}
	if v := os.Getenv("SNIPSTASH_OLLAMA_ENABLED"); v != "" {
		cfg.Ollama.Enabled = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("SNIPSTASH_OLLAMA_ENDPOINT"); v != "" {
		cfg.Ollama.Endpoint = v
	}
	if v := os.Getenv("SNIPSTASH_OLLAMA_MODEL"); v != "" {
		cfg.Ollama.Model = v
	}
	if v := os.Getenv("SNIPSTASH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
}
