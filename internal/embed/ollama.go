package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
)

// Config configures the Ollama client. Fields mirror the settings the
// user can change at runtime; Reconfigure swaps them atomically.
type Config struct {
	// Enabled turns the provider on. When false, Embed returns an
	// absent vector without any network activity.
	Enabled bool

	// Endpoint is the Ollama base URL, e.g. http://localhost:11434.
	Endpoint string

	// Model is the embedding model name, e.g. nomic-embed-text.
	Model string
}

// OllamaClient calls an Ollama-compatible embedding service. It is pure
// request/response; the only state beyond configuration is the shared
// HTTP client. One instance is created at startup and injected by handle
// into every caller.
type OllamaClient struct {
	client *http.Client

	mu     sync.RWMutex
	config Config
	closed bool
}

// Verify interface implementation at compile time
var _ Embedder = (*OllamaClient)(nil)

// NewOllamaClient creates a client for the given configuration.
// Per-request deadlines come from context timeouts, not a static client
// timeout, so each call class gets its own bound.
func NewOllamaClient(cfg Config) *OllamaClient {
	return &OllamaClient{
		client: &http.Client{},
		config: cfg,
	}
}

// Reconfigure replaces the client configuration. Safe to call while
// requests are in flight; subsequent calls use the new settings.
func (c *OllamaClient) Reconfigure(cfg Config) {
	c.mu.Lock()
	c.config = cfg
	c.mu.Unlock()
	slog.Info("embedder_reconfigured",
		slog.Bool("enabled", cfg.Enabled),
		slog.String("model", cfg.Model))
}

func (c *OllamaClient) snapshot() (Config, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config, c.closed
}

// embedRequest is the /api/embeddings request body.
type embedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

// embedResponse is the /api/embeddings response body.
type embedResponse struct {
	Embedding []float64 `json:"embedding"`
}

// modelListResponse is the /api/tags response body.
type modelListResponse struct {
	Models []modelInfo `json:"models"`
}

type modelInfo struct {
	Name string `json:"name"`
}

// Embed generates an embedding for text.
//
// Returns (nil, nil) when the provider is disabled or the service is not
// reachable; both mean "fall back to lexical search" and callers must not
// distinguish them. A misconfigured endpoint fails fast with
// ErrInvalidEndpoint; a non-2xx answer yields *HTTPError; an unparseable
// body yields ErrInvalidResponse.
func (c *OllamaClient) Embed(ctx context.Context, text string) ([]float32, error) {
	cfg, closed := c.snapshot()
	if closed {
		return nil, fmt.Errorf("embedder is closed")
	}
	if !cfg.Enabled {
		return nil, nil
	}

	endpoint, err := apiURL(cfg.Endpoint, "api/embeddings")
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(embedRequest{Model: cfg.Model, Prompt: text})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, EmbedTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		// Connection-level failure (service not running, timeout):
		// treated as provider unavailable, same as disabled.
		slog.Debug("embedding_provider_unreachable", slog.String("error", err.Error()))
		return nil, nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{Status: resp.StatusCode}
	}

	var result embedResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, ErrInvalidResponse
	}
	if len(result.Embedding) == 0 {
		return nil, ErrInvalidResponse
	}

	vector := make([]float32, len(result.Embedding))
	for i, v := range result.Embedding {
		vector[i] = float32(v)
	}
	return vector, nil
}

// Models lists the embedding models installed on the provider.
func (c *OllamaClient) Models(ctx context.Context) ([]string, error) {
	cfg, closed := c.snapshot()
	if closed {
		return nil, fmt.Errorf("embedder is closed")
	}

	endpoint, err := apiURL(cfg.Endpoint, "api/tags")
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, ModelListTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to embedding provider: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, &HTTPError{Status: resp.StatusCode}
	}

	var result modelListResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, ErrInvalidResponse
	}

	names := make([]string, 0, len(result.Models))
	for _, m := range result.Models {
		names = append(names, m.Name)
	}
	return names, nil
}

// Available reports whether the provider is enabled and answering.
func (c *OllamaClient) Available(ctx context.Context) bool {
	cfg, closed := c.snapshot()
	if closed || !cfg.Enabled {
		return false
	}

	endpoint, err := apiURL(cfg.Endpoint, "api/tags")
	if err != nil {
		return false
	}

	ctx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return false
	}
	defer func() { _ = resp.Body.Close() }()

	return resp.StatusCode == http.StatusOK
}

// ModelName returns the configured model identifier.
func (c *OllamaClient) ModelName() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.config.Model
}

// Close releases resources.
func (c *OllamaClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true
	c.client.CloseIdleConnections()
	return nil
}

// apiURL validates the endpoint and joins the API path onto it.
// The endpoint must carry an http(s) scheme and a host; anything else
// fails fast with ErrInvalidEndpoint before a request is attempted.
func apiURL(endpoint, path string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(endpoint))
	if err != nil {
		return "", ErrInvalidEndpoint
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", ErrInvalidEndpoint
	}

	base := strings.Trim(u.Path, "/")
	suffix := strings.Trim(path, "/")
	if base == "" {
		u.Path = "/" + suffix
	} else {
		u.Path = "/" + base + "/" + suffix
	}
	u.RawQuery = ""
	u.Fragment = ""

	return u.String(), nil
}
