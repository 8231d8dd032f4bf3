// Package embed provides the embedding provider client and vector math
// for semantic search. The provider is Ollama-compatible; a disabled or
// unreachable provider is a normal condition, not a failure, and yields
// an absent vector so callers fall back to lexical search.
package embed

import (
	"context"
	"fmt"
	"math"
	"time"
)

// Request timeout bounds. The embed call is the only operation in the
// system that needs bounded waiting; a hung call must be abandoned and
// treated as provider failure.
const (
	// EmbedTimeout bounds a single embedding request.
	EmbedTimeout = 10 * time.Second

	// PingTimeout bounds the availability check.
	PingTimeout = 2 * time.Second

	// ModelListTimeout bounds the model listing call.
	ModelListTimeout = 5 * time.Second
)

// Embedder generates vector embeddings for text.
type Embedder interface {
	// Embed generates an embedding for text. Returns (nil, nil) when the
	// provider is disabled or unreachable; callers must not distinguish
	// the two. A non-nil error indicates a misconfigured endpoint or a
	// malformed provider response.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Models lists the models installed on the provider.
	Models(ctx context.Context) ([]string, error)

	// Available reports whether the provider is enabled and reachable.
	Available(ctx context.Context) bool

	// ModelName returns the configured model identifier.
	ModelName() string

	// Close releases resources.
	Close() error
}

// Sentinel errors for provider misbehavior.
var (
	// ErrInvalidEndpoint indicates the configured endpoint is not a
	// well-formed http(s) URL with a host.
	ErrInvalidEndpoint = fmt.Errorf("invalid embedding endpoint")

	// ErrInvalidResponse indicates the provider returned a body that
	// could not be parsed as an embedding.
	ErrInvalidResponse = fmt.Errorf("invalid embedding response")
)

// HTTPError indicates the provider answered with a non-2xx status.
type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("embedding provider returned HTTP %d", e.Status)
}

// CosineSimilarity returns the normalized dot product of two vectors in
// [-1, 1]. Vectors of differing length, empty vectors, and zero-magnitude
// vectors yield 0 rather than an error, guarding the divide-by-zero.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		magA += av * av
		magB += bv * bv
	}

	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}
