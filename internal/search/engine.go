// Package search ranks snippets for a query. Lexical ranking lives in
// the store (it needs the full-text index); this package layers the
// semantic path on top and decides when to fall back.
package search

import (
	"context"
	"log/slog"
	"sort"

	"github.com/snipstash/snipstash/internal/embed"
	"github.com/snipstash/snipstash/internal/store"
)

// DefaultSemanticLimit caps semantic result lists when no limit is
// configured.
const DefaultSemanticLimit = 20

// Store is the slice of the snippet store the engine reads from.
type Store interface {
	Search(ctx context.Context, query, languageFacet string) ([]*store.Snippet, error)
	EmbeddedSnippets(ctx context.Context) ([]*store.Snippet, error)
}

// Engine answers snippet queries. Lexical search always works; semantic
// search works when the embedding provider does, and silently degrades
// to lexical when it doesn't.
type Engine struct {
	store    Store
	embedder embed.Embedder
	limit    int
}

// NewEngine creates an engine. limit caps semantic results; zero or
// negative means DefaultSemanticLimit.
func NewEngine(st Store, em embed.Embedder, limit int) *Engine {
	if limit <= 0 {
		limit = DefaultSemanticLimit
	}
	return &Engine{store: st, embedder: em, limit: limit}
}

// Search runs lexical ranking with an optional language facet.
func (e *Engine) Search(ctx context.Context, query, languageFacet string) ([]*store.Snippet, error) {
	return e.store.Search(ctx, query, languageFacet)
}

// scored pairs a snippet with its similarity to the query vector.
type scored struct {
	snippet *store.Snippet
	score   float64
}

// SemanticSearch ranks snippets by cosine similarity between the query
// embedding and stored snippet embeddings. When the query cannot be
// embedded, for any reason, it degrades to lexical search; the caller
// never sees the provider failure.
func (e *Engine) SemanticSearch(ctx context.Context, query string) ([]*store.Snippet, error) {
	queryVec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		slog.Debug("semantic_search_fallback", slog.String("error", err.Error()))
		return e.store.Search(ctx, query, "")
	}
	if queryVec == nil {
		return e.store.Search(ctx, query, "")
	}

	candidates, err := e.store.EmbeddedSnippets(ctx)
	if err != nil {
		return nil, err
	}

	ranked := make([]scored, 0, len(candidates))
	for _, sn := range candidates {
		ranked = append(ranked, scored{
			snippet: sn,
			score:   embed.CosineSimilarity(queryVec, sn.Embedding),
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if len(ranked) > e.limit {
		ranked = ranked[:e.limit]
	}

	results := make([]*store.Snippet, len(ranked))
	for i, r := range ranked {
		results[i] = r.snippet
	}
	return results, nil
}
