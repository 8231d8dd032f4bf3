package search

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snipstash/snipstash/internal/store"
)

type stubStore struct {
	lexical        []*store.Snippet
	embedded       []*store.Snippet
	lexicalQueries []string
}

func (s *stubStore) Search(ctx context.Context, query, languageFacet string) ([]*store.Snippet, error) {
	s.lexicalQueries = append(s.lexicalQueries, query)
	return s.lexical, nil
}

func (s *stubStore) EmbeddedSnippets(ctx context.Context) ([]*store.Snippet, error) {
	return s.embedded, nil
}

type stubEmbedder struct {
	vector []float32
	err    error
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return s.vector, s.err
}
func (s *stubEmbedder) Models(ctx context.Context) ([]string, error) { return nil, nil }
func (s *stubEmbedder) Available(ctx context.Context) bool           { return s.vector != nil }
func (s *stubEmbedder) ModelName() string                            { return "m" }
func (s *stubEmbedder) Close() error                                 { return nil }

func embeddedSnippet(title string, vec []float32) *store.Snippet {
	return &store.Snippet{Title: title, Embedding: vec}
}

func TestSemanticSearch_OrdersByCosineSimilarity(t *testing.T) {
	// Given: snippets whose vectors are progressively farther from the
	// query vector
	st := &stubStore{embedded: []*store.Snippet{
		embeddedSnippet("far", []float32{0, 1}),
		embeddedSnippet("near", []float32{1, 0.1}),
		embeddedSnippet("exact", []float32{1, 0}),
	}}
	engine := NewEngine(st, &stubEmbedder{vector: []float32{1, 0}}, 0)

	// When: running a semantic query
	results, err := engine.SemanticSearch(context.Background(), "query")

	// Then: results come back in descending similarity order
	require.NoError(t, err)
	require.Len(t, results, 3)
	assert.Equal(t, "exact", results[0].Title)
	assert.Equal(t, "near", results[1].Title)
	assert.Equal(t, "far", results[2].Title)
	assert.Empty(t, st.lexicalQueries)
}

func TestSemanticSearch_TruncatesToLimit(t *testing.T) {
	st := &stubStore{}
	for i := 0; i < 30; i++ {
		st.embedded = append(st.embedded, embeddedSnippet(fmt.Sprintf("s%d", i), []float32{1, 0}))
	}
	engine := NewEngine(st, &stubEmbedder{vector: []float32{1, 0}}, 0)

	results, err := engine.SemanticSearch(context.Background(), "query")

	require.NoError(t, err)
	assert.Len(t, results, DefaultSemanticLimit)
}

func TestSemanticSearch_FallsBackWhenProviderUnavailable(t *testing.T) {
	// An absent query vector means the provider is disabled or down;
	// lexical results must come back instead.
	st := &stubStore{lexical: []*store.Snippet{{Title: "lexical hit"}}}
	engine := NewEngine(st, &stubEmbedder{vector: nil}, 0)

	results, err := engine.SemanticSearch(context.Background(), "query")

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "lexical hit", results[0].Title)
	assert.Equal(t, []string{"query"}, st.lexicalQueries)
}

func TestSemanticSearch_FallsBackOnEmbedError(t *testing.T) {
	st := &stubStore{lexical: []*store.Snippet{{Title: "lexical hit"}}}
	engine := NewEngine(st, &stubEmbedder{err: fmt.Errorf("bad endpoint")}, 0)

	results, err := engine.SemanticSearch(context.Background(), "query")

	// The provider error never reaches the caller
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "lexical hit", results[0].Title)
}

func TestSemanticSearch_MismatchedVectorsRankLast(t *testing.T) {
	// A snippet embedded under different dimensions scores zero rather
	// than erroring, so it sorts after real matches.
	st := &stubStore{embedded: []*store.Snippet{
		embeddedSnippet("stale dims", []float32{1, 0, 0}),
		embeddedSnippet("match", []float32{1, 0}),
	}}
	engine := NewEngine(st, &stubEmbedder{vector: []float32{1, 0}}, 0)

	results, err := engine.SemanticSearch(context.Background(), "query")

	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "match", results[0].Title)
	assert.Equal(t, "stale dims", results[1].Title)
}

func TestSearch_DelegatesToStore(t *testing.T) {
	st := &stubStore{lexical: []*store.Snippet{{Title: "hit"}}}
	engine := NewEngine(st, &stubEmbedder{}, 0)

	results, err := engine.Search(context.Background(), "q", "go")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
