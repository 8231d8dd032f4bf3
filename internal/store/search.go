package store

import (
	"context"
	"log/slog"
	"strings"
)

// Search executes a keyword query against the lexical index and returns a
// deterministically ordered result list.
//
// An empty query returns all snippets ordered by usage count descending,
// then updated-at descending. A non-empty query is tokenized on whitespace
// and matched with AND semantics across title and content; when AND yields
// nothing, the query relaxes to OR so partial or misremembered phrases
// still surface results instead of an empty screen.
//
// Ranking, ties broken in sequence: exact title match on the raw query
// first, then title-contains-query, then the FTS5 bm25 relevance rank,
// then usage count descending.
//
// languageFacet, when non-empty, is a strict equality filter on the stored
// language tag applied after ranking; it never alters match scoring.
func (s *Store) Search(ctx context.Context, query, languageFacet string) ([]*Snippet, error) {
	query = strings.TrimSpace(query)

	if query == "" {
		return s.searchEmpty(ctx, languageFacet)
	}

	tokens := strings.Fields(query)

	results, err := s.searchMatch(ctx, query, buildMatch(tokens, " AND "))
	if err != nil {
		// FTS5 rejects some inputs outright; a malformed query reduces
		// gracefully to any-token matching, never a user-visible error.
		slog.Debug("lexical_and_query_failed", slog.String("error", err.Error()))
		results = nil
	}
	if len(results) == 0 && len(tokens) > 1 {
		results, err = s.searchMatch(ctx, query, buildMatch(tokens, " OR "))
		if err != nil {
			slog.Debug("lexical_or_query_failed", slog.String("error", err.Error()))
			return []*Snippet{}, nil
		}
	}

	if languageFacet != "" {
		results = filterLanguage(results, languageFacet)
	}
	if results == nil {
		results = []*Snippet{}
	}
	return results, nil
}

// searchEmpty lists all snippets by usage then recency, optionally faceted.
func (s *Store) searchEmpty(ctx context.Context, languageFacet string) ([]*Snippet, error) {
	if languageFacet != "" {
		return s.querySnippets(ctx,
			selectColumns+` FROM snippets WHERE language = ? ORDER BY usage_count DESC, updated_at DESC`,
			NormalizeLanguage(languageFacet))
	}
	return s.querySnippets(ctx,
		selectColumns+` FROM snippets ORDER BY usage_count DESC, updated_at DESC`)
}

// searchMatch runs one FTS5 MATCH with the full ranking order. rawQuery is
// used for the exact/substring title tie-breaks; matchExpr for the index.
func (s *Store) searchMatch(ctx context.Context, rawQuery, matchExpr string) ([]*Snippet, error) {
	return s.querySnippets(ctx, `
		SELECT s.id, s.title, s.content, s.language, s.is_favorite, s.usage_count,
		       s.created_at, s.updated_at, s.embedding
		FROM snippets s
		JOIN snippets_fts f ON s.id = f.rowid
		WHERE snippets_fts MATCH ?1
		ORDER BY
			CASE
				WHEN s.title = ?2 THEN 0
				WHEN instr(lower(s.title), lower(?2)) > 0 THEN 1
				ELSE 2
			END,
			bm25(snippets_fts),
			s.usage_count DESC`,
		matchExpr, rawQuery)
}

// buildMatch assembles an FTS5 match expression from whitespace tokens.
// Each token is double-quoted so operators and punctuation in user input
// are matched literally rather than parsed as FTS5 syntax.
func buildMatch(tokens []string, joiner string) string {
	quoted := make([]string, len(tokens))
	for i, tok := range tokens {
		quoted[i] = `"` + strings.ReplaceAll(tok, `"`, `""`) + `"`
	}
	return strings.Join(quoted, joiner)
}

// filterLanguage applies the facet as a post-ranking equality filter.
func filterLanguage(snippets []*Snippet, language string) []*Snippet {
	lang := NormalizeLanguage(language)
	filtered := make([]*Snippet, 0, len(snippets))
	for _, sn := range snippets {
		if sn.Language == lang {
			filtered = append(filtered, sn)
		}
	}
	return filtered
}
