// Package store provides durable persistence for snippets, tags, and the
// snippet/tag junction relation, backed by SQLite with an FTS5 lexical
// index kept transactionally in sync with snippet text.
package store

import (
	"time"

	snerr "github.com/snipstash/snipstash/internal/errors"
)

// DefaultLanguage is the language tag assigned when none is given.
const DefaultLanguage = "plaintext"

// State keys for the store-scoped key-value table.
const (
	// StateKeyEmbeddingModel records the embedding model that produced the
	// persisted vectors. One model serves per store lifetime; a model
	// change invalidates every stored embedding.
	StateKeyEmbeddingModel = "embedding_model"
)

// Snippet is a stored snippet. ID is assigned on insert and immutable.
// Embedding is nil until the vector indexer has computed one; absence is
// "not yet indexed", not an error state.
type Snippet struct {
	ID         int64
	Title      string
	Content    string
	Language   string // lowercase token, e.g. "python"; DefaultLanguage when unset
	Favorite   bool
	UsageCount int
	CreatedAt  time.Time
	UpdatedAt  time.Time
	Embedding  []float32
}

// Tag is a case-normalized label. Names are unique under normalization.
type Tag struct {
	ID   int64
	Name string
}

// Sentinel errors. Matched with errors.Is via the code-based Is support in
// the errors package.
var (
	// ErrNotFound is returned by Update and Get on a missing snippet id.
	ErrNotFound = snerr.NotFoundError("snippet not found")

	// ErrRecordNotSaved is returned when an insert could not assign an id.
	ErrRecordNotSaved = snerr.New(snerr.CodeRecordNotSaved, "record not saved", nil)

	// ErrInvalidData is returned for empty titles, contents, or tag names.
	ErrInvalidData = snerr.ValidationError("invalid data")
)
