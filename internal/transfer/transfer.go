// Package transfer implements snippet library export and import. The
// interchange format is a versioned JSON document so libraries can move
// between machines without sharing a database file.
package transfer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"time"

	snerr "github.com/snipstash/snipstash/internal/errors"
	"github.com/snipstash/snipstash/internal/store"
)

// FormatVersion is the only document version this build reads and
// writes.
const FormatVersion = 1

// Document is the interchange envelope.
type Document struct {
	Version    int             `json:"version"`
	ExportedAt time.Time       `json:"exportedAt"`
	Snippets   []SnippetRecord `json:"snippets"`
}

// SnippetRecord is one snippet in the interchange document. IDs, usage
// counters and embeddings are deliberately absent: they are local state
// and are rebuilt on the importing side.
type SnippetRecord struct {
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Language   string    `json:"language"`
	IsFavorite bool      `json:"isFavorite"`
	Tags       []string  `json:"tags"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Mode selects how an import treats existing data.
type Mode int

const (
	// Merge leaves existing snippets untouched and inserts every
	// imported snippet as a fresh row.
	Merge Mode = iota

	// Replace deletes all existing snippets and tags first.
	Replace
)

// ImportResult summarizes an import run.
type ImportResult struct {
	Imported int
	Skipped  int
	Errors   []string
}

// Message renders a one-line human summary.
func (r ImportResult) Message() string {
	if r.Skipped == 0 {
		return fmt.Sprintf("imported %d snippets", r.Imported)
	}
	return fmt.Sprintf("imported %d snippets, skipped %d: %s",
		r.Imported, r.Skipped, strings.Join(r.Errors, "; "))
}

// Store is the slice of the snippet store transfer works through.
type Store interface {
	All(ctx context.Context) ([]*store.Snippet, error)
	TagsFor(ctx context.Context, snippetID int64) ([]*store.Tag, error)
	Insert(ctx context.Context, sn *store.Snippet, preserveMetadata bool) error
	Delete(ctx context.Context, id int64) error
	DeleteAll(ctx context.Context) error
	AttachTag(ctx context.Context, name string, snippetID int64) (*store.Tag, error)
}

// Service moves snippet libraries in and out of the store.
type Service struct {
	store Store
}

// NewService creates a transfer service over the given store.
func NewService(st Store) *Service {
	return &Service{store: st}
}

// Export writes the whole library to w as a version-1 document, sorted
// by title for stable diffs, pretty-printed for human inspection.
func (s *Service) Export(ctx context.Context, w io.Writer) error {
	snippets, err := s.store.All(ctx)
	if err != nil {
		return err
	}

	records := make([]SnippetRecord, 0, len(snippets))
	for _, sn := range snippets {
		tags, err := s.store.TagsFor(ctx, sn.ID)
		if err != nil {
			return err
		}
		names := make([]string, 0, len(tags))
		for _, tag := range tags {
			names = append(names, tag.Name)
		}
		records = append(records, SnippetRecord{
			Title:      sn.Title,
			Content:    sn.Content,
			Language:   sn.Language,
			IsFavorite: sn.Favorite,
			Tags:       names,
			CreatedAt:  sn.CreatedAt,
			UpdatedAt:  sn.UpdatedAt,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Title < records[j].Title
	})

	doc := Document{
		Version:    FormatVersion,
		ExportedAt: time.Now().UTC(),
		Snippets:   records,
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return snerr.FormatError("failed to encode export document", err)
	}

	slog.Info("library_exported", slog.Int("snippets", len(records)))
	return nil
}

// Import reads a document from r and loads it into the store. The
// version check happens before any write; an unsupported version
// performs zero writes. Per-snippet failures skip that snippet, roll
// back its partial row, and never abort the batch.
func (s *Service) Import(ctx context.Context, r io.Reader, mode Mode) (ImportResult, error) {
	var result ImportResult

	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return result, snerr.FormatError("failed to parse import document", err)
	}
	if doc.Version != FormatVersion {
		return result, snerr.UnsupportedVersionError(doc.Version)
	}

	if mode == Replace {
		if err := s.store.DeleteAll(ctx); err != nil {
			return result, err
		}
	}

	for _, rec := range doc.Snippets {
		if err := s.importOne(ctx, rec); err != nil {
			result.Skipped++
			result.Errors = append(result.Errors,
				fmt.Sprintf("%q: %v", rec.Title, err))
			continue
		}
		result.Imported++
	}

	slog.Info("library_imported",
		slog.Int("imported", result.Imported),
		slog.Int("skipped", result.Skipped))
	return result, nil
}

// importOne inserts a single record with its tags. On any failure after
// the snippet row exists, the row is deleted so a half-imported snippet
// never survives.
func (s *Service) importOne(ctx context.Context, rec SnippetRecord) error {
	sn := &store.Snippet{
		Title:     rec.Title,
		Content:   rec.Content,
		Language:  rec.Language,
		Favorite:  rec.IsFavorite,
		CreatedAt: rec.CreatedAt,
		UpdatedAt: rec.UpdatedAt,
	}

	if err := s.store.Insert(ctx, sn, true); err != nil {
		return err
	}

	for _, name := range rec.Tags {
		if _, err := s.store.AttachTag(ctx, name, sn.ID); err != nil {
			_ = s.store.Delete(ctx, sn.ID)
			return err
		}
	}
	return nil
}
