package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	snerr "github.com/snipstash/snipstash/internal/errors"
)

// timeLayout is the canonical on-disk timestamp format.
const timeLayout = time.RFC3339Nano

// Store is the single durable home for snippets, tags, and their junction
// relation. Writers are serialized through a single connection; WAL mode
// gives readers snapshot-isolated access during writes.
type Store struct {
	db   *sql.DB
	path string
	lock *flock.Flock
}

// Open opens (or creates) the store at path. An empty path opens an
// in-memory store for testing. File-backed stores take a process-level
// file lock so two snipstash instances don't fight over the WAL.
func Open(path string) (*Store, error) {
	var dsn string
	var lock *flock.Flock

	if path == "" {
		dsn = ":memory:"
	} else {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory %s: %w", dir, err)
		}

		lock = flock.New(path + ".lock")
		acquired, err := lock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire store lock: %w", err)
		}
		if !acquired {
			return nil, fmt.Errorf("store at %s is locked by another process", path)
		}

		dsn = path + "?_journal_mode=WAL&_busy_timeout=5000"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		if lock != nil {
			_ = lock.Unlock()
		}
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single writer connection prevents lock contention; readers ride the
	// same connection with WAL snapshots.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Pragmas must be set via statements; DSN params may be ignored by
	// modernc.org/sqlite. foreign_keys drives the junction cascades.
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA temp_store = MEMORY",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			if lock != nil {
				_ = lock.Unlock()
			}
			return nil, fmt.Errorf("failed to set pragma: %w", err)
		}
	}

	s := &Store{db: db, path: path, lock: lock}
	if err := s.initSchema(); err != nil {
		_ = db.Close()
		if lock != nil {
			_ = lock.Unlock()
		}
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// initSchema creates tables, the FTS5 lexical index, and the triggers that
// keep the index derivable from (title, content) of the current row set.
func (s *Store) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS snippets (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		content TEXT NOT NULL,
		language TEXT NOT NULL DEFAULT 'plaintext',
		is_favorite INTEGER NOT NULL DEFAULT 0,
		usage_count INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		embedding BLOB
	);

	CREATE TABLE IF NOT EXISTS tags (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL UNIQUE
	);

	CREATE TABLE IF NOT EXISTS snippet_tags (
		snippet_id INTEGER NOT NULL REFERENCES snippets(id) ON DELETE CASCADE,
		tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
		PRIMARY KEY (snippet_id, tag_id)
	);

	-- Key-value state (embedding model bookkeeping).
	CREATE TABLE IF NOT EXISTS state (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	-- External-content FTS5 index over snippet text.
	CREATE VIRTUAL TABLE IF NOT EXISTS snippets_fts USING fts5(
		title, content,
		content='snippets', content_rowid='id',
		tokenize='unicode61'
	);

	-- Triggers keep the lexical index in the same transaction as writes.
	CREATE TRIGGER IF NOT EXISTS snippets_ai AFTER INSERT ON snippets BEGIN
		INSERT INTO snippets_fts(rowid, title, content)
		VALUES (new.id, new.title, new.content);
	END;
	CREATE TRIGGER IF NOT EXISTS snippets_ad AFTER DELETE ON snippets BEGIN
		INSERT INTO snippets_fts(snippets_fts, rowid, title, content)
		VALUES ('delete', old.id, old.title, old.content);
	END;
	CREATE TRIGGER IF NOT EXISTS snippets_au AFTER UPDATE OF title, content ON snippets BEGIN
		INSERT INTO snippets_fts(snippets_fts, rowid, title, content)
		VALUES ('delete', old.id, old.title, old.content);
		INSERT INTO snippets_fts(rowid, title, content)
		VALUES (new.id, new.title, new.content);
	END;
	`

	_, err := s.db.Exec(schema)
	return err
}

// NormalizeLanguage lowercases and trims a language tag, substituting the
// default when the result is empty.
func NormalizeLanguage(language string) string {
	lang := strings.ToLower(strings.TrimSpace(language))
	if lang == "" {
		return DefaultLanguage
	}
	return lang
}

// Insert persists a new snippet and assigns its id.
//
// With preserveMetadata false (manual creation), timestamps are stamped to
// now and usage/favorite are reset, protecting against stale or spoofed
// metadata. With preserveMetadata true (import), caller-supplied values are
// trusted except that updated-at is clamped to be >= created-at.
func (s *Store) Insert(ctx context.Context, sn *Snippet, preserveMetadata bool) error {
	if strings.TrimSpace(sn.Title) == "" {
		return snerr.ValidationError("snippet title must not be empty")
	}
	if strings.TrimSpace(sn.Content) == "" {
		return snerr.ValidationError("snippet content must not be empty")
	}

	now := time.Now().UTC()
	if preserveMetadata {
		if sn.CreatedAt.IsZero() {
			sn.CreatedAt = now
		}
		if sn.UpdatedAt.Before(sn.CreatedAt) {
			sn.UpdatedAt = sn.CreatedAt
		}
	} else {
		sn.CreatedAt = now
		sn.UpdatedAt = now
		sn.UsageCount = 0
		sn.Favorite = false
	}
	sn.Language = NormalizeLanguage(sn.Language)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO snippets (title, content, language, is_favorite, usage_count, created_at, updated_at, embedding)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sn.Title, sn.Content, sn.Language, boolToInt(sn.Favorite), sn.UsageCount,
		sn.CreatedAt.Format(timeLayout), sn.UpdatedAt.Format(timeLayout),
		encodeEmbedding(sn.Embedding),
	)
	if err != nil {
		return snerr.Wrap(snerr.CodeRecordNotSaved, err)
	}

	id, err := res.LastInsertId()
	if err != nil || id == 0 {
		return ErrRecordNotSaved
	}
	sn.ID = id
	return nil
}

// Update persists all fields of an existing snippet verbatim, except that
// updated-at is always refreshed to now. Returns ErrNotFound when the id
// does not exist. The embedding field is left untouched; only the vector
// indexer writes it.
func (s *Store) Update(ctx context.Context, sn *Snippet) error {
	if strings.TrimSpace(sn.Title) == "" {
		return snerr.ValidationError("snippet title must not be empty")
	}
	if strings.TrimSpace(sn.Content) == "" {
		return snerr.ValidationError("snippet content must not be empty")
	}

	sn.UpdatedAt = time.Now().UTC()
	sn.Language = NormalizeLanguage(sn.Language)

	res, err := s.db.ExecContext(ctx, `
		UPDATE snippets
		SET title = ?, content = ?, language = ?, is_favorite = ?, updated_at = ?
		WHERE id = ?`,
		sn.Title, sn.Content, sn.Language, boolToInt(sn.Favorite),
		sn.UpdatedAt.Format(timeLayout), sn.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update snippet: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a snippet and cascades its tag links. Deleting a
// nonexistent id is a no-op, not an error.
func (s *Store) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM snippets WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete snippet: %w", err)
	}
	return nil
}

// DeleteAll removes every snippet and tag. Used by replace-mode import.
func (s *Store) DeleteAll(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM snippets`); err != nil {
		return fmt.Errorf("failed to clear snippets: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tags`); err != nil {
		return fmt.Errorf("failed to clear tags: %w", err)
	}
	return tx.Commit()
}

// RecordUse increments a snippet's usage counter. The increment happens in
// SQL so concurrent callers on the same id never lose updates.
func (s *Store) RecordUse(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE snippets SET usage_count = usage_count + 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to record use: %w", err)
	}
	return nil
}

// Get fetches a snippet by id. Returns ErrNotFound when missing.
func (s *Store) Get(ctx context.Context, id int64) (*Snippet, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` FROM snippets WHERE id = ?`, id)
	sn, err := scanSnippet(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return sn, err
}

// All returns every snippet ordered by updated-at descending.
func (s *Store) All(ctx context.Context) ([]*Snippet, error) {
	return s.querySnippets(ctx, selectColumns+` FROM snippets ORDER BY updated_at DESC`)
}

// RecentlyUsed returns up to limit snippets that have been used at least
// once, most recently updated first.
func (s *Store) RecentlyUsed(ctx context.Context, limit int) ([]*Snippet, error) {
	if limit <= 0 {
		limit = 5
	}
	return s.querySnippets(ctx,
		selectColumns+` FROM snippets WHERE usage_count > 0 ORDER BY updated_at DESC LIMIT ?`, limit)
}

// ByLanguage returns snippets with the given language tag, ordered by
// usage then recency.
func (s *Store) ByLanguage(ctx context.Context, language string) ([]*Snippet, error) {
	return s.querySnippets(ctx,
		selectColumns+` FROM snippets WHERE language = ? ORDER BY usage_count DESC, updated_at DESC`,
		NormalizeLanguage(language))
}

// Languages returns the distinct language tags in use, sorted.
func (s *Store) Languages(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT DISTINCT language FROM snippets WHERE language != '' ORDER BY language`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var languages []string
	for rows.Next() {
		var lang string
		if err := rows.Scan(&lang); err != nil {
			return nil, err
		}
		languages = append(languages, lang)
	}
	return languages, rows.Err()
}

// SetEmbedding persists a snippet's embedding vector. Only the vector
// indexer calls this; it never touches any other field.
func (s *Store) SetEmbedding(ctx context.Context, id int64, vector []float32) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE snippets SET embedding = ? WHERE id = ?`, encodeEmbedding(vector), id)
	if err != nil {
		return fmt.Errorf("failed to set embedding: %w", err)
	}
	return nil
}

// ClearEmbeddings drops every stored vector. Used when the configured
// embedding model changes, since vectors from different models are not
// comparable.
func (s *Store) ClearEmbeddings(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `UPDATE snippets SET embedding = NULL`)
	return err
}

// EmbeddedSnippets returns all snippets that currently have a persisted
// embedding. Snippets without one are not yet indexed, not demoted.
func (s *Store) EmbeddedSnippets(ctx context.Context) ([]*Snippet, error) {
	return s.querySnippets(ctx, selectColumns+` FROM snippets WHERE embedding IS NOT NULL`)
}

// MissingEmbeddings returns all snippets lacking an embedding, for backfill.
func (s *Store) MissingEmbeddings(ctx context.Context) ([]*Snippet, error) {
	return s.querySnippets(ctx, selectColumns+` FROM snippets WHERE embedding IS NULL`)
}

// GetState reads a value from the store's key-value state table.
// Returns "" when the key is absent.
func (s *Store) GetState(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM state WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

// SetState writes a value to the store's key-value state table.
func (s *Store) SetState(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO state (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// Close checkpoints the WAL, closes the database, and releases the
// process lock.
func (s *Store) Close() error {
	if s.db != nil {
		_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
		if err := s.db.Close(); err != nil {
			slog.Warn("store_close_failed", slog.String("error", err.Error()))
		}
	}
	if s.lock != nil {
		return s.lock.Unlock()
	}
	return nil
}

const selectColumns = `SELECT id, title, content, language, is_favorite, usage_count, created_at, updated_at, embedding`

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanSnippet(row rowScanner) (*Snippet, error) {
	var sn Snippet
	var favorite int
	var createdAt, updatedAt string
	var embedding []byte

	if err := row.Scan(&sn.ID, &sn.Title, &sn.Content, &sn.Language, &favorite,
		&sn.UsageCount, &createdAt, &updatedAt, &embedding); err != nil {
		return nil, err
	}

	sn.Favorite = favorite != 0

	var err error
	if sn.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return nil, fmt.Errorf("corrupt created_at for snippet %d: %w", sn.ID, err)
	}
	if sn.UpdatedAt, err = time.Parse(timeLayout, updatedAt); err != nil {
		return nil, fmt.Errorf("corrupt updated_at for snippet %d: %w", sn.ID, err)
	}
	sn.Embedding = decodeEmbedding(sn.ID, embedding)

	return &sn, nil
}

func (s *Store) querySnippets(ctx context.Context, query string, args ...any) ([]*Snippet, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var snippets []*Snippet
	for rows.Next() {
		sn, err := scanSnippet(rows)
		if err != nil {
			return nil, err
		}
		snippets = append(snippets, sn)
	}
	return snippets, rows.Err()
}

// encodeEmbedding serializes a vector as JSON. Returns nil for absent
// vectors so the column stays NULL.
func encodeEmbedding(vector []float32) []byte {
	if len(vector) == 0 {
		return nil
	}
	data, err := json.Marshal(vector)
	if err != nil {
		return nil
	}
	return data
}

// decodeEmbedding deserializes a stored vector. Corrupt blobs are treated
// as "not yet indexed" rather than failing the read.
func decodeEmbedding(id int64, data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	var vector []float32
	if err := json.Unmarshal(data, &vector); err != nil {
		slog.Warn("corrupt_embedding_ignored", slog.Int64("snippet_id", id))
		return nil
	}
	return vector
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
