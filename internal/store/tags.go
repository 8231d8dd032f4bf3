package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	snerr "github.com/snipstash/snipstash/internal/errors"
)

// NormalizeTag lowercases and trims a tag name. Two inputs that normalize
// identically resolve to the same tag row.
func NormalizeTag(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// AttachTag tags a snippet, creating the tag on first use of a new
// normalized name. Attaching an already-present tag is a no-op. The
// find-or-create plus junction insert run in one transaction so a
// concurrent reader never sees a tag without its link.
func (s *Store) AttachTag(ctx context.Context, name string, snippetID int64) (*Tag, error) {
	normalized := NormalizeTag(name)
	if normalized == "" {
		return nil, snerr.ValidationError("tag name must not be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	// Find or create the tag under its normalized name.
	var tag Tag
	err = tx.QueryRowContext(ctx,
		`SELECT id, name FROM tags WHERE name = ?`, normalized).Scan(&tag.ID, &tag.Name)
	switch {
	case err == sql.ErrNoRows:
		res, insErr := tx.ExecContext(ctx, `INSERT INTO tags (name) VALUES (?)`, normalized)
		if insErr != nil {
			return nil, fmt.Errorf("failed to create tag: %w", insErr)
		}
		id, idErr := res.LastInsertId()
		if idErr != nil || id == 0 {
			return nil, ErrRecordNotSaved
		}
		tag = Tag{ID: id, Name: normalized}
	case err != nil:
		return nil, fmt.Errorf("failed to look up tag: %w", err)
	}

	// Junction insert is idempotent; the composite primary key makes a
	// duplicate attach a no-op.
	if _, err := tx.ExecContext(ctx,
		`INSERT OR IGNORE INTO snippet_tags (snippet_id, tag_id) VALUES (?, ?)`,
		snippetID, tag.ID); err != nil {
		return nil, fmt.Errorf("failed to link tag: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &tag, nil
}

// DetachTag removes the link between a snippet and a tag. Removing an
// absent link is a no-op.
func (s *Store) DetachTag(ctx context.Context, tagID, snippetID int64) error {
	_, err := s.db.ExecContext(ctx,
		`DELETE FROM snippet_tags WHERE snippet_id = ? AND tag_id = ?`, snippetID, tagID)
	if err != nil {
		return fmt.Errorf("failed to detach tag: %w", err)
	}
	return nil
}

// TagsFor returns all tags attached to a snippet, ordered by name.
func (s *Store) TagsFor(ctx context.Context, snippetID int64) ([]*Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name
		FROM tags t
		JOIN snippet_tags st ON st.tag_id = t.id
		WHERE st.snippet_id = ?
		ORDER BY t.name`, snippetID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTags(rows)
}

// AllTags returns every tag, ordered by name.
func (s *Store) AllTags(ctx context.Context) ([]*Tag, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM tags ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanTags(rows)
}

func scanTags(rows *sql.Rows) ([]*Tag, error) {
	var tags []*Tag
	for rows.Next() {
		var t Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		tags = append(tags, &t)
	}
	return tags, rows.Err()
}
