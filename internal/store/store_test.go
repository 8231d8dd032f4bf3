package store

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	snerr "github.com/snipstash/snipstash/internal/errors"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustInsert(t *testing.T, s *Store, title, content, language string) *Snippet {
	t.Helper()
	sn := &Snippet{Title: title, Content: content, Language: language}
	require.NoError(t, s.Insert(context.Background(), sn, false))
	return sn
}

func TestInsert_AssignsIDAndStampsMetadata(t *testing.T) {
	// Given: an empty store
	s := newTestStore(t)
	ctx := context.Background()

	// When: inserting without preserving metadata
	sn := &Snippet{
		Title:      "MFA Reset",
		Content:    "how to reset MFA tokens",
		UsageCount: 99,
		Favorite:   true,
		CreatedAt:  time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.Insert(ctx, sn, false))

	// Then: id assigned, stale metadata reset
	assert.NotZero(t, sn.ID)
	assert.Equal(t, 0, sn.UsageCount)
	assert.False(t, sn.Favorite)
	assert.WithinDuration(t, time.Now(), sn.CreatedAt, 5*time.Second)
	assert.False(t, sn.UpdatedAt.Before(sn.CreatedAt))
}

func TestInsert_PreserveMetadataClampsUpdatedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	created := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	sn := &Snippet{
		Title:     "old snippet",
		Content:   "body",
		UsageCount: 7,
		Favorite:  true,
		CreatedAt: created,
		UpdatedAt: created.Add(-48 * time.Hour), // earlier than created
	}
	require.NoError(t, s.Insert(ctx, sn, true))

	got, err := s.Get(ctx, sn.ID)
	require.NoError(t, err)
	assert.Equal(t, 7, got.UsageCount)
	assert.True(t, got.Favorite)
	assert.True(t, got.CreatedAt.Equal(created))
	assert.True(t, got.UpdatedAt.Equal(created), "updated-at must be clamped to created-at")
}

func TestInsert_RejectsEmptyTitleAndContent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		snippet Snippet
	}{
		{"empty title", Snippet{Title: "", Content: "body"}},
		{"whitespace title", Snippet{Title: "   ", Content: "body"}},
		{"empty content", Snippet{Title: "title", Content: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.Insert(ctx, &tt.snippet, false)
			require.Error(t, err)
			assert.Equal(t, snerr.CodeValidation, snerr.GetCode(err))
		})
	}
}

func TestInsert_NormalizesLanguage(t *testing.T) {
	s := newTestStore(t)

	sn := mustInsert(t, s, "a", "b", "  Python ")
	assert.Equal(t, "python", sn.Language)

	sn2 := mustInsert(t, s, "c", "d", "")
	assert.Equal(t, DefaultLanguage, sn2.Language)
}

func TestUpdate_RefreshesUpdatedAt(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sn := mustInsert(t, s, "title", "body", "go")
	before := sn.UpdatedAt

	time.Sleep(10 * time.Millisecond)
	sn.Content = "new body"
	require.NoError(t, s.Update(ctx, sn))

	got, err := s.Get(ctx, sn.ID)
	require.NoError(t, err)
	assert.Equal(t, "new body", got.Content)
	assert.True(t, got.UpdatedAt.After(before))
}

func TestUpdate_MissingIDReturnsNotFound(t *testing.T) {
	s := newTestStore(t)

	err := s.Update(context.Background(), &Snippet{ID: 12345, Title: "x", Content: "y"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sn := mustInsert(t, s, "title", "body", "")
	require.NoError(t, s.Delete(ctx, sn.ID))

	_, err := s.Get(ctx, sn.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Deleting again is a no-op, not an error
	assert.NoError(t, s.Delete(ctx, sn.ID))
	assert.NoError(t, s.Delete(ctx, 99999))
}

func TestDelete_CascadesTagLinks(t *testing.T) {
	// Given: a tagged snippet
	s := newTestStore(t)
	ctx := context.Background()

	sn := mustInsert(t, s, "title", "body", "")
	_, err := s.AttachTag(ctx, "security", sn.ID)
	require.NoError(t, err)

	// When: deleting the snippet
	require.NoError(t, s.Delete(ctx, sn.ID))

	// Then: its tag links are gone
	tags, err := s.TagsFor(ctx, sn.ID)
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestRecordUse_ConcurrentIncrementsDoNotLoseUpdates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sn := mustInsert(t, s, "title", "body", "")

	const callers = 25
	var wg sync.WaitGroup
	wg.Add(callers)
	for i := 0; i < callers; i++ {
		go func() {
			defer wg.Done()
			_ = s.RecordUse(ctx, sn.ID)
		}()
	}
	wg.Wait()

	got, err := s.Get(ctx, sn.ID)
	require.NoError(t, err)
	assert.Equal(t, callers, got.UsageCount)
}

func TestSetEmbedding_RoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sn := mustInsert(t, s, "title", "body", "")
	require.Nil(t, sn.Embedding)

	vec := []float32{0.1, 0.2, 0.3}
	require.NoError(t, s.SetEmbedding(ctx, sn.ID, vec))

	got, err := s.Get(ctx, sn.ID)
	require.NoError(t, err)
	assert.Equal(t, vec, got.Embedding)

	embedded, err := s.EmbeddedSnippets(ctx)
	require.NoError(t, err)
	require.Len(t, embedded, 1)

	missing, err := s.MissingEmbeddings(ctx)
	require.NoError(t, err)
	assert.Empty(t, missing)
}

func TestClearEmbeddings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	sn := mustInsert(t, s, "title", "body", "")
	require.NoError(t, s.SetEmbedding(ctx, sn.ID, []float32{1, 2}))
	require.NoError(t, s.ClearEmbeddings(ctx))

	embedded, err := s.EmbeddedSnippets(ctx)
	require.NoError(t, err)
	assert.Empty(t, embedded)
}

func TestState_GetSetRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Absent key reads as empty
	v, err := s.GetState(ctx, StateKeyEmbeddingModel)
	require.NoError(t, err)
	assert.Equal(t, "", v)

	require.NoError(t, s.SetState(ctx, StateKeyEmbeddingModel, "nomic-embed-text"))
	require.NoError(t, s.SetState(ctx, StateKeyEmbeddingModel, "mxbai-embed-large"))

	v, err = s.GetState(ctx, StateKeyEmbeddingModel)
	require.NoError(t, err)
	assert.Equal(t, "mxbai-embed-large", v)
}

func TestLanguages_DistinctSorted(t *testing.T) {
	s := newTestStore(t)

	mustInsert(t, s, "a", "x", "swift")
	mustInsert(t, s, "b", "x", "bash")
	mustInsert(t, s, "c", "x", "swift")

	langs, err := s.Languages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"bash", "swift"}, langs)
}

func TestRecentlyUsed_OnlyUsedSnippets(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	used := mustInsert(t, s, "used", "x", "")
	mustInsert(t, s, "unused", "x", "")
	require.NoError(t, s.RecordUse(ctx, used.ID))

	recent, err := s.RecentlyUsed(ctx, 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Equal(t, "used", recent[0].Title)
}

func TestOpen_FileBackedLockRejectsSecondInstance(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snippets.db")

	first, err := Open(path)
	require.NoError(t, err)
	defer first.Close()

	_, err = Open(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked")
}

func TestOpen_FileBackedPersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snippets.db")

	s, err := Open(path)
	require.NoError(t, err)
	sn := mustInsert(t, s, "persisted", "body", "")
	require.NoError(t, s.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	got, err := s2.Get(context.Background(), sn.ID)
	require.NoError(t, err)
	assert.Equal(t, "persisted", got.Title)
}
