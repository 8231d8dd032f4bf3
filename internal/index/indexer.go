// Package index runs the background embedding pipeline. Snippet writes
// enqueue work here and return immediately; the worker embeds the text
// and stores the vector when it can. Vector state is eventually
// consistent with snippet state and a failed job simply leaves the
// snippet out of semantic ranking until the next write or backfill.
package index

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/snipstash/snipstash/internal/embed"
	"github.com/snipstash/snipstash/internal/store"
)

// queueSize bounds the job channel. Overflow drops the job; a dropped
// job is recoverable via Backfill, so blocking a write path is never
// worth it.
const queueSize = 256

// backfillWorkers bounds concurrent embedding requests during a
// backfill so a large library doesn't flood the provider.
const backfillWorkers = 4

// Store is the slice of the snippet store the indexer writes through.
type Store interface {
	SetEmbedding(ctx context.Context, id int64, vector []float32) error
	ClearEmbeddings(ctx context.Context) error
	MissingEmbeddings(ctx context.Context) ([]*store.Snippet, error)
	GetState(ctx context.Context, key string) (string, error)
	SetState(ctx context.Context, key, value string) error
}

type job struct {
	id   int64
	text string
}

// Indexer embeds snippet text in a background goroutine.
type Indexer struct {
	store    Store
	embedder embed.Embedder

	jobs chan job

	// Lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}

	mu      sync.Mutex
	running bool
	pending map[int64]struct{}
}

// New creates an indexer over the given store and embedder.
func New(st Store, em embed.Embedder) *Indexer {
	return &Indexer{
		store:    st,
		embedder: em,
		jobs:     make(chan job, queueSize),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
		pending:  make(map[int64]struct{}),
	}
}

// Start launches the worker goroutine. Calling Start on a running
// indexer is a no-op.
func (ix *Indexer) Start(ctx context.Context) {
	ix.mu.Lock()
	if ix.running {
		ix.mu.Unlock()
		return
	}
	ix.running = true
	ix.mu.Unlock()

	go ix.run(ctx)
}

func (ix *Indexer) run(ctx context.Context) {
	defer close(ix.doneCh)
	defer func() {
		ix.mu.Lock()
		ix.running = false
		ix.mu.Unlock()
	}()

	for {
		select {
		case <-ix.stopCh:
			ix.drain(ctx)
			return
		case <-ctx.Done():
			return
		case j := <-ix.jobs:
			ix.process(ctx, j)
		}
	}
}

// drain processes whatever is already queued at shutdown so a short
// lived process still embeds the snippets it just wrote.
func (ix *Indexer) drain(ctx context.Context) {
	for {
		select {
		case j := <-ix.jobs:
			ix.process(ctx, j)
		case <-ctx.Done():
			return
		default:
			return
		}
	}
}

// Stop signals the worker to stop and waits for it to finish. Jobs
// already queued are processed before shutdown; anything that still
// fails is picked up by the next Backfill.
func (ix *Indexer) Stop() {
	ix.mu.Lock()
	if !ix.running {
		ix.mu.Unlock()
		return
	}
	ix.mu.Unlock()

	close(ix.stopCh)
	<-ix.doneCh
}

// Enqueue schedules embedding for a snippet. Non-blocking: at most one
// job per snippet id is held at a time and overflow is dropped.
func (ix *Indexer) Enqueue(id int64, text string) {
	ix.mu.Lock()
	if _, exists := ix.pending[id]; exists {
		ix.mu.Unlock()
		return
	}
	ix.pending[id] = struct{}{}
	ix.mu.Unlock()

	select {
	case ix.jobs <- job{id: id, text: text}:
	default:
		ix.clearPending(id)
		slog.Warn("embedding_queue_full", slog.Int64("snippet_id", id))
	}
}

func (ix *Indexer) clearPending(id int64) {
	ix.mu.Lock()
	delete(ix.pending, id)
	ix.mu.Unlock()
}

// process embeds one snippet. Failures are logged and swallowed; the
// write that enqueued this job already succeeded and must stay that way.
func (ix *Indexer) process(ctx context.Context, j job) {
	defer ix.clearPending(j.id)

	vector, err := ix.embedder.Embed(ctx, j.text)
	if err != nil {
		slog.Warn("embedding_failed",
			slog.Int64("snippet_id", j.id),
			slog.String("error", err.Error()))
		return
	}
	if vector == nil {
		// Provider disabled or unreachable; nothing to store.
		slog.Debug("embedding_skipped", slog.Int64("snippet_id", j.id))
		return
	}

	if err := ix.store.SetEmbedding(ctx, j.id, vector); err != nil {
		slog.Warn("embedding_store_failed",
			slog.Int64("snippet_id", j.id),
			slog.String("error", err.Error()))
		return
	}

	slog.Debug("embedding_stored",
		slog.Int64("snippet_id", j.id),
		slog.Int("dimensions", len(vector)))
}

// EnsureModel reconciles stored vectors with the configured embedding
// model. Vectors from different models are not comparable, so a model
// change wipes them all; Backfill then regenerates under the new model.
func (ix *Indexer) EnsureModel(ctx context.Context) error {
	current := ix.embedder.ModelName()
	recorded, err := ix.store.GetState(ctx, store.StateKeyEmbeddingModel)
	if err != nil {
		return err
	}
	if recorded == current {
		return nil
	}

	if recorded != "" {
		slog.Info("embedding_model_changed",
			slog.String("previous", recorded),
			slog.String("current", current))
		if err := ix.store.ClearEmbeddings(ctx); err != nil {
			return err
		}
	}
	return ix.store.SetState(ctx, store.StateKeyEmbeddingModel, current)
}

// Backfill embeds every snippet that has no stored vector, with bounded
// parallelism. Returns the number of vectors written. Per-snippet
// failures are logged and skipped so one bad item never aborts the run.
func (ix *Indexer) Backfill(ctx context.Context) (int, error) {
	if err := ix.EnsureModel(ctx); err != nil {
		return 0, err
	}

	missing, err := ix.store.MissingEmbeddings(ctx)
	if err != nil {
		return 0, err
	}
	if len(missing) == 0 {
		return 0, nil
	}

	var (
		countMu sync.Mutex
		count   int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(backfillWorkers)
	for _, sn := range missing {
		g.Go(func() error {
			vector, err := ix.embedder.Embed(gctx, sn.Title+" "+sn.Content)
			if err != nil || vector == nil {
				if err != nil {
					slog.Warn("backfill_embed_failed",
						slog.Int64("snippet_id", sn.ID),
						slog.String("error", err.Error()))
				}
				return nil
			}
			if err := ix.store.SetEmbedding(gctx, sn.ID, vector); err != nil {
				slog.Warn("backfill_store_failed",
					slog.Int64("snippet_id", sn.ID),
					slog.String("error", err.Error()))
				return nil
			}
			countMu.Lock()
			count++
			countMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return count, err
	}

	slog.Info("backfill_complete",
		slog.Int("embedded", count),
		slog.Int("candidates", len(missing)))
	return count, nil
}
