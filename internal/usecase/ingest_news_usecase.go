package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"rag-chatbot/internal/domain"
)

// IngestNewsUsecase drives one ingestion run: acquire articles from every
// configured source, split them into chunks, embed and commit the batch to
// the vector index. At most one run is active at a time; a trigger while a
// run is in progress is rejected with domain.ErrIngestionInProgress.
type IngestNewsUsecase interface {
	// Run executes a full run synchronously.
	Run(ctx context.Context) error
	// Trigger claims the run guard synchronously and executes the run in
	// the background. The guard outcome is reported to the caller; the run
	// outcome is observable via Status.
	Trigger() error
	// Status returns a snapshot of the current or most recent run.
	Status() domain.IngestionStatus
}

type ingestNewsUsecase struct {
	sources          []domain.Source
	feeds            domain.FeedFetcher
	loader           domain.ArticleLoader
	splitter         domain.Splitter
	encoder          domain.VectorEncoder
	index            domain.VectorIndex
	state            *IndexState
	tracker          *StatusTracker
	collection       string
	entriesPerSource int
	fetchConcurrency int
	logger           *slog.Logger
}

// NewIngestNewsUsecase wires the ingestion pipeline.
func NewIngestNewsUsecase(
	sources []domain.Source,
	feeds domain.FeedFetcher,
	loader domain.ArticleLoader,
	splitter domain.Splitter,
	encoder domain.VectorEncoder,
	index domain.VectorIndex,
	state *IndexState,
	tracker *StatusTracker,
	collection string,
	entriesPerSource, fetchConcurrency int,
	logger *slog.Logger,
) IngestNewsUsecase {
	if entriesPerSource <= 0 {
		entriesPerSource = 10
	}
	if fetchConcurrency <= 0 {
		fetchConcurrency = 4
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ingestNewsUsecase{
		sources:          sources,
		feeds:            feeds,
		loader:           loader,
		splitter:         splitter,
		encoder:          encoder,
		index:            index,
		state:            state,
		tracker:          tracker,
		collection:       collection,
		entriesPerSource: entriesPerSource,
		fetchConcurrency: fetchConcurrency,
		logger:           logger,
	}
}

func (u *ingestNewsUsecase) Run(ctx context.Context) error {
	if !u.tracker.TryStart(len(u.sources)) {
		return domain.ErrIngestionInProgress
	}
	return u.run(ctx)
}

func (u *ingestNewsUsecase) Trigger() error {
	if !u.tracker.TryStart(len(u.sources)) {
		return domain.ErrIngestionInProgress
	}
	go func() {
		if err := u.run(context.Background()); err != nil {
			u.logger.Error("background_ingestion_failed", slog.String("error", err.Error()))
		}
	}()
	return nil
}

func (u *ingestNewsUsecase) Status() domain.IngestionStatus {
	return u.tracker.Snapshot()
}

// run assumes the tracker has been claimed by the caller.
func (u *ingestNewsUsecase) run(ctx context.Context) error {
	start := time.Now()
	u.logger.Info("ingest_started", slog.Int("source_count", len(u.sources)))

	docs := u.acquire(ctx)
	if len(docs) == 0 {
		u.tracker.Fail(domain.ErrNoArticlesLoaded.Error())
		return domain.ErrNoArticlesLoaded
	}

	chunks := domain.SplitDocuments(u.splitter, docs)
	u.tracker.ChunksCreated(len(chunks))
	if len(chunks) == 0 {
		u.tracker.Fail(domain.ErrNoChunksCreated.Error())
		return domain.ErrNoChunksCreated
	}

	if err := u.indexChunks(ctx, chunks); err != nil {
		u.tracker.Fail(err.Error())
		return err
	}

	// Only after the batch is committed does the index become visible to
	// the answer path.
	u.state.MarkReady()
	u.tracker.Complete()

	u.logger.Info("ingest_completed",
		slog.Int("articles", len(docs)),
		slog.Int("chunks", len(chunks)),
		slog.Duration("elapsed", time.Since(start)),
	)
	return nil
}

// acquire walks every source in order. A source whose feed fetch fails is
// counted and skipped; the run continues with the remaining sources.
func (u *ingestNewsUsecase) acquire(ctx context.Context) []domain.AcquiredDocument {
	var docs []domain.AcquiredDocument
	for _, src := range u.sources {
		entries, err := u.feeds.Fetch(ctx, src.URL)
		// Progress is source-grained: advance as soon as the feed fetch
		// has finished, before its articles are loaded.
		u.tracker.SourceProcessed()
		if err != nil {
			u.logger.Warn("source_fetch_failed",
				slog.String("source", src.Title),
				slog.String("url", src.URL),
				slog.String("error", err.Error()),
			)
			continue
		}
		if len(entries) > u.entriesPerSource {
			entries = entries[:u.entriesPerSource]
		}
		docs = append(docs, u.loadArticles(ctx, src, entries)...)
	}
	return docs
}

// loadArticles fetches article bodies for one source's entries with a
// bounded fan-out. Per-entry failures are counted and skipped; document
// order follows entry order regardless of fetch completion order.
func (u *ingestNewsUsecase) loadArticles(ctx context.Context, src domain.Source, entries []domain.FeedEntry) []domain.AcquiredDocument {
	results := make([][]domain.AcquiredDocument, len(entries))
	errs := make([]error, len(entries))

	g := new(errgroup.Group)
	g.SetLimit(u.fetchConcurrency)
	for i, entry := range entries {
		g.Go(func() error {
			loaded, err := u.loader.Load(ctx, entry.Link)
			if err != nil {
				errs[i] = err
				return nil
			}
			for j := range loaded {
				loaded[j].Metadata = domain.DocumentMetadata{
					SourceTitle:  src.Title,
					ArticleURL:   entry.Link,
					ArticleTitle: entry.Title,
				}
			}
			results[i] = loaded
			return nil
		})
	}
	_ = g.Wait()

	var docs []domain.AcquiredDocument
	loaded, failed := 0, 0
	for i := range entries {
		if errs[i] != nil {
			failed++
			u.logger.Warn("article_load_failed",
				slog.String("source", src.Title),
				slog.String("link", entries[i].Link),
				slog.String("error", errs[i].Error()),
			)
			continue
		}
		loaded += len(results[i])
		docs = append(docs, results[i]...)
	}
	u.tracker.ArticlesLoaded(loaded)
	u.tracker.ArticlesFailed(failed)
	return docs
}

// indexChunks embeds the full batch and commits it. Any embedding or
// commit failure fails the whole stage; nothing partial is installed.
func (u *ingestNewsUsecase) indexChunks(ctx context.Context, chunks []domain.Chunk) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	embeddings, err := u.encoder.Encode(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(embeddings) != len(texts) {
		return fmt.Errorf("embedding count mismatch: got %d for %d chunks", len(embeddings), len(texts))
	}

	entries := make([]domain.IndexEntry, len(chunks))
	for i, c := range chunks {
		entries[i] = domain.IndexEntry{
			Text:      c.Text,
			Embedding: embeddings[i],
			Metadata:  c.Metadata,
			Ordinal:   c.Ordinal,
		}
	}

	if err := u.index.Replace(ctx, u.collection, entries); err != nil {
		return fmt.Errorf("failed to commit index: %w", err)
	}
	return nil
}
