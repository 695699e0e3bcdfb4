package repository

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"rag-chatbot/internal/domain"
)

// db is the subset of pgxpool.Pool the index needs. pgxmock satisfies
// it too, which keeps the repository testable without a live database.
type db interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type pgvectorIndex struct {
	db     db
	logger *slog.Logger
}

// NewPgvectorIndex creates a VectorIndex backed by Postgres + pgvector.
//
// Each Replace writes a fresh generation of rows and flips the
// collection pointer inside one transaction, so readers see either the
// old index or the new one, never a mix.
func NewPgvectorIndex(pool db, logger *slog.Logger) domain.VectorIndex {
	if logger == nil {
		logger = slog.Default()
	}
	return &pgvectorIndex{db: pool, logger: logger}
}

func (r *pgvectorIndex) Replace(ctx context.Context, collection string, entries []domain.IndexEntry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	generation := uuid.New()
	now := time.Now().UTC()

	if err := r.writeGeneration(ctx, tx, collection, generation, now, entries); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit index replace: %w", err)
	}

	r.logger.Info("index_replaced",
		slog.String("collection", collection),
		slog.String("generation", generation.String()),
		slog.Int("chunk_count", len(entries)),
	)
	return nil
}

func (r *pgvectorIndex) writeGeneration(ctx context.Context, tx pgx.Tx, collection string, generation uuid.UUID, now time.Time, entries []domain.IndexEntry) error {
	rows := make([][]interface{}, len(entries))
	for i, entry := range entries {
		rows[i] = []interface{}{
			uuid.New(),
			collection,
			generation,
			entry.Ordinal,
			entry.Text,
			entry.Metadata.SourceTitle,
			entry.Metadata.ArticleTitle,
			entry.Metadata.ArticleURL,
			pgvector.NewVector(entry.Embedding),
			now,
		}
	}

	if _, err := tx.CopyFrom(
		ctx,
		pgx.Identifier{"rag_chunks"},
		[]string{"id", "collection", "generation", "ordinal", "content", "source_title", "article_title", "article_url", "embedding", "created_at"},
		pgx.CopyFromRows(rows),
	); err != nil {
		return fmt.Errorf("failed to bulk insert chunks: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO rag_collections (name, generation, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (name) DO UPDATE
		SET generation = EXCLUDED.generation, updated_at = EXCLUDED.updated_at
	`, collection, generation, now); err != nil {
		return fmt.Errorf("failed to update collection pointer: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM rag_chunks
		WHERE collection = $1 AND generation <> $2
	`, collection, generation); err != nil {
		return fmt.Errorf("failed to prune previous generation: %w", err)
	}

	return nil
}

func (r *pgvectorIndex) Search(ctx context.Context, collection string, query []float32, k int) ([]domain.RetrievedChunk, error) {
	rows, err := r.db.Query(ctx, `
		SELECT c.content, c.source_title, c.article_title, c.article_url,
		       1 - (c.embedding <=> $2) AS score
		FROM rag_chunks c
		JOIN rag_collections col
		  ON col.name = c.collection AND col.generation = c.generation
		WHERE c.collection = $1
		ORDER BY c.embedding <=> $2
		LIMIT $3
	`, collection, pgvector.NewVector(query), k)
	if err != nil {
		return nil, fmt.Errorf("failed to query index: %w", err)
	}
	defer rows.Close()

	var results []domain.RetrievedChunk
	for rows.Next() {
		var chunk domain.RetrievedChunk
		var score float64
		if err := rows.Scan(
			&chunk.Text,
			&chunk.Metadata.SourceTitle,
			&chunk.Metadata.ArticleTitle,
			&chunk.Metadata.ArticleURL,
			&score,
		); err != nil {
			return nil, fmt.Errorf("failed to scan chunk: %w", err)
		}
		chunk.Score = float32(score)
		results = append(results, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return results, nil
}

func (r *pgvectorIndex) HasCollection(ctx context.Context, collection string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM rag_collections WHERE name = $1)
	`, collection).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check collection: %w", err)
	}
	return exists, nil
}
