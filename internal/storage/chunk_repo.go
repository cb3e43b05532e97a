package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"querybot/internal/models"
)

type ChunkRepo struct {
	db *DB
}

func NewChunkRepo(db *DB) *ChunkRepo {
	return &ChunkRepo{db: db}
}

const upsertChunkSQL = `
INSERT INTO chunks (chunk_id, collection, source, page, chunk_index, text, embedding_model, embedding)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
ON CONFLICT (chunk_id)
DO UPDATE SET
  text = EXCLUDED.text,
  embedding_model = EXCLUDED.embedding_model,
  embedding = EXCLUDED.embedding`

func (r *ChunkRepo) UpsertChunks(ctx context.Context, collection string, entries []models.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}
	return r.inTx(ctx, "upsert chunks", func(tx pgx.Tx) error {
		return insertEntries(ctx, tx, collection, entries)
	})
}

// ReplaceSource swaps every chunk of source for entries in one transaction.
// Readers see either the old set or the new one.
func (r *ChunkRepo) ReplaceSource(ctx context.Context, collection, source string, entries []models.IndexEntry) error {
	return r.inTx(ctx, "replace chunks", func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM chunks WHERE collection = $1 AND source = $2`, collection, source); err != nil {
			return fmt.Errorf("delete chunks of %s: %w", source, err)
		}
		return insertEntries(ctx, tx, collection, entries)
	})
}

func (r *ChunkRepo) CountChunks(ctx context.Context, collection string) (int64, error) {
	var n int64
	err := r.db.Pool.QueryRow(ctx, `SELECT count(*) FROM chunks WHERE collection = $1`, collection).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count chunks: %w", err)
	}
	return n, nil
}

func (r *ChunkRepo) inTx(ctx context.Context, what string, fn func(tx pgx.Tx) error) error {
	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx %s: %w", what, err)
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit %s tx: %w", what, err)
	}
	return nil
}

func insertEntries(ctx context.Context, tx pgx.Tx, collection string, entries []models.IndexEntry) error {
	if len(entries) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, e := range entries {
		batch.Queue(upsertChunkSQL,
			e.ChunkID, collection, e.Source, e.Page, e.ChunkIndex, e.Text, e.EmbeddingModel, pgvector.NewVector(e.Vector),
		)
	}
	br := tx.SendBatch(ctx, batch)
	for _, e := range entries {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return fmt.Errorf("upsert chunk %s: %w", e.ChunkID, err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("close chunk batch: %w", err)
	}
	return nil
}
