package activities

import (
	"context"
	"errors"
	"fmt"

	"go.temporal.io/sdk/temporal"

	"querybot/internal/ingest"
	"querybot/internal/models"
	"querybot/internal/objectstore"
	"querybot/internal/util"
)

const (
	FetchPagesName     = "FetchPagesActivity"
	ChunkPagesName     = "ChunkPagesActivity"
	EmbedChunksName    = "EmbedChunksActivity"
	IndexChunksName    = "IndexChunksActivity"
	CleanupStagingName = "CleanupStagingActivity"
)

// Activities exposes the ingestion pipeline steps to Temporal. Each step
// reads its input from and writes its output to the staging area.
type Activities struct {
	pipeline *ingest.Pipeline
	store    objectstore.Store
}

func New(p *ingest.Pipeline, store objectstore.Store) *Activities {
	return &Activities{pipeline: p, store: store}
}

func (a *Activities) FetchPagesActivity(ctx context.Context, in FetchPagesInput) (FetchPagesOutput, error) {
	pages, err := a.pipeline.FetchPages(ctx, in.Bucket, in.FileName)
	if err != nil {
		// Missing objects and unparsable files are permanent.
		if errors.Is(err, objectstore.ErrNotFound) || errors.Is(err, util.ErrNotPDF) {
			return FetchPagesOutput{}, temporal.NewNonRetryableApplicationError(err.Error(), "InvalidDocument", err)
		}
		return FetchPagesOutput{}, err
	}
	if pages == nil {
		pages = []models.Page{}
	}
	if err := a.writeStaged(ctx, in.Staging, pagesObject, pages); err != nil {
		return FetchPagesOutput{}, err
	}
	return FetchPagesOutput{Pages: len(pages)}, nil
}

func (a *Activities) ChunkPagesActivity(ctx context.Context, in ChunkPagesInput) (ChunkPagesOutput, error) {
	var pages []models.Page
	if err := a.readStaged(ctx, in.Staging, pagesObject, &pages); err != nil {
		return ChunkPagesOutput{}, err
	}
	chunks := a.pipeline.ChunkPages(in.Source, pages)
	if chunks == nil {
		chunks = []models.Chunk{}
	}
	if err := a.writeStaged(ctx, in.Staging, chunksObject, chunks); err != nil {
		return ChunkPagesOutput{}, err
	}
	return ChunkPagesOutput{Chunks: len(chunks)}, nil
}

func (a *Activities) EmbedChunksActivity(ctx context.Context, in EmbedChunksInput) (EmbedChunksOutput, error) {
	var chunks []models.Chunk
	if err := a.readStaged(ctx, in.Staging, chunksObject, &chunks); err != nil {
		return EmbedChunksOutput{}, err
	}
	entries, err := a.pipeline.EmbedChunks(ctx, chunks)
	if err != nil {
		return EmbedChunksOutput{}, err
	}
	staged := make([]stagedEntry, 0, len(entries))
	var model string
	for _, e := range entries {
		staged = append(staged, stagedEntry{Chunk: e.Chunk, Vector: e.Vector, Model: e.EmbeddingModel})
		model = e.EmbeddingModel
	}
	if err := a.writeStaged(ctx, in.Staging, entriesObject, staged); err != nil {
		return EmbedChunksOutput{}, err
	}
	return EmbedChunksOutput{Embedded: len(staged), Model: model}, nil
}

func (a *Activities) IndexChunksActivity(ctx context.Context, in IndexChunksInput) (IndexChunksOutput, error) {
	var staged []stagedEntry
	if err := a.readStaged(ctx, in.Staging, entriesObject, &staged); err != nil {
		return IndexChunksOutput{}, err
	}
	entries := make([]models.IndexEntry, 0, len(staged))
	for _, s := range staged {
		if len(s.Vector) == 0 {
			return IndexChunksOutput{}, temporal.NewNonRetryableApplicationError(
				fmt.Sprintf("chunk %s has no vector", s.Chunk.ChunkID), "InvalidInput", nil)
		}
		entries = append(entries, models.IndexEntry{Chunk: s.Chunk, Vector: s.Vector, EmbeddingModel: s.Model})
	}
	if err := a.pipeline.IndexChunks(ctx, in.Source, entries); err != nil {
		return IndexChunksOutput{}, err
	}
	return IndexChunksOutput{Indexed: len(entries)}, nil
}

// CleanupStagingActivity removes every staged object of one run. It runs
// after success and after failure.
func (a *Activities) CleanupStagingActivity(ctx context.Context, in CleanupStagingInput) error {
	var errs []error
	for _, name := range []string{pagesObject, chunksObject, entriesObject} {
		if err := a.store.Delete(ctx, in.Staging.Bucket, in.Staging.key(name)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
