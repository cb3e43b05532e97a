package vector

import (
	"context"

	"querybot/internal/models"
	"querybot/internal/storage"
)

// PGIndex keeps entries in the Postgres chunks table.
type PGIndex struct {
	repo     *storage.ChunkRepo
	searcher *Searcher
}

func NewPGIndex(db *storage.DB) *PGIndex {
	return &PGIndex{
		repo:     storage.NewChunkRepo(db),
		searcher: NewSearcher(db.Pool),
	}
}

func (p *PGIndex) Upsert(ctx context.Context, collection string, entries []models.IndexEntry) error {
	return p.repo.UpsertChunks(ctx, collection, entries)
}

func (p *PGIndex) Replace(ctx context.Context, collection, source string, entries []models.IndexEntry) error {
	return p.repo.ReplaceSource(ctx, collection, source, entries)
}

func (p *PGIndex) Search(ctx context.Context, collection string, q SearchQuery) ([]models.SearchHit, error) {
	return p.searcher.SearchChunks(ctx, collection, q)
}
