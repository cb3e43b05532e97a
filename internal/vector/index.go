package vector

import (
	"context"
	"errors"

	"querybot/internal/models"
)

var ErrDimensionMismatch = errors.New("vector dimension mismatch")

type SearchQuery struct {
	Vector []float32
	// Model restricts the search to entries embedded by the same model.
	Model string
	TopK  int
}

// Index stores embedded chunks per collection. Search results are ordered by
// descending cosine similarity, ties broken by ascending chunk id.
type Index interface {
	Upsert(ctx context.Context, collection string, entries []models.IndexEntry) error
	Replace(ctx context.Context, collection, source string, entries []models.IndexEntry) error
	Search(ctx context.Context, collection string, q SearchQuery) ([]models.SearchHit, error)
}
