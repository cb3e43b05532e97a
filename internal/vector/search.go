package vector

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/pgvector/pgvector-go"

	"querybot/internal/models"
)

type Searcher struct {
	q Queryer
}

type Queryer interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func NewSearcher(q Queryer) *Searcher {
	return &Searcher{q: q}
}

const searchSQL = `
SELECT chunk_id,
       source,
       page,
       chunk_index,
       text,
       1 - (embedding <=> $3::vector) AS score
FROM chunks
WHERE collection = $1
  AND embedding_model = $2
  AND vector_dims(embedding) = $4
ORDER BY embedding <=> $3::vector, chunk_id
LIMIT $5`

func (s *Searcher) SearchChunks(ctx context.Context, collection string, q SearchQuery) ([]models.SearchHit, error) {
	topK := q.TopK
	if topK <= 0 {
		topK = 3
	}
	rows, err := s.q.Query(ctx, searchSQL, collection, q.Model, pgvector.NewVector(q.Vector), len(q.Vector), topK)
	if err != nil {
		return nil, fmt.Errorf("query vector search: %w", err)
	}
	defer rows.Close()

	results := make([]models.SearchHit, 0, topK)
	for rows.Next() {
		var r models.SearchHit
		if err := rows.Scan(&r.ChunkID, &r.Source, &r.Page, &r.ChunkIndex, &r.Text, &r.Score); err != nil {
			return nil, fmt.Errorf("scan search hit: %w", err)
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate search rows: %w", err)
	}
	return results, nil
}
