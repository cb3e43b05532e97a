package vector

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"querybot/internal/models"
)

// MemoryIndex is a brute-force cosine index held in process memory.
type MemoryIndex struct {
	mu          sync.RWMutex
	collections map[string]map[string]models.IndexEntry
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{collections: map[string]map[string]models.IndexEntry{}}
}

func (m *MemoryIndex) Upsert(ctx context.Context, collection string, entries []models.IndexEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	col := m.collection(collection)
	for _, e := range entries {
		col[e.ChunkID] = copyEntry(e)
	}
	return nil
}

func (m *MemoryIndex) Replace(ctx context.Context, collection, source string, entries []models.IndexEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	col := m.collection(collection)
	for id, e := range col {
		if e.Source == source {
			delete(col, id)
		}
	}
	for _, e := range entries {
		col[e.ChunkID] = copyEntry(e)
	}
	return nil
}

func (m *MemoryIndex) Search(ctx context.Context, collection string, q SearchQuery) ([]models.SearchHit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	topK := q.TopK
	if topK <= 0 {
		topK = 3
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	hits := make([]models.SearchHit, 0, len(m.collections[collection]))
	for _, e := range m.collections[collection] {
		if e.EmbeddingModel != q.Model {
			continue
		}
		if len(e.Vector) != len(q.Vector) {
			return nil, fmt.Errorf("%w: entry %s has %d, query has %d", ErrDimensionMismatch, e.ChunkID, len(e.Vector), len(q.Vector))
		}
		hits = append(hits, models.SearchHit{Chunk: e.Chunk, Score: cosine(e.Vector, q.Vector)})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Score == hits[j].Score {
			return hits[i].ChunkID < hits[j].ChunkID
		}
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

func (m *MemoryIndex) collection(name string) map[string]models.IndexEntry {
	col, ok := m.collections[name]
	if !ok {
		col = map[string]models.IndexEntry{}
		m.collections[name] = col
	}
	return col
}

func copyEntry(e models.IndexEntry) models.IndexEntry {
	e.Vector = append([]float32(nil), e.Vector...)
	return e
}

func cosine(a, b []float32) float64 {
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
