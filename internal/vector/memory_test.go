package vector

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"querybot/internal/models"
)

func entry(id, source string, model string, vec ...float32) models.IndexEntry {
	return models.IndexEntry{
		Chunk:          models.Chunk{ChunkID: id, Source: source, Page: 1, Text: "text " + id},
		Vector:         vec,
		EmbeddingModel: model,
	}
}

func TestMemoryIndexRanksByCosine(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()
	require.NoError(t, idx.Upsert(ctx, "documents", []models.IndexEntry{
		entry("a", "a.pdf", "m", 1, 0),
		entry("b", "a.pdf", "m", 0.7, 0.7),
		entry("c", "a.pdf", "m", 0, 1),
		entry("d", "a.pdf", "m", -1, 0),
	}))

	hits, err := idx.Search(ctx, "documents", SearchQuery{Vector: []float32{1, 0}, Model: "m", TopK: 3})
	require.NoError(t, err)
	require.Len(t, hits, 3)
	require.Equal(t, []string{"a", "b", "c"}, []string{hits[0].ChunkID, hits[1].ChunkID, hits[2].ChunkID})
	require.InDelta(t, 1.0, hits[0].Score, 1e-6)
}

func TestMemoryIndexTiesBreakByChunkID(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()
	require.NoError(t, idx.Upsert(ctx, "documents", []models.IndexEntry{
		entry("z", "a.pdf", "m", 1, 0),
		entry("k", "a.pdf", "m", 1, 0),
		entry("b", "a.pdf", "m", 1, 0),
	}))
	for i := 0; i < 5; i++ {
		hits, err := idx.Search(ctx, "documents", SearchQuery{Vector: []float32{1, 0}, Model: "m", TopK: 2})
		require.NoError(t, err)
		require.Equal(t, "b", hits[0].ChunkID)
		require.Equal(t, "k", hits[1].ChunkID)
	}
}

func TestMemoryIndexFiltersByModelAndCollection(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()
	require.NoError(t, idx.Upsert(ctx, "documents", []models.IndexEntry{
		entry("a", "a.pdf", "old", 1, 0, 0),
		entry("b", "a.pdf", "new", 1, 0),
	}))
	require.NoError(t, idx.Upsert(ctx, "other", []models.IndexEntry{entry("c", "c.pdf", "new", 1, 0)}))

	hits, err := idx.Search(ctx, "documents", SearchQuery{Vector: []float32{1, 0}, Model: "new", TopK: 3})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	require.Equal(t, "b", hits[0].ChunkID)

	hits, err = idx.Search(ctx, "empty", SearchQuery{Vector: []float32{1, 0}, Model: "new"})
	require.NoError(t, err)
	require.Empty(t, hits)
}

func TestMemoryIndexReplaceSwapsOnlyThatSource(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()
	require.NoError(t, idx.Upsert(ctx, "documents", []models.IndexEntry{
		entry("a1", "a.pdf", "m", 1, 0),
		entry("a2", "a.pdf", "m", 0, 1),
		entry("b1", "b.pdf", "m", 1, 1),
	}))
	require.NoError(t, idx.Replace(ctx, "documents", "a.pdf", []models.IndexEntry{entry("a3", "a.pdf", "m", 1, 0)}))

	hits, err := idx.Search(ctx, "documents", SearchQuery{Vector: []float32{1, 0}, Model: "m", TopK: 10})
	require.NoError(t, err)
	ids := map[string]bool{}
	for _, h := range hits {
		ids[h.ChunkID] = true
	}
	require.Equal(t, map[string]bool{"a3": true, "b1": true}, ids)
}

func TestMemoryIndexRejectsDimensionMismatch(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()
	require.NoError(t, idx.Upsert(ctx, "documents", []models.IndexEntry{entry("a", "a.pdf", "m", 1, 0, 0)}))
	_, err := idx.Search(ctx, "documents", SearchQuery{Vector: []float32{1, 0}, Model: "m"})
	require.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestMemoryIndexConcurrentAccess(t *testing.T) {
	ctx := context.Background()
	idx := NewMemoryIndex()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			_ = idx.Replace(ctx, "documents", "a.pdf", []models.IndexEntry{entry("a", "a.pdf", "m", float32(i), 1)})
		}(i)
		go func() {
			defer wg.Done()
			_, err := idx.Search(ctx, "documents", SearchQuery{Vector: []float32{1, 1}, Model: "m"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
