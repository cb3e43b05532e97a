package ingest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"querybot/internal/models"
	"querybot/internal/objectstore"
	"querybot/internal/providers"
	"querybot/internal/vector"
)

// textPages treats the stored bytes as plain text with pages separated by
// form feeds.
func textPages(data []byte) ([]models.Page, error) {
	if len(data) == 0 {
		return []models.Page{}, nil
	}
	var pages []models.Page
	for i, p := range strings.Split(string(data), "\f") {
		pages = append(pages, models.Page{Number: i + 1, Text: p})
	}
	return pages, nil
}

type failingEmbedder struct{}

func (failingEmbedder) Embed(ctx context.Context, req providers.EmbedRequest) ([][]float32, providers.ProviderInfo, error) {
	return nil, providers.ProviderInfo{Name: "fail"}, errors.New("embedding backend unavailable")
}

type fixture struct {
	store    *objectstore.MemoryStore
	index    *vector.MemoryIndex
	embedder *providers.MockProvider
	pipeline *Pipeline
}

func newFixture(t *testing.T, embedder providers.EmbeddingProvider) fixture {
	t.Helper()
	f := fixture{
		store:    objectstore.NewMemoryStore(),
		index:    vector.NewMemoryIndex(),
		embedder: providers.NewMockProvider(32),
	}
	if embedder == nil {
		embedder = f.embedder
	}
	f.pipeline = NewPipeline(f.store, f.index, embedder, Options{
		Collection:   "documents",
		ChunkSize:    40,
		ChunkOverlap: 10,
		Extract:      textPages,
		Logger:       log.New(io.Discard, "", 0),
	})
	return f
}

func (f fixture) put(t *testing.T, name, body string) {
	t.Helper()
	require.NoError(t, f.store.Put(context.Background(), "documents", name, bytes.NewReader([]byte(body)), int64(len(body)), "application/pdf"))
}

func (f fixture) search(t *testing.T, text string, k int) []models.SearchHit {
	t.Helper()
	vecs, info, err := f.embedder.Embed(context.Background(), providers.EmbedRequest{Inputs: []string{text}})
	require.NoError(t, err)
	hits, err := f.index.Search(context.Background(), "documents", vector.SearchQuery{Vector: vecs[0], Model: info.Model, TopK: k})
	require.NoError(t, err)
	return hits
}

func TestProcessIndexesChunksWithPageMetadata(t *testing.T) {
	f := newFixture(t, nil)
	f.put(t, "a.pdf", "alpha beta gamma delta epsilon zeta eta theta\fsecond page words")

	res, err := f.pipeline.Process(context.Background(), models.IngestJob{Bucket: "documents", FileName: "a.pdf"})
	require.NoError(t, err)
	require.Equal(t, 2, res.Pages)
	require.Equal(t, 3, res.Chunks)

	hits := f.search(t, "second page words", 1)
	require.Len(t, hits, 1)
	require.Equal(t, "second page words", hits[0].Text)
	require.Equal(t, "a.pdf", hits[0].Source)
	require.Equal(t, 2, hits[0].Page)
	require.Equal(t, 0, hits[0].ChunkIndex)
	require.InDelta(t, 1.0, hits[0].Score, 1e-5)
}

func TestChunkPagesIsDeterministic(t *testing.T) {
	f := newFixture(t, nil)
	pages := []models.Page{
		{Number: 1, Text: strings.Repeat("lorem ipsum dolor sit amet ", 20)},
		{Number: 2, Text: "   "},
		{Number: 3, Text: "tail"},
	}
	a := f.pipeline.ChunkPages("a.pdf", pages)
	b := f.pipeline.ChunkPages("a.pdf", pages)
	require.Equal(t, a, b)
	require.NotEmpty(t, a)
	for _, c := range a {
		require.NotEqual(t, 2, c.Page)
		require.LessOrEqual(t, len([]rune(c.Text)), 40)
	}
	require.Equal(t, 3, a[len(a)-1].Page)
	require.Equal(t, 0, a[len(a)-1].ChunkIndex)
}

func TestProcessZeroByteDocument(t *testing.T) {
	f := newFixture(t, nil)
	f.put(t, "empty.pdf", "")

	res, err := f.pipeline.Process(context.Background(), models.IngestJob{Bucket: "documents", FileName: "empty.pdf"})
	require.NoError(t, err)
	require.Equal(t, Result{}, res)
}

func TestProcessReingestReplacesPreviousEntries(t *testing.T) {
	f := newFixture(t, nil)
	job := models.IngestJob{Bucket: "documents", FileName: "a.pdf"}

	f.put(t, "a.pdf", "old content")
	_, err := f.pipeline.Process(context.Background(), job)
	require.NoError(t, err)

	f.put(t, "a.pdf", "new content")
	_, err = f.pipeline.Process(context.Background(), job)
	require.NoError(t, err)
	_, err = f.pipeline.Process(context.Background(), job)
	require.NoError(t, err)

	hits := f.search(t, "old content", 10)
	require.Len(t, hits, 1)
	require.Equal(t, "new content", hits[0].Text)
}

func TestProcessEmbeddingFailureWritesNothing(t *testing.T) {
	f := newFixture(t, failingEmbedder{})
	f.put(t, "a.pdf", "some text")

	_, err := f.pipeline.Process(context.Background(), models.IngestJob{Bucket: "documents", FileName: "a.pdf"})
	require.ErrorContains(t, err, "embedding backend unavailable")
	require.Empty(t, f.search(t, "some text", 3))
}

func TestProcessMissingObject(t *testing.T) {
	f := newFixture(t, nil)
	_, err := f.pipeline.Process(context.Background(), models.IngestJob{Bucket: "documents", FileName: "nope.pdf"})
	require.ErrorIs(t, err, objectstore.ErrNotFound)
}
