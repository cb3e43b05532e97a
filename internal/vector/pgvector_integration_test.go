package vector_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"querybot/internal/models"
	"querybot/internal/storage"
	"querybot/internal/vector"
)

func TestPGIndexSearchAndReplace(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("pgvector/pgvector:pg16"),
		tcPostgres.WithDatabase("querybot"),
		tcPostgres.WithUsername("querybot"),
		tcPostgres.WithPassword("querybot"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	if err != nil {
		t.Fatalf("postgres container: %v", err)
	}
	defer func() { _ = pgC.Terminate(ctx) }()

	host, err := pgC.Host(ctx)
	require.NoError(t, err)
	port, err := pgC.MappedPort(ctx, "5432")
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://querybot:querybot@%s:%s/querybot?sslmode=disable", host, port.Port())

	require.NoError(t, storage.Migrate(ctx, dsn, "up", 0))
	require.NoError(t, storage.Migrate(ctx, dsn, "up", 0))

	db, err := storage.NewDB(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	idx := vector.NewPGIndex(db)
	mk := func(id, source string, vec ...float32) models.IndexEntry {
		return models.IndexEntry{
			Chunk:          models.Chunk{ChunkID: id, Source: source, Page: 1, Text: "text " + id},
			Vector:         vec,
			EmbeddingModel: "m",
		}
	}
	require.NoError(t, idx.Upsert(ctx, "documents", []models.IndexEntry{
		mk("a", "a.pdf", 1, 0, 0),
		mk("b", "a.pdf", 0.7, 0.7, 0),
		mk("c", "b.pdf", 0, 1, 0),
		mk("tie", "b.pdf", 1, 0, 0),
	}))

	hits, err := idx.Search(ctx, "documents", vector.SearchQuery{Vector: []float32{1, 0, 0}, Model: "m", TopK: 3})
	require.NoError(t, err)
	require.Len(t, hits, 3)
	require.Equal(t, "a", hits[0].ChunkID)
	require.Equal(t, "tie", hits[1].ChunkID)
	require.Equal(t, "b", hits[2].ChunkID)
	require.InDelta(t, 1.0, hits[0].Score, 1e-5)
	require.Equal(t, "text a", hits[0].Text)

	hits, err = idx.Search(ctx, "documents", vector.SearchQuery{Vector: []float32{1, 0, 0}, Model: "other", TopK: 3})
	require.NoError(t, err)
	require.Empty(t, hits)

	require.NoError(t, idx.Replace(ctx, "documents", "a.pdf", []models.IndexEntry{mk("a2", "a.pdf", 0, 0, 1)}))
	hits, err = idx.Search(ctx, "documents", vector.SearchQuery{Vector: []float32{0, 0, 1}, Model: "m", TopK: 10})
	require.NoError(t, err)
	ids := make([]string, 0, len(hits))
	for _, h := range hits {
		ids = append(ids, h.ChunkID)
	}
	require.ElementsMatch(t, []string{"a2", "c", "tie"}, ids)
	require.Equal(t, "a2", ids[0])

	n, err := storage.NewChunkRepo(db).CountChunks(ctx, "documents")
	require.NoError(t, err)
	require.EqualValues(t, 3, n)

	require.NoError(t, storage.Migrate(ctx, dsn, "down", 1))
}
