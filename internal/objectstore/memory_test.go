package objectstore

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMemoryStoreRoundTripAndOverwrite(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Put(ctx, "documents", "a.pdf", bytes.NewReader([]byte("v1")), 2, "application/pdf"))
	require.NoError(t, s.Put(ctx, "documents", "a.pdf", bytes.NewReader([]byte("v2")), 2, "application/pdf"))

	got, err := s.Get(ctx, "documents", "a.pdf")
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), got)

	_, err = s.Get(ctx, "documents", "missing.pdf")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreDelete(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	require.NoError(t, s.Put(ctx, "documents", "a.pdf", bytes.NewReader([]byte("v1")), 2, ""))

	require.NoError(t, s.Delete(ctx, "documents", "a.pdf"))
	_, err := s.Get(ctx, "documents", "a.pdf")
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Delete(ctx, "documents", "a.pdf"))
}
