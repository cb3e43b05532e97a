package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSplitWords(t *testing.T) {
	s := NewTextSplitter(10, 0)
	require.Equal(t, []string{"aaaa bbbb", "cccc"}, s.Split("aaaa bbbb cccc"))
}

func TestSplitCarriesOverlap(t *testing.T) {
	s := NewTextSplitter(10, 5)
	require.Equal(t, []string{"aaaa bbbb", "bbbb cccc"}, s.Split("aaaa bbbb cccc"))
}

func TestSplitKeepsShortParagraphsTogether(t *testing.T) {
	s := NewTextSplitter(100, 20)
	require.Equal(t, []string{"para one\n\npara two"}, s.Split("para one\n\npara two"))
}

func TestSplitFallsBackToRunes(t *testing.T) {
	s := NewTextSplitter(5, 0)
	require.Equal(t, []string{"abcde", "fghij", "kl"}, s.Split("abcdefghijkl"))
}

func TestSplitCountsRunes(t *testing.T) {
	s := NewTextSplitter(3, 0)
	require.Equal(t, []string{"äöü", "ß"}, s.Split("äöüß"))
}

func TestSplitEmptyAndBlank(t *testing.T) {
	s := NewTextSplitter(10, 2)
	require.Empty(t, s.Split(""))
	require.Empty(t, s.Split("  \n\n \n "))
}

func TestSplitRespectsChunkSize(t *testing.T) {
	var b strings.Builder
	for i := 0; i < 200; i++ {
		b.WriteString("lorem ipsum dolor sit amet, consectetur adipiscing elit")
		if i%7 == 0 {
			b.WriteString("\n\n")
		} else if i%3 == 0 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	s := NewTextSplitter(120, 30)
	chunks := s.Split(b.String())
	require.NotEmpty(t, chunks)
	for _, c := range chunks {
		require.LessOrEqual(t, len([]rune(c)), 120)
		require.NotEqual(t, "", strings.TrimSpace(c))
	}
	require.Equal(t, chunks, s.Split(b.String()))
}

func TestNewTextSplitterClampsOverlap(t *testing.T) {
	s := NewTextSplitter(10, 10)
	require.Equal(t, 0, s.ChunkOverlap)
	s = NewTextSplitter(0, 0)
	require.Equal(t, 1000, s.ChunkSize)
}
