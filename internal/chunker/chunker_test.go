package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokens builds a space-separated string of n distinct tokens.
func tokens(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("t%d", i)
	}
	return strings.Join(parts, " ")
}

func TestChunkEmptyInput(t *testing.T) {
	c := New()

	assert.Empty(t, c.Chunk(""))
	assert.Empty(t, c.Chunk("   \n\t  "))
}

func TestChunkSingleWindow(t *testing.T) {
	c := New(WithChunkSize(8), WithOverlap(2))

	chunks := c.Chunk("the sky is blue")
	require.Len(t, chunks, 1)
	assert.Equal(t, "the sky is blue", chunks[0])
}

func TestChunkCount(t *testing.T) {
	tests := []struct {
		name       string
		chunkSize  int
		overlap    int
		tokenCount int
		want       int
	}{
		{"zero tokens", 8, 2, 0, 0},
		{"one token", 8, 2, 1, 1},
		{"exactly one window", 8, 2, 8, 2},
		{"just under one stride", 8, 2, 6, 1},
		{"one stride", 8, 2, 7, 2},
		{"several windows", 8, 2, 20, 4},
		{"defaults, one stride", DefaultChunkSize, DefaultChunkOverlap, 384, 1},
		{"defaults, full window", DefaultChunkSize, DefaultChunkOverlap, 512, 2},
		{"defaults, large doc", DefaultChunkSize, DefaultChunkOverlap, 900, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(WithChunkSize(tt.chunkSize), WithOverlap(tt.overlap))
			chunks := c.Chunk(tokens(tt.tokenCount))
			assert.Len(t, chunks, tt.want)
		})
	}
}

func TestChunkWindowsOverlap(t *testing.T) {
	c := New(WithChunkSize(4), WithOverlap(2))

	chunks := c.Chunk("a b c d e f")
	require.Len(t, chunks, 3)
	assert.Equal(t, "a b c d", chunks[0])
	assert.Equal(t, "c d e f", chunks[1])
	assert.Equal(t, "e f", chunks[2])
}

func TestChunkDeterminism(t *testing.T) {
	c := New(WithChunkSize(16), WithOverlap(4))
	text := tokens(137)

	first := c.Chunk(text)
	second := c.Chunk(text)
	assert.Equal(t, first, second)
}

func TestChunkFinalWindowShorter(t *testing.T) {
	c := New(WithChunkSize(8), WithOverlap(2))

	chunks := c.Chunk(tokens(10))
	require.Len(t, chunks, 2)
	assert.Len(t, strings.Fields(chunks[0]), 8)
	assert.Len(t, strings.Fields(chunks[1]), 4)
}

func TestNewGuardsOverlap(t *testing.T) {
	// Overlap >= size would make the stride non-positive.
	c := New(WithChunkSize(8), WithOverlap(8))
	assert.Less(t, c.Overlap(), c.ChunkSize())

	chunks := c.Chunk(tokens(20))
	assert.NotEmpty(t, chunks)
}
