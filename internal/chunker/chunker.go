// Package chunker splits raw text into overlapping token windows.
package chunker

import "strings"

// DefaultChunkSize is the default number of tokens per chunk.
const DefaultChunkSize = 512

// DefaultChunkOverlap is the default number of overlapping tokens
// between consecutive chunks.
const DefaultChunkOverlap = 128

// Chunker splits text on whitespace into a token sequence and emits
// sliding windows of chunkSize tokens, advanced by chunkSize-overlap
// tokens per step. The algorithm is deliberately simple and fixed:
// changing it would change the text behind every previously assigned
// vector id.
type Chunker struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithChunkSize sets the window size in tokens.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between windows in tokens.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) {
		if overlap >= 0 {
			c.overlap = overlap
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// The stride must stay positive or the window never advances.
	if c.overlap >= c.chunkSize {
		c.overlap = c.chunkSize / 4
	}

	return c
}

// ChunkSize returns the configured window size in tokens.
func (c *Chunker) ChunkSize() int {
	return c.chunkSize
}

// Overlap returns the configured overlap in tokens.
func (c *Chunker) Overlap() int {
	return c.overlap
}

// Chunk splits text into overlapping windows. A window starts at every
// multiple of the stride while the start is within the token sequence,
// so the final window may be shorter than the chunk size. Empty or
// whitespace-only input yields no chunks.
func (c *Chunker) Chunk(text string) []string {
	tokens := strings.Fields(text)
	if len(tokens) == 0 {
		return nil
	}

	stride := c.chunkSize - c.overlap
	chunks := make([]string, 0, (len(tokens)+stride-1)/stride)

	for start := 0; start < len(tokens); start += stride {
		end := start + c.chunkSize
		if end > len(tokens) {
			end = len(tokens)
		}
		chunks = append(chunks, strings.Join(tokens[start:end], " "))
	}

	return chunks
}
