package services

import (
	"sync"

	"github.com/haasp-labs/recall/internal/chunker"
	"github.com/haasp-labs/recall/internal/core/ports/driven"
	"github.com/haasp-labs/recall/internal/core/ports/driving"
)

// Ensure Engine implements the driving ports.
var (
	_ driving.IngestService = (*Engine)(nil)
	_ driving.SearchService = (*Engine)(nil)
	_ driving.AdminService  = (*Engine)(nil)
)

// Engine binds the chunker, embedding service, vector index and chunk
// store into the retrieval pipelines. It holds no global state; all
// collaborators are injected at construction.
//
// The embedded lock guards the (index, store) pair as a unit: ingest,
// reset and reconcile hold it exclusively so vector id allocation stays
// serialised, while searches share it and run concurrently with each
// other.
type Engine struct {
	mu       sync.RWMutex
	chunker  *chunker.Chunker
	embedder driven.EmbeddingService
	index    driven.VectorIndex
	chunks   driven.ChunkStore
}

// NewEngine creates an engine from its collaborators. A nil chunker
// falls back to the default 512/128 token windows.
func NewEngine(
	c *chunker.Chunker,
	embedder driven.EmbeddingService,
	index driven.VectorIndex,
	chunks driven.ChunkStore,
) *Engine {
	if c == nil {
		c = chunker.New()
	}
	return &Engine{
		chunker:  c,
		embedder: embedder,
		index:    index,
		chunks:   chunks,
	}
}
