package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/haasp-labs/recall/internal/core/domain"
	"github.com/haasp-labs/recall/internal/logger"
)

// AddDocument chunks, embeds and indexes a document.
//
// Vector ids are allocated as the contiguous block [Count, Count+n)
// read from the index under the write lock, which is held from the
// allocation read through the durable persist. The index is mutated
// before the metadata commit and persisted last, so a crash leaves the
// durable index behind (or equal to) the chunk store's view at most by
// one in-flight batch — never with metadata referencing vectors that
// were never added. A failed metadata commit leaves the in-memory index
// ahead; Reconcile repairs that on next startup.
func (e *Engine) AddDocument(ctx context.Context, docID, content string) (int, error) {
	if strings.TrimSpace(docID) == "" {
		return 0, fmt.Errorf("%w: document id is empty", domain.ErrInvalidInput)
	}

	chunks := e.chunker.Chunk(content)
	if len(chunks) == 0 {
		logger.Debug("document %q produced no chunks, nothing to do", docID)
		return 0, nil
	}
	logger.Debug("document %q: %d chunks", docID, len(chunks))

	embeddings, err := e.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrEmbedding, err)
	}
	if len(embeddings) != len(chunks) {
		return 0, fmt.Errorf("%w: got %d embeddings for %d chunks",
			domain.ErrEmbedding, len(embeddings), len(chunks))
	}
	dim := e.embedder.Dimensions()
	for i, emb := range embeddings {
		if len(emb) != dim {
			return 0, fmt.Errorf("%w: embedding %d has %d dimensions, model reports %d",
				domain.ErrEmbedding, i, len(emb), dim)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	startID := e.index.Count()
	ids := make([]int64, len(chunks))
	for i := range ids {
		ids[i] = startID + int64(i)
	}
	logger.Debug("document %q: vector ids [%d, %d)", docID, startID, startID+int64(len(ids)))

	if err := e.index.AddWithIDs(ctx, embeddings, ids); err != nil {
		if errors.Is(err, domain.ErrDimensionMismatch) {
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", domain.ErrIndexWrite, err)
	}

	rows := make([]domain.ChunkRow, len(chunks))
	for i, text := range chunks {
		rows[i] = domain.ChunkRow{DocID: docID, Text: text, VectorID: ids[i]}
	}

	if err := e.chunks.InsertMany(ctx, rows); err != nil {
		if errors.Is(err, domain.ErrDuplicateVectorID) {
			// Should be impossible given serialised allocation; the index
			// is now ahead of metadata until the next reconciliation.
			logger.Error("invariant violation inserting chunks for %q: %v", docID, err)
			return 0, err
		}
		return 0, fmt.Errorf("%w: %v", domain.ErrMetadataWrite, err)
	}

	if err := e.index.Persist(ctx); err != nil {
		return 0, fmt.Errorf("%w: persisting index: %v", domain.ErrIndexWrite, err)
	}

	logger.Info("added %d chunks for document %q", len(chunks), docID)
	return len(chunks), nil
}
