package services

import (
	"context"
	"fmt"

	"github.com/haasp-labs/recall/internal/core/domain"
	"github.com/haasp-labs/recall/internal/logger"
)

// Reset clears both stores back to empty under the exclusive lock.
// The chunk store is cleared first: if that fails nothing has touched
// the index, and any observer between the two steps sees a subset of
// the post-reset state, never rows pointing at missing vectors.
func (e *Engine) Reset(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.chunks.Clear(ctx); err != nil {
		return fmt.Errorf("%w: clearing chunk store: %v", domain.ErrMetadataWrite, err)
	}
	if err := e.index.Reset(ctx); err != nil {
		return fmt.Errorf("%w: resetting index: %v", domain.ErrIndexWrite, err)
	}

	logger.Info("engine state reset")
	return nil
}

// Reconcile repairs divergence between the two stores left by a crash
// mid-ingestion. The index count must equal 1+max(vectorId) in the
// chunk store. An index that ran ahead lost its metadata commit: the
// trailing vectors are dropped and the snapshot rewritten. Metadata
// ahead of the index means rows reference vectors that never existed
// durably; that is not silently patchable and startup must refuse.
func (e *Engine) Reconcile(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	have := e.index.Count()

	maxID, ok, err := e.chunks.MaxVectorID(ctx)
	if err != nil {
		return fmt.Errorf("reading max vector id: %w", err)
	}
	want := int64(0)
	if ok {
		want = maxID + 1
	}

	switch {
	case have == want:
		logger.Debug("stores consistent at %d vectors", have)
		return nil

	case have > want:
		logger.Warn("vector index has %d vectors but metadata expects %d, dropping trailing vectors", have, want)
		if err := e.index.Truncate(ctx, want); err != nil {
			return fmt.Errorf("truncating index to %d vectors: %w", want, err)
		}
		if err := e.index.Persist(ctx); err != nil {
			return fmt.Errorf("persisting truncated index: %w", err)
		}
		return nil

	default:
		return fmt.Errorf("%w: index has %d vectors, metadata expects %d", domain.ErrStoreCorrupted, have, want)
	}
}

// Stats reports the current size of both stores.
func (e *Engine) Stats(ctx context.Context) (domain.Stats, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	chunks, err := e.chunks.Count(ctx)
	if err != nil {
		return domain.Stats{}, fmt.Errorf("counting chunks: %w", err)
	}

	return domain.Stats{
		Vectors: e.index.Count(),
		Chunks:  chunks,
	}, nil
}
