package services

import (
	"context"
	"fmt"

	"github.com/haasp-labs/recall/internal/core/domain"
	"github.com/haasp-labs/recall/internal/core/ports/driven"
	"github.com/haasp-labs/recall/internal/logger"
)

// Search embeds the query, runs the k-nearest-neighbour lookup and
// joins the hits with their metadata rows. Results keep the index's
// distance order. A hit whose metadata row is missing is dropped rather
// than failing the request: that window can exist after a crash until
// the next reconciliation.
func (e *Engine) Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k must be >= 1, got %d", domain.ErrInvalidInput, k)
	}

	embedding, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrEmbedding, err)
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	hits, err := e.index.Search(ctx, embedding, k)
	if err != nil {
		return nil, fmt.Errorf("searching index: %w", err)
	}

	ids := make([]int64, 0, len(hits))
	for _, hit := range hits {
		if hit.ID != driven.NoMatchID {
			ids = append(ids, hit.ID)
		}
	}
	if len(ids) == 0 {
		return []domain.SearchResult{}, nil
	}

	rows, err := e.chunks.FetchByVectorIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetching chunk metadata: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(ids))
	for _, hit := range hits {
		if hit.ID == driven.NoMatchID {
			continue
		}
		row, ok := rows[hit.ID]
		if !ok {
			logger.Warn("vector id %d has no metadata row, dropping hit", hit.ID)
			continue
		}
		results = append(results, domain.SearchResult{
			DocID:     row.DocID,
			ChunkText: row.Text,
			Score:     float64(hit.Distance),
		})
	}

	logger.Debug("query %q: %d results (k=%d)", query, len(results), k)
	return results, nil
}
