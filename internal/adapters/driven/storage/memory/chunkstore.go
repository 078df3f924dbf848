// Package memory provides an in-memory chunk store for tests and
// ephemeral runs. It mirrors the transactional behaviour of the SQLite
// store: batches insert entirely or not at all.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/haasp-labs/recall/internal/core/domain"
	"github.com/haasp-labs/recall/internal/core/ports/driven"
)

// Ensure ChunkStore implements the interface.
var _ driven.ChunkStore = (*ChunkStore)(nil)

// ChunkStore keeps chunk rows in a map keyed by vector id.
type ChunkStore struct {
	mu   sync.RWMutex
	rows map[int64]domain.ChunkRow
}

// NewChunkStore creates an empty in-memory chunk store.
func NewChunkStore() *ChunkStore {
	return &ChunkStore{
		rows: make(map[int64]domain.ChunkRow),
	}
}

// InsertMany stores all rows or none. Duplicate vector ids, in the
// store or within the batch, fail the whole call.
func (s *ChunkStore) InsertMany(_ context.Context, rows []domain.ChunkRow) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[int64]bool, len(rows))
	for _, row := range rows {
		if seen[row.VectorID] {
			return fmt.Errorf("%w: vector id %d", domain.ErrDuplicateVectorID, row.VectorID)
		}
		if _, exists := s.rows[row.VectorID]; exists {
			return fmt.Errorf("%w: vector id %d", domain.ErrDuplicateVectorID, row.VectorID)
		}
		seen[row.VectorID] = true
	}

	for _, row := range rows {
		s.rows[row.VectorID] = row
	}

	return nil
}

// FetchByVectorIDs returns the rows present for the given ids.
func (s *ChunkStore) FetchByVectorIDs(_ context.Context, ids []int64) (map[int64]domain.ChunkRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[int64]domain.ChunkRow, len(ids))
	for _, id := range ids {
		if row, ok := s.rows[id]; ok {
			result[id] = row
		}
	}

	return result, nil
}

// MaxVectorID returns the highest vector id in the store.
func (s *ChunkStore) MaxVectorID(_ context.Context) (int64, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.rows) == 0 {
		return 0, false, nil
	}

	var max int64
	first := true
	for id := range s.rows {
		if first || id > max {
			max = id
			first = false
		}
	}

	return max, true, nil
}

// Count returns the number of rows.
func (s *ChunkStore) Count(_ context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.rows)), nil
}

// Clear removes all rows.
func (s *ChunkStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.rows = make(map[int64]domain.ChunkRow)
	return nil
}

// Close releases resources.
func (s *ChunkStore) Close() error {
	return nil
}
