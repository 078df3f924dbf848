package driven

import (
	"context"

	"github.com/haasp-labs/recall/internal/core/domain"
)

// ChunkStore persists chunk metadata rows keyed by vector id.
// Backed by SQLite.
type ChunkStore interface {
	// InsertMany stores all rows in a single transaction. Either every
	// row is inserted or none is. A vector id already present fails the
	// whole batch with domain.ErrDuplicateVectorID.
	InsertMany(ctx context.Context, rows []domain.ChunkRow) error

	// FetchByVectorIDs returns the rows for the given vector ids in one
	// batched query. Missing ids are simply absent from the result map.
	FetchByVectorIDs(ctx context.Context, ids []int64) (map[int64]domain.ChunkRow, error)

	// MaxVectorID returns the highest vector id in the store. ok is false
	// when the store is empty.
	MaxVectorID(ctx context.Context) (id int64, ok bool, err error)

	// Count returns the number of rows in the store.
	Count(ctx context.Context) (int64, error)

	// Clear deletes all rows and restarts the internal row id sequence.
	Clear(ctx context.Context) error

	// Close releases resources.
	Close() error
}
