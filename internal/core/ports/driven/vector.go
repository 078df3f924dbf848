package driven

import "context"

// NoMatchID is the sentinel id the index uses for unfilled result slots
// when fewer than k vectors exist.
const NoMatchID int64 = -1

// VectorHit is a single nearest-neighbour result.
type VectorHit struct {
	// ID is the vector id, or NoMatchID for an unfilled slot.
	ID int64

	// Distance is the L2 distance to the query. Lower is closer.
	Distance float32
}

// VectorIndex stores embeddings keyed by caller-assigned int64 ids and
// answers k-nearest-neighbour queries. Count is the authoritative source
// for vector id allocation: ids are assigned as the contiguous block
// [Count, Count+n) for each batch of n adds.
type VectorIndex interface {
	// Count returns the number of vectors currently in the index.
	Count() int64

	// AddWithIDs inserts vectors under the given ids. The two slices must
	// have equal length and every vector must match the index dimension
	// (domain.ErrDimensionMismatch otherwise).
	AddWithIDs(ctx context.Context, vectors [][]float32, ids []int64) error

	// Search returns the k nearest neighbours of query ordered by
	// ascending distance. The result always has k slots; trailing slots
	// carry NoMatchID when fewer than k vectors exist.
	Search(ctx context.Context, query []float32, k int) ([]VectorHit, error)

	// Truncate drops all but the first n vectors in insertion order.
	// Used by the reconciliation pass to repair an index that ran ahead
	// of the chunk store.
	Truncate(ctx context.Context, n int64) error

	// Persist writes the index to durable storage.
	Persist(ctx context.Context) error

	// Reset empties the index and removes its durable file.
	Reset(ctx context.Context) error

	// Close releases resources.
	Close() error
}
