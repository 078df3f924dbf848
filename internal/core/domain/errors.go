package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed input (empty document id, k < 1).
	// Rejected before any store mutation.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmbedding indicates the embedding service failed or returned
	// vectors of the wrong shape. The request aborts before any mutation.
	ErrEmbedding = errors.New("embedding failed")

	// ErrDimensionMismatch indicates a vector's length does not match the
	// index dimension. This signals model/index configuration drift, not a
	// transient failure.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrIndexWrite indicates the vector index rejected a mutation or
	// failed to persist.
	ErrIndexWrite = errors.New("vector index write failed")

	// ErrMetadataWrite indicates the chunk store transaction failed.
	// The index may now be ahead of metadata; the reconciliation pass
	// repairs this on next startup.
	ErrMetadataWrite = errors.New("chunk store write failed")

	// ErrDuplicateVectorID indicates a vector id was already present in
	// the chunk store. Given correct id allocation this should never
	// happen; it is treated as an internal invariant violation.
	ErrDuplicateVectorID = errors.New("duplicate vector id")

	// ErrStoreCorrupted indicates the chunk store references vector ids
	// beyond what the index holds. This cannot be repaired automatically
	// and startup must be refused.
	ErrStoreCorrupted = errors.New("chunk store ahead of vector index")
)
