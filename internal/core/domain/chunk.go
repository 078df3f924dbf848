package domain

// ChunkRow is one metadata row in the chunk store. VectorID is the key
// under which the chunk's embedding lives in the vector index; the 1:1
// binding between the two stores is the invariant the engine protects.
type ChunkRow struct {
	// DocID identifies the source document. Many chunks share a DocID.
	DocID string

	// Text is the chunk content exactly as produced by the chunker.
	Text string

	// VectorID is the globally unique, monotonically assigned id of the
	// chunk's embedding in the vector index.
	VectorID int64
}
