package domain

// SearchResult is a single ranked hit returned by the search pipeline.
type SearchResult struct {
	// DocID is the document the matching chunk belongs to.
	DocID string `json:"doc_id"`

	// ChunkText is the original chunk content.
	ChunkText string `json:"chunk_text"`

	// Score is the raw L2 distance reported by the vector index.
	// Lower means more similar; callers should interpret ordering,
	// not absolute magnitude.
	Score float64 `json:"score"`
}

// Stats describes the current size of both stores.
type Stats struct {
	// Vectors is the number of vectors in the index.
	Vectors int64 `json:"vectors"`

	// Chunks is the number of metadata rows in the chunk store.
	Chunks int64 `json:"chunks"`
}
