package driven

import "context"

// EmbeddingService generates vector embeddings from text.
// Implementations must be deterministic for a fixed model identity:
// the same text always maps to the same vector. The dimension is fixed
// at construction and must match the vector index configuration.
type EmbeddingService interface {
	// Embed generates a vector embedding for the given text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts.
	// The output order matches the input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Dimensions returns the embedding vector size.
	Dimensions() int

	// ModelName returns the identity of the embedding model.
	ModelName() string

	// Ping verifies the service is reachable with a lightweight request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
