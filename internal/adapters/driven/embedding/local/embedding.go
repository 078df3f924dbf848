// Package local provides a deterministic, offline embedding service
// based on feature hashing. It needs no external model server, which
// makes it the default provider and the test vehicle: identical text
// always yields the identical vector, and texts sharing tokens land
// closer in L2 space.
package local

import (
	"context"
	"hash/fnv"
	"math"
	"strings"

	"github.com/haasp-labs/recall/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// DefaultDimensions is the default vector size.
const DefaultDimensions = 256

// modelName identifies the hashing scheme. Changing the scheme changes
// every vector, so the name must change with it.
const modelName = "feature-hash-v1"

// EmbeddingService embeds text as an L2-normalised bag of hashed tokens.
type EmbeddingService struct {
	dim int
}

// NewEmbeddingService creates a local embedding service. A non-positive
// dim falls back to DefaultDimensions.
func NewEmbeddingService(dim int) *EmbeddingService {
	if dim <= 0 {
		dim = DefaultDimensions
	}
	return &EmbeddingService{dim: dim}
}

// Embed generates the embedding for the given text.
func (s *EmbeddingService) Embed(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, s.dim)

	for _, token := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New64a()
		h.Write([]byte(token)) //nolint:errcheck // fnv never fails
		sum := h.Sum64()

		bucket := int(sum % uint64(s.dim))
		// The top hash bit picks the sign so unrelated tokens cancel
		// rather than accumulate.
		if sum&(1<<63) != 0 {
			vec[bucket]--
		} else {
			vec[bucket]++
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}

	return vec, nil
}

// EmbedBatch generates embeddings for multiple texts in input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		emb, err := s.Embed(ctx, text)
		if err != nil {
			return nil, err
		}
		embeddings[i] = emb
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dim
}

// ModelName returns the identity of the hashing scheme.
func (s *EmbeddingService) ModelName() string {
	return modelName
}

// Ping always succeeds: the service is in-process.
func (s *EmbeddingService) Ping(context.Context) error {
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}
