package driving

import (
	"context"

	"github.com/haasp-labs/recall/internal/core/domain"
)

// SearchService answers nearest-neighbour queries over indexed chunks.
type SearchService interface {
	// Search embeds the query, fetches the k nearest chunks and returns
	// them ordered by ascending distance. An empty result is valid and
	// not an error.
	Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error)
}
