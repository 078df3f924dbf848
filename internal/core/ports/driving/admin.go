package driving

import (
	"context"

	"github.com/haasp-labs/recall/internal/core/domain"
)

// AdminService covers lifecycle operations on the store pair.
type AdminService interface {
	// Reset clears both the chunk store and the vector index. Requires
	// exclusive access; no ingest or search runs concurrently.
	Reset(ctx context.Context) error

	// Reconcile repairs divergence between the vector index and the
	// chunk store left behind by a crash mid-ingestion. Must run at
	// startup before the engine serves requests.
	Reconcile(ctx context.Context) error

	// Stats reports the current size of both stores.
	Stats(ctx context.Context) (domain.Stats, error)
}
