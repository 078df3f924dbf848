package driving

import "context"

// IngestService adds documents to the engine.
type IngestService interface {
	// AddDocument chunks, embeds and indexes a document, returning the
	// number of chunks added. Empty content is a successful no-op.
	// At most one ingestion allocates vector ids at a time.
	AddDocument(ctx context.Context, docID, content string) (int, error)
}
