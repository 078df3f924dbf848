// Package services implements the retrieval engine: the ingestion and
// search pipelines and the reset/reconciliation lifecycle operations.
// The Engine owns the single lock that serialises all writes to the
// (vector index, chunk store) pair.
package services
