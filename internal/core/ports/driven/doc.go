// Package driven provides interfaces for infrastructure adapters
// (secondary/outbound ports): the embedding service, the vector index
// and the chunk metadata store.
package driven
