// Package domain contains the core types of the retrieval engine:
// chunk rows, search results and the error taxonomy shared by the
// pipelines and their adapters.
package domain
