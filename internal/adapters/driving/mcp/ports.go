// Package mcp exposes the retrieval engine as Model Context Protocol
// tools so agents can search and ingest documents.
package mcp

import (
	"errors"

	"github.com/haasp-labs/recall/internal/core/ports/driving"
)

// Ports bundles the engine services the MCP server needs.
type Ports struct {
	Ingest driving.IngestService
	Search driving.SearchService
	Admin  driving.AdminService
}

// Validate checks that all required ports are present.
func (p *Ports) Validate() error {
	if p.Ingest == nil {
		return errors.New("ingest service is required")
	}
	if p.Search == nil {
		return errors.New("search service is required")
	}
	if p.Admin == nil {
		return errors.New("admin service is required")
	}
	return nil
}
