// Package driving provides interfaces for user-facing adapters
// (primary/inbound ports). The CLI, HTTP API, MCP server and TUI all
// talk to the engine through these.
package driving
