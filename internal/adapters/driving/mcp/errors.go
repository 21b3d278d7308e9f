// Package mcp provides an MCP (Model Context Protocol) server adapter
// for Recall. It lets AI assistants query the local document index and
// manage the learned-answer cache.
package mcp

import "errors"

// ErrMissingQueryService is returned when the query service is not provided.
var ErrMissingQueryService = errors.New("mcp: query service is required")
