// Package mcp provides an MCP (Model Context Protocol) server adapter for threadscout.
// It lets AI assistants run community discovery and read past runs.
package mcp

import "errors"

// ErrMissingDiscoveryService is returned when the discovery service is not provided.
var ErrMissingDiscoveryService = errors.New("mcp: discovery service is required")
