// Package file provides file-based implementations of driven port interfaces.
//
// ConfigStore keeps settings in ~/.threadscout/config.toml and can watch the
// file for edits made while the MCP server is running.
package file
