// Package migrations embeds the SQL schema for the SQLite store.
package migrations

import "embed"

// FS holds the numbered .up.sql and .down.sql scripts.
//
//go:embed *.sql
var FS embed.FS
