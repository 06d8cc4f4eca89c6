// Package migrations embeds the PostgreSQL schema migrations so the
// server and the migrate CLI run the same files.
package migrations

import "embed"

// FS holds the numbered .up.sql and .down.sql files
//
//go:embed *.sql
var FS embed.FS
