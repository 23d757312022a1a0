// Package migrations embeds the SQL schema migrations applied by cmd/migrate and the server.
package migrations

import "embed"

// FS holds the *.up.sql and *.down.sql files
//
//go:embed *.sql
var FS embed.FS
