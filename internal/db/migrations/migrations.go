// Package migrations embeds the goose SQL migrations for the §6
// "Persisted state layout" schema.
package migrations

import "embed"

// FS holds the embedded *.sql migration files.
//
//go:embed *.sql
var FS embed.FS
