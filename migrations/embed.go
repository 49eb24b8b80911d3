// Package migrations embeds the catalog schema so the binary can migrate a
// database without shipping the SQL files alongside it.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
