// Package migrations embeds the SQL files that define the users table.
package migrations

import "embed"

// FS holds the embedded migrations, applied in version order by golang-migrate.
//
//go:embed *.sql
var FS embed.FS
