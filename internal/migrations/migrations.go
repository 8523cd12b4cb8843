// Package migrations embeds the SQL schema migrations for the local
// document store. Applied with goose at startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
