// Package migrations embeds the goose SQL migrations for the PostgreSQL
// login-attempt store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
