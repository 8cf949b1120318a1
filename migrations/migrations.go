// Package migrations embeds the goose SQL migrations of the photo record store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
