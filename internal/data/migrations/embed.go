// Package migrations embeds the goose SQL migrations for the postgres engine.
package migrations

import (
	"embed"
	"io/fs"
)

//go:embed sql/*.sql
var embedded embed.FS

// FS returns the migration files rooted at their directory, as goose expects.
func FS() fs.FS {
	sub, err := fs.Sub(embedded, "sql")
	if err != nil {
		panic(err)
	}
	return sub
}
