// assets/embed.go
//
// Files compiled into the binary:
//   - connections.json: bundled puzzle set used when no source or cache is usable.
//   - sql/*.sql:        schema migrations applied at startup, in lexical order.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed connections.json sql/*.sql
var FS embed.FS

// BundledPuzzles returns the raw bundled puzzle list.
func BundledPuzzles() ([]byte, error) {
	return FS.ReadFile("connections.json")
}

// Migrations exposes the sql directory rooted at its own path, so names are
// plain file names like "001_kv.sql".
func Migrations() (fs.FS, error) {
	return fs.Sub(FS, "sql")
}
