// Package assets bundles files shipped inside the binary.
package assets

import "embed"

// Migrations holds the Postgres schema migrations under migrations/.
//
//go:embed migrations/*.sql
var Migrations embed.FS
