// Package watcher holds assets shared by the binaries of the catalog watcher.
package watcher

import "embed"

// Migrations contains the goose SQL migrations of the postgres registry.
//
//go:embed migrations/*.sql
var Migrations embed.FS
