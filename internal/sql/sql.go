// Package sql embeds the schema migrations applied by the migrate command.
package sql

import "embed"

//go:embed migrations/*.sql
var Migrations embed.FS
