package pg

import "embed"

// Migrations holds the schema migrations applied by pkg/db.Migrate.
//
//go:embed migrations/*.sql
var Migrations embed.FS
