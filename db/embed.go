package db

import "embed"

// MigrationFS embeds SQL migration files from db/migrations.
// Used by the migrate runner (cmd/migrate) to apply migrations.
//
//go:embed migrations/*.sql
var MigrationFS embed.FS
