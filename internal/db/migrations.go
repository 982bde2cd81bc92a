package db

import "embed"

// migrationsFS holds goose SQL migrations, one directory per dialect.
//
//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS
