package migrations

import "embed"

// Postgres holds the ordered schema files applied by cmd/migrate
//
//go:embed postgres/*.sql
var Postgres embed.FS
