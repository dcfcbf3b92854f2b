package leaguemigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the league module migrations.
var Migrations = migrate.NewMigrations()
