package gameweekmigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the gameweek module migrations.
var Migrations = migrate.NewMigrations()
