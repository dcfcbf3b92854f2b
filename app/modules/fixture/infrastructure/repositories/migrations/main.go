package fixturemigrations

import "github.com/uptrace/bun/migrate"

// Migrations holds the fixture module migrations.
var Migrations = migrate.NewMigrations()
