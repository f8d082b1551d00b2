// Package migrations registers the bun migrations for the postgres backend.
package migrations

import "github.com/uptrace/bun/migrate"

// Migrations is the ordered set applied by postgres.Open.
var Migrations = migrate.NewMigrations()

func init() {
	// Migration IDs are derived from the registering file's name.
	if err := Migrations.DiscoverCaller(); err != nil {
		panic(err)
	}
}
