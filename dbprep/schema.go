// sudobit - a Sudoku constraint solver and puzzle service.
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.

package dbprep

import (
	"fmt"

	_ "github.com/mattes/migrate/driver/postgres"
	"github.com/mattes/migrate/migrate"
)

// runMigrations applies the package's SQL migration files in one
// direction.  The migrate library reports failures as an error
// slice, which is collapsed here into a single error.
func runMigrations(apply func(url, path string) ([]error, bool), action string) error {
	if errs, ok := apply(DatabaseURL(), migrationsPath()); !ok {
		return fmt.Errorf("Schema %s had errors: %v", action, errs)
	}
	return nil
}

// SchemaUp brings the database tables up to the latest migration.
func SchemaUp() error {
	return runMigrations(migrate.UpSync, "creation")
}

// SchemaDown removes every migrated table.
func SchemaDown() error {
	return runMigrations(migrate.DownSync, "deletion")
}

// SchemaVersion reports which migration the database is at; 0
// means no schema is installed.
func SchemaVersion() (uint64, error) {
	return migrate.Version(DatabaseURL(), migrationsPath())
}
