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

// Package dbprep initializes and resets the stores behind the
// storage package: it migrates the database schema, loads the
// built-in puzzles, and can flush the cache.
package dbprep

import (
	"fmt"
)

// EnsureData makes the database ready for the servers: the schema
// is migrated to current, and a database that had no schema at all
// also gets the sample puzzles.  Running it against an
// already-prepared database changes nothing, so every server can
// call it at startup.
func EnsureData() error {
	before, err := SchemaVersion()
	if err != nil {
		return fmt.Errorf("Can't read data schema version: %v", err)
	}
	if err := SchemaUp(); err != nil {
		return err
	}
	after, err := SchemaVersion()
	if err != nil {
		return fmt.Errorf("Can't read migrated schema version: %v", err)
	}
	if after == 0 {
		return fmt.Errorf("Schema version still 0 after migration")
	}
	if before == after {
		// the schema was already current; leave its data alone
		return nil
	}
	return DataUp()
}

// RemoveData tears the schema down, taking every stored puzzle and
// session with it.  A database with no schema is left as it is.
func RemoveData() error {
	version, err := SchemaVersion()
	if err != nil {
		return fmt.Errorf("Can't read data schema version: %v", err)
	}
	if version == 0 {
		return nil
	}
	return SchemaDown()
}

// ReinitializeAll flushes the cache and rebuilds the database from
// nothing; afterwards the stores hold exactly the sample data.
func ReinitializeAll() error {
	if err := ClearCache(); err != nil {
		return fmt.Errorf("Can't clear cache: %v", err)
	}
	if err := RemoveData(); err != nil {
		return err
	}
	return EnsureData()
}
