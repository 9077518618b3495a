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

// Prepare the cache and database for use by sudobit servers
package main

import (
	"log"
	"os"

	"github.com/sudobit/sudobit/dbprep"
	"github.com/sudobit/sudobit/storage"
)

func main() {
	mode := "ensure"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}
	switch mode {
	case "ensure":
		log.Print("Ensuring data storage and cache are prepared...")
		if err := dbprep.EnsureData(); err != nil {
			log.Fatalf("Failed to prepare storage: %v", err)
		}
		smokeTest()
		log.Print("Data storage and cache prepared for use.")
	case "reset":
		log.Print("Removing existing data storage and cache...")
		resetStorage()
		smokeTest()
		log.Print("Data storage and cache prepared for use.")
	case "up":
		log.Print("Installing data schema and sample data...")
		if err := dbprep.SchemaUp(); err != nil {
			log.Fatalf("Failed to install database schema: %v", err)
		}
		if err := dbprep.DataUp(); err != nil {
			log.Fatalf("Failed to load sample data: %v", err)
		}
		smokeTest()
		log.Print("Data storage prepared for use.")
	case "down":
		log.Print("Removing data storage and clearing cache...")
		if err := dbprep.ClearCache(); err != nil {
			log.Fatalf("Failed to clear cache: %v", err)
		}
		if err := dbprep.RemoveData(); err != nil {
			log.Fatalf("Failed to remove storage: %v", err)
		}
		log.Print("Data storage removed and cache cleared.")
	default:
		log.Fatalf("Unknown mode %q: must be 'ensure', 'reset', 'up', or 'down'.", mode)
	}
}

// resetStorage: remove all existing cache and database data,
// then migrate the database up from scratch and load the samples.
func resetStorage() {
	err := dbprep.ClearCache()
	if err != nil {
		log.Fatalf("Failed to clear cache: %v", err)
	}
	version, err := dbprep.SchemaVersion()
	if err != nil {
		log.Fatalf("Failed to get database schema version: %v", err)
	}
	if version > 0 {
		if err := dbprep.SchemaDown(); err != nil {
			log.Fatalf("Failed to remove database schema: %v", err)
		}
	}
	if err := dbprep.SchemaUp(); err != nil {
		log.Fatalf("Failed to install database schema: %v", err)
	}
	version, err = dbprep.SchemaVersion()
	if err != nil || version == 0 {
		log.Fatalf("Failed to read back installed schema (version %d): %v", version, err)
	}
	if err := dbprep.DataUp(); err != nil {
		log.Fatalf("Failed to load sample data: %v", err)
	}
}

// smokeTest: make sure the servers will be able to connect to what
// we just prepared.
func smokeTest() {
	cacheId, databaseId, err := storage.Connect()
	if err != nil {
		log.Fatalf("Storage came up but can't be connected to: %v", err)
	}
	storage.Close()
	log.Printf("Verified connections to cache at %q, database at %q.", cacheId, databaseId)
}
