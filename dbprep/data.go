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
	"time"

	"github.com/jackc/pgx"

	"github.com/sudobit/sudobit/bank"
	"github.com/sudobit/sudobit/puzzle"
)

// DataUp loads the sample data into the database.  The schema must
// be up first.
func DataUp() error {
	if err := runData(insertSamples); err != nil {
		return fmt.Errorf("Sample data load failed: %v", err)
	}
	return nil
}

// DataDown removes the sample data from the database.  Do this
// before tearing the schema down.
func DataDown() error {
	if err := runData(deleteSamples); err != nil {
		return fmt.Errorf("Sample data removal failed: %v", err)
	}
	return nil
}

// runData applies one data-manipulation function inside a single
// transaction on a connection of its own, so preparation never
// competes with the storage package's shared connection.
func runData(fn func(*pgx.Tx) error) error {
	cfg, err := pgx.ParseURI(DatabaseURL())
	if err != nil {
		return err
	}
	conn, err := pgx.Connect(cfg)
	if err != nil {
		return err
	}
	defer conn.Close()

	tx, err := conn.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

/*

insert sample puzzles in a special session

*/

// SampleSessionName marks the sample data load; its presence makes
// the load idempotent.
const SampleSessionName = "Sudobit Sample Session - not a user session"

var (
	sampleEntries = bank.Default().Entries()
	sampleIds     []string // see init
	sampleSolns   []string // see init
)

// initialize the ids and solutions from the sample puzzles
func init() {
	sampleIds = make([]string, len(sampleEntries))
	sampleSolns = make([]string, len(sampleEntries))
	eng := puzzle.New()
	for i, entry := range sampleEntries {
		sampleIds[i] = entry.ID()
		if e := eng.Load(entry.Clues); e != nil {
			panic(fmt.Errorf("Can't happen! Sample puzzle %d is invalid: %v", i, e))
		}
		if !eng.Solve() {
			panic(fmt.Errorf("Can't happen! Sample puzzle %d has no solution", i))
		}
		sampleSolns[i] = eng.Encode()
	}
}

// DefaultPuzzleID returns the identity of the puzzle sessions fall
// back to: the first sample.
func DefaultPuzzleID() string {
	return sampleIds[0]
}

// Create and insert the sample puzzles and sample session
func insertSamples(tx *pgx.Tx) error {
	// idempotency: if the sample session already exists, we are done
	var count int64
	row := tx.QueryRow("SELECT COUNT(*) FROM sessions "+
		"WHERE sessionId = $1", SampleSessionName)
	if err := row.Scan(&count); err != nil {
		return fmt.Errorf("Database error looking for session %q: %v", SampleSessionName, err)
	}
	if count > 0 {
		return nil
	}

	// get the timestamp of this load
	now := time.Now()

	// first save the puzzles, solutions included
	for i, entry := range sampleEntries {
		_, err := tx.Exec(
			"INSERT INTO puzzles (puzzleId, difficulty, clues, solution, created) "+
				"VALUES ($1, $2, $3, $4, $5)",
			sampleIds[i], entry.Difficulty, entry.Clues, sampleSolns[i], now)
		if err != nil {
			return fmt.Errorf("Database error saving sample puzzle %d: %v", i, err)
		}
	}

	// next save the session
	_, err := tx.Exec(
		"INSERT INTO sessions (sessionId, created, updated) "+
			"VALUES ($1, $2, $3)",
		SampleSessionName, now, now)
	if err != nil {
		return fmt.Errorf("Database error saving sample session: %v", err)
	}

	// next save the session entries
	for i := range sampleEntries {
		_, err := tx.Exec(
			"INSERT INTO sessionPuzzles (sessionId, puzzleId, outcome, lastWorked) "+
				"VALUES ($1, $2, $3, $4)",
			SampleSessionName, sampleIds[i], "", now)
		if err != nil {
			return fmt.Errorf("Database error saving sample session puzzle %d: %v", i, err)
		}
	}

	return nil
}

// Delete the sample puzzles and their session
func deleteSamples(tx *pgx.Tx) error {
	// first remove the session's puzzle history
	_, err := tx.Exec(
		"DELETE from sessionPuzzles where sessionId = $1", SampleSessionName)
	if err != nil {
		return fmt.Errorf("Database error deleting sample session puzzles: %v", err)
	}

	// then remove the session
	_, err = tx.Exec(
		"DELETE from sessions where sessionId = $1", SampleSessionName)
	if err != nil {
		return fmt.Errorf("Database error deleting sample session: %v", err)
	}

	// then remove the puzzles themselves
	for i, id := range sampleIds {
		_, err := tx.Exec(
			"DELETE from puzzles where puzzleId = $1", id)
		if err != nil {
			return fmt.Errorf("Database error deleting sample puzzle %d: %v", i, err)
		}
	}
	return nil
}
