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

package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/garyburd/redigo/redis"
	"github.com/jackc/pgx"

	"github.com/sudobit/sudobit/puzzle"
)

/*

puzzle records

*/

// A PuzzleRecord is the stored form of a puzzle: its identity, its
// difficulty label, its clues, and the solution once one has been
// found.  It is JSON serializable so it can go into the cache as
// well as the database.
type PuzzleRecord struct {
	PuzzleId   string // content hash of the clues
	Difficulty string
	Clues      string
	Solution   string // empty until a solve succeeds
}

// NewPuzzleRecord makes the record for a puzzle encoding, with
// the identity derived from the clues.
func NewPuzzleRecord(difficulty, clues string) *PuzzleRecord {
	return &PuzzleRecord{
		PuzzleId:   puzzle.PuzzleID(clues),
		Difficulty: difficulty,
		Clues:      clues,
	}
}

// LookupPuzzle first checks the cache, then the database, to find
// the record with the given id.  If it loads from the database, it
// caches the result.  Returns whether a stored record was found.
func LookupPuzzle(id string) (*PuzzleRecord, bool) {
	pr := &PuzzleRecord{PuzzleId: id}
	if pr.cacheLoad() {
		return pr, true
	}
	// cache miss, try the database and save to cache if found
	if !pr.databaseLoad() {
		return nil, false
	}
	pr.cacheInsert()
	return pr, true
}

// Save stores the record in the database and the cache.  A record
// that is already stored is left as it is; puzzle content never
// changes, so there is nothing to update.
func (pr *PuzzleRecord) Save() {
	pr.databaseInsert()
	pr.cacheInsert()
}

// RecordSolution attaches a solution to the stored record, in both
// tiers.
func (pr *PuzzleRecord) RecordSolution(solution string) {
	pr.Solution = solution
	body := func(tx *pgx.Tx) (err error) {
		_, err = tx.Exec(
			"UPDATE puzzles SET solution = $2 WHERE puzzleId = $1",
			pr.PuzzleId, pr.Solution)
		if err != nil {
			err = fmt.Errorf("Database error saving solution for %q: %v", pr.PuzzleId, err)
		}
		return
	}
	withTx(body)
	pr.cacheInsert()
}

// key: compute the cache key for a PuzzleRecord.
func (pr *PuzzleRecord) key() string {
	return "PID:" + pr.PuzzleId
}

// cacheLoad: load an already cached record.  Returns whether the
// record was found in the cache.
func (pr *PuzzleRecord) cacheLoad() bool {
	var bytes []byte
	body := func(conn redis.Conn) (err error) {
		bytes, err = redis.Bytes(conn.Do("GET", pr.key()))
		if err == redis.ErrNil {
			return nil
		}
		if err != nil {
			err = fmt.Errorf("Cache failure loading puzzle %q: %v", pr.PuzzleId, err)
		}
		return
	}
	withCache(body)
	if len(bytes) == 0 {
		return false
	}
	var spr *PuzzleRecord
	err := json.Unmarshal(bytes, &spr)
	if err != nil {
		panic(fmt.Errorf("Failed to unmarshal puzzle %q: %v", pr.PuzzleId, err))
	}
	if spr.PuzzleId != pr.PuzzleId {
		panic(fmt.Errorf("Cached record (id: %q) found for puzzle %q!",
			spr.PuzzleId, pr.PuzzleId))
	}
	*pr = *spr
	return true
}

// databaseLoad: load a record from the database.  Returns whether
// a record with the given id is stored.
func (pr *PuzzleRecord) databaseLoad() (found bool) {
	body := func(tx *pgx.Tx) error {
		row := tx.QueryRow(
			"SELECT difficulty, clues, solution FROM puzzles "+
				"WHERE puzzleId = $1", pr.PuzzleId)
		err := row.Scan(&pr.Difficulty, &pr.Clues, &pr.Solution)
		if err == pgx.ErrNoRows {
			return nil
		}
		if err != nil {
			return fmt.Errorf("Failure looking up puzzle %q: %v", pr.PuzzleId, err)
		}
		found = true
		return nil
	}
	withTx(body)
	return
}

// databaseInsert: insert a record into the database, ignoring the
// insert if the puzzle is already stored.
func (pr *PuzzleRecord) databaseInsert() {
	body := func(tx *pgx.Tx) (err error) {
		_, err = tx.Exec(
			"INSERT INTO puzzles (puzzleId, difficulty, clues, solution, created) "+
				"VALUES ($1, $2, $3, $4, $5) ON CONFLICT (puzzleId) DO NOTHING",
			pr.PuzzleId, pr.Difficulty, pr.Clues, pr.Solution, time.Now())
		if err != nil {
			err = fmt.Errorf("Database error saving puzzle %q: %v", pr.PuzzleId, err)
		}
		return
	}
	withTx(body)
}

// cacheInsert: insert a record into the cache.  Replaces any
// existing entry with the same id.
func (pr *PuzzleRecord) cacheInsert() {
	bytes, e := json.Marshal(pr)
	if e != nil {
		panic(fmt.Errorf("Failed to marshal puzzle %q: %v", pr.PuzzleId, e))
	}
	body := func(conn redis.Conn) (err error) {
		_, err = conn.Do("SET", pr.key(), bytes)
		if err != nil {
			err = fmt.Errorf("Cache failure saving puzzle %q: %v", pr.PuzzleId, err)
		}
		return
	}
	withCache(body)
}
