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
	"fmt"
	"log"
	"time"

	"github.com/garyburd/redigo/redis"
	"github.com/jackc/pgx"

	"github.com/sudobit/sudobit/dbprep"
)

// Outcomes of a session's last solve request.
const (
	OutcomeSolved     = "solved"
	OutcomeCancelled  = "cancelled"
	OutcomeInfeasible = "infeasible"
)

// A Session tracks which puzzle a client is working on and how the
// last solve request for it came out.  The session itself lives in
// the cache; the session's puzzle history also goes to the
// database, so it survives a cache flush.
type Session struct {
	// these elements are persisted as part of the session
	SID     string // session ID
	PID     string // ID of the puzzle being worked on
	Outcome string // outcome of the last solve request, if any
	Created string // RFC3339 time when the session was created
	Saved   string // RFC3339 time when the session was last saved

	// loaded alongside, never persisted in the session hash
	Record *PuzzleRecord `redis:"-"` // record of the working puzzle
}

/*

session manipulation

*/

// StartPuzzle: set the working puzzle for the session and clear any
// recorded outcome.  An empty puzzle ID keeps the session's current
// puzzle; the special value "default" (or an ID with no stored
// record) selects the default puzzle.
func (session *Session) StartPuzzle(pid string) {
	if pid == "" {
		pid = session.PID
	}
	var record *PuzzleRecord
	if pid != "" && pid != "default" {
		record, _ = LookupPuzzle(pid)
	}
	if record == nil {
		pid = dbprep.DefaultPuzzleID()
		record, _ = LookupPuzzle(pid)
		if record == nil {
			panic(fmt.Errorf("No stored record for default puzzle %q", pid))
		}
	}
	session.PID = record.PuzzleId
	session.Record = record
	session.Outcome = ""
	if session.Created == "" {
		session.Created = time.Now().Format(time.RFC3339)
	}
	session.save()
	session.databaseUpdate()
	log.Printf("Session %v is now working puzzle %q.", session.SID, session.PID)
}

// RecordOutcome: note how the latest solve request for the working
// puzzle came out.
func (session *Session) RecordOutcome(outcome string) {
	session.Outcome = outcome
	session.save()
	session.databaseUpdate()
	log.Printf("Session %v:%v outcome is %q.", session.SID, session.PID, outcome)
}

// Lookup: load the session with the receiver's SID from the cache.
// Returns whether a saved session was found; when it was, the
// working puzzle's record is loaded too.
func (session *Session) Lookup() (found bool) {
	body := func(conn redis.Conn) error {
		vals, err := redis.Values(conn.Do("HGETALL", session.key()))
		if len(vals) > 0 {
			if err := redis.ScanStruct(vals, session); err != nil {
				log.Printf("Redis error on parse of saved session %q: %v", session.SID, err)
				return err
			}
			found = true
			return nil
		}
		if err != nil {
			log.Printf("Redis error on lookup of session %q: %v", session.SID, err)
			return err
		}
		return nil
	}
	withCache(body)
	if found && session.PID != "" {
		session.Record, _ = LookupPuzzle(session.PID)
	}
	return
}

// save: write the session hash to the cache.
func (session *Session) save() {
	session.Saved = time.Now().Format(time.RFC3339)
	body := func(conn redis.Conn) (err error) {
		_, err = conn.Do("HMSET", redis.Args{}.Add(session.key()).AddFlat(session)...)
		if err != nil {
			log.Printf("Redis error on save of session %q: %v", session.SID, err)
		}
		return
	}
	withCache(body)
}

// databaseUpdate: mirror the session and its working puzzle to the
// database.
func (session *Session) databaseUpdate() {
	now := time.Now()
	body := func(tx *pgx.Tx) (err error) {
		_, err = tx.Exec(
			"INSERT INTO sessions (sessionId, created, updated) VALUES ($1, $2, $3) "+
				"ON CONFLICT (sessionId) DO UPDATE SET updated = $3",
			session.SID, now, now)
		if err != nil {
			return fmt.Errorf("Database error saving session %q: %v", session.SID, err)
		}
		_, err = tx.Exec(
			"INSERT INTO sessionPuzzles (sessionId, puzzleId, outcome, lastWorked) "+
				"VALUES ($1, $2, $3, $4) "+
				"ON CONFLICT (sessionId, puzzleId) DO UPDATE SET outcome = $3, lastWorked = $4",
			session.SID, session.PID, session.Outcome, now)
		if err != nil {
			return fmt.Errorf("Database error saving session %q puzzle %q: %v",
				session.SID, session.PID, err)
		}
		return nil
	}
	withTx(body)
}

/*

session key generation

*/

// key - returns the session's cache key
func (session *Session) key() string {
	return "SID:" + session.SID
}
