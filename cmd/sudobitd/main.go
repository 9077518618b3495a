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

// Web service for the sudobit solver
package main

import (
	"encoding/json"
	"log"
	"net/http"
	"os"
	"os/signal"
	"regexp"
	"strconv"
	"time"

	"github.com/sudobit/sudobit/bank"
	"github.com/sudobit/sudobit/puzzle"
	"github.com/sudobit/sudobit/storage"
)

const cookieName = "sudobitID"
const cookiePath = "/"

var (
	startTime = time.Now()
	puzzles   *bank.Bank
)

func main() {
	// load the puzzle bank, built-in or from SUDOBIT_BANK
	b, err := bank.FromEnvironment()
	if err != nil {
		log.Fatalf("Couldn't load puzzle bank: %v", err)
	}
	puzzles = b

	// connect to storage; this also ensures sample data is loaded
	cacheId, databaseId, err := storage.Connect()
	if err != nil {
		log.Fatalf("Couldn't connect to storage: %v", err)
	}
	log.Printf("Connected to cache at %q, database at %q.", cacheId, databaseId)
	closeOnSignal()

	http.HandleFunc("/api/solve", safeHandler(solveHandler))
	http.HandleFunc("/api/validate", safeHandler(validateHandler))
	http.HandleFunc("/api/puzzles", safeHandler(puzzlesHandler))

	// Heroku environment port sensing
	port := os.Getenv("PORT")
	if port == "" {
		// running locally in dev mode
		port = "localhost:8080"
	} else {
		// running as a true server
		port = ":" + port
	}

	log.Printf("Listening on %s...", port)
	err = http.ListenAndServe(port, nil)
	storage.Close()
	if err != nil {
		log.Fatal("Listener failure: ", err)
	}
}

/*

request handlers

*/

// safeHandler wraps a handler so that storage-layer panics come back
// to the client as a 500 instead of killing the server.
func safeHandler(handler func(http.ResponseWriter, *http.Request)) func(http.ResponseWriter, *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Printf("Panic handling %s %s: %v", r.Method, r.URL.Path, err)
				http.Error(w, "Internal server error", http.StatusInternalServerError)
			}
		}()
		log.Printf("Handling %s %s...", r.Method, r.URL.Path)
		handler(w, r)
	}
}

// solveHandler runs a solve and records the attempt against the
// client's session: the puzzle goes to storage, and the outcome
// (and solution, when there is one) is attached to it.
func solveHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	session := sessionSelect(w, r)
	resp, err := puzzle.SolveHandler(w, r)
	if err != nil {
		log.Printf("Solve failed, returned error, no session change.")
		return
	}
	record := storage.NewPuzzleRecord(difficultyFor(resp.Puzzle), resp.Puzzle)
	record.Save()
	session.StartPuzzle(record.PuzzleId)
	switch {
	case resp.Solved:
		record.RecordSolution(resp.Solution)
		session.RecordOutcome(storage.OutcomeSolved)
	case resp.Cancelled:
		session.RecordOutcome(storage.OutcomeCancelled)
	default:
		session.RecordOutcome(storage.OutcomeInfeasible)
	}
}

// validateHandler checks a puzzle encoding without touching the
// client's session.
func validateHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != "POST" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	_, err := puzzle.ValidateHandler(w, r)
	if err != nil {
		log.Printf("Validate failed, returned error.")
	}
}

// puzzleEntry is the listing form of a bank puzzle.
type puzzleEntry struct {
	ID         string `json:"id"`
	Difficulty string `json:"difficulty"`
	Clues      string `json:"clues"`
}

// puzzlesHandler lists the bank puzzles available to clients.
func puzzlesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != "GET" {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	entries := puzzles.Entries()
	listing := make([]puzzleEntry, len(entries))
	for i, entry := range entries {
		listing[i] = puzzleEntry{ID: entry.ID(), Difficulty: entry.Difficulty, Clues: entry.Clues}
	}
	bytes, err := json.Marshal(listing)
	if err != nil {
		panic(err)
	}
	hs := w.Header()
	hs.Add("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(bytes)
}

// difficultyFor finds the bank's difficulty label for a puzzle, or
// labels it as client-supplied.
func difficultyFor(clues string) string {
	id := puzzle.PuzzleID(clues)
	for _, entry := range puzzles.Entries() {
		if entry.ID() == id {
			return entry.Difficulty
		}
	}
	return "Imported"
}

/*

session handling

*/

// getCookie gets the session cookie, or sets a new one.  It
// returns the session ID associated with the cookie.
//
// Each browser gets a cookie based on the time (to the nanosecond)
// of the first request we received from it.  The browser's notion
// of session cookie lifetime then controls the extent of the
// session.  One wrinkle: under Heroku the same server instance gets
// both HTTP and HTTPS traffic, and cookies set on one protocol leak
// to the other, so the protocol is folded into the cookie value and
// a cookie from the other protocol is treated as absent.
func getCookie(w http.ResponseWriter, r *http.Request) string {
	proto := "httpx" // absent other indicators, protocol is unknown

	// Heroku-transported protocols are specified in a header
	if herokuProtocol := r.Header.Get("X-Forwarded-Proto"); herokuProtocol != "" {
		proto = herokuProtocol
	}

	// check for an existing cookie whose value matches the protocol
	if sc, e := r.Cookie(cookieName); e == nil {
		if m, e := regexp.MatchString(proto+"-[0-9a-z]{3,}", sc.Value); e == nil && m {
			return sc.Value
		}
	}

	// no session cookie or not a valid session cookie,
	// start a new session with a new cookie
	sid := proto + "-" + strconv.FormatInt(int64(time.Now().Sub(startTime)), 36)
	sc := &http.Cookie{Name: cookieName, Value: sid, Path: cookiePath}
	http.SetCookie(w, sc)
	return sid
}

// sessionSelect finds the storage-backed session for the request's
// cookie, starting a fresh one on the default puzzle if the cache
// has no record of it.
func sessionSelect(w http.ResponseWriter, r *http.Request) *storage.Session {
	session := &storage.Session{SID: getCookie(w, r)}
	if !session.Lookup() {
		session.StartPuzzle("default")
	}
	return session
}

/*

shutdown

*/

// closeOnSignal: close the storage connections and exit when
// signalled.
func closeOnSignal() {
	// based on example in os.signal godoc
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	go func() {
		s := <-c
		log.Printf("Received OS-level signal: %v", s)
		storage.Close()
		os.Exit(0)
	}()
}
