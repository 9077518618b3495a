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

package puzzle

import (
	"encoding/json"
	"fmt"
	"net/http"
)

/*

Solving

*/

// A SolveRequest is the body of a solve or validate POST: the
// 81-character encoding of the puzzle to work on.
type SolveRequest struct {
	Puzzle string `json:"puzzle"`
}

// A SolveResponse reports the outcome of a solve: whether a solution
// was found, and if so the solved board in both encoded and grid
// form.  Cancelled is set when the search was abandoned rather than
// exhausted.
type SolveResponse struct {
	Puzzle    string `json:"puzzle"`
	Solved    bool   `json:"solved"`
	Cancelled bool   `json:"cancelled,omitempty"`
	Solution  string `json:"solution,omitempty"`
	Grid      *Grid  `json:"grid,omitempty"`
}

// SolveHandler is a POST handler that reads a JSON-encoded
// SolveRequest from the request body, loads the puzzle into a fresh
// Engine, and solves it.  The SolveResponse is sent as a 200
// response and also returned to the golang caller.  A request whose
// body can't be decoded, or whose puzzle fails to load, gets a 400
// response carrying the Error, which is also returned to the caller.
//
// The search is tied to the request: a client that is already gone
// gets a cancelled response without any search, and one that goes
// away mid-search has the engine cancelled and the search abandoned.
func SolveHandler(w http.ResponseWriter, r *http.Request) (*SolveResponse, error) {
	dec := json.NewDecoder(r.Body)
	var req SolveRequest
	if e := dec.Decode(&req); e != nil {
		return nil, writeError(requestDecodingError, ErrorData{e.Error()}, w, r)
	}
	eng := New()
	if e := eng.Load(req.Puzzle); e != nil {
		err, ok := e.(Error)
		if !ok {
			return nil, writeError(errorFormatError, ErrorData{"SolveHandler", e.Error()}, w, r)
		}
		err.Message = err.Error()
		return nil, writeJSON(err, http.StatusBadRequest, w, r)
	}
	// A client that is already gone gets no search at all.  This
	// check must come before Solve: Solve clears the cancellation
	// flag when it starts, so a Cancel from the watcher below could
	// otherwise be wiped out before the search ever polls it.
	if r.Context().Err() != nil {
		resp := &SolveResponse{Puzzle: req.Puzzle, Cancelled: true}
		return resp, writeJSON(resp, http.StatusOK, w, r)
	}
	done := make(chan struct{})
	go func() {
		select {
		case <-r.Context().Done():
			eng.Cancel()
		case <-done:
		}
	}()
	solved := eng.Solve()
	close(done)
	resp := &SolveResponse{
		Puzzle:    req.Puzzle,
		Solved:    solved,
		Cancelled: eng.Cancelled(),
	}
	if solved {
		g := eng.Grid()
		resp.Solution = eng.Encode()
		resp.Grid = &g
	}
	return resp, writeJSON(resp, http.StatusOK, w, r)
}

/*

Validation

*/

// A ValidateResponse reports whether a puzzle encoding loads
// cleanly.  A valid puzzle gets its storage identity; an invalid one
// gets the Error that rejected it.
type ValidateResponse struct {
	Puzzle string `json:"puzzle"`
	Valid  bool   `json:"valid"`
	ID     string `json:"id,omitempty"`
	Reason *Error `json:"reason,omitempty"`
}

// ValidateHandler is a POST handler that reads a JSON-encoded
// SolveRequest from the request body and checks whether its puzzle
// loads.  Both valid and invalid puzzles get a 200 response; only a
// request whose body can't be decoded gets a 400.  The
// ValidateResponse is also returned to the golang caller.
func ValidateHandler(w http.ResponseWriter, r *http.Request) (*ValidateResponse, error) {
	dec := json.NewDecoder(r.Body)
	var req SolveRequest
	if e := dec.Decode(&req); e != nil {
		return nil, writeError(requestDecodingError, ErrorData{e.Error()}, w, r)
	}
	resp := &ValidateResponse{Puzzle: req.Puzzle}
	if e := New().Load(req.Puzzle); e != nil {
		err, ok := e.(Error)
		if !ok {
			return nil, writeError(errorFormatError, ErrorData{"ValidateHandler", e.Error()}, w, r)
		}
		err.Message = err.Error()
		resp.Reason = &err
	} else {
		resp.Valid = true
		resp.ID = PuzzleID(req.Puzzle)
	}
	return resp, writeJSON(resp, http.StatusOK, w, r)
}

/*

Utilities

*/

type handlerError int

const (
	requestDecodingError handlerError = iota
	responseEncodingError
	errorFormatError
)

// writeError sends back a server error of the given type, sort of
// like http.Error, but it sends the JSON form of an appropriate
// Error.
func writeError(et handlerError, ed ErrorData,
	w http.ResponseWriter, r *http.Request) error {
	var err Error
	var status int
	switch et {
	case requestDecodingError:
		status = http.StatusBadRequest
		err = Error{
			Scope:     FormatScope,
			Condition: GeneralCondition,
			Values:    ed,
		}
	case responseEncodingError:
		status = http.StatusInternalServerError
		err = Error{
			Scope:     InternalScope,
			Condition: GeneralCondition,
			Values:    ed,
		}
	case errorFormatError:
		status = http.StatusInternalServerError
		err = Error{
			Scope:     InternalScope,
			Condition: GeneralCondition,
			Values:    ed,
		}
	default:
		status = http.StatusInternalServerError
		err = Error{
			Scope:     InternalScope,
			Condition: GeneralCondition,
			Values: ErrorData{
				"writeError",
				fmt.Sprintf("Unknown handler error type (%v)", et),
			},
		}
	}
	err.Message = err.Error()
	return writeJSON(err, status, w, r)
}

// writeJSON is called by handlers to encode and send the client
// response.  It returns an appropriate error status for the handler
// to return to its caller, as follows:
//
// 1. If writeJSON encounters an encoding error sending the response,
// it will create an Error object describing the failure, encode that
// Error as a 500-series response to the client, and return that
// Error to the handler.
//
// 2. If no encoding error occurs, but the handler is sending an
// Error object as the response to the client, writeJSON will return
// that same Error to the handler.
//
// 3. If no encoding error occurs, and the handler is sending a
// non-Error object as the response to the client, writeJSON will
// return nil to the handler.
func writeJSON(obj interface{}, status int, w http.ResponseWriter, r *http.Request) error {
	err, isErr := obj.(Error)
	bytes, e := json.Marshal(obj)
	if e != nil {
		if isErr && err.Scope == InternalScope {
			// We just failed to encode an internal Error.  This
			// should never happen!!  If it did, it almost certainly
			// means that the JSON encoding system is dead, so
			// pseudo-encode the error by hand by returning the
			// Error's summary as a quoted string.
			status = http.StatusInternalServerError // probably was already!
			bytes = []byte(fmt.Sprintf("%q", err.Error()))
		} else {
			// generate, send, and return an encoding error
			return writeError(responseEncodingError, ErrorData{e.Error()}, w, r)
		}
	}
	hs := w.Header()
	hs.Add("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(bytes)
	if isErr {
		return err
	}
	return nil
}
