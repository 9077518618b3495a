package puzzle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

/*

Solve handler

*/

func TestSolveHandler(t *testing.T) {
	body := fmt.Sprintf(`{"puzzle":%q}`, classicClues)
	r := httptest.NewRequest("POST", "/api/solve", strings.NewReader(body))
	w := httptest.NewRecorder()
	resp, e := SolveHandler(w, r)
	if e != nil {
		t.Fatalf("SolveHandler returned error: %v", e)
	}
	if w.Code != http.StatusOK {
		t.Fatalf("SolveHandler status %d: %s", w.Code, w.Body.String())
	}
	if !resp.Solved || resp.Solution != classicSolution {
		t.Errorf("SolveHandler result: %+v", resp)
	}
	var wire SolveResponse
	if e := json.Unmarshal(w.Body.Bytes(), &wire); e != nil {
		t.Fatalf("Failed to decode response body: %v", e)
	}
	if wire.Solution != classicSolution {
		t.Errorf("Wire solution is %q", wire.Solution)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type is %q", ct)
	}
}

func TestSolveHandlerInfeasible(t *testing.T) {
	body := fmt.Sprintf(`{"puzzle":%q}`, shallowInfeasibleClues)
	r := httptest.NewRequest("POST", "/api/solve", strings.NewReader(body))
	w := httptest.NewRecorder()
	resp, e := SolveHandler(w, r)
	if e != nil {
		t.Fatalf("SolveHandler returned error: %v", e)
	}
	if w.Code != http.StatusOK {
		t.Fatalf("SolveHandler status %d", w.Code)
	}
	if resp.Solved || resp.Cancelled || resp.Solution != "" {
		t.Errorf("SolveHandler result: %+v", resp)
	}
}

type solveHandlerErrorTestcase struct {
	body  string
	scope ErrorScope
}

func TestSolveHandlerErrors(t *testing.T) {
	tcs := []solveHandlerErrorTestcase{
		{`{"puzzle":"not a puzzle"}`, FormatScope},
		{fmt.Sprintf(`{"puzzle":%q}`, "11"+strings.Repeat(".", 79)), ConflictScope},
		{`{broken json`, FormatScope},
	}
	for i, tc := range tcs {
		r := httptest.NewRequest("POST", "/api/solve", strings.NewReader(tc.body))
		w := httptest.NewRecorder()
		resp, e := SolveHandler(w, r)
		if resp != nil {
			t.Fatalf("TestSolveHandlerErrors case %d: got a response: %+v", i+1, resp)
		}
		if w.Code != http.StatusBadRequest {
			t.Fatalf("TestSolveHandlerErrors case %d: status %d", i+1, w.Code)
		}
		err, ok := e.(Error)
		if !ok {
			t.Fatalf("TestSolveHandlerErrors case %d: non-Error return: %v", i+1, e)
		}
		if err.Scope != tc.scope {
			t.Errorf("TestSolveHandlerErrors case %d: scope %v (expected %v)", i+1, err.Scope, tc.scope)
		}
		var wire Error
		if e := json.Unmarshal(w.Body.Bytes(), &wire); e != nil {
			t.Fatalf("TestSolveHandlerErrors case %d: bad error body: %v", i+1, e)
		}
		if wire.Message == "" {
			t.Errorf("TestSolveHandlerErrors case %d: error body has no message", i+1)
		}
	}
}

func TestSolveHandlerClientGone(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // the client is gone before the search starts
	// a solvable puzzle: if the handler ran the search anyway, the
	// response would come back solved
	body := fmt.Sprintf(`{"puzzle":%q}`, classicClues)
	r := httptest.NewRequest("POST", "/api/solve", strings.NewReader(body)).WithContext(ctx)
	w := httptest.NewRecorder()
	resp, e := SolveHandler(w, r)
	if e != nil {
		t.Fatalf("SolveHandler returned error: %v", e)
	}
	if resp.Solved || resp.Solution != "" {
		t.Errorf("SolveHandler searched for a departed client: %+v", resp)
	}
	if !resp.Cancelled {
		t.Errorf("SolveHandler did not report cancellation: %+v", resp)
	}
	if w.Code != http.StatusOK {
		t.Errorf("SolveHandler status %d", w.Code)
	}
}

/*

Validate handler

*/

func TestValidateHandler(t *testing.T) {
	body := fmt.Sprintf(`{"puzzle":%q}`, oneStarClues)
	r := httptest.NewRequest("POST", "/api/validate", strings.NewReader(body))
	w := httptest.NewRecorder()
	resp, e := ValidateHandler(w, r)
	if e != nil {
		t.Fatalf("ValidateHandler returned error: %v", e)
	}
	if w.Code != http.StatusOK {
		t.Fatalf("ValidateHandler status %d", w.Code)
	}
	if !resp.Valid || resp.ID != PuzzleID(oneStarClues) || resp.Reason != nil {
		t.Errorf("ValidateHandler result: %+v", resp)
	}
}

func TestValidateHandlerInvalid(t *testing.T) {
	body := fmt.Sprintf(`{"puzzle":%q}`, "11"+strings.Repeat(".", 79))
	r := httptest.NewRequest("POST", "/api/validate", strings.NewReader(body))
	w := httptest.NewRecorder()
	resp, e := ValidateHandler(w, r)
	if e != nil {
		t.Fatalf("ValidateHandler returned error: %v", e)
	}
	if w.Code != http.StatusOK {
		t.Fatalf("ValidateHandler status %d", w.Code)
	}
	if resp.Valid || resp.Reason == nil {
		t.Fatalf("ValidateHandler result: %+v", resp)
	}
	if resp.Reason.Scope != ConflictScope || resp.Reason.Unit != (GroupID{GtypeRow, 0}) {
		t.Errorf("ValidateHandler reason: %+v", resp.Reason)
	}
}

func TestValidateHandlerBadBody(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/validate", strings.NewReader("not json"))
	w := httptest.NewRecorder()
	resp, e := ValidateHandler(w, r)
	if resp != nil || e == nil {
		t.Fatalf("ValidateHandler accepted a bad body: %+v, %v", resp, e)
	}
	if w.Code != http.StatusBadRequest {
		t.Errorf("ValidateHandler status %d", w.Code)
	}
}
