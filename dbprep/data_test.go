// sudobit - a Sudoku constraint solver and puzzle service.
// Licensed under the GPL v2.

package dbprep

import (
	"strings"
	"testing"

	"github.com/sudobit/sudobit/puzzle"
)

// make sure the generated sample data meets its invariants; this
// needs no live services, but TestMain gates it with the rest.
func TestSampleData(t *testing.T) {
	if len(sampleEntries) == 0 {
		t.Fatalf("No sample puzzles")
	}
	for i, id := range sampleIds {
		if id != strings.ToUpper(id) {
			t.Errorf("Id %d (%s) contains a non-uppercase letter.", i, id)
		}
		if id != puzzle.PuzzleID(sampleEntries[i].Clues) {
			t.Errorf("Id %d doesn't match its clues.", i)
		}
	}
	eng := puzzle.New()
	for i, soln := range sampleSolns {
		if strings.ContainsAny(soln, ".0") {
			t.Errorf("Solution %d is incomplete: %q", i, soln)
		}
		if e := eng.Load(soln); e != nil {
			t.Errorf("Solution %d doesn't load: %v", i, e)
		}
	}
}

func TestDefaultPuzzleID(t *testing.T) {
	if DefaultPuzzleID() != sampleIds[0] {
		t.Errorf("Default puzzle is not the first sample")
	}
}
