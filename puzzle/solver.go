package puzzle

import (
	"math/bits"
)

/*

Solver

*/

// Solve searches for an assignment of the board's empty cells that
// satisfies every row, column, and box constraint.  It returns true
// and leaves the solution on the board if one exists; it returns
// false if the puzzle is infeasible or the search was cancelled,
// and Cancelled tells the two apart.  Any pending cancellation
// request is cleared before the search starts.
//
// A cancelled search stops unwinding wherever the flag was seen, so
// the board may hold a partial assignment afterwards; Load the
// puzzle again before reusing the engine.
func (e *Engine) Solve() bool {
	e.stop.Store(false)
	return e.search()
}

// search is the recursive heart of the solver.  Each call checks
// the cancellation flag once, picks the most constrained empty cell,
// and tries each of its candidate digits in ascending order,
// recursing after every placement and undoing it if the recursion
// fails.
func (e *Engine) search() bool {
	if e.stop.Load() {
		return false
	}
	row, col, set, found := e.selectCell()
	if !found {
		return true
	}
	if set == 0 {
		if e.complete() {
			// a full board cannot have an empty cell
			panic(Error{
				Scope:     InternalScope,
				Condition: IncompleteGridCondition,
				Values:    ErrorData{[]int{row, col}},
			})
		}
		return false
	}
	for rest := set; rest != 0; rest &= rest - 1 {
		v := bits.TrailingZeros16(rest) + 1
		e.place(row, col, v)
		if e.search() {
			return true
		}
		e.unplace(row, col, v)
	}
	return false
}

// selectCell picks the empty cell with the fewest candidate digits,
// returning its coordinates and candidate mask.  It gives up the
// scan early when it sees a cell with no candidates (the branch is
// dead either way) or exactly one (no other cell can beat it, and
// filling forced cells first keeps the search tree narrow).  found
// is false when the board has no empty cell left.
func (e *Engine) selectCell() (row, col int, set uint16, found bool) {
	best := SideLength + 1
	for r := 0; r < SideLength; r++ {
		for c := 0; c < SideLength; c++ {
			if e.grid[r][c] != EmptyCell {
				continue
			}
			cset := e.candidates(r, c)
			n := bits.OnesCount16(cset)
			if n <= 1 {
				return r, c, cset, true
			}
			if n < best {
				row, col, set, found = r, c, cset, true
				best = n
			}
		}
	}
	return row, col, set, found
}

// complete reports whether every digit is placed in every row,
// which on a well-formed board means all 81 cells are filled.
func (e *Engine) complete() bool {
	for _, m := range e.rows {
		if m != allDigits {
			return false
		}
	}
	return true
}
