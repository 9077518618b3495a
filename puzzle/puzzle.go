// sudobit - a Sudoku constraint solver and puzzle service.
// Licensed under the GPL v2.

// Package puzzle implements a 9x9 Sudoku board and a backtracking
// solver over it.  A board is held by an Engine, which is loaded
// from the standard 81-character row-major encoding, solved in
// place, and read back out as a Grid snapshot.  Solving can be
// cancelled cooperatively from another goroutine.
//
// The Engine is the only stateful type in this package, and a single
// Engine is not safe for concurrent mutation: one goroutine loads
// and solves, while any number of others may request cancellation.
package puzzle

import (
	"fmt"
	"sync/atomic"
)

/*

Geometry

*/

// Dimensions of the board.  These are constants of the 9x9 game;
// nothing in this package generalizes to other board sizes.
const (
	// SideLength is the number of cells on one side of the board.
	SideLength = 9
	// BoxSide is the number of cells on one side of a box.
	BoxSide = 3
	// CellCount is the total number of cells on the board.
	CellCount = SideLength * SideLength
	// EmptyCell is the value of a cell with no digit placed.
	EmptyCell = 0
	// allDigits is the occupancy mask with every digit present.
	allDigits uint16 = 1<<SideLength - 1
)

// Gtype strings for the three kinds of constraint unit.
const (
	GtypeRow    = "row"
	GtypeColumn = "column"
	GtypeBox    = "box"
)

// A GroupID identifies one constraint unit of the board: a row, a
// column, or a box.  Indexes are 0-based; rows run top to bottom,
// columns left to right, and boxes left to right then top to bottom.
type GroupID struct {
	Gtype string `json:"gtype"`
	Index int    `json:"index"`
}

func (g GroupID) String() string {
	return fmt.Sprintf("%s %d", g.Gtype, g.Index)
}

// boxOf gives the box index of a cell.
func boxOf(row, col int) int {
	return (row/BoxSide)*BoxSide + col/BoxSide
}

/*

Engine

*/

// A Grid is the cell values of a board in row-major order, 0 for an
// empty cell and 1 through 9 for a placed digit.  Grids are plain
// value types; assigning one copies it.
type Grid [SideLength][SideLength]int

// An Engine holds one board and the bookkeeping the solver needs:
// for each row, column, and box an occupancy mask whose bit v-1 is
// set exactly when digit v is placed somewhere in that unit.  The
// masks are maintained incrementally by placements and removals, so
// conflict checks and candidate derivation never rescan the grid.
type Engine struct {
	grid  Grid
	rows  [SideLength]uint16
	cols  [SideLength]uint16
	boxes [SideLength]uint16
	stop  atomic.Bool
}

// New returns an Engine holding an empty board.
func New() *Engine {
	return &Engine{}
}

// reset returns the engine to its freshly constructed state.
func (e *Engine) reset() {
	e.grid = Grid{}
	e.rows = [SideLength]uint16{}
	e.cols = [SideLength]uint16{}
	e.boxes = [SideLength]uint16{}
	e.stop.Store(false)
}

// place puts digit v in the given cell and marks it in the three
// unit masks.  The cell must be empty and the digit must not be
// present in any of the cell's units; callers check first.
func (e *Engine) place(row, col, v int) {
	if v < 1 || v > SideLength {
		panic(Error{
			Scope:     InternalScope,
			Condition: DigitRangeCondition,
			Values:    ErrorData{v},
		})
	}
	bit := uint16(1) << uint(v-1)
	e.grid[row][col] = v
	e.rows[row] |= bit
	e.cols[col] |= bit
	e.boxes[boxOf(row, col)] |= bit
}

// unplace removes digit v from the given cell, clearing it in the
// three unit masks.  It exactly undoes a prior place.
func (e *Engine) unplace(row, col, v int) {
	bit := uint16(1) << uint(v-1)
	e.grid[row][col] = EmptyCell
	e.rows[row] &^= bit
	e.cols[col] &^= bit
	e.boxes[boxOf(row, col)] &^= bit
}

// candidates gives the mask of digits that can legally go in the
// given empty cell: those absent from its row, column, and box.
func (e *Engine) candidates(row, col int) uint16 {
	used := e.rows[row] | e.cols[col] | e.boxes[boxOf(row, col)]
	return ^used & allDigits
}

// Load replaces the board with the puzzle in the given 81-character
// row-major encoding, where '1' through '9' are clues and '.' or '0'
// is an empty cell.  The encoding is checked in order for length,
// then for its character set, and then each clue is checked against
// the clues before it for a duplicate in its row, column, or box.
// On any failure Load returns an Error (FormatScope for the first
// two checks, ConflictScope naming the offending unit for the third)
// and leaves the engine in its freshly constructed state.
func (e *Engine) Load(encoded string) error {
	e.reset()
	if len(encoded) != CellCount {
		return Error{
			Scope:     FormatScope,
			Condition: WrongLengthCondition,
			Values:    ErrorData{CellCount, len(encoded)},
		}
	}
	for i := 0; i < CellCount; i++ {
		ch := encoded[i]
		if ch != '.' && (ch < '0' || ch > '9') {
			e.reset()
			return Error{
				Scope:     FormatScope,
				Condition: InvalidCharacterCondition,
				Values:    ErrorData{string(ch), i},
			}
		}
	}
	for i := 0; i < CellCount; i++ {
		ch := encoded[i]
		if ch == '.' || ch == '0' {
			continue
		}
		v := int(ch - '0')
		row, col := i/SideLength, i%SideLength
		bit := uint16(1) << uint(v-1)
		var unit GroupID
		switch {
		case e.rows[row]&bit != 0:
			unit = GroupID{GtypeRow, row}
		case e.cols[col]&bit != 0:
			unit = GroupID{GtypeColumn, col}
		case e.boxes[boxOf(row, col)]&bit != 0:
			unit = GroupID{GtypeBox, boxOf(row, col)}
		default:
			e.place(row, col, v)
			continue
		}
		e.reset()
		return Error{
			Scope:     ConflictScope,
			Condition: DuplicateDigitCondition,
			Unit:      unit,
			Values:    ErrorData{v},
		}
	}
	return nil
}

// Grid returns a snapshot of the board.  The snapshot is an
// independent copy; later solving does not change it.
func (e *Engine) Grid() Grid {
	return e.grid
}

// Cancel asks a running solve to stop at its next checkpoint.  It
// may be called from any goroutine, at any time, any number of
// times; calls when no solve is running have no effect, because
// Solve clears the flag before it starts searching.
func (e *Engine) Cancel() {
	e.stop.Store(true)
}

// Cancelled reports whether a cancellation request has been seen
// since the last Load or Solve began.  After Solve returns false,
// it distinguishes an abandoned search from a proven infeasibility.
func (e *Engine) Cancelled() bool {
	return e.stop.Load()
}
