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
	"encoding/hex"
	"strconv"
	"strings"

	"golang.org/x/crypto/blake2b"
)

/*

Puzzle input/output

*/

// Encode returns the board in the 81-character row-major encoding,
// with '.' for empty cells.  Loading the result reproduces the
// board.
func (e *Engine) Encode() string {
	var sb strings.Builder
	sb.Grow(CellCount)
	for r := 0; r < SideLength; r++ {
		for c := 0; c < SideLength; c++ {
			if v := e.grid[r][c]; v == EmptyCell {
				sb.WriteByte('.')
			} else {
				sb.WriteByte(byte('0' + v))
			}
		}
	}
	return sb.String()
}

// String renders the board as nine lines of cell values with ruled
// box boundaries, for logs and the console.
func (e *Engine) String() string {
	var sb strings.Builder
	for r := 0; r < SideLength; r++ {
		if r > 0 && r%BoxSide == 0 {
			sb.WriteString("------+-------+------\n")
		}
		for c := 0; c < SideLength; c++ {
			if c > 0 {
				if c%BoxSide == 0 {
					sb.WriteString(" | ")
				} else {
					sb.WriteString(" ")
				}
			}
			sb.WriteString(vstr(e.grid[r][c]))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// vstr gives the display form of one cell value.
func vstr(v int) string {
	if v == EmptyCell {
		return "."
	}
	return strconv.Itoa(v)
}

// PuzzleID returns the storage identity of a puzzle encoding: the
// uppercase hex of the BLAKE2b-256 digest of its normal form.
// Encodings that differ only in writing empties as '0' versus '.'
// get the same identity.
func PuzzleID(encoded string) string {
	norm := strings.Map(func(r rune) rune {
		if r == '0' {
			return '.'
		}
		return r
	}, encoded)
	sum := blake2b.Sum256([]byte(norm))
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}
