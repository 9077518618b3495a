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

// Package bank manages collections of ready-to-solve puzzles.  A
// Bank is an ordered, difficulty-labelled list of puzzle encodings
// with a selection cursor; callers navigate it, pick puzzles at
// random, and import their own puzzles into it.  Every entry in a
// Bank is guaranteed to load cleanly; raw puzzle lists are filtered
// on their way in.
//
// Banks do their own bookkeeping only: nothing here is safe for
// concurrent mutation, and solving stays in the puzzle package.
package bank

import (
	"fmt"
	"log"
	"math/rand"
	"strings"

	"github.com/sudobit/sudobit/puzzle"
)

// An Entry is one puzzle of a bank: its difficulty label and its
// 81-character encoding.
type Entry struct {
	Difficulty string `json:"difficulty" yaml:"difficulty"`
	Clues      string `json:"clues" yaml:"clues"`
}

// ID returns the entry's puzzle identity.
func (e Entry) ID() string {
	return puzzle.PuzzleID(e.Clues)
}

// A Section is a raw difficulty-labelled puzzle list, the form banks
// are built from and stored in.
type Section struct {
	Difficulty string   `yaml:"difficulty"`
	Puzzles    []string `yaml:"puzzles"`
}

// A Bank holds an ordered list of entries and the index of the
// currently selected one.
type Bank struct {
	entries []Entry
	current int
}

// fallbackEntry is what a bank holds when every raw puzzle was
// rejected: the empty board, which any solver can fill.
var fallbackEntry = Entry{
	Difficulty: "Easy",
	Clues:      strings.Repeat(".", puzzle.CellCount),
}

// Sanitize builds a Bank from raw sections, keeping only the
// puzzles that load cleanly and logging each rejection.  A bank is
// never empty: if nothing survives, it holds the single fallback
// entry of an empty board.
func Sanitize(sections []Section) *Bank {
	b := &Bank{}
	eng := puzzle.New()
	for _, sec := range sections {
		for _, clues := range sec.Puzzles {
			if e := eng.Load(clues); e != nil {
				log.Printf("Dropping %s puzzle %q: %v", sec.Difficulty, clues, e)
				continue
			}
			b.entries = append(b.entries, Entry{sec.Difficulty, clues})
		}
	}
	if len(b.entries) == 0 {
		log.Printf("No usable puzzles; falling back to the empty board")
		b.entries = []Entry{fallbackEntry}
	}
	return b
}

// Default returns a bank of the built-in puzzles.
func Default() *Bank {
	return Sanitize(defaultSections)
}

// Len returns the number of entries in the bank.
func (b *Bank) Len() int {
	return len(b.entries)
}

// Entries returns a copy of the bank's entry list.
func (b *Bank) Entries() []Entry {
	es := make([]Entry, len(b.entries))
	copy(es, b.entries)
	return es
}

// Current returns the selected entry.
func (b *Bank) Current() Entry {
	return b.entries[b.current]
}

// CurrentIndex returns the index of the selected entry.  Entries
// can repeat (the same puzzle imported twice), so the index is the
// only way to tell which occurrence is selected.
func (b *Bank) CurrentIndex() int {
	return b.current
}

// Next advances the selection, wrapping from the last entry to the
// first, and returns the newly selected entry.
func (b *Bank) Next() Entry {
	b.current = (b.current + 1) % len(b.entries)
	return b.entries[b.current]
}

// Prev moves the selection back, wrapping from the first entry to
// the last, and returns the newly selected entry.
func (b *Bank) Prev() Entry {
	b.current = (b.current + len(b.entries) - 1) % len(b.entries)
	return b.entries[b.current]
}

// Random selects an entry at random and returns it.
func (b *Bank) Random() Entry {
	b.current = rand.Intn(len(b.entries))
	return b.entries[b.current]
}

// Select makes the entry at the given index current.  Unlike Next
// and Prev, an out-of-range index does not wrap; it's rejected.
func (b *Bank) Select(i int) (Entry, error) {
	if i < 0 || i >= len(b.entries) {
		return Entry{}, fmt.Errorf("no entry %d: bank has %d entries", i, len(b.entries))
	}
	b.current = i
	return b.entries[i], nil
}

// Import validates the given puzzle and appends it to the bank as
// the selected entry.  The puzzle must not just load, it must have a
// solution; an unsolvable puzzle would be a dead end for whoever
// selects it later.  An empty difficulty defaults to "Imported".
func (b *Bank) Import(difficulty, clues string) (Entry, error) {
	eng := puzzle.New()
	if e := eng.Load(clues); e != nil {
		return Entry{}, e
	}
	if !eng.Solve() {
		return Entry{}, fmt.Errorf("puzzle has no solution")
	}
	if difficulty == "" {
		difficulty = "Imported"
	}
	entry := Entry{difficulty, clues}
	b.entries = append(b.entries, entry)
	b.current = len(b.entries) - 1
	return entry, nil
}
