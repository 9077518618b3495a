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

package main

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sudobit/sudobit/bank"
	"github.com/sudobit/sudobit/puzzle"
)

type tLogger struct {
	t   *testing.T
	log bytes.Buffer
}

func (t *tLogger) Write(p []byte) (n int, e error) {
	n, e = t.log.Write(p)
	t.t.Log(string(p[:n-1]))
	return
}

// lineReader feeds the listener one line per Read, the way an
// interactive terminal does.  A whole script in one bytes.Buffer
// would arrive in a single Read and be parsed as one command.
type lineReader struct {
	lines []string
}

func (lr *lineReader) Read(p []byte) (int, error) {
	if len(lr.lines) == 0 {
		return 0, io.EOF
	}
	n := copy(p, lr.lines[0]+"\n")
	lr.lines = lr.lines[1:]
	return n, nil
}

func script(lines ...string) *lineReader {
	return &lineReader{lines: lines}
}

// testSetup resets the console state: the built-in bank, a fresh
// engine loaded with the bank's first puzzle.
func testSetup(t *testing.T) {
	tlog := &tLogger{t: t}
	if !testing.Short() {
		log.SetOutput(tlog)
	} else {
		log.SetOutput(os.Stderr)
	}
	puzzles = bank.Default()
	eng = puzzle.New()
	if e := eng.Load(puzzles.Current().Clues); e != nil {
		t.Fatalf("Couldn't load starting puzzle: %v", e)
	}
}

// waitIdle waits for a background solve to finish.
func waitIdle(t *testing.T) {
	deadline := time.Now().Add(5 * time.Second)
	for engineBusy() {
		if time.Now().After(deadline) {
			t.Fatalf("Solve still running after 5s")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestNullInput(t *testing.T) {
	testSetup(t)

	null := new(bytes.Buffer)
	err := listener(os.Stdout, null)
	if err != nil {
		t.Fatalf("CLI failure: %v", err)
	}
}

func TestQuit(t *testing.T) {
	testSetup(t)

	out := new(bytes.Buffer)
	err := listener(out, script("quit"))
	if err != nil {
		t.Fatalf("CLI failure: %v", err)
	}
	if out.String() != "" {
		t.Errorf("Quit produced output %q", out.String())
	}
}

func TestUnknownCommand(t *testing.T) {
	testSetup(t)

	out := new(bytes.Buffer)
	err := listener(out, script("bogus"))
	if err != nil {
		t.Fatalf("CLI failure: %v", err)
	}
	expected := "Error: \"bogus\" is not a known command\nUsage:\n"
	if result := out.String(); !strings.HasPrefix(result, expected) {
		t.Errorf("Got %q, expected a %q prefix", result, expected)
	}
}

func TestShow(t *testing.T) {
	testSetup(t)

	out := new(bytes.Buffer)
	err := listener(out, script("show"))
	if err != nil {
		t.Fatalf("CLI failure: %v", err)
	}
	entry := puzzles.Current()
	expected := fmt.Sprintf("Working puzzle (%s, bank %s):\n%v",
		entry.Difficulty, entry.ID()[:8], eng)
	if result := out.String(); result != expected {
		t.Errorf("Got %q, expected %q", result, expected)
	}
}

func TestLoadErrors(t *testing.T) {
	testSetup(t)

	out := new(bytes.Buffer)
	err := listener(out, script("load", "load 999", "load short"))
	if err != nil {
		t.Fatalf("CLI failure: %v", err)
	}
	result := out.String()
	for i, expected := range []string{
		"Error: load requires one argument",
		fmt.Sprintf("Load failed: no entry 999: bank has %d entries", puzzles.Len()),
		"Load failed:",
	} {
		if !strings.Contains(result, expected) {
			t.Errorf("case %d: output %q is missing %q", i, result, expected)
		}
	}
}

func TestLoadBankIndex(t *testing.T) {
	testSetup(t)

	out := new(bytes.Buffer)
	err := listener(out, script("load 1"))
	if err != nil {
		t.Fatalf("CLI failure: %v", err)
	}
	check := puzzle.New()
	if e := check.Load(puzzles.Entries()[1].Clues); e != nil {
		t.Fatalf("Couldn't load bank entry 1: %v", e)
	}
	expected := fmt.Sprintf("Loaded:\n%v", check)
	if result := out.String(); result != expected {
		t.Errorf("Got %q, expected %q", result, expected)
	}
	if puzzles.CurrentIndex() != 1 {
		t.Errorf("Load by index selected entry %d", puzzles.CurrentIndex())
	}
}

func TestNavigation(t *testing.T) {
	testSetup(t)

	out := new(bytes.Buffer)
	err := listener(out, script("next", "prev"))
	if err != nil {
		t.Fatalf("CLI failure: %v", err)
	}
	if puzzles.CurrentIndex() != 0 {
		t.Errorf("Next then prev landed on entry %d", puzzles.CurrentIndex())
	}
	if result := out.String(); strings.Count(result, "Selected") != 2 {
		t.Errorf("Got %q, expected two selections", result)
	}
}

func TestSolve(t *testing.T) {
	testSetup(t)

	out := new(bytes.Buffer)
	err := listener(out, script("solve"))
	if err != nil {
		t.Fatalf("CLI failure: %v", err)
	}
	waitIdle(t)
	if result := out.String(); !strings.HasPrefix(result, "Solved:\n") {
		t.Errorf("Got %q, expected a solved grid", result)
	}
}

func TestCancelIdle(t *testing.T) {
	testSetup(t)

	out := new(bytes.Buffer)
	err := listener(out, script("cancel"))
	if err != nil {
		t.Fatalf("CLI failure: %v", err)
	}
	expected := "No solve is running.\n"
	if result := out.String(); result != expected {
		t.Errorf("Got %q, expected %q", result, expected)
	}
}

// While a solve owns the engine, the console refuses to touch it:
// loads and shows are turned away, a second solve is refused, and
// cancel goes through.
func TestBusyEngine(t *testing.T) {
	testSetup(t)

	if !startSolve() {
		t.Fatalf("Couldn't mark the engine busy")
	}
	defer endSolve()

	out := new(bytes.Buffer)
	err := listener(out, script("show", "load 1", "solve", "cancel"))
	if err != nil {
		t.Fatalf("CLI failure: %v", err)
	}
	expected := "A solve is running; cancel it or wait for it to finish.\n" +
		"A solve is running; cancel it or wait for it to finish.\n" +
		"A solve is already running; 'cancel' stops it.\n" +
		"Cancellation requested.\n"
	if result := out.String(); result != expected {
		t.Errorf("Got %q, expected %q", result, expected)
	}
}

func TestImport(t *testing.T) {
	testSetup(t)

	clues := puzzles.Entries()[0].Clues
	out := new(bytes.Buffer)
	err := listener(out, script("import", "import "+clues+" Tricky", "import "+strings.Repeat("x", 81)))
	if err != nil {
		t.Fatalf("CLI failure: %v", err)
	}
	result := out.String()
	for i, expected := range []string{
		"Error: import requires one or two arguments",
		fmt.Sprintf("Imported Tricky puzzle %s.", puzzle.PuzzleID(clues)[:8]),
		"Import failed:",
	} {
		if !strings.Contains(result, expected) {
			t.Errorf("case %d: output %q is missing %q", i, result, expected)
		}
	}
	if puzzles.CurrentIndex() != puzzles.Len()-1 {
		t.Errorf("Import selected entry %d of %d", puzzles.CurrentIndex(), puzzles.Len())
	}
}

// The bank listing marks the selected position.  A puzzle imported
// twice appears twice; only the selected occurrence gets the marker.
func TestBankMarker(t *testing.T) {
	testSetup(t)

	clues := puzzles.Entries()[0].Clues
	out := new(bytes.Buffer)
	err := listener(out, script("import "+clues, "import "+clues, "bank"))
	if err != nil {
		t.Fatalf("CLI failure: %v", err)
	}
	marked := []int{}
	for _, line := range strings.Split(out.String(), "\n") {
		if strings.HasPrefix(line, "*") {
			var i int
			if _, err := fmt.Sscanf(line, "* %d", &i); err != nil {
				t.Fatalf("Unparseable bank line %q", line)
			}
			marked = append(marked, i)
		}
	}
	if len(marked) != 1 || marked[0] != puzzles.Len()-1 {
		t.Errorf("Marked entries are %v, expected only %d", marked, puzzles.Len()-1)
	}
}

func TestSave(t *testing.T) {
	testSetup(t)

	path := filepath.Join(t.TempDir(), "bank.yaml")
	out := new(bytes.Buffer)
	err := listener(out, script("save "+path))
	if err != nil {
		t.Fatalf("CLI failure: %v", err)
	}
	expected := fmt.Sprintf("Saved %d puzzles to %s.\n", puzzles.Len(), path)
	if result := out.String(); result != expected {
		t.Errorf("Got %q, expected %q", result, expected)
	}
	saved, err := bank.LoadFile(path)
	if err != nil {
		t.Fatalf("Couldn't reload the saved bank: %v", err)
	}
	if saved.Len() != puzzles.Len() {
		t.Errorf("Saved bank has %d entries (expected %d)", saved.Len(), puzzles.Len())
	}
}

func TestHelp(t *testing.T) {
	testSetup(t)

	out := new(bytes.Buffer)
	err := listener(out, script("help"))
	if err != nil {
		t.Fatalf("CLI failure: %v", err)
	}
	result := out.String()
	if !strings.HasPrefix(result, "Commands:\n") {
		t.Errorf("Got %q, expected a command summary", result)
	}
	for _, ci := range dispatchInfo {
		if !strings.Contains(result, ci.command) {
			t.Errorf("Help output is missing %q", ci.command)
		}
	}
}
