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

// Command-line console for the sudobit solver
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"

	"github.com/sudobit/sudobit/bank"
	"github.com/sudobit/sudobit/puzzle"
)

func main() {
	// load the puzzle bank, built-in or from SUDOBIT_BANK
	b, err := bank.FromEnvironment()
	if err != nil {
		log.Printf("Couldn't load puzzle bank: %v", err)
		shutdown(startupFailureShutdown)
	}
	puzzles = b

	// start on the bank's first puzzle
	if e := eng.Load(puzzles.Current().Clues); e != nil {
		log.Printf("Couldn't load starting puzzle: %v", e)
		shutdown(startupFailureShutdown)
	}

	// catch signals
	shutdownOnSignal()

	// serve
	err = listener(os.Stdout, os.Stdin)
	if err != nil {
		log.Printf("CLI failure: %v", err)
		shutdown(listenerFailureShutdown)
	}
	shutdown(unknownShutdown)
}

/*

CLI listener

*/

type request struct {
	inline  string
	command string
	args    []string
}

// listener reads lines and dispatches them to handlers
func listener(out io.Writer, in io.Reader) error {
	// if we are on a terminal, we do prompting
	// (see http://stackoverflow.com/questions/22744443/ for source)
	prompt := false
	if f, ok := out.(*os.File); ok {
		if stat, _ := f.Stat(); (stat.Mode() & os.ModeCharDevice) != 0 {
			prompt = true
		}
	}

	input := make([]byte, 4096)
	for {
		if prompt {
			fmt.Fprintf(out, "sudobit> ")
		}
		n, err := in.Read(input)
		switch err {
		case nil:
			r := &request{inline: strings.Trim(string(input[:n]), " \t\r\n")}
			args := strings.Split(r.inline, " ")
			r.command = strings.ToLower(args[0])
			switch r.command {
			case "":
				continue
			case "quit":
				fallthrough
			case "exit":
				return nil
			}
			for _, arg := range args[1:] {
				if len(arg) > 0 {
					r.args = append(r.args, arg)
				}
			}
			dispatchCommand(out, r)
		case io.EOF:
			// ignore any input before the EOF
			if prompt {
				fmt.Fprintf(out, " (EOF)\n")
			}
			return nil
		default:
			if prompt {
				fmt.Fprintf(out, " (read error)\n")
			}
			return err
		}
	}
}

// command dispatching
type commandInfo struct {
	command     string
	argInfo     string
	description string
	handler     func(io.Writer, *request)
}

// the command dispatch info is sorted for easy usage printing,
// and then hashed for rapid dispatching
var (
	dispatchInfo  []commandInfo
	dispatchTable map[string]*commandInfo
)

func init() {
	dispatchInfo = []commandInfo{
		{"bank", "", "list the puzzles in the bank", bankHandler},
		{"cancel", "", "stop the running solve", cancelHandler},
		{"help", "", "show this command summary", helpHandler},
		{"import", "puzzle [difficulty]", "add a puzzle to the bank", importHandler},
		{"load", "puzzle|bank-index", "load a puzzle to work on", loadHandler},
		{"next", "", "move to the next bank puzzle", nextHandler},
		{"prev", "", "move to the previous bank puzzle", prevHandler},
		{"random", "", "move to a random bank puzzle", randomHandler},
		{"save", "path", "write the bank to a file", saveHandler},
		{"show", "", "show the working puzzle", showHandler},
		{"solve", "", "solve the working puzzle", solveHandler},
	}
	dispatchTable = make(map[string]*commandInfo, len(dispatchInfo))
	for i := range dispatchInfo {
		dispatchTable[dispatchInfo[i].command] = &dispatchInfo[i]
	}
}

func dispatchCommand(w io.Writer, r *request) {
	defer func() {
		if err := recover(); err != nil {
			errorHandler(err, w, r)
		}
	}()

	ci := dispatchTable[r.command]
	if ci == nil {
		usageHandler(fmt.Sprintf("%q is not a known command", r.command), w, r)
	} else {
		ci.handler(w, r)
	}
}

/*

request handlers

*/

// console state.  The engine belongs to the console goroutine
// except while a solve is running; then the solver goroutine owns
// it and the console only gets to request cancellation.
var (
	eng     = puzzle.New()
	puzzles *bank.Bank
	solveMu sync.Mutex
	solving bool
)

// startSolve marks the engine busy.  Reports whether the caller
// got the engine; false means a solve already owns it.
func startSolve() bool {
	solveMu.Lock()
	defer solveMu.Unlock()
	if solving {
		return false
	}
	solving = true
	return true
}

// endSolve releases the engine.
func endSolve() {
	solveMu.Lock()
	defer solveMu.Unlock()
	solving = false
}

// engineBusy reports whether a solve is running.
func engineBusy() bool {
	solveMu.Lock()
	defer solveMu.Unlock()
	return solving
}

func showHandler(w io.Writer, r *request) {
	if engineBusy() {
		fmt.Fprintf(w, "A solve is running; cancel it or wait for it to finish.\n")
		return
	}
	entry := puzzles.Current()
	fmt.Fprintf(w, "Working puzzle (%s, bank %s):\n%v", entry.Difficulty, entry.ID()[:8], eng)
}

func loadHandler(w io.Writer, r *request) {
	if engineBusy() {
		fmt.Fprintf(w, "A solve is running; cancel it or wait for it to finish.\n")
		return
	}
	if len(r.args) != 1 {
		usageHandler(fmt.Sprintf("%s requires one argument", r.command), w, r)
		return
	}
	clues := r.args[0]
	// a small number selects from the bank instead
	if i, err := strconv.Atoi(clues); err == nil {
		entry, err := puzzles.Select(i)
		if err != nil {
			fmt.Fprintf(w, "Load failed: %v\n", err)
			return
		}
		clues = entry.Clues
	}
	if e := eng.Load(clues); e != nil {
		fmt.Fprintf(w, "Load failed: %v\n", e)
		return
	}
	fmt.Fprintf(w, "Loaded:\n%v", eng)
}

func solveHandler(w io.Writer, r *request) {
	if !startSolve() {
		fmt.Fprintf(w, "A solve is already running; 'cancel' stops it.\n")
		return
	}
	go func() {
		defer endSolve()
		if eng.Solve() {
			fmt.Fprintf(w, "Solved:\n%v", eng)
		} else if eng.Cancelled() {
			fmt.Fprintf(w, "Solve cancelled; 'load' the puzzle again before reuse.\n")
		} else {
			fmt.Fprintf(w, "Puzzle has no solution.\n")
		}
	}()
}

func cancelHandler(w io.Writer, r *request) {
	if !engineBusy() {
		fmt.Fprintf(w, "No solve is running.\n")
		return
	}
	eng.Cancel()
	fmt.Fprintf(w, "Cancellation requested.\n")
}

func bankHandler(w io.Writer, r *request) {
	for i, entry := range puzzles.Entries() {
		marker := " "
		// compare positions, not entries; the same puzzle can be
		// imported more than once
		if i == puzzles.CurrentIndex() {
			marker = "*"
		}
		fmt.Fprintf(w, "%s %3d  %-8s  %s\n", marker, i, entry.Difficulty, entry.Clues)
	}
}

func nextHandler(w io.Writer, r *request) {
	selectEntry(w, puzzles.Next())
}

func prevHandler(w io.Writer, r *request) {
	selectEntry(w, puzzles.Prev())
}

func randomHandler(w io.Writer, r *request) {
	selectEntry(w, puzzles.Random())
}

// selectEntry loads a freshly selected bank entry into the engine.
func selectEntry(w io.Writer, entry bank.Entry) {
	if engineBusy() {
		fmt.Fprintf(w, "A solve is running; cancel it or wait for it to finish.\n")
		return
	}
	if e := eng.Load(entry.Clues); e != nil {
		// bank entries are sanitized, so this is a program defect
		panic(e)
	}
	fmt.Fprintf(w, "Selected %s puzzle:\n%v", entry.Difficulty, eng)
}

func importHandler(w io.Writer, r *request) {
	if len(r.args) < 1 || len(r.args) > 2 {
		usageHandler(fmt.Sprintf("%s requires one or two arguments", r.command), w, r)
		return
	}
	difficulty := ""
	if len(r.args) == 2 {
		difficulty = r.args[1]
	}
	entry, err := puzzles.Import(difficulty, r.args[0])
	if err != nil {
		fmt.Fprintf(w, "Import failed: %v\n", err)
		return
	}
	fmt.Fprintf(w, "Imported %s puzzle %s.\n", entry.Difficulty, entry.ID()[:8])
}

func saveHandler(w io.Writer, r *request) {
	if len(r.args) != 1 {
		usageHandler(fmt.Sprintf("%s requires one argument", r.command), w, r)
		return
	}
	if err := puzzles.SaveFile(r.args[0]); err != nil {
		fmt.Fprintf(w, "Save failed: %v\n", err)
		return
	}
	fmt.Fprintf(w, "Saved %d puzzles to %s.\n", puzzles.Len(), r.args[0])
}

func helpHandler(w io.Writer, r *request) {
	fmt.Fprintf(w, "Commands:\n")
	for _, ci := range dispatchInfo {
		fmt.Fprintf(w, "    %8s %-19s\t%s\n", ci.command, ci.argInfo, ci.description)
	}
	fmt.Fprintf(w, "  and 'quit' or EOF to exit.\n")
}

func usageHandler(msg string, w io.Writer, r *request) {
	fmt.Fprintf(w, "Error: %s\nUsage:\n", msg)
	for _, ci := range dispatchInfo {
		fmt.Fprintf(w, "    %8s %-19s\t%s\n", ci.command, ci.argInfo, ci.description)
	}
	fmt.Fprintf(w, "  and 'quit' or EOF to exit.\n")
}

func errorHandler(err interface{}, w io.Writer, r *request) {
	fmt.Fprintf(w, "Panic executing %q: %v\n", r.inline, err)
	log.Printf("Console error executing %q: %v\n", r.inline, err)
}

/*

coordinate shutdown across goroutines

*/

type shutdownCause int

const (
	unknownShutdown = iota
	startupFailureShutdown
	caughtSignalShutdown
	listenerFailureShutdown
)

// shutdown: process exit with logging.
func shutdown(reason shutdownCause) {
	// stop any running solve before going down
	eng.Cancel()

	switch reason {
	case unknownShutdown:
		log.Print("Exiting: normal shutdown.")
		os.Exit(0)
	case startupFailureShutdown:
		log.Fatal("Exiting: initialization failure.")
	case caughtSignalShutdown:
		log.Fatal("Exiting: caught signal.")
	case listenerFailureShutdown:
		log.Fatal("Exiting: console failed.")
	default:
		log.Fatal("Exiting: unknown cause.")
	}
}

// shutdownOnSignal: catch signals and exit.
func shutdownOnSignal() {
	// based on example in os.signal godoc
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt)

	go func() {
		s := <-c
		log.Printf("Received OS-level signal: %v", s)
		shutdown(caughtSignalShutdown)
	}()
}
