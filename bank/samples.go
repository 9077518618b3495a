// sudobit - a Sudoku constraint solver and puzzle service.
// Licensed under the GPL v2.

package bank

// The built-in puzzle collection.  Difficulty labels are coarse:
// the Hard section holds puzzles that force real backtracking, up
// to Inkala's "world's hardest" grid.
var defaultSections = []Section{
	{
		Difficulty: "Easy",
		Puzzles: []string{
			"53..7....6..195....98....6.8...6...34..8.3..17...2...6.6....28....419..5....8..79",
			"..3.2.6..9..3.5..1..18.64....81.29..7.......8..67.82....26.95..8..2.3..9..5.1.3..",
			"2...8.3...6..7..84.3.5..2.9...1.54.8.........4.27.6...3.1..7.4.72..4..6...4.1...3",
			"4....35.2..95.634.........8....3486...46.52...2879....9.........873.29..5.29....6",
			".1.5.6.2......3.18....7...6..5....3...8.9.7...6....4..5...4....64.2......3.9.1.8.",
		},
	},
	{
		Difficulty: "Medium",
		Puzzles: []string{
			"1....7.9..3..2...8..96..5....53..9...1..8...26....4...3......1..4......7..7...3..",
			"9..45...8.2..........1724...79...68.2.......5.43...27...8325..........6.4...16..3",
			"948.5.2....78.3..1.5..7.....7....3..2..6.5..4..5....9.....6..1.3..5.97....6.1.423",
		},
	},
	{
		Difficulty: "Hard",
		Puzzles: []string{
			"8..........36......7..9.2...5...7.......457.....1...3...1....68..85...1..9....4..",
			".........9..5.7.3....1..6.7.4..6..8267.....1338..1..9.7.5..8....2.3.9..8.........",
			"2..8...5..85.......3675...1..3.4..98...3.5...41..6.7..5....712.......56..2......4",
		},
	},
}
