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

package bank

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

/*

Bank files

*/

// bankEnvVar names an environment variable that, when set, points
// every FromEnvironment caller at a bank file instead of the
// built-in puzzles.
const bankEnvVar = "SUDOBIT_BANK"

// LoadFile reads a bank from a YAML file of difficulty sections:
//
//	- difficulty: Easy
//	  puzzles:
//	    - "53..7....6..195....98....6.8..."
//
// The file's puzzles go through the same filtering as any other raw
// sections, so a bank file with some bad entries still yields a
// usable bank; only reading or parsing failures are errors.
func LoadFile(path string) (*Bank, error) {
	raw, e := os.ReadFile(path)
	if e != nil {
		return nil, fmt.Errorf("reading bank file: %v", e)
	}
	var sections []Section
	if e := yaml.Unmarshal(raw, &sections); e != nil {
		return nil, fmt.Errorf("parsing bank file %s: %v", path, e)
	}
	return Sanitize(sections), nil
}

// SaveFile writes the bank back out as a YAML bank file, one
// section per difficulty in first-seen order.
func (b *Bank) SaveFile(path string) error {
	var sections []Section
	index := make(map[string]int)
	for _, entry := range b.entries {
		i, ok := index[entry.Difficulty]
		if !ok {
			i = len(sections)
			index[entry.Difficulty] = i
			sections = append(sections, Section{Difficulty: entry.Difficulty})
		}
		sections[i].Puzzles = append(sections[i].Puzzles, entry.Clues)
	}
	raw, e := yaml.Marshal(sections)
	if e != nil {
		return fmt.Errorf("encoding bank file: %v", e)
	}
	if e := os.WriteFile(path, raw, 0644); e != nil {
		return fmt.Errorf("writing bank file: %v", e)
	}
	return nil
}

// FromEnvironment returns the bank named by SUDOBIT_BANK, or the
// built-in bank when the variable is unset.
func FromEnvironment() (*Bank, error) {
	if path := os.Getenv(bankEnvVar); path != "" {
		return LoadFile(path)
	}
	return Default(), nil
}
