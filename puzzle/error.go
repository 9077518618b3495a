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
	"fmt"
)

/*

Errors

*/

// An Error describes why a puzzle encoding was rejected or why an
// internal operation failed.  It can produce an error message in
// English, but its main function is to support localized error
// messaging by clients: it tells the client "this thing failed to
// meet this condition" and provides supplemental details about the
// thing and the condition.
type Error struct {
	Scope     ErrorScope     `json:"scope"`
	Condition ErrorCondition `json:"condition,omitempty"`
	Unit      GroupID        `json:"unit"`
	Values    ErrorData      `json:"values,omitempty"`
	Message   string         `json:"message,omitempty"` // custom message
}

// An ErrorScope explains what type of thing the error is referring
// to.  Format errors are about the shape of a puzzle encoding,
// conflict errors are about the digits it contains, and internal
// errors are logic failures in this package itself.
type ErrorScope int

// Constants for the various error scopes.
const (
	UnknownScope ErrorScope = iota
	FormatScope
	ConflictScope
	InternalScope
	MaxScope
)

// The ErrorCondition is the predicate that the puzzle or operation
// failed to satisfy.  There are a few known, named predicates and
// then a "general" (arbitrary English string) predicate for runtime
// errors.
type ErrorCondition int

// Constants for the various error conditions.
const (
	UnknownCondition ErrorCondition = iota
	GeneralCondition
	WrongLengthCondition
	InvalidCharacterCondition
	DuplicateDigitCondition
	DigitRangeCondition
	IncompleteGridCondition
	MaxCondition
)

// The ErrorData provides details about the thing that failed to meet
// the predicate (such as the offending character) as well as the
// predicate itself (such as the required length).
//
// Every item in the slice of ErrorData is required to be
// JSON-serializable, so it can be returned to web clients.  Sadly,
// there is no good way to express this condition in a way the
// compiler can check it, so we just have to rely on implementors to
// "do the right thing" and check the condition at runtime.
type ErrorData []interface{}

// Return an error string from an Error.  If the Error has a
// pre-canned message, this will use it, otherwise it will produce an
// appropriate (English, non-localized) message.
func (e Error) Error() string {
	es := e.Message
	if len(es) > 0 {
		return es
	}
	values := e.Values
	nextVal := func() interface{} {
		if len(values) == 0 {
			return "<unknown>"
		}
		val := values[0]
		values = values[1:]
		return val
	}
	switch e.Scope {
	case FormatScope:
		es = "Malformed puzzle: "
	case ConflictScope:
		es = fmt.Sprintf("Conflict in %v: ", e.Unit)
	case InternalScope:
		es = "Internal logic error: "
	default:
		es = "Unknown error: "
	}
	switch e.Condition {
	case GeneralCondition:
		es += fmt.Sprint(nextVal())
	case WrongLengthCondition:
		es += fmt.Sprintf("Encoding must be %v characters long, not %v", nextVal(), nextVal())
	case InvalidCharacterCondition:
		es += fmt.Sprintf("Character %v at position %v must be a digit or '.'", nextVal(), nextVal())
	case DuplicateDigitCondition:
		es += fmt.Sprintf("Digit %v appears more than once", nextVal())
	case DigitRangeCondition:
		es += fmt.Sprintf("Value %v must be empty or in 1 through 9", nextVal())
	case IncompleteGridCondition:
		es += fmt.Sprintf("Search reached a full board with cell %v still empty", nextVal())
	default:
		es += fmt.Sprintf("Supplemental data is %v", values)
	}
	return es
}
