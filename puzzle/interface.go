// Copyright 2015 Daniel C. Brotsky.  All rights reserved.

// Package puzzle models generalized Sudoku boards and solves
// them by exact cover.  It supports both a golang interface and
// a web interface to the boards and their solutions.
//
// Boards are squares of squares: a board of side length N (N a
// perfect square no smaller than 4) has N^2 squares, designated
// by indices that start at 1 and increase left-to-right,
// top-to-bottom (English reading order).  Each square is either
// empty (represented with a 0 value) or holds a value between 1
// and N inclusive.  The board divides into N non-overlapping
// blocks of side sqrt(N), and a solved board has each value
// exactly once in every row, every column, and every block.
//
// Solving treats the board as an exact cover problem.  Every
// (square, value) pair is a candidate placement, and every rule
// a finished board must obey is a constraint: each square
// filled, each value present in each row, each column, and each
// block.  A solution is a set of candidates that satisfies every
// constraint exactly once.  The solver maintains, for each
// unsatisfied constraint, the set of candidates that can still
// satisfy it; choosing a candidate removes its competitors and
// retires its constraints, and abandoning a choice restores them
// precisely.  Boards whose given values already violate a
// constraint are rejected when they are created; boards whose
// search space is exhausted without a solution simply produce no
// solutions, which is not an error.
//
// Solutions are enumerated lazily.  A Solver is a cursor over
// the solution sequence: each call to Next resumes the
// suspended search and returns the next solution, so callers pay
// only for the solutions they consume, and can abandon the
// enumeration at any point.
package puzzle

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

/*

Summaries

*/

// A Summary is the JSON-serializable description of a board:
// its side length and its values in reading order, with 0
// meaning empty.  Summaries are what clients submit to create
// puzzles, and what storage layers persist.
type Summary struct {
	SideLength int   `json:"sidelen"`
	Values     []int `json:"values"`
}

// Hash returns a hex-encoded content hash of the summary, for
// use as a persistent identifier: two summaries with the same
// side length and values always hash the same.  Errors mean the
// summary is malformed.
func (s *Summary) Hash() (string, error) {
	if s == nil || len(s.Values) == 0 {
		return "", Error{
			Scope:     ArgumentScope,
			Structure: AttributeStructure,
			Attribute: SummaryAttribute,
			Condition: InvalidArgumentCondition,
		}
	}
	if len(s.Values) != s.SideLength*s.SideLength {
		return "", Error{
			Scope:     ArgumentScope,
			Structure: AttributeValueStructure,
			Attribute: PuzzleSizeAttribute,
			Condition: WrongPuzzleSizeCondition,
			Values:    ErrorData{len(s.Values), s.SideLength},
		}
	}
	h := sha256.New()
	fmt.Fprintf(h, "%d:", s.SideLength)
	for _, v := range s.Values {
		fmt.Fprintf(h, "%d,", v)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

/*

Constraints

*/

// The kinds of constraint a board imposes.
const (
	CellKind   = "cell"
	RowKind    = "row"
	ColumnKind = "column"
	BlockKind  = "block"
)

// A ConstraintID names one constraint of a board: that a given
// square is filled (CellKind, Index is the square index), or
// that a given row, column, or block contains a given value
// (Index is the 1-based row, column, or block number, blocks
// counted in reading order).
type ConstraintID struct {
	Kind  string `json:"kind"`
	Index int    `json:"index"`
	Value int    `json:"value,omitempty"`
}

// String gives a readable form of a ConstraintID, as used in
// error messages.
func (cid ConstraintID) String() string {
	if cid.Kind == CellKind {
		return fmt.Sprintf("%s %d", cid.Kind, cid.Index)
	}
	return fmt.Sprintf("%s %d value %d", cid.Kind, cid.Index, cid.Value)
}

/*

Choices and solutions

*/

// A Choice is the assignment of a value to a square.
type Choice struct {
	Index int `json:"index"`
	Value int `json:"value"`
}

// A Solution is one complete, valid filling of a board: the full
// value grid in reading order, plus the choices the solver made
// to reach it (one per originally empty square, in the order
// they were made).  The given squares keep their given values in
// every solution.
type Solution struct {
	Values  []int    `json:"values"`
	Choices []Choice `json:"choices,omitempty"`
}

/*

Puzzles

*/

// A Puzzle is a compiled board: the cover geometry for its side
// length plus its given values, validated and ready to solve.
// Puzzles are immutable once created; solving never alters them,
// so one Puzzle can serve any number of concurrent solvers.
type Puzzle struct {
	mapping *coverMapping
	values  []int
}

// New creates a Puzzle from a summary.  The summary must have a
// supported side length, a value list of the right size, and
// values in range; boards whose given values conflict with one
// another are rejected with a board-scope error.
func New(summary *Summary) (*Puzzle, error) {
	if summary == nil || len(summary.Values) == 0 {
		return nil, Error{
			Scope:     ArgumentScope,
			Structure: AttributeStructure,
			Attribute: SummaryAttribute,
			Condition: InvalidArgumentCondition,
		}
	}
	mapping, err := coverMappingForSize(summary.SideLength)
	if err != nil {
		return nil, err
	}
	if len(summary.Values) != mapping.sidelen*mapping.sidelen {
		return nil, Error{
			Scope:     ArgumentScope,
			Structure: AttributeValueStructure,
			Attribute: PuzzleSizeAttribute,
			Condition: WrongPuzzleSizeCondition,
			Values:    ErrorData{len(summary.Values), summary.SideLength},
		}
	}
	for i, v := range summary.Values {
		if v < 0 || v > mapping.sidelen {
			return nil, squareError(i+1, v, mapping.sidelen)
		}
	}
	p := &Puzzle{mapping: mapping, values: make([]int, len(summary.Values))}
	copy(p.values, summary.Values)
	if _, err := p.prepare(); err != nil {
		return nil, err
	}
	return p, nil
}

// isValid reports whether a puzzle was properly created.
func (p *Puzzle) isValid() bool {
	return p != nil && p.mapping != nil && len(p.values) > 0
}

// Summary returns a copy of the puzzle's summary.
func (p *Puzzle) Summary() *Summary {
	values := make([]int, len(p.values))
	copy(values, p.values)
	return &Summary{SideLength: p.mapping.sidelen, Values: values}
}

// SideLength returns the puzzle's side length.
func (p *Puzzle) SideLength() int {
	return p.mapping.sidelen
}

// BlockLength returns the side length of the puzzle's blocks.
func (p *Puzzle) BlockLength() int {
	return p.mapping.blocklen
}

// Empties returns the count of squares awaiting values.
func (p *Puzzle) Empties() int {
	count := 0
	for _, v := range p.values {
		if v == 0 {
			count++
		}
	}
	return count
}
