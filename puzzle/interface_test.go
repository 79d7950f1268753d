package puzzle

import (
	"reflect"
	"strings"
	"testing"
)

/*

Test the error cases for New.  The solving behavior of valid
puzzles is tested with the solver.

*/

func TestNewErrorCases(t *testing.T) {
	_, e := New(nil)
	err, ok := e.(Error)
	if !ok || err.Condition != InvalidArgumentCondition {
		t.Errorf("Wrong error on nil summary: %v", e)
	}
	_, e = New(&Summary{SideLength: 9})
	err, ok = e.(Error)
	if !ok || err.Condition != InvalidArgumentCondition {
		t.Errorf("Wrong error on empty values: %v", e)
	}
	_, e = New(&Summary{SideLength: 1, Values: []int{1}})
	err, ok = e.(Error)
	if !ok || err.Condition != TooSmallCondition {
		t.Errorf("Wrong error on side length 1: %v", e)
	}
	_, e = New(&Summary{SideLength: 5, Values: []int{0}})
	err, ok = e.(Error)
	if !ok || err.Condition != NonSquareCondition || err.Attribute != SideLengthAttribute {
		t.Errorf("Wrong error on side length 5: %v", e)
	}
	_, e = New(&Summary{SideLength: 4, Values: []int{1, 2, 3}})
	err, ok = e.(Error)
	if !ok || err.Condition != WrongPuzzleSizeCondition || err.Attribute != PuzzleSizeAttribute {
		t.Errorf("Wrong error on short values: %v", e)
	}
	badHigh := make([]int, 16)
	badHigh[6] = 5
	_, e = New(&Summary{SideLength: 4, Values: badHigh})
	err, ok = e.(Error)
	if !ok || err.Condition != TooLargeCondition || err.Scope != SquareScope {
		t.Errorf("Wrong error on value 5 in a side 4 board: %v", e)
	}
	if !reflect.DeepEqual(err.Values, ErrorData{7, 5, 4}) {
		t.Errorf("Wrong error values on value 5 in a side 4 board: %v", err.Values)
	}
	badLow := make([]int, 16)
	badLow[0] = -1
	_, e = New(&Summary{SideLength: 4, Values: badLow})
	err, ok = e.(Error)
	if !ok || err.Condition != TooSmallCondition || err.Scope != SquareScope {
		t.Errorf("Wrong error on value -1 in a side 4 board: %v", e)
	}
	_, e = New(&Summary{SideLength: 4, Values: conflicting4Values})
	err, ok = e.(Error)
	if !ok || err.Condition != ConflictingValuesCondition || err.Scope != BoardScope {
		t.Errorf("Wrong error on conflicting clues: %v", e)
	}
	if msg := err.Error(); msg != "Invalid board: Square 2 cannot contain 1" {
		t.Errorf("Wrong message on conflicting clues: %q", msg)
	}
}

func TestNewValidCases(t *testing.T) {
	testcases := []*Summary{
		&Summary{SideLength: 4, Values: empty4PuzzleValues},
		&Summary{SideLength: 4, Values: solveSimpleStartValues},
		&Summary{SideLength: 4, Values: solveSimpleFirstCompleteValues},
		&Summary{SideLength: 9, Values: oneStarValues},
		&Summary{SideLength: 9, Values: make([]int, 81)},
	}
	for i, tc := range testcases {
		p, e := New(tc)
		if e != nil {
			t.Fatalf("case %d: Failed to create puzzle: %v", i+1, e)
		}
		if !p.isValid() {
			t.Errorf("case %d: Created puzzle is not valid", i+1)
		}
		if !reflect.DeepEqual(p.Summary(), tc) {
			t.Errorf("case %d: Summary is %+v, expected %+v", i+1, p.Summary(), tc)
		}
	}
}

/*

Test the generated strings for ConstraintID values.

*/

func TestConstraintIDString(t *testing.T) {
	s := ConstraintID{Kind: CellKind, Index: 5}.String()
	if s != "cell 5" {
		t.Errorf("String for cell 5 is wrong: %q", s)
	}
	s = ConstraintID{Kind: RowKind, Index: 2, Value: 3}.String()
	if s != "row 2 value 3" {
		t.Errorf("String for row 2 value 3 is wrong: %q", s)
	}
	s = ConstraintID{Kind: ColumnKind, Index: 4, Value: 1}.String()
	if s != "column 4 value 1" {
		t.Errorf("String for column 4 value 1 is wrong: %q", s)
	}
	s = ConstraintID{Kind: BlockKind, Index: 1, Value: 4}.String()
	if s != "block 1 value 4" {
		t.Errorf("String for block 1 value 4 is wrong: %q", s)
	}
}

/*

Summary hashes

*/

func TestSummaryHash(t *testing.T) {
	s1 := &Summary{SideLength: 4, Values: solveSimpleStartValues}
	s2 := &Summary{SideLength: 4, Values: newIntsetCopy(solveSimpleStartValues)}
	h1, e := s1.Hash()
	if e != nil {
		t.Fatalf("Hash of valid summary failed: %v", e)
	}
	if len(h1) != 64 || strings.ToLower(h1) != h1 {
		t.Errorf("Hash is not a lowercase hex digest: %q", h1)
	}
	h2, e := s2.Hash()
	if e != nil {
		t.Fatalf("Hash of copied summary failed: %v", e)
	}
	if h1 != h2 {
		t.Errorf("Equal summaries hash differently: %q vs %q", h1, h2)
	}
	s3 := &Summary{SideLength: 4, Values: solveSimpleFirstCompleteValues}
	h3, e := s3.Hash()
	if e != nil {
		t.Fatalf("Hash of complete summary failed: %v", e)
	}
	if h3 == h1 {
		t.Errorf("Different summaries hash the same: %q", h3)
	}

	// error cases
	if _, e := (&Summary{SideLength: 4}).Hash(); e == nil {
		t.Errorf("Hash of empty summary succeeded")
	} else if e.(Error).Condition != InvalidArgumentCondition {
		t.Errorf("Wrong error on empty summary hash: %v", e)
	}
	if _, e := (&Summary{SideLength: 4, Values: []int{1, 2}}).Hash(); e == nil {
		t.Errorf("Hash of undersized summary succeeded")
	} else if e.(Error).Condition != WrongPuzzleSizeCondition {
		t.Errorf("Wrong error on undersized summary hash: %v", e)
	}
}

/*

Puzzle accessors

*/

func TestPuzzleAccessors(t *testing.T) {
	p, e := New(&Summary{SideLength: 9, Values: oneStarValues})
	if e != nil {
		t.Fatalf("Failed to create puzzle: %v", e)
	}
	if p.SideLength() != 9 {
		t.Errorf("Side length is %d, expected 9", p.SideLength())
	}
	if p.BlockLength() != 3 {
		t.Errorf("Block length is %d, expected 3", p.BlockLength())
	}
	if p.Empties() != 49 {
		t.Errorf("Empties is %d, expected 49", p.Empties())
	}
	// the summary is a copy; neither direction can corrupt the
	// puzzle
	s := p.Summary()
	s.Values[0] = 9
	if p.values[0] != 4 {
		t.Errorf("Changing a summary changed its puzzle")
	}
	if p.Summary().Values[0] != 4 {
		t.Errorf("Second summary saw the change to the first")
	}

	var nilp *Puzzle
	if nilp.isValid() {
		t.Errorf("nil puzzle is valid")
	}
}
