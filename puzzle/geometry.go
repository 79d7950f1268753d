package puzzle

import (
	"sync"
)

/*

Cover geometry

*/

// Boards are modeled as an exact-cover problem: every (square,
// value) pair is a candidate, and every rule the finished board
// must obey is a constraint satisfied by exactly one chosen
// candidate.  A board of side length N has N^3 candidates and
// 4*N^2 constraints: one per square (the square is filled), and
// one per value for each row, column, and block.
//
// Candidates and constraints are identified by small positive
// integers.  The candidate for value v in square sq (squares are
// numbered 1..N^2 in reading order) is (sq-1)*N + v.  Constraint
// indexes come in four bands of N^2 each, in the order: filled
// squares, row values, column values, block values.

// A constraintDescriptor gives a constraint's integer index, its
// external name, and the candidates that can satisfy it.
type constraintDescriptor struct {
	index int          // 1-based index of this constraint
	id    ConstraintID // external name of this constraint
	cands intset       // candidates that satisfy this constraint
}

// A coverMapping holds the dual indexes of the cover universe
// for one side length: the static candidate-to-constraints map
// consulted during cover and uncover, and the constraint
// descriptors a live matrix starts from.  The mapping is never
// modified once computed; all solve-time mutation happens in the
// matrix built from it.
//
// To stay out of the way of lookups, both indexes use 1-based
// indexing, so the 0th entry of each slice is unused.
type coverMapping struct {
	sidelen  int                    // side length of the board
	blocklen int                    // side length of one block
	ccount   int                    // count of candidates: sidelen^3
	kcount   int                    // count of constraints: 4 * sidelen^2
	cdescs   []constraintDescriptor // constraint descriptors (1-based indexing)
	cmap     [][4]int               // candidate to its four constraints (1-based indexing)
}

// candidate returns the candidate index for value val in square
// sq (both 1-based).
func (m *coverMapping) candidate(sq, val int) int {
	return (sq-1)*m.sidelen + val
}

// candidateSquare returns the square a candidate assigns.
func (m *coverMapping) candidateSquare(c int) int {
	return (c-1)/m.sidelen + 1
}

// candidateValue returns the value a candidate assigns.
func (m *coverMapping) candidateValue(c int) int {
	return (c-1)%m.sidelen + 1
}

// computeCoverMapping builds the mapping for boards with the
// given side length and block length.
func computeCoverMapping(slen, blen int) *coverMapping {
	scount, vcount := slen*slen, slen
	m := &coverMapping{
		sidelen:  slen,
		blocklen: blen,
		ccount:   scount * vcount,
		kcount:   4 * scount,
		cdescs:   make([]constraintDescriptor, 4*scount+1),
		cmap:     make([][4]int, scount*vcount+1),
	}
	cellBase, rowBase, colBase, blcBase := 0, scount, 2*scount, 3*scount

	// name the constraints
	for sq := 1; sq <= scount; sq++ {
		i := cellBase + sq
		m.cdescs[i] = constraintDescriptor{
			index: i,
			id:    ConstraintID{Kind: CellKind, Index: sq},
		}
	}
	for g := 1; g <= slen; g++ {
		for v := 1; v <= vcount; v++ {
			i := rowBase + (g-1)*vcount + v
			m.cdescs[i] = constraintDescriptor{
				index: i,
				id:    ConstraintID{Kind: RowKind, Index: g, Value: v},
			}
			i = colBase + (g-1)*vcount + v
			m.cdescs[i] = constraintDescriptor{
				index: i,
				id:    ConstraintID{Kind: ColumnKind, Index: g, Value: v},
			}
			i = blcBase + (g-1)*vcount + v
			m.cdescs[i] = constraintDescriptor{
				index: i,
				id:    ConstraintID{Kind: BlockKind, Index: g, Value: v},
			}
		}
	}

	// Walk the candidates, filling the static map and the
	// constraint candidate sets.  Candidates are visited in
	// increasing index order, so every candidate set stays
	// sorted as it grows.
	for row := 0; row < slen; row++ {
		for col := 0; col < slen; col++ {
			sq := row*slen + col + 1
			blc := blen*(row/blen) + col/blen
			for v := 1; v <= vcount; v++ {
				c := m.candidate(sq, v)
				ks := [4]int{
					cellBase + sq,
					rowBase + row*vcount + v,
					colBase + col*vcount + v,
					blcBase + blc*vcount + v,
				}
				m.cmap[c] = ks
				for _, k := range ks {
					m.cdescs[k].cands = append(m.cdescs[k].cands, c)
				}
			}
		}
	}
	return m
}

/*

Mapping memoization

*/

// Since we use the same mapping for every board of a given side
// length, we keep a cache of computed mappings.  This is more
// than a time saver: same-sized boards share the static indexes,
// and only the live matrix is built per solve.
var (
	coverMaps      = make(map[int]*coverMapping)
	coverMapsMutex sync.Mutex
)

// Bounds on the supported side lengths.  Boards smaller than the
// minimum have degenerate cover structure; boards larger than
// the maximum can't store their values in a byte.
const (
	minSidelen = 4
	maxSidelen = 225
)

// coverMappingForSize returns the mapping for boards of the
// given side length, computing and caching it on first use.
// Errors mean the side length is out of bounds or has no
// integral block size.
func coverMappingForSize(slen int) (*coverMapping, error) {
	if slen < minSidelen {
		return nil, formatError(SideLengthAttribute, slen, TooSmallCondition, minSidelen)
	}
	if slen > maxSidelen {
		return nil, formatError(SideLengthAttribute, slen, TooLargeCondition, maxSidelen)
	}
	blen, ok := findIntSquareRoot(slen)
	if !ok {
		return nil, formatError(SideLengthAttribute, slen, NonSquareCondition, 0)
	}
	coverMapsMutex.Lock()
	defer coverMapsMutex.Unlock()
	mapping, ok := coverMaps[slen]
	if !ok {
		mapping = computeCoverMapping(slen, blen)
		coverMaps[slen] = mapping
	}
	return mapping, nil
}

// Find the integer square root of val, if it exists.
func findIntSquareRoot(val int) (int, bool) {
	var i int
	for i = 1; i*i <= val; i++ {
		if i*i == val {
			return i, true
		}
	}
	return i - 1, false
}

/*

Helpers

*/

// formatError returns an Error for a board geometry whose format
// values are invalid.
func formatError(attr ErrorAttribute, val int, cond ErrorCondition, limit int) Error {
	err := Error{
		Scope:     GeometryScope,
		Structure: AttributeValueStructure,
		Attribute: attr,
		Condition: cond,
		Values:    ErrorData{val},
	}
	if cond == TooSmallCondition || cond == TooLargeCondition {
		err.Values = append(err.Values, limit)
	}
	return err
}
