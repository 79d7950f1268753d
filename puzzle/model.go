package puzzle

import (
	"fmt"
)

/*

Integer sets

*/

// An intset is a set of small positive integers, kept as a
// sorted slice so that iteration visits members in ascending
// order.  Candidate sets and the active-constraint set are
// intsets: both are consulted far more often than they change,
// and the sorted order gives deterministic scans for free.
type intset []int

// newIntsetRange returns an intset containing the values 1
// through max.
func newIntsetRange(max int) intset {
	if max < 1 {
		return intset{}
	}
	ps := make(intset, max)
	for i := range ps {
		ps[i] = i + 1
	}
	return ps
}

// newIntsetCopy returns an intset that copies the contents of
// another intset.
func newIntsetCopy(other intset) intset {
	if other == nil {
		return nil
	}
	ps := make(intset, len(other))
	copy(ps, other)
	return ps
}

// find the position of a value in an intset.  Returns the index
// of the value and whether it was present; when absent, the
// index is where the value would be inserted.
func (ps *intset) find(v int) (int, bool) {
	lo, hi := 0, len(*ps)
	for lo < hi {
		mid := (lo + hi) / 2
		if (*ps)[mid] < v {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo, lo < len(*ps) && (*ps)[lo] == v
}

// insert a value into an intset.  Returns whether the value was
// already present.
func (ps *intset) insert(v int) bool {
	i, found := ps.find(v)
	if found {
		return true
	}
	*ps = append(*ps, 0)
	copy((*ps)[i+1:], (*ps)[i:])
	(*ps)[i] = v
	return false
}

// remove a value from an intset.  Returns whether the value was
// present.
func (ps *intset) remove(v int) bool {
	i, found := ps.find(v)
	if !found {
		return false
	}
	*ps = append((*ps)[:i], (*ps)[i+1:]...)
	return true
}

/*

The live matrix

*/

// A matrix is the mutable half of the cover universe: which
// constraints are still unsatisfied, and which candidates can
// still satisfy each of them.  Covering a candidate satisfies
// its four constraints and eliminates every candidate that
// competes with it; uncovering restores exactly what the cover
// removed.  The static mapping is shared; the matrix is owned by
// a single solve.
type matrix struct {
	mapping *coverMapping
	active  intset   // unsatisfied constraints
	cands   []intset // live candidates per constraint (1-based indexing, nil once satisfied)
}

// newMatrix returns the full universe over a mapping: every
// constraint live, every candidate possible.
func newMatrix(mapping *coverMapping) *matrix {
	x := &matrix{
		mapping: mapping,
		active:  newIntsetRange(mapping.kcount),
		cands:   make([]intset, mapping.kcount+1),
	}
	for k := 1; k <= mapping.kcount; k++ {
		x.cands[k] = newIntsetCopy(mapping.cdescs[k].cands)
	}
	return x
}

// live reports whether a candidate is still available, that is,
// present in the live set of every one of its four constraints.
func (x *matrix) live(c int) bool {
	for _, k := range x.mapping.cmap[c] {
		set := x.cands[k]
		if set == nil {
			return false
		}
		if _, found := set.find(c); !found {
			return false
		}
	}
	return true
}

// deadConstraint returns the name of a constraint under which
// candidate c is not live.  Only meaningful after live(c) has
// returned false.
func (x *matrix) deadConstraint(c int) ConstraintID {
	for _, k := range x.mapping.cmap[c] {
		set := x.cands[k]
		if set == nil {
			return x.mapping.cdescs[k].id
		}
		if _, found := set.find(c); !found {
			return x.mapping.cdescs[k].id
		}
	}
	return ConstraintID{}
}

// cover selects candidate c: it eliminates every candidate that
// competes with c and retires c's four constraints, returning
// the retired candidate sets in constraint-map order so uncover
// can restore them.  If c is not live under all four of its
// constraints, the matrix is left untouched and a
// constraint-not-found Error comes back; during seeding of a
// board's given values that means the givens conflict, anywhere
// else it means the matrix bookkeeping is broken.
//
// Once the entry check passes, the internal removals cannot
// miss: a candidate live in one constraint is live in all of
// its constraints.  A miss panics rather than corrupt the
// matrix.
func (x *matrix) cover(c int) ([4]intset, error) {
	var saved [4]intset
	if !x.live(c) {
		return saved, constraintError(c, x.deadConstraint(c))
	}
	for i, k := range x.mapping.cmap[c] {
		for _, d := range x.cands[k] {
			for _, j := range x.mapping.cmap[d] {
				if j == k {
					continue
				}
				if !x.cands[j].remove(d) {
					panic(fmt.Errorf("Cover of candidate %d lost candidate %d in constraint %d", c, d, j))
				}
			}
		}
		saved[i] = x.cands[k]
		x.cands[k] = nil
		if !x.active.remove(k) {
			panic(fmt.Errorf("Cover of candidate %d found constraint %d live but inactive", c, k))
		}
	}
	return saved, nil
}

// mustCover covers a candidate the caller knows is live; a
// failure is a bookkeeping bug, not a user error.
func (x *matrix) mustCover(c int) [4]intset {
	saved, err := x.cover(c)
	if err != nil {
		panic(err)
	}
	return saved
}

// uncover undoes a cover of candidate c, given the sets the
// cover returned.  Restoration runs in reverse constraint-map
// order, reviving each constraint and re-adding the candidates
// its covering eliminated; afterwards the matrix contents are
// exactly as they were before the cover.  Covers must be undone
// in last-covered-first order.
func (x *matrix) uncover(c int, saved [4]intset) {
	cmap := x.mapping.cmap[c]
	for i := len(cmap) - 1; i >= 0; i-- {
		k := cmap[i]
		if x.cands[k] != nil {
			panic(fmt.Errorf("Uncover of candidate %d found constraint %d already live", c, k))
		}
		x.cands[k] = saved[i]
		x.active.insert(k)
		for _, d := range x.cands[k] {
			for _, j := range x.mapping.cmap[d] {
				if j == k {
					continue
				}
				x.cands[j].insert(d)
			}
		}
	}
}

// choose picks the constraint to satisfy next: the live
// constraint with the fewest remaining candidates, ties going to
// the lowest constraint index (the active set is scanned in
// ascending order with a strict comparison).  The scan stops
// early at a set of size 1 or 0, since neither can be beaten.
// When no constraints remain the board is solved and choose
// returns (0, nil).
//
// The returned candidate set is a copy: callers iterate it while
// covering and uncovering mutate the matrix underneath.
func (x *matrix) choose() (int, intset) {
	if len(x.active) == 0 {
		return 0, nil
	}
	best := 0
	for _, k := range x.active {
		if best == 0 || len(x.cands[k]) < len(x.cands[best]) {
			best = k
			if len(x.cands[best]) <= 1 {
				break
			}
		}
	}
	return best, newIntsetCopy(x.cands[best])
}

/*

Board preparation

*/

// prepare builds the live matrix for this board: the full
// universe for its side length with every given value covered.
// The givens are covered in reading order and their snapshots
// are discarded, because a given is never uncovered.  A cover
// failure here means the given values conflict with one another,
// which is terminal: no search could ever succeed.  Preparation
// happens once during New to reject bad boards early, and then
// again for each solver, which owns the matrix it searches.
func (p *Puzzle) prepare() (*matrix, error) {
	x := newMatrix(p.mapping)
	for i, v := range p.values {
		if v == 0 {
			continue
		}
		if _, err := x.cover(p.mapping.candidate(i+1, v)); err != nil {
			return nil, conflictError(i+1, v)
		}
	}
	return x, nil
}

/*

Helpers

*/

// squareError returns an Error for a square whose value is
// outside the board's range.
func squareError(index, value, max int) Error {
	err := Error{
		Scope:     SquareScope,
		Structure: AttributeValueStructure,
		Attribute: ValueAttribute,
		Condition: TooLargeCondition,
		Values:    ErrorData{index, value, max},
	}
	if value < 0 {
		err.Condition = TooSmallCondition
		err.Values[2] = 0
	}
	return err
}

// conflictError returns the Error for a given value that can't
// be covered because the other given values have already claimed
// one of its constraints.
func conflictError(index, value int) Error {
	return Error{
		Scope:     BoardScope,
		Structure: ScopeStructure,
		Condition: ConflictingValuesCondition,
		Values:    ErrorData{index, value},
	}
}

// constraintError returns the Error for a candidate with no live
// entry under one of its constraints.
func constraintError(c int, cid ConstraintID) Error {
	return Error{
		Scope:     InternalScope,
		Structure: ScopeStructure,
		Condition: ConstraintNotFoundCondition,
		Values:    ErrorData{c, cid},
	}
}
