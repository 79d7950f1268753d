package puzzle

/*

Exact cover search

The solver walks the cover matrix depth-first, using a stack for
backtracking.  The technique is called Ariadne's thread, after
the mythical heroine who used a ball of yarn as a stack in her
depth-first search for an exit from the minotaur's maze.

1. Check the state of the matrix:

1.1 If no constraints remain unsatisfied, the candidates covered
so far are a solution.  Yield it.

1.2 Otherwise pick the unsatisfied constraint with the fewest
remaining candidates (ties go to the lowest constraint index),
snapshot those candidates, and push the snapshot on the stack.

2. Advance the top entry of the stack as follows:

2.1 If the entry has a covered candidate, uncover it.

2.2 If the entry has untried candidates, cover the first of
them, record it as the entry's covered candidate, and go to
step 1.

2.3 The entry is exhausted: pop it.  If the stack is empty,
stop; the enumeration is complete.  Otherwise go to step 2.

Resuming after a yielded solution re-enters at step 2, which
unwinds the deepest choice and continues the walk exactly where
it left off.  The uncover in step 2.1 restores the matrix to its
state before the corresponding cover, so one matrix serves the
entire enumeration.

A board with no empty squares yields a single solution (itself)
the first time through step 1.1.  A board whose constraints
cannot all be satisfied exhausts the stack without reaching step
1.1 and yields nothing, which is not an error.

*/

// A frame is one suspended depth of the search: the constraint
// chosen at that depth, the candidate currently covered for it
// (0 before the first), the candidates not yet tried, and the
// sets that covering removed.
type frame struct {
	cid   int
	cand  int
	cnext intset
	saved [4]intset
}

// A thread is a stack of frames
type thread []frame

// A Solver enumerates the solutions of one puzzle.  Create one
// with Puzzle.Solver, then call Next until it reports no more
// solutions, or stop early; a dropped solver needs no cleanup.
// Each solver prepares its own matrix, so concurrent solvers
// share no mutable state, but a single solver must not be used
// from multiple goroutines.
type Solver struct {
	puz     *Puzzle
	x       *matrix
	t       thread
	path    []int
	yielded bool
	done    bool
}

// Solver returns a fresh solution cursor for the puzzle.
func (p *Puzzle) Solver() *Solver {
	x, err := p.prepare()
	if err != nil {
		// New already rejected conflicting givens
		panic(err)
	}
	return &Solver{puz: p, x: x}
}

// Next resumes the search and returns the next solution, or a
// zero Solution and false when the enumeration is exhausted.
func (s *Solver) Next() (Solution, bool) {
	if s.done {
		return Solution{}, false
	}
	stepping := s.yielded
	s.yielded = false
	for {
		if stepping {
			for len(s.t) > 0 {
				if s.advance(&s.t[len(s.t)-1]) {
					break
				}
				s.t[len(s.t)-1] = frame{} // release the frame's sets
				s.t = s.t[:len(s.t)-1]
			}
			if len(s.t) == 0 {
				s.done = true
				return Solution{}, false
			}
			stepping = false
			continue
		}
		if len(s.x.active) == 0 {
			s.yielded = true
			return s.solution(), true
		}
		cid, cands := s.x.choose()
		s.t = append(s.t, frame{cid: cid, cnext: cands})
		stepping = true
	}
}

// advance moves a frame to its next untried candidate and covers
// it, uncovering the previously covered candidate first.
// Returns false when the frame is exhausted.
func (s *Solver) advance(f *frame) bool {
	if f.cand != 0 {
		s.x.uncover(f.cand, f.saved)
		s.path = s.path[:len(s.path)-1]
	}
	if len(f.cnext) == 0 {
		return false
	}
	f.cand, f.cnext = f.cnext[0], f.cnext[1:]
	f.saved = s.x.mustCover(f.cand)
	s.path = append(s.path, f.cand)
	return true
}

// solution materializes the current path as a Solution.  The
// returned grid and choices are fresh copies; they never alias
// the solver's working state.
func (s *Solver) solution() Solution {
	values := make([]int, len(s.puz.values))
	copy(values, s.puz.values)
	var choices []Choice
	if len(s.path) > 0 {
		choices = make([]Choice, len(s.path))
	}
	for i, c := range s.path {
		sq, v := s.puz.mapping.candidateSquare(c), s.puz.mapping.candidateValue(c)
		values[sq-1] = v
		choices[i] = Choice{Index: sq, Value: v}
	}
	return Solution{Values: values, Choices: choices}
}

// Solutions finds all solutions of the puzzle.  Boards with many
// empty squares can have enormous numbers of solutions; callers
// who want a bounded amount should use FirstSolutions or walk a
// Solver themselves.
func (p *Puzzle) Solutions() []Solution {
	return p.FirstSolutions(0)
}

// FirstSolutions finds the first max solutions of the puzzle, in
// enumeration order; max <= 0 means all of them.
func (p *Puzzle) FirstSolutions(max int) []Solution {
	var solutions []Solution
	s := p.Solver()
	for sol, ok := s.Next(); ok; sol, ok = s.Next() {
		solutions = append(solutions, sol)
		if max > 0 && len(solutions) >= max {
			break
		}
	}
	return solutions
}
