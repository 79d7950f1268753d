// tsunami - a Sudoku solving service built on exact cover.
// Copyright (C) 2015 Daniel C. Brotsky.
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
//
// You should have received a copy of the GNU General Public License along
// with this program; if not, write to the Free Software Foundation, Inc.,
// 51 Franklin Street, Fifth Floor, Boston, MA 02110-1301 USA.
// Licensed under the LGPL v3.  See the LICENSE file for details

package puzzle

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

/*

Print forms of board values

*/

var (
	valueStrings = []string{
		" ", "1", "2", "3", "4", "5", "6", "7", "8", "9",
		"A", "B", "C", "D", "E", "F", "G", "H", "I", "J",
		"K", "L", "M", "N", "O", "P", "Q", "R", "S", "T",
		"U", "V", "W", "X", "Y", "Z",
	}
	nonValueString = "?"
	bigValueString = "!"
)

func vstr(i int) string {
	if i < 0 {
		return nonValueString
	}
	if i < len(valueStrings) {
		return valueStrings[i]
	}
	return bigValueString
}

/*

Pretty-printed grids in strings, for debugging.

*/

// String gives a pretty-printed view of a puzzle.
func (p *Puzzle) String() string {
	return p.ValuesString()
}

// ValuesString returns a pretty-printed grid of the puzzle's
// given values, with _ marking the empty squares.
func (p *Puzzle) ValuesString() string {
	if p == nil {
		return ""
	}
	return gridString(p.mapping.sidelen, p.mapping.blocklen, p.values)
}

// ValuesString returns a pretty-printed grid of a solution's
// values.
func (sol Solution) ValuesString() string {
	slen, ok := findIntSquareRoot(len(sol.Values))
	if !ok {
		return ""
	}
	blen, ok := findIntSquareRoot(slen)
	if !ok {
		return ""
	}
	return gridString(slen, blen, sol.Values)
}

// gridString renders values as a grid with numbered columns,
// lettered rows, and separators along the block boundaries.
func gridString(slen, blen int, values []int) (result string) {
	// first put out the header
	result += " "
	for i := 0; i < slen; i++ {
		if i%blen != 0 {
			result += " "
		} else {
			result += "|"
		}
		result += fmt.Sprintf("%2d ", i+1)
	}
	result += "\n"
	// next are the rows, including the separator at the top of
	// each band of blocks
	for ri, rowhdr := 0, 'a'; ri < slen; ri, rowhdr = ri+1, rowhdr+1 {
		if ri%blen == 0 {
			result += " "
			for i := 0; i < slen; i++ {
				result += "+---"
			}
			result += "\n"
		}
		result += string(rowhdr)
		for i := 0; i < slen; i++ {
			if i%blen != 0 {
				result += " "
			} else {
				result += "|"
			}
			if v := values[(ri*slen)+i]; v != 0 {
				result += fmt.Sprintf(" %s ", vstr(v))
			} else {
				result += " _ "
			}
		}
		result += "\n"
	}
	return
}

/*

Board files

*/

// Values within a row may be separated by a comma, a comma and a
// space, or a space.
var valueSplitter = regexp.MustCompile(`, |,| `)

// Parse reads a board from its text form: one row of values per
// line, 0 meaning an empty square.  Lines whose first character
// is '#' are comments, and blank lines are ignored.  Every row
// must have exactly as many values as the board has rows;
// whether the resulting side length names a supported board is
// New's business, not Parse's.
func Parse(r io.Reader) (*Summary, error) {
	var rows [][]int
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' {
			continue
		}
		for strings.Contains(line, "  ") {
			line = strings.ReplaceAll(line, "  ", " ")
		}
		var row []int
		for _, token := range valueSplitter.Split(line, -1) {
			v, err := strconv.Atoi(token)
			if err != nil {
				return nil, Error{
					Scope:     BoardScope,
					Structure: AttributeValueStructure,
					Attribute: TokenAttribute,
					Condition: NonIntegerCondition,
					Values:    ErrorData{token},
				}
			}
			row = append(row, v)
		}
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, Error{
			Scope:     BoardScope,
			Structure: ScopeStructure,
			Condition: GeneralCondition,
			Values:    ErrorData{"No rows found"},
		}
	}
	for i, row := range rows {
		if len(row) != len(rows) {
			return nil, Error{
				Scope:     BoardScope,
				Structure: AttributeValueStructure,
				Attribute: RowAttribute,
				Condition: WrongRowLengthCondition,
				Values:    ErrorData{i + 1, len(row), len(rows)},
			}
		}
	}
	values := make([]int, 0, len(rows)*len(rows))
	for _, row := range rows {
		values = append(values, row...)
	}
	return &Summary{SideLength: len(rows), Values: values}, nil
}

/*

Solution reports

*/

// WriteSolutions streams a report of the puzzle and its
// solutions: the initial board, then each solution under a
// numbered heading, and a trailing count line ("No solutions
// found." when there are none).  At most limit solutions are
// written (limit <= 0 means all); count is how many were
// written, and more reports whether the enumeration had further
// solutions past the limit.
func WriteSolutions(w io.Writer, p *Puzzle, limit int) (count int, more bool, err error) {
	slen := p.SideLength()

	// the separator is as wide as a row of the largest solution
	width := 0
	for v := 1; v <= slen; v++ {
		width += len(strconv.Itoa(v)) + 1
	}
	dashes := "\n" + strings.Repeat("-", width-1)

	writeRows := func(values []int) error {
		for r := 0; r < slen; r++ {
			cells := make([]string, slen)
			for c := 0; c < slen; c++ {
				cells[c] = strconv.Itoa(values[r*slen+c])
			}
			if _, err := fmt.Fprintf(w, "\n%s", strings.Join(cells, ",")); err != nil {
				return err
			}
		}
		return nil
	}

	if _, err = fmt.Fprint(w, "Initial board:"); err != nil {
		return
	}
	if err = writeRows(p.values); err != nil {
		return
	}
	s := p.Solver()
	for {
		if limit > 0 && count >= limit {
			_, more = s.Next()
			break
		}
		sol, ok := s.Next()
		if !ok {
			break
		}
		count++
		if _, err = fmt.Fprintf(w, "%s\nSolution %d:", dashes, count); err != nil {
			return
		}
		if err = writeRows(sol.Values); err != nil {
			return
		}
	}
	if count == 0 {
		_, err = fmt.Fprintf(w, "%s\nNo solutions found.", dashes)
		return
	}
	plural := "s"
	if count == 1 {
		plural = ""
	}
	_, err = fmt.Fprintf(w, "\n\n%d solution%s found.", count, plural)
	return
}

/*

The example board

*/

// The example board, for players to copy from.
const exampleBoard = `# Integers must be non-negative and separated by commas. Whitespace characters are ignored.
0,0,0,7,9,0,0,5,0
3,5,2,0,0,8,0,4,0
0,0,0,0,0,0,0,8,0
0,1,0,0,7,0,0,0,4
6,0,0,3,0,1,0,0,8
9,0,0,0,8,0,0,1,0
0,2,0,0,0,0,0,0,0
0,4,0,5,0,0,8,9,1
0,8,0,0,3,7,0,0,0`

// WriteExample writes the example board file to the given path
// and returns the absolute path of what it wrote.
func WriteExample(path string) (string, error) {
	if err := os.WriteFile(path, []byte(exampleBoard), 0644); err != nil {
		return "", err
	}
	return filepath.Abs(path)
}
