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
	"reflect"
	"testing"
)

/*

Cover mappings

*/

func TestFindIntSquareRoot(t *testing.T) {
	inputs := []int{1, 2, 3, 4, 5, 8, 9, 10, 15, 16, 25, 100, 224, 225}
	outputInts := []int{1, 1, 1, 2, 2, 2, 3, 3, 3, 4, 5, 10, 14, 15}
	outputBools := []bool{true, false, false, true, false, false, true, false, false, true, true, true, false, true}
	for i, v := range inputs {
		r, f := findIntSquareRoot(v)
		if r != outputInts[i] || f != outputBools[i] {
			t.Errorf("findIntSquareRoot(%d) = (%d, %v) but expected (%d, %v)",
				v, r, f, outputInts[i], outputBools[i])
		}
	}
}

func TestCandidateArithmetic(t *testing.T) {
	for _, slen := range []int{4, 9, 16} {
		mapping, err := coverMappingForSize(slen)
		if err != nil {
			t.Fatalf("Creating mapping for side %d returned an error: %v", slen, err)
		}
		if c := mapping.candidate(1, 1); c != 1 {
			t.Errorf("side %d: first candidate is %d, expected 1", slen, c)
		}
		if c := mapping.candidate(slen*slen, slen); c != mapping.ccount {
			t.Errorf("side %d: last candidate is %d, expected %d", slen, c, mapping.ccount)
		}
		for c := 1; c <= mapping.ccount; c++ {
			sq, val := mapping.candidateSquare(c), mapping.candidateValue(c)
			if sq < 1 || sq > slen*slen || val < 1 || val > slen {
				t.Fatalf("side %d: candidate %d names square %d value %d", slen, c, sq, val)
			}
			if mapping.candidate(sq, val) != c {
				t.Errorf("side %d: candidate %d round trips to %d",
					slen, c, mapping.candidate(sq, val))
			}
		}
	}
}

func TestCoverMappingForSize(t *testing.T) {
	// First make sure the boundary condition logic is working
	if _, err := coverMappingForSize(13); err == nil {
		t.Fatalf("Creating a cover mapping for side length 13 did not fail.")
	} else {
		if err.(Error).Condition != NonSquareCondition {
			t.Logf("coverMappingForSize(13): %v", err)
			t.Errorf("Incorrect error!")
		}
		if err.(Error).Attribute != SideLengthAttribute {
			t.Logf("coverMappingForSize(13): %v", err)
			t.Errorf("Incorrect error!")
		}
	}
	if _, err := coverMappingForSize(1); err == nil {
		t.Fatalf("Creating a cover mapping for side length 1 did not fail.")
	} else {
		if err.(Error).Condition != TooSmallCondition {
			t.Logf("coverMappingForSize(1): %v", err)
			t.Errorf("Incorrect error!")
		}
	}
	if _, err := coverMappingForSize(16 * 16); err == nil {
		t.Fatalf("Creating a cover mapping for side length 256 did not fail.")
	} else {
		if err.(Error).Condition != TooLargeCondition {
			t.Logf("coverMappingForSize(256): %v", err)
			t.Errorf("Incorrect error!")
		}
	}

	// we test the map for 4, which is complex but possible to
	// manually simulate.  The rest of them we assume are right
	// based on the logic working for 4.
	cd4 := []constraintDescriptor{
		constraintDescriptor{},
		constraintDescriptor{1, ConstraintID{CellKind, 1, 0}, intset{1, 2, 3, 4}},
		constraintDescriptor{2, ConstraintID{CellKind, 2, 0}, intset{5, 6, 7, 8}},
		constraintDescriptor{3, ConstraintID{CellKind, 3, 0}, intset{9, 10, 11, 12}},
		constraintDescriptor{4, ConstraintID{CellKind, 4, 0}, intset{13, 14, 15, 16}},
		constraintDescriptor{5, ConstraintID{CellKind, 5, 0}, intset{17, 18, 19, 20}},
		constraintDescriptor{6, ConstraintID{CellKind, 6, 0}, intset{21, 22, 23, 24}},
		constraintDescriptor{7, ConstraintID{CellKind, 7, 0}, intset{25, 26, 27, 28}},
		constraintDescriptor{8, ConstraintID{CellKind, 8, 0}, intset{29, 30, 31, 32}},
		constraintDescriptor{9, ConstraintID{CellKind, 9, 0}, intset{33, 34, 35, 36}},
		constraintDescriptor{10, ConstraintID{CellKind, 10, 0}, intset{37, 38, 39, 40}},
		constraintDescriptor{11, ConstraintID{CellKind, 11, 0}, intset{41, 42, 43, 44}},
		constraintDescriptor{12, ConstraintID{CellKind, 12, 0}, intset{45, 46, 47, 48}},
		constraintDescriptor{13, ConstraintID{CellKind, 13, 0}, intset{49, 50, 51, 52}},
		constraintDescriptor{14, ConstraintID{CellKind, 14, 0}, intset{53, 54, 55, 56}},
		constraintDescriptor{15, ConstraintID{CellKind, 15, 0}, intset{57, 58, 59, 60}},
		constraintDescriptor{16, ConstraintID{CellKind, 16, 0}, intset{61, 62, 63, 64}},
		constraintDescriptor{17, ConstraintID{RowKind, 1, 1}, intset{1, 5, 9, 13}},
		constraintDescriptor{18, ConstraintID{RowKind, 1, 2}, intset{2, 6, 10, 14}},
		constraintDescriptor{19, ConstraintID{RowKind, 1, 3}, intset{3, 7, 11, 15}},
		constraintDescriptor{20, ConstraintID{RowKind, 1, 4}, intset{4, 8, 12, 16}},
		constraintDescriptor{21, ConstraintID{RowKind, 2, 1}, intset{17, 21, 25, 29}},
		constraintDescriptor{22, ConstraintID{RowKind, 2, 2}, intset{18, 22, 26, 30}},
		constraintDescriptor{23, ConstraintID{RowKind, 2, 3}, intset{19, 23, 27, 31}},
		constraintDescriptor{24, ConstraintID{RowKind, 2, 4}, intset{20, 24, 28, 32}},
		constraintDescriptor{25, ConstraintID{RowKind, 3, 1}, intset{33, 37, 41, 45}},
		constraintDescriptor{26, ConstraintID{RowKind, 3, 2}, intset{34, 38, 42, 46}},
		constraintDescriptor{27, ConstraintID{RowKind, 3, 3}, intset{35, 39, 43, 47}},
		constraintDescriptor{28, ConstraintID{RowKind, 3, 4}, intset{36, 40, 44, 48}},
		constraintDescriptor{29, ConstraintID{RowKind, 4, 1}, intset{49, 53, 57, 61}},
		constraintDescriptor{30, ConstraintID{RowKind, 4, 2}, intset{50, 54, 58, 62}},
		constraintDescriptor{31, ConstraintID{RowKind, 4, 3}, intset{51, 55, 59, 63}},
		constraintDescriptor{32, ConstraintID{RowKind, 4, 4}, intset{52, 56, 60, 64}},
		constraintDescriptor{33, ConstraintID{ColumnKind, 1, 1}, intset{1, 17, 33, 49}},
		constraintDescriptor{34, ConstraintID{ColumnKind, 1, 2}, intset{2, 18, 34, 50}},
		constraintDescriptor{35, ConstraintID{ColumnKind, 1, 3}, intset{3, 19, 35, 51}},
		constraintDescriptor{36, ConstraintID{ColumnKind, 1, 4}, intset{4, 20, 36, 52}},
		constraintDescriptor{37, ConstraintID{ColumnKind, 2, 1}, intset{5, 21, 37, 53}},
		constraintDescriptor{38, ConstraintID{ColumnKind, 2, 2}, intset{6, 22, 38, 54}},
		constraintDescriptor{39, ConstraintID{ColumnKind, 2, 3}, intset{7, 23, 39, 55}},
		constraintDescriptor{40, ConstraintID{ColumnKind, 2, 4}, intset{8, 24, 40, 56}},
		constraintDescriptor{41, ConstraintID{ColumnKind, 3, 1}, intset{9, 25, 41, 57}},
		constraintDescriptor{42, ConstraintID{ColumnKind, 3, 2}, intset{10, 26, 42, 58}},
		constraintDescriptor{43, ConstraintID{ColumnKind, 3, 3}, intset{11, 27, 43, 59}},
		constraintDescriptor{44, ConstraintID{ColumnKind, 3, 4}, intset{12, 28, 44, 60}},
		constraintDescriptor{45, ConstraintID{ColumnKind, 4, 1}, intset{13, 29, 45, 61}},
		constraintDescriptor{46, ConstraintID{ColumnKind, 4, 2}, intset{14, 30, 46, 62}},
		constraintDescriptor{47, ConstraintID{ColumnKind, 4, 3}, intset{15, 31, 47, 63}},
		constraintDescriptor{48, ConstraintID{ColumnKind, 4, 4}, intset{16, 32, 48, 64}},
		constraintDescriptor{49, ConstraintID{BlockKind, 1, 1}, intset{1, 5, 17, 21}},
		constraintDescriptor{50, ConstraintID{BlockKind, 1, 2}, intset{2, 6, 18, 22}},
		constraintDescriptor{51, ConstraintID{BlockKind, 1, 3}, intset{3, 7, 19, 23}},
		constraintDescriptor{52, ConstraintID{BlockKind, 1, 4}, intset{4, 8, 20, 24}},
		constraintDescriptor{53, ConstraintID{BlockKind, 2, 1}, intset{9, 13, 25, 29}},
		constraintDescriptor{54, ConstraintID{BlockKind, 2, 2}, intset{10, 14, 26, 30}},
		constraintDescriptor{55, ConstraintID{BlockKind, 2, 3}, intset{11, 15, 27, 31}},
		constraintDescriptor{56, ConstraintID{BlockKind, 2, 4}, intset{12, 16, 28, 32}},
		constraintDescriptor{57, ConstraintID{BlockKind, 3, 1}, intset{33, 37, 49, 53}},
		constraintDescriptor{58, ConstraintID{BlockKind, 3, 2}, intset{34, 38, 50, 54}},
		constraintDescriptor{59, ConstraintID{BlockKind, 3, 3}, intset{35, 39, 51, 55}},
		constraintDescriptor{60, ConstraintID{BlockKind, 3, 4}, intset{36, 40, 52, 56}},
		constraintDescriptor{61, ConstraintID{BlockKind, 4, 1}, intset{41, 45, 57, 61}},
		constraintDescriptor{62, ConstraintID{BlockKind, 4, 2}, intset{42, 46, 58, 62}},
		constraintDescriptor{63, ConstraintID{BlockKind, 4, 3}, intset{43, 47, 59, 63}},
		constraintDescriptor{64, ConstraintID{BlockKind, 4, 4}, intset{44, 48, 60, 64}},
	}
	km4 := [][4]int{
		{},
		{1, 17, 33, 49}, {1, 18, 34, 50}, {1, 19, 35, 51}, {1, 20, 36, 52},
		{2, 17, 37, 49}, {2, 18, 38, 50}, {2, 19, 39, 51}, {2, 20, 40, 52},
		{3, 17, 41, 53}, {3, 18, 42, 54}, {3, 19, 43, 55}, {3, 20, 44, 56},
		{4, 17, 45, 53}, {4, 18, 46, 54}, {4, 19, 47, 55}, {4, 20, 48, 56},
		{5, 21, 33, 49}, {5, 22, 34, 50}, {5, 23, 35, 51}, {5, 24, 36, 52},
		{6, 21, 37, 49}, {6, 22, 38, 50}, {6, 23, 39, 51}, {6, 24, 40, 52},
		{7, 21, 41, 53}, {7, 22, 42, 54}, {7, 23, 43, 55}, {7, 24, 44, 56},
		{8, 21, 45, 53}, {8, 22, 46, 54}, {8, 23, 47, 55}, {8, 24, 48, 56},
		{9, 25, 33, 57}, {9, 26, 34, 58}, {9, 27, 35, 59}, {9, 28, 36, 60},
		{10, 25, 37, 57}, {10, 26, 38, 58}, {10, 27, 39, 59}, {10, 28, 40, 60},
		{11, 25, 41, 61}, {11, 26, 42, 62}, {11, 27, 43, 63}, {11, 28, 44, 64},
		{12, 25, 45, 61}, {12, 26, 46, 62}, {12, 27, 47, 63}, {12, 28, 48, 64},
		{13, 29, 33, 57}, {13, 30, 34, 58}, {13, 31, 35, 59}, {13, 32, 36, 60},
		{14, 29, 37, 57}, {14, 30, 38, 58}, {14, 31, 39, 59}, {14, 32, 40, 60},
		{15, 29, 41, 61}, {15, 30, 42, 62}, {15, 31, 43, 63}, {15, 32, 44, 64},
		{16, 29, 45, 61}, {16, 30, 46, 62}, {16, 31, 47, 63}, {16, 32, 48, 64},
	}
	mp4 := coverMapping{4, 2, 64, 64, cd4, km4}
	mp4c := computeCoverMapping(4, 2)
	mp4a, err := coverMappingForSize(4)
	if err != nil {
		t.Fatalf("Creating first side 4 cover mapping returned an error: %v", err)
	}
	if !reflect.DeepEqual(mp4a, mp4c) {
		t.Fatalf("coverMappingForSize is not using computeCoverMapping!")
	}
	if !reflect.DeepEqual(mp4a, &mp4) {
		t.Errorf("side 4 cover mapping doesn't match expected:\n")
		for i := 0; i <= 64; i++ {
			if !reflect.DeepEqual(mp4a.cdescs[i], mp4.cdescs[i]) {
				t.Errorf("constraint descriptor %d: %v (expected %v)\n",
					i, mp4a.cdescs[i], mp4.cdescs[i])
			}
		}
		for j := 0; j <= 64; j++ {
			if !reflect.DeepEqual(mp4a.cmap[j], mp4.cmap[j]) {
				t.Errorf("candidate map %d: %v (expected %v)\n", j, mp4a.cmap[j], mp4.cmap[j])
			}
		}
	}
	mp4b, err := coverMappingForSize(4)
	if err != nil {
		t.Fatalf("Creating second side 4 cover mapping returned an error: %v", err)
	}
	if reflect.ValueOf(mp4a).Pointer() != reflect.ValueOf(mp4b).Pointer() {
		t.Errorf("First side 4 cover mapping was not reused!")
	}
}
