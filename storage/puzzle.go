// tsunami - a Sudoku solving service built on exact cover.
// Copyright (C) 2015-2016 Daniel C. Brotsky.
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

package storage

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/grifmoney/tsunami/puzzle"
	"github.com/jackc/pgx"
	"github.com/samber/lo"
)

/*

puzzle entries

*/

// A puzzleEntry represents the stored form of a starting board.
// It is JSON serializable so it can go into the cache as well as
// the database.
type puzzleEntry struct {
	PuzzleId   string // content hash of the board
	SideLength int32
	Values     []int32
}

// loadPuzzleEntry first checks the cache, then the database, to
// find the puzzle's entry.  If it loads from the database, it
// caches the result.  Panics if there is no such stored entry.
func loadPuzzleEntry(id string) *puzzleEntry {
	pe := &puzzleEntry{PuzzleId: id}
	if pe.cacheLoad() {
		return pe
	}
	// cache miss, load from database and save to cache
	pe.databaseLoad()
	pe.cacheInsert()
	return pe
}

// storePuzzle: durably store the summary under its content hash.
// Boards are identified by content, so storing a board that some
// other session already stored is a no-op.
func storePuzzle(id string, sum *puzzle.Summary) {
	pe := &puzzleEntry{
		PuzzleId:   id,
		SideLength: int32(sum.SideLength),
		Values:     lo.Map(sum.Values, func(v int, _ int) int32 { return int32(v) }),
	}
	body := func(tx *pgx.Tx) (err error) {
		_, err = tx.Exec(
			"INSERT INTO puzzles (puzzleId, sideLength, valueList, created) "+
				"VALUES ($1, $2, $3, $4) ON CONFLICT (puzzleId) DO NOTHING",
			pe.PuzzleId, pe.SideLength, pe.Values, time.Now())
		if err != nil {
			err = fmt.Errorf("Database error saving puzzle entry %q: %v", pe.PuzzleId, err)
		}
		return
	}
	pgExecute(body)
	pe.cacheInsert()
}

// makePuzzle: make the puzzle described in a puzzle entry
func (pe *puzzleEntry) makePuzzle() *puzzle.Puzzle {
	p, e := puzzle.New(&puzzle.Summary{
		SideLength: int(pe.SideLength),
		Values:     lo.Map(pe.Values, func(v int32, _ int) int { return int(v) }),
	})
	if e != nil {
		panic(fmt.Errorf("Failed to create puzzle %q: %v", pe.PuzzleId, e))
	}
	return p
}

// key: compute the cache key for a puzzleEntry.
func (pe *puzzleEntry) key() string {
	return "PID:" + pe.PuzzleId
}

// cacheLoad: load an already cached puzzle entry.  Returns
// whether the entry was found in the cache.
func (pe *puzzleEntry) cacheLoad() bool {
	var bytes []byte
	body := func(tx redis.Conn) (err error) {
		bytes, err = redis.Bytes(tx.Do("GET", pe.key()))
		if err == redis.ErrNil {
			return nil
		}
		if err != nil {
			err = fmt.Errorf("Cache failure loading puzzleEntry %q: %v", pe.PuzzleId, err)
		}
		return
	}
	rdExecute(body)
	if len(bytes) == 0 {
		return false
	}
	var spe *puzzleEntry
	err := json.Unmarshal(bytes, &spe)
	if err != nil {
		panic(fmt.Errorf("Failed to unmarshal puzzleEntry %q: %v", pe.PuzzleId, err))
	}
	if spe.PuzzleId != pe.PuzzleId {
		panic(fmt.Errorf("Cached puzzleEntry (id: %q) found for puzzle %q!",
			spe.PuzzleId, pe.PuzzleId))
	}
	*pe = *spe
	return true
}

// databaseLoad: load a puzzle entry from the database.  Panics
// if there is no saved entry with the given id.
func (pe *puzzleEntry) databaseLoad() {
	body := func(tx *pgx.Tx) error {
		row := tx.QueryRow(
			"SELECT sideLength, valueList FROM puzzles "+
				"WHERE puzzleId = $1", pe.PuzzleId)
		if err := row.Scan(&pe.SideLength, &pe.Values); err != nil {
			return fmt.Errorf("Failure looking up puzzle %q: %v", pe.PuzzleId, err)
		}
		return nil
	}
	pgExecute(body)
}

// cacheInsert: insert a puzzle entry into the cache. Replaces
// any existing entry with the same id.
func (pe *puzzleEntry) cacheInsert() {
	bytes, e := json.Marshal(pe)
	if e != nil {
		panic(fmt.Errorf("Failed to marshal puzzleEntry %q: %v", pe.PuzzleId, e))
	}
	body := func(tx redis.Conn) (err error) {
		_, err = tx.Do("SET", pe.key(), bytes)
		if err != nil {
			err = fmt.Errorf("Cache failure saving puzzle entry %q: %v", pe.PuzzleId, err)
		}
		return
	}
	rdExecute(body)
}

/*

recorded solutions

*/

// solutionsKey: compute the cache key for a puzzle's recorded
// solutions.
func solutionsKey(id string) string {
	return "PID:" + id + ":Solutions"
}

// RecordSolutions: durably record the solutions of a stored
// puzzle, replacing any prior record.  The given list must be
// the complete enumeration for the puzzle, so a later load can
// serve any prefix of it without re-solving.
func RecordSolutions(id string, solns []puzzle.Solution) {
	// replace the database record
	body := func(tx *pgx.Tx) (err error) {
		_, err = tx.Exec("DELETE FROM solutions WHERE puzzleId = $1", id)
		if err != nil {
			return fmt.Errorf("Database error clearing solutions of %q: %v", id, err)
		}
		for i, soln := range solns {
			values := lo.Map(soln.Values, func(v int, _ int) int32 { return int32(v) })
			choices := lo.FlatMap(soln.Choices, func(c puzzle.Choice, _ int) []int32 {
				return []int32{int32(c.Index), int32(c.Value)}
			})
			_, err = tx.Exec(
				"INSERT INTO solutions (puzzleId, solutionIndex, valueList, choiceList) "+
					"VALUES ($1, $2, $3, $4)",
				id, int32(i+1), values, choices)
			if err != nil {
				return fmt.Errorf("Database error saving solution %d of %q: %v", i+1, id, err)
			}
		}
		return nil
	}
	pgExecute(body)
	// replace the cache record
	cacheInsertSolutions(id, solns)
}

// LoadSolutions: fetch the recorded solutions of a stored
// puzzle, cache first, then database.  A database hit refills
// the cache.  Returns nil if the puzzle has no recorded
// solutions.
func LoadSolutions(id string) []puzzle.Solution {
	if solns, ok := cacheLoadSolutions(id); ok {
		return solns
	}
	var solns []puzzle.Solution
	body := func(tx *pgx.Tx) error {
		rows, err := tx.Query(
			"SELECT valueList, choiceList FROM solutions "+
				"WHERE puzzleId = $1 ORDER BY solutionIndex", id)
		if err != nil {
			return fmt.Errorf("Failure looking up solutions of %q: %v", id, err)
		}
		defer rows.Close()
		for rows.Next() {
			var values, flat []int32
			if err := rows.Scan(&values, &flat); err != nil {
				return fmt.Errorf("Failure reading solutions of %q: %v", id, err)
			}
			soln := puzzle.Solution{
				Values: lo.Map(values, func(v int32, _ int) int { return int(v) }),
			}
			if len(flat) > 0 {
				soln.Choices = make([]puzzle.Choice, len(flat)/2)
				for i := range soln.Choices {
					soln.Choices[i] = puzzle.Choice{
						Index: int(flat[2*i]), Value: int(flat[2*i+1])}
				}
			}
			solns = append(solns, soln)
		}
		return rows.Err()
	}
	pgExecute(body)
	if solns != nil {
		cacheInsertSolutions(id, solns)
	}
	return solns
}

// cacheLoadSolutions: load a puzzle's recorded solutions from
// the cache.  Returns whether the record was found.
func cacheLoadSolutions(id string) ([]puzzle.Solution, bool) {
	var blobs [][]byte
	body := func(tx redis.Conn) (err error) {
		blobs, err = redis.ByteSlices(tx.Do("LRANGE", solutionsKey(id), 0, -1))
		if err != nil {
			err = fmt.Errorf("Cache failure loading solutions of %q: %v", id, err)
		}
		return
	}
	rdExecute(body)
	if len(blobs) == 0 {
		return nil, false
	}
	solns := make([]puzzle.Solution, len(blobs))
	for i, blob := range blobs {
		if err := json.Unmarshal(blob, &solns[i]); err != nil {
			panic(fmt.Errorf("Failed to unmarshal solution %d of %q: %v", i+1, id, err))
		}
	}
	return solns, true
}

// cacheInsertSolutions: replace a puzzle's cached solution
// record.
func cacheInsertSolutions(id string, solns []puzzle.Solution) {
	args := redis.Args{}.Add(solutionsKey(id))
	for i, soln := range solns {
		blob, err := json.Marshal(soln)
		if err != nil {
			panic(fmt.Errorf("Failed to marshal solution %d of %q: %v", i+1, id, err))
		}
		args = args.Add(blob)
	}
	body := func(tx redis.Conn) (err error) {
		if len(solns) == 0 {
			_, err = tx.Do("DEL", solutionsKey(id))
		} else {
			tx.Send("DEL", solutionsKey(id))
			_, err = tx.Do("RPUSH", args...)
		}
		if err != nil {
			err = fmt.Errorf("Cache failure saving solutions of %q: %v", id, err)
		}
		return
	}
	rdExecute(body)
}

/*

puzzle info

*/

// A PuzzleInfo is the session's exported form of the puzzles in
// the session.  It merges the sessionPuzzles bookkeeping with
// the puzzleEntry shape data.
type PuzzleInfo struct {
	PuzzleId   string    // unique ID for this puzzle
	Name       string    // user-facing name of the puzzle
	SideLength int       // puzzle size
	Empties    int       // number of squares left to fill
	Solved     bool      // whether solutions have been recorded
	LastView   time.Time // time when the puzzle was last viewed
}

// loadPuzzleInfo - fetch the info for all of a session's puzzles
func loadPuzzleInfo(sid string) []*PuzzleInfo {
	var infos []*PuzzleInfo
	body := func(tx *pgx.Tx) error {
		rows, err := tx.Query(
			"SELECT sp.puzzleId, sp.puzzleName, sp.lastViewed, p.sideLength, p.valueList, "+
				"EXISTS (SELECT 1 FROM solutions so WHERE so.puzzleId = sp.puzzleId) "+
				"FROM sessionPuzzles sp JOIN puzzles p ON p.puzzleId = sp.puzzleId "+
				"WHERE sp.sessionId = $1", sid)
		if err != nil {
			return fmt.Errorf("Failure looking up puzzles of session %q: %v", sid, err)
		}
		defer rows.Close()
		for rows.Next() {
			var (
				pi      PuzzleInfo
				sidelen int32
				values  []int32
			)
			err := rows.Scan(&pi.PuzzleId, &pi.Name, &pi.LastView, &sidelen, &values, &pi.Solved)
			if err != nil {
				return fmt.Errorf("Failure reading puzzles of session %q: %v", sid, err)
			}
			pi.SideLength = int(sidelen)
			pi.Empties = countZeroes(values)
			infos = append(infos, &pi)
		}
		return rows.Err()
	}
	pgExecute(body)
	return infos
}

// compute the number of empty squares
func countZeroes(vals []int32) (count int) {
	for _, v := range vals {
		if v == 0 {
			count++
		}
	}
	return
}

// sorting of info sequences by puzzle name
type ByName []*PuzzleInfo

func (pi ByName) Len() int           { return len(pi) }
func (pi ByName) Swap(i, j int)      { pi[i], pi[j] = pi[j], pi[i] }
func (pi ByName) Less(i, j int) bool { return pi[i].Name < pi[j].Name }

// sorting of info sequences by last viewed time
type ByLatestView []*PuzzleInfo

func (pi ByLatestView) Len() int           { return len(pi) }
func (pi ByLatestView) Swap(i, j int)      { pi[i], pi[j] = pi[j], pi[i] }
func (pi ByLatestView) Less(i, j int) bool { return pi[i].LastView.After(pi[j].LastView) }

// sorting of info sequences by solved status & last viewed time
type BySolvedFirst []*PuzzleInfo

func (pi BySolvedFirst) Len() int      { return len(pi) }
func (pi BySolvedFirst) Swap(i, j int) { pi[i], pi[j] = pi[j], pi[i] }
func (pi BySolvedFirst) Less(i, j int) bool {
	return !(!pi[i].Solved && pi[j].Solved) &&
		((pi[i].Solved && !pi[j].Solved) ||
			pi[i].LastView.After(pi[j].LastView))
}
