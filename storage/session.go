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
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gomodule/redigo/redis"
	"github.com/grifmoney/tsunami/dbprep"
	"github.com/grifmoney/tsunami/puzzle"
	"github.com/jackc/pgx"
)

// A Session tracks one user's collection of puzzles and which of
// them the user is currently solving.  The collection itself is
// durable in the database; the session fields live in the cache
// so a returning browser picks up right where it left off.
type Session struct {
	// these elements are persisted in the cache
	SID     string // session ID
	PID     string // ID of the selected puzzle
	Created string // RFC3339 time when the session was created
	Saved   string // RFC3339 time when the session was last saved

	// these elements are rebuilt from storage on each load
	Puzzle *puzzle.Puzzle `redis:"-"` // selected puzzle, ready to solve
	Info   []*PuzzleInfo  `redis:"-"` // the session's puzzles, in name order
}

/*

session manipulation

*/

// LoadSession: fetch the session with the given ID, creating it
// with a copy of the sample puzzles if it has never been seen
// before.  The returned session has its puzzle info and selected
// puzzle loaded and ready.
func LoadSession(sid string) *Session {
	s := &Session{SID: sid}
	found := s.lookup()
	if !found {
		s.initializeFromSample()
	}
	s.Info = loadPuzzleInfo(s.SID)
	sort.Sort(ByName(s.Info))
	if s.PID == "" {
		if len(s.Info) == 0 {
			panic(fmt.Errorf("Session %q has no puzzles", s.SID))
		}
		s.PID = s.Info[0].PuzzleId
	}
	s.Puzzle = loadPuzzleEntry(s.PID).makePuzzle()
	if !found {
		s.save()
		log.Printf("Created session %v with %d sample puzzles.", s.SID, len(s.Info))
	}
	return s
}

// lookup: fill the session fields from the cache.  Returns
// whether the session was found there.
func (s *Session) lookup() (found bool) {
	body := func(tx redis.Conn) error {
		vals, err := redis.Values(tx.Do("HGETALL", s.key()))
		if len(vals) > 0 {
			if err := redis.ScanStruct(vals, s); err != nil {
				log.Printf("Cache error on parse of saved session %q: %v", s.SID, err)
				return err
			}
			found = true
			return nil
		}
		if err != nil {
			log.Printf("Cache error on load of session %q: %v", s.SID, err)
			return err
		}
		return nil
	}
	rdExecute(body)
	return
}

// initializeFromSample: populate a brand-new session with the
// sample puzzles.  The sample collection is copied, so the
// session can extend its own list without affecting anyone
// else's.  The copy is keyed by session and puzzle, so a session
// whose cache entry was flushed keeps its database collection.
func (s *Session) initializeFromSample() {
	now := time.Now()
	s.Created = now.Format(time.RFC3339)
	s.Saved = s.Created
	body := func(tx *pgx.Tx) error {
		_, err := tx.Exec(
			"INSERT INTO sessions (sessionId, created, saved) VALUES ($1, $2, $3) "+
				"ON CONFLICT (sessionId) DO UPDATE SET saved = $3",
			s.SID, now, now)
		if err != nil {
			return fmt.Errorf("Database error saving session %q: %v", s.SID, err)
		}
		_, err = tx.Exec(
			"INSERT INTO sessionPuzzles (sessionId, puzzleId, puzzleName, lastViewed) "+
				"SELECT $1, puzzleId, puzzleName, lastViewed FROM sessionPuzzles "+
				"WHERE sessionId = $2 ON CONFLICT DO NOTHING",
			s.SID, dbprep.SampleSessionName)
		if err != nil {
			return fmt.Errorf("Database error copying sample puzzles to session %q: %v", s.SID, err)
		}
		return nil
	}
	pgExecute(body)
}

// find: the session's info whose name or ID matches the target,
// ignoring case, or nil if there is none.
func (s *Session) find(target string) *PuzzleInfo {
	for _, pi := range s.Info {
		if strings.EqualFold(pi.Name, target) || strings.EqualFold(pi.PuzzleId, target) {
			return pi
		}
	}
	return nil
}

// Current: the info for the selected puzzle.
func (s *Session) Current() *PuzzleInfo {
	for _, pi := range s.Info {
		if pi.PuzzleId == s.PID {
			return pi
		}
	}
	panic(fmt.Errorf("Session %q has no info for selected puzzle %q", s.SID, s.PID))
}

// SelectPuzzle: make the target puzzle the session's selected
// puzzle.  The target can be a puzzle name or a puzzle ID, and
// matching ignores case.  Panics if the target names no puzzle
// in the session.
func (s *Session) SelectPuzzle(target string) *PuzzleInfo {
	pi := s.find(target)
	if pi == nil {
		panic(fmt.Errorf("Session %q has no puzzle %q", s.SID, target))
	}
	now := time.Now()
	body := func(tx *pgx.Tx) (err error) {
		_, err = tx.Exec(
			"UPDATE sessionPuzzles SET lastViewed = $1 "+
				"WHERE sessionId = $2 AND puzzleId = $3",
			now, s.SID, pi.PuzzleId)
		if err != nil {
			err = fmt.Errorf("Database error selecting puzzle %q: %v", pi.Name, err)
		}
		return
	}
	pgExecute(body)
	pi.LastView = now
	s.PID = pi.PuzzleId
	s.Puzzle = loadPuzzleEntry(s.PID).makePuzzle()
	s.save()
	log.Printf("Session %v selected puzzle %q.", s.SID, pi.Name)
	return pi
}

// AddPuzzle: add a board to the session under the given name and
// select it.  Boards are identified by their content hash, so
// adding a board the session already has just selects it.  An
// empty name gets a generated one.
func (s *Session) AddPuzzle(sum *puzzle.Summary, name string) (*PuzzleInfo, error) {
	p, err := puzzle.New(sum)
	if err != nil {
		return nil, err
	}
	id, err := sum.Hash()
	if err != nil {
		return nil, err
	}
	if pi := s.find(id); pi != nil {
		return s.SelectPuzzle(id), nil
	}
	if name == "" {
		for i := len(s.Info) + 1; ; i++ {
			name = fmt.Sprintf("puzzle-%d", i)
			if s.find(name) == nil {
				break
			}
		}
	} else if s.find(name) != nil {
		return nil, fmt.Errorf("Session %q already has a puzzle named %q", s.SID, name)
	}

	storePuzzle(id, sum)
	now := time.Now()
	body := func(tx *pgx.Tx) error {
		_, err := tx.Exec(
			"INSERT INTO sessionPuzzles (sessionId, puzzleId, puzzleName, lastViewed) "+
				"VALUES ($1, $2, $3, $4)",
			s.SID, id, name, now)
		if err != nil {
			return fmt.Errorf("Database error adding puzzle %q: %v", name, err)
		}
		_, err = tx.Exec(
			"UPDATE sessions SET saved = $1 WHERE sessionId = $2", now, s.SID)
		if err != nil {
			return fmt.Errorf("Database error updating session %q: %v", s.SID, err)
		}
		return nil
	}
	pgExecute(body)

	pi := &PuzzleInfo{
		PuzzleId:   id,
		Name:       name,
		SideLength: p.SideLength(),
		Empties:    p.Empties(),
		LastView:   now,
	}
	s.Info = append(s.Info, pi)
	sort.Sort(ByName(s.Info))
	s.PID, s.Puzzle = id, p
	s.save()
	log.Printf("Session %v added puzzle %q.", s.SID, name)
	return pi, nil
}

// RecordSolutions: record the complete solution enumeration of
// the selected puzzle and mark it solved.
func (s *Session) RecordSolutions(solns []puzzle.Solution) {
	RecordSolutions(s.PID, solns)
	pi := s.Current()
	pi.Solved = len(solns) > 0
	s.save()
	log.Printf("Session %v recorded %d solutions for puzzle %q.", s.SID, len(solns), pi.Name)
}

// StoredSolutions: the recorded solutions of the selected
// puzzle, or nil if none have been recorded.
func (s *Session) StoredSolutions() []puzzle.Solution {
	return LoadSolutions(s.PID)
}

/*

session persistence

*/

// save: persist the session fields to the cache.
func (s *Session) save() {
	s.Saved = time.Now().Format(time.RFC3339)
	body := func(tx redis.Conn) (err error) {
		_, err = tx.Do("HMSET", redis.Args{}.Add(s.key()).AddFlat(s)...)
		if err != nil {
			err = fmt.Errorf("Cache failure saving session %q: %v", s.SID, err)
		}
		return
	}
	rdExecute(body)
}

// key - returns the session key
func (s *Session) key() string {
	return rdEnv + ":SID:" + s.SID
}
