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

// Package dbprep prepares the stores the service relies on: it
// migrates the database schema to the current version, loads the
// sample data, and can flush the cache.  Both the server and the
// tests use it to bring storage to a known-good state.
package dbprep

import (
	"fmt"
)

// EnsureData: bring the schema to its current version and make sure
// the sample puzzles are loaded.  The sample load is idempotent, so
// running this against a live schema whose rows were swept puts the
// samples back.
func EnsureData() error {
	if err := SchemaUp(); err != nil {
		return fmt.Errorf("Couldn't install data schema: %v", err)
	}
	version, err := SchemaVersion()
	if err != nil {
		return fmt.Errorf("Couldn't get data schema version: %v", err)
	}
	if version == 0 {
		return fmt.Errorf("Database schema still at version 0, shouldn't be.")
	}
	if err := DataUp(); err != nil {
		return fmt.Errorf("Couldn't load sample data: %v", err)
	}
	return nil
}

// RemoveData: tear the schema down, taking all the stored puzzles,
// sessions, and solutions with it.  A no-op when the schema was
// never installed.
func RemoveData() error {
	version, err := SchemaVersion()
	if err != nil {
		return fmt.Errorf("Couldn't get data schema version: %v", err)
	}
	if version > 0 {
		if err := SchemaDown(); err != nil {
			return fmt.Errorf("Couldn't remove tables: %v", err)
		}
	}
	return nil
}

// ReinitializeAll: flush the cache and rebuild the database from
// nothing.  This is what prepare-storage runs before each deploy.
func ReinitializeAll() error {
	if err := ClearCache(); err != nil {
		return fmt.Errorf("Couldn't clear cache: %v", err)
	}
	if err := RemoveData(); err != nil {
		return fmt.Errorf("Couldn't clear database: %v", err)
	}
	if err := EnsureData(); err != nil {
		return fmt.Errorf("Couldn't reload database: %v", err)
	}
	return nil
}
