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

package dbprep

import (
	"fmt"
	"os"

	_ "github.com/mattes/migrate/driver/postgres"
	"github.com/mattes/migrate/migrate"
)

// migrateParams: where the database is and where the migration
// files are.  DBPREP_PATH overrides the migration directory for
// callers running somewhere unusual; otherwise we handle the two
// normal cases, the repository root (the server) and this
// directory (the tests).
func migrateParams() (url, path string) {
	url = os.Getenv("DATABASE_URL")
	if url == "" {
		url = "postgres://localhost/tsunami?sslmode=disable"
	}
	if path = os.Getenv("DBPREP_PATH"); path != "" {
		return
	}
	if fi, err := os.Stat("dbprep"); err == nil && fi.IsDir() {
		path = "dbprep"
	} else {
		path = "."
	}
	return
}

// SchemaUp: apply any migrations not yet applied.
func SchemaUp() error {
	url, path := migrateParams()
	if errs, ok := migrate.UpSync(url, path); !ok {
		return fmt.Errorf("Couldn't apply migrations: %v", errs)
	}
	return nil
}

// SchemaDown: revert all the applied migrations.
func SchemaDown() error {
	url, path := migrateParams()
	if errs, ok := migrate.DownSync(url, path); !ok {
		return fmt.Errorf("Couldn't revert migrations: %v", errs)
	}
	return nil
}

// SchemaVersion: the migration version the database is at, 0 when
// none are applied.
func SchemaVersion() (uint64, error) {
	url, path := migrateParams()
	return migrate.Version(url, path)
}
