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

	"github.com/gomodule/redigo/redis"
)

// ClearCache: flush the logical Redis database the service uses.
// Sessions live only in the cache, so this signs everyone out; the
// puzzle data is all in Postgres and survives.  REDIS_URL and
// REDIS_DB select the instance and database the same way the
// storage layer does.
func ClearCache() error {
	url := os.Getenv("REDIS_URL")
	if url == "" {
		url = "redis://localhost:6379/"
	}
	if db := os.Getenv("REDIS_DB"); db != "" {
		url += db
	}
	conn, err := redis.DialURL(url)
	if err != nil {
		return fmt.Errorf("Couldn't connect to cache at %q: %v", url, err)
	}
	defer conn.Close()
	if _, err := conn.Do("FLUSHDB"); err != nil {
		return fmt.Errorf("Couldn't flush cache: %v", err)
	}
	return nil
}
