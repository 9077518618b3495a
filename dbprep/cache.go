// sudobit - a Sudoku constraint solver and puzzle service.
// Licensed under the GPL v2.

package dbprep

import (
	"github.com/garyburd/redigo/redis"
)

// ClearCache drops every key in the Redis cache, puzzle records and
// sessions alike.  Puzzle records are rebuilt from the database on
// the next lookup; flushed sessions start over on the default
// puzzle, with their puzzle history still in the database.
func ClearCache() error {
	conn, err := redis.DialURL(CacheURL())
	if err != nil {
		return err
	}
	defer conn.Close()
	_, err = conn.Do("FLUSHALL")
	return err
}
