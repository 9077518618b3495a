// sudobit - a Sudoku constraint solver and puzzle service.
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

// Package storage keeps puzzles and solve sessions in a two-tier
// store: Redis as a cache, Postgres as the durable record.  Its
// entry points panic on storage failures rather than returning
// errors; callers that serve requests wrap them with a recover.
package storage

import (
	"fmt"
	"sync"

	"github.com/garyburd/redigo/redis"
	"github.com/jackc/pgx"

	"github.com/sudobit/sudobit/dbprep"
)

// Connection state.  Every request touches at most one puzzle
// record and one session, so the whole package shares a single
// connection per tier, serialized by one mutex; pooling would buy
// nothing at this traffic shape.  Endpoints come from the
// environment lookups in dbprep, the same ones preparation uses.
var (
	mu       sync.Mutex
	cache    redis.Conn
	database *pgx.Conn
)

// Connect prepares the stores (schema migration plus sample data)
// and dials both tiers.  The returned identifiers are the endpoint
// URLs actually used, for startup logging.
func Connect() (cacheId, databaseId string, err error) {
	if err = dbprep.EnsureData(); err != nil {
		return "", "", fmt.Errorf("Storage preparation failed: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if err = dialCache(); err != nil {
		return "", "", err
	}
	if err = dialDatabase(); err != nil {
		dropCache()
		return "", "", err
	}
	return dbprep.CacheURL(), dbprep.DatabaseURL(), nil
}

// Close drops both connections.  Safe to call however many times;
// extra calls find nothing to drop.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	dropDatabase()
	dropCache()
}

/*

cache tier

*/

func dialCache() error {
	conn, err := redis.DialURL(dbprep.CacheURL())
	if err != nil {
		return fmt.Errorf("Can't reach cache at %q: %v", dbprep.CacheURL(), err)
	}
	cache = conn
	return nil
}

func dropCache() {
	if cache != nil {
		cache.Close()
		cache = nil
	}
}

// withCache runs body against the shared cache connection, holding
// the package mutex throughout.  Redis connections die without
// warning, so the connection is pinged first and redialed once if
// the ping fails.  Any error out of the body becomes a panic; the
// request-level recover in the servers turns it into a 500.
func withCache(body func(conn redis.Conn) error) {
	mu.Lock()
	defer mu.Unlock()
	if _, err := cache.Do("PING"); err != nil {
		dropCache()
		if err := dialCache(); err != nil {
			panic(err)
		}
	}
	if err := body(cache); err != nil {
		panic(err)
	}
}

/*

database tier

*/

func dialDatabase() error {
	cfg, err := pgx.ParseURI(dbprep.DatabaseURL())
	if err != nil {
		return fmt.Errorf("Bad database URL %q: %v", dbprep.DatabaseURL(), err)
	}
	conn, err := pgx.Connect(cfg)
	if err != nil {
		return fmt.Errorf("Can't reach database at %q: %v", dbprep.DatabaseURL(), err)
	}
	database = conn
	return nil
}

func dropDatabase() {
	if database != nil {
		database.Close()
		database = nil
	}
}

// withTx runs body inside one database transaction, committing on
// success and rolling back on error or panic.  Like withCache, it
// holds the package mutex for the duration (the pgx connection is
// not safe for concurrent use) and panics on failure, out to the
// request-level recover.
func withTx(body func(tx *pgx.Tx) error) {
	mu.Lock()
	defer mu.Unlock()
	tx, err := database.Begin()
	if err != nil {
		panic(fmt.Errorf("Can't begin a database transaction: %v", err))
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()
	if err := body(tx); err != nil {
		tx.Rollback()
		panic(err)
	}
	if err := tx.Commit(); err != nil {
		panic(fmt.Errorf("Transaction commit failed: %v", err))
	}
}
