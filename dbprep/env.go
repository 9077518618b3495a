// sudobit - a Sudoku constraint solver and puzzle service.
// Licensed under the GPL v2.

package dbprep

import (
	"os"
)

// Connection configuration for both storage tiers lives here: the
// preparation helpers in this package and the storage package dial
// the same two services, so the environment lookups have one home.
// Unset variables fall back to local development instances.
const (
	cacheEnvVar = "REDIS_URL"
	dbEnvVar    = "DATABASE_URL"
	pathEnvVar  = "DBPREP_PATH"

	localCacheURL = "redis://localhost:6379/"
	localDbURL    = "postgres://localhost/sudobit?sslmode=disable"
)

// CacheURL returns the Redis endpoint to use.
func CacheURL() string {
	if url := os.Getenv(cacheEnvVar); url != "" {
		return url
	}
	return localCacheURL
}

// DatabaseURL returns the Postgres endpoint to use.
func DatabaseURL() string {
	if url := os.Getenv(dbEnvVar); url != "" {
		return url
	}
	return localDbURL
}

// migrationsPath returns the directory holding the SQL migration
// files.  They live next to this package's source, so a process
// started from the repository root finds them under "dbprep" and
// one started in the package directory finds them in place;
// anything else needs the environment variable.
func migrationsPath() string {
	if path := os.Getenv(pathEnvVar); path != "" {
		return path
	}
	if fi, err := os.Stat("dbprep"); err == nil && fi.IsDir() {
		return "dbprep"
	}
	return "."
}
