package constants

import "time"

const (
	SyncInterval     = 30 * time.Second
	SyncWorkers      = 8
	RecentMatchLimit = 20
)

const (
	ExternalAPITimeout = 10 * time.Second
	DatabaseTimeout    = 5 * time.Second
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	ShutdownTimeout = 5 * time.Second
)

const (
	// ListFetchRetries is the number of extra attempts after a transient
	// matchlist failure. Per-match detail fetches are never retried within
	// a cycle; the next cycle picks the match up again.
	ListFetchRetries = 1

	// StorePutRetries bounds the retry of a transient persistence failure.
	// The retry resends the identical id and blob.
	StorePutRetries = 1
)
