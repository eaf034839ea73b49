package util

import "errors"

// Sentinel errors for the pipeline's failure taxonomy.
// Store errors are fatal for a run; everything else is recoverable
// and handled at the candidate or entry level.
var (
	// ErrStoreUnavailable indicates the identity store is unreachable or corrupt
	ErrStoreUnavailable = errors.New("identity store unavailable")

	// ErrCatalogLookup indicates a catalog search failed or timed out
	ErrCatalogLookup = errors.New("catalog lookup failed")

	// ErrCatalogMutation indicates a playlist add/remove/create failed
	ErrCatalogMutation = errors.New("catalog mutation failed")

	// ErrProducerFetch indicates a candidate source failed to fetch or parse
	ErrProducerFetch = errors.New("producer fetch failed")

	// ErrNotFound indicates a required resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidConfig indicates invalid configuration
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrLocked indicates another run already holds the run lock
	ErrLocked = errors.New("another run is in progress")
)
