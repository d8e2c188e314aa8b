package errors

import "errors"

var (
	// ErrStoreQuery wraps any failed read against the booking store.
	ErrStoreQuery = errors.New("store query failed")

	ErrInvalidDate = errors.New("invalid date format, expected YYYY-MM-DD")

	ErrInvalidTime = errors.New("invalid time format, expected HH:MM")

	ErrInvalidDuration = errors.New("duration must be positive")

	ErrUnknownKind = errors.New("unknown resource kind")
)

// ErrSnapshotMiss is returned when a cached check asks about a resource or
// date that was not part of the prefetch.
var ErrSnapshotMiss = errors.New("not covered by prefetched snapshot")
