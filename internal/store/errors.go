package store

import "errors"

// Sentinel errors for store operations.
var (
	ErrSnapshotNotFound = errors.New("snapshot not found")
	ErrMissingVersion   = errors.New("snapshot has no version label")
)
