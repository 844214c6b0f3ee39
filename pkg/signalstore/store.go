package signalstore

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound reports that no live record exists for a device key.
	ErrNotFound = errors.New("signalstore.not_found")

	// ErrEmptyKey rejects operations without a device key.
	ErrEmptyKey = errors.New("signalstore.empty_key")
)

// Record is what the persist collaborator keeps per device: the last session id
// it wrote and when the device was last active.
type Record struct {
	SessionID    string
	LastActivity int64 // unix milliseconds
}

// Store keeps device records for a limited time.
type Store interface {
	// Get returns the record for deviceKey or ErrNotFound.
	Get(ctx context.Context, deviceKey string) (Record, error)

	// Put replaces the record for deviceKey. It expires after ttl.
	Put(ctx context.Context, deviceKey string, rec Record, ttl time.Duration) error

	// Delete removes the record for deviceKey. Missing records are not an error.
	Delete(ctx context.Context, deviceKey string) error
}
