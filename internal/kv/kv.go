// Package kv is the shared persistence service both the customer flow and the
// admin board read and write. Each key holds one opaque blob plus a version that
// the backend bumps on every Put, which is what compare-and-swap keys off.
package kv

import (
	"context"
	"errors"
)

// AnyVersion disables the version check on Put (last writer wins).
const AnyVersion int64 = -1

// ErrVersionConflict is returned by Put when the stored version differs from the expected one.
var ErrVersionConflict = errors.New("kv: version conflict")

// Blob is a stored value and the version it was read at.
type Blob struct {
	Data    []byte
	Version int64
}

// Backend reads and writes whole blobs.
//
// Get returns (nil, nil) when the key is absent.
// Put stores data under key. expectedVersion is AnyVersion for an unconditional
// write, 0 for "must not exist yet", or the version previously read. It returns
// the new version.
type Backend interface {
	Get(ctx context.Context, key string) (*Blob, error)
	Put(ctx context.Context, key string, data []byte, expectedVersion int64) (int64, error)
}
