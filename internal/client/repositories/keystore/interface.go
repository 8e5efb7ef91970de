// Package keystore is the secure key/blob store of the vault.
//
// Values are addressed by a logical name. A missing name is the normal
// "absent" outcome and is reported as (nil, nil), never as an error.
// Put is a full replace: a stale value can never remain next to a new one
// under the same name, and a failed Put leaves the previous value intact.
//
// Access policy: every backend keeps data in user-private locations
// (0700 directories, 0600 files) on the local device and has no backup or
// sync path, the closest equivalent to "when unlocked, this device only".
package keystore

import (
	"context"
	"regexp"
)

// Store is the contract shared by every backend.
type Store interface {
	// Get returns the value stored under name, or (nil, nil) if absent.
	Get(ctx context.Context, name string) ([]byte, error)
	// Put atomically replaces the value under name. Failures wrap
	// common.ErrStorageWriteFailed.
	Put(ctx context.Context, name string, value []byte) error
}

var validName = regexp.MustCompile(`^[A-Za-z0-9._-]+$`)

// ValidName reports whether name can be used as a logical name.
func ValidName(name string) bool {
	return validName.MatchString(name) && name != "." && name != ".."
}
