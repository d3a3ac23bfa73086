// Package status declares error constants returned by
// implementations of the Store interface.
//
// NOTE: such constants are located in a separate package to avoid
// creating undue cyclical dependencies between pkg/storage and one
// of its implementations.
package status

import "github.com/dagfs/dagfs/pkg/errors"

var (
	// Sentinel errors returned by implementations of the interface defined by storage

	// ErrNotFound indicates that the requested object is unknown to this store
	ErrNotFound = errors.New("object not found")

	// ErrExists indicates that the object already exists and cannot be overridden
	ErrExists = errors.New("object exists already")

	// ErrNotSupported indicates that the backend does not support this call
	ErrNotSupported = errors.New("not supported")

	// ErrInvalidResource indicates that the storage resource has an invalid name
	ErrInvalidResource = errors.New("invalid storage resource name")

	// ErrStoreUnavailable indicates an I/O layer failure of the backing store.
	// Such failures are non-fatal to the caller and may be retried.
	ErrStoreUnavailable = errors.New("store unavailable")
)
