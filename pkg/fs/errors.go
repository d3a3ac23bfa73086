package fs

import "github.com/dagfs/dagfs/pkg/errors"

var (
	// ErrNotFound indicates a missing name or path
	ErrNotFound = errors.New("entity not found")

	// ErrAlreadyExists indicates a duplicate name on create
	ErrAlreadyExists = errors.New("name already exists")

	// ErrStreamBusy indicates an output stream is already open on this file
	ErrStreamBusy = errors.New("an output stream is already open")

	// ErrStreamClosed indicates a read or write on a finished stream
	ErrStreamClosed = errors.New("stream is closed")

	// ErrInvalidName indicates a name that cannot be a directory entry
	ErrInvalidName = errors.New("invalid entry name")

	// ErrInvalidPath indicates a path that cannot be resolved
	ErrInvalidPath = errors.New("invalid path")

	// ErrNotAFile indicates a file operation on a non-file entity
	ErrNotAFile = errors.New("not a file")

	// ErrNotADir indicates a directory operation on a non-directory entity
	ErrNotADir = errors.New("not a directory")

	// ErrFollowDepthExceeded indicates a symlink chain longer than MaxFollowDepth
	ErrFollowDepthExceeded = errors.New("maximum symlink follow depth reached")
)
