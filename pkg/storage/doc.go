// Package storage provides the interface to handle backend storage objects.
//
// A Store holds immutable, key-addressed byte blobs. The content-addressed
// layer (pkg/cas) chooses keys; a Store never interprets them.
//
// This package supports the following backends:
//   - local file system (afero based, see localfs)
//   - badger key/value store (see bdgr)
package storage
