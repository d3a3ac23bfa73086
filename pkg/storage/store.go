package storage

import (
	"context"
	"io"
)

const (
	// OverWrite indicates a Put may replace an existing object
	OverWrite = true

	// NoOverWrite indicates a Put must fail with ErrExists on an existing object
	NoOverWrite = false
)

// Store implementations know how to persist entries in a K/V fashion.
//
// Typically this is something file system-like. Implementations of this
// interface are assumed to be fairly simple: integrity and idempotence of
// content-addressed writes are guaranteed one layer up, by pkg/cas.
type Store interface {
	String() string
	Has(context.Context, string) (bool, error)
	Get(context.Context, string) (io.ReadCloser, error)
	Put(context.Context, string, io.Reader, bool) error
	Delete(context.Context, string) error
	Keys(context.Context) ([]string, error)
	Clear(context.Context) error
}

// PipeIO copies a reader out to a writer with a bounded buffer
func PipeIO(writer io.Writer, reader io.Reader) (n int64, err error) {
	pb := make([]byte, 32*1024)
	return io.CopyBuffer(writer, reader, pb)
}
