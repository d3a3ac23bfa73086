// Package chunker splits file content into store-addressable leaves.
//
// The boundary policy is pluggable: fixed-size splitting is the default,
// Rabin fingerprinting is available when content-defined boundaries give
// better deduplication across shifted edits. Whatever the policy, chunk
// bytes are deterministic for identical input, which is all the
// content-addressed layer requires.
package chunker

import (
	"fmt"
	"io"

	units "github.com/docker/go-units"
	boxochunker "github.com/ipfs/boxo/chunker"
)

const (
	// DefaultLeafSize is the default chunk boundary (2 MiB)
	DefaultLeafSize uint32 = 2 * units.MiB

	// MinLeafSize guards against degenerate chunking
	MinLeafSize uint32 = 4 * units.KiB

	// MaxLeafSize bounds memory use per chunk buffer (5 MiB)
	MaxLeafSize uint32 = 5 * units.MiB
)

// Chunker produces successive chunks of a data stream.
type Chunker interface {
	// Next returns the next chunk of data.
	// It returns io.EOF when there are no more chunks.
	Next() ([]byte, error)
}

// Factory builds a Chunker over a reader. The engine holds a Factory so
// the boundary policy travels with the entity configuration.
type Factory func(io.Reader) Chunker

// FixedSize returns a factory for fixed-boundary chunking
func FixedSize(leafSize uint32) (Factory, error) {
	if err := validateLeafSize(leafSize); err != nil {
		return nil, err
	}
	return func(r io.Reader) Chunker {
		return &boxoChunker{
			splitter: boxochunker.NewSizeSplitter(r, int64(leafSize)),
		}
	}, nil
}

// Rabin returns a factory for content-defined chunking with the given
// average chunk size
func Rabin(avgSize uint32) (Factory, error) {
	if err := validateLeafSize(avgSize); err != nil {
		return nil, err
	}
	return func(r io.Reader) Chunker {
		return &boxoChunker{
			splitter: boxochunker.NewRabin(r, uint64(avgSize)),
		}
	}, nil
}

// Default is the chunking factory used when none is configured
func Default() Factory {
	f, _ := FixedSize(DefaultLeafSize)
	return f
}

func validateLeafSize(leafSize uint32) error {
	if leafSize < MinLeafSize || leafSize > MaxLeafSize {
		return fmt.Errorf("leaf size %d outside of [%d, %d]", leafSize, MinLeafSize, MaxLeafSize)
	}
	return nil
}

type boxoChunker struct {
	splitter boxochunker.Splitter
}

func (c *boxoChunker) Next() ([]byte, error) {
	return c.splitter.NextBytes()
}
