// Package model defines the persisted block layout of dagfs entities
// and its canonical byte encoding.
//
// A block is the canonical JSON encoding of exactly one Node. The
// encoding is deterministic: fixed struct field order, no maps, UTC
// timestamps, canonical CIDv1 strings. The same logical state always
// serializes to the same bytes, which is the property content
// addressing and deduplication rest on. The layout is a format
// contract shared by independent processes using the same store, so
// it must stay bit-stable across releases.
package model
