// Package cas layers content addressing on top of a storage.Store.
//
// Every block put through this package is keyed by its CID: a CIDv1
// carrying a blake2b-256 multihash of the exact stored bytes. Identical
// bytes therefore always resolve to the same key and are stored once,
// which is what makes whole-tree deduplication work.
package cas

import (
	"bytes"
	"context"
	"io/ioutil"
	"strings"

	lru "github.com/hashicorp/golang-lru"
	"github.com/ipfs/go-cid"
	"github.com/multiformats/go-multihash"
	"go.uber.org/zap"

	"github.com/dagfs/dagfs/pkg/errors"
	"github.com/dagfs/dagfs/pkg/storage"
	"github.com/dagfs/dagfs/pkg/storage/status"
)

const (
	// RawCodec marks a block holding raw file content bytes
	RawCodec = cid.Raw

	// NodeCodec marks a block holding a canonical entity node encoding
	NodeCodec = cid.DagJSON

	// DefaultCacheSize is the default number of decoded blocks kept in memory
	DefaultCacheSize = 512

	// mhCode is the multihash function used for all CIDs (blake2b-256)
	mhCode = multihash.BLAKE2B_MIN + 31
)

var (
	// ErrNotFound indicates the CID is unknown to this store instance
	ErrNotFound = errors.New("block not found")

	// ErrCIDMismatch indicates the bytes returned by the backend do not
	// hash back to the requested CID. This is surfaced as corruption,
	// never recovered silently.
	ErrCIDMismatch = errors.New("block bytes do not match CID")
)

// Store is a content-addressed block store over a storage backend.
//
// A single Store instance is shared by reference across all entities
// built from it and tolerates concurrent use.
type Store struct {
	backend storage.Store
	prefix  string
	pather  func(cid.Cid) string
	cache   *lru.Cache
	verify  bool
	l       *zap.Logger
}

// New creates a content-addressed store over the given backend
func New(backend storage.Store, opts ...Option) (*Store, error) {
	s := &Store{
		backend: backend,
		verify:  true,
		l:       zap.NewNop(),
	}
	cacheSize := DefaultCacheSize
	for _, apply := range opts {
		apply(s, &cacheSize)
	}
	s.pather = func(c cid.Cid) string { return s.prefix + c.String() }

	if cacheSize > 0 {
		var err error
		s.cache, err = lru.New(cacheSize)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Backend returns the storage the blocks are persisted in
func (s *Store) Backend() storage.Store {
	return s.backend
}

// CIDFor computes the CID a block of data would be stored under,
// without touching the backend.
func (s *Store) CIDFor(codec uint64, data []byte) (cid.Cid, error) {
	sum, err := multihash.Sum(data, mhCode, -1)
	if err != nil {
		return cid.Undef, err
	}
	return cid.NewCidV1(codec, sum), nil
}

// Put stores a block and returns its CID.
//
// Put is idempotent: storing identical bytes twice yields the same CID
// and leaves the backend untouched on the second write.
func (s *Store) Put(ctx context.Context, codec uint64, data []byte) (cid.Cid, error) {
	c, err := s.CIDFor(codec, data)
	if err != nil {
		return cid.Undef, err
	}
	key := s.pather(c)

	has, err := s.backend.Has(ctx, key)
	if err != nil {
		return cid.Undef, status.ErrStoreUnavailable.Wrap(err)
	}
	if has {
		s.l.Debug("duplicate block", zap.Stringer("cid", c), zap.Int("bytes", len(data)))
		return c, nil
	}

	// concurrent writers of the same bytes write the same content under
	// the same key, so overwriting is harmless here
	if err := s.backend.Put(ctx, key, bytes.NewReader(data), storage.OverWrite); err != nil {
		if errors.Is(err, status.ErrStoreUnavailable) {
			return cid.Undef, err
		}
		return cid.Undef, status.ErrStoreUnavailable.Wrap(err)
	}
	s.l.Debug("stored block", zap.Stringer("cid", c), zap.Int("bytes", len(data)))

	if s.cache != nil {
		_, _ = s.cache.ContainsOrAdd(c, append([]byte(nil), data...))
	}
	return c, nil
}

// Get returns the exact bytes stored under a CID.
//
// Unless verification is disabled, the bytes are hashed back and
// compared against the requested CID before being returned.
func (s *Store) Get(ctx context.Context, c cid.Cid) ([]byte, error) {
	if !c.Defined() {
		return nil, ErrNotFound.WrapMessage("undefined CID")
	}
	if s.cache != nil {
		if v, ok := s.cache.Get(c); ok {
			return v.([]byte), nil
		}
	}

	rdr, err := s.backend.Get(ctx, s.pather(c))
	if err != nil {
		if errors.Is(err, status.ErrNotFound) {
			return nil, ErrNotFound.WrapMessage("cid: %s", c)
		}
		if errors.Is(err, status.ErrStoreUnavailable) {
			return nil, err
		}
		return nil, status.ErrStoreUnavailable.Wrap(err)
	}
	data, err := ioutil.ReadAll(rdr)
	if err != nil {
		_ = rdr.Close()
		return nil, status.ErrStoreUnavailable.Wrap(err)
	}
	if err := rdr.Close(); err != nil {
		return nil, status.ErrStoreUnavailable.Wrap(err)
	}

	if s.verify {
		check, err := s.CIDFor(c.Prefix().Codec, data)
		if err != nil {
			return nil, err
		}
		if !check.Equals(c) {
			return nil, ErrCIDMismatch.WrapMessage("requested %s, got %s", c, check)
		}
	}

	if s.cache != nil {
		_, _ = s.cache.ContainsOrAdd(c, data)
	}
	return data, nil
}

// Has reports whether the store holds a block for the given CID
func (s *Store) Has(ctx context.Context, c cid.Cid) (bool, error) {
	if !c.Defined() {
		return false, nil
	}
	has, err := s.backend.Has(ctx, s.pather(c))
	if err != nil {
		return false, status.ErrStoreUnavailable.Wrap(err)
	}
	return has, nil
}

// Delete removes the block stored under a CID.
//
// Reclaiming unreferenced blocks is a store-level concern: the engine
// never calls this on its own.
func (s *Store) Delete(ctx context.Context, c cid.Cid) error {
	if s.cache != nil {
		s.cache.Remove(c)
	}
	if err := s.backend.Delete(ctx, s.pather(c)); err != nil {
		return status.ErrStoreUnavailable.Wrap(err)
	}
	return nil
}

// Keys lists the CIDs of every block held by the backend
func (s *Store) Keys(ctx context.Context) ([]cid.Cid, error) {
	keys, err := s.backend.Keys(ctx)
	if err != nil {
		return nil, status.ErrStoreUnavailable.Wrap(err)
	}
	res := make([]cid.Cid, 0, len(keys))
	for _, k := range keys {
		if s.prefix != "" {
			if !strings.HasPrefix(k, s.prefix) {
				continue
			}
			k = strings.TrimPrefix(k, s.prefix)
		}
		c, err := cid.Decode(k)
		if err != nil {
			// foreign keys in a shared backend are not ours to report
			continue
		}
		res = append(res, c)
	}
	return res, nil
}
