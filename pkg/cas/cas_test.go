package cas

import (
	"bytes"
	"context"
	"testing"

	"github.com/dagfs/dagfs/pkg/errors"
	"github.com/dagfs/dagfs/pkg/storage"
	"github.com/dagfs/dagfs/pkg/storage/localfs"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func testCAS(t *testing.T, opts ...Option) (*Store, storage.Store) {
	backend := localfs.New(afero.NewMemMapFs())
	s, err := New(backend, opts...)
	require.NoError(t, err)
	return s, backend
}

func TestCASPutGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	s, _ := testCAS(t)

	data := []byte("some immutable content")
	c, err := s.Put(ctx, RawCodec, data)
	require.NoError(t, err)
	require.True(t, c.Defined())

	got, err := s.Get(ctx, c)
	require.NoError(t, err)
	require.Equal(t, data, got)
}

func TestCASDeterministicCID(t *testing.T) {
	ctx := context.Background()
	s, _ := testCAS(t)

	data := []byte("hash me twice")
	c1, err := s.Put(ctx, RawCodec, data)
	require.NoError(t, err)
	c2, err := s.Put(ctx, RawCodec, data)
	require.NoError(t, err)
	require.True(t, c1.Equals(c2))

	// CIDFor agrees with Put without touching the backend
	c3, err := s.CIDFor(RawCodec, data)
	require.NoError(t, err)
	require.True(t, c1.Equals(c3))
}

func TestCASPutIsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, backend := testCAS(t)

	data := []byte("stored once")
	_, err := s.Put(ctx, RawCodec, data)
	require.NoError(t, err)
	_, err = s.Put(ctx, RawCodec, data)
	require.NoError(t, err)

	keys, err := backend.Keys(ctx)
	require.NoError(t, err)
	require.Len(t, keys, 1)
}

func TestCASCodecPartitionsAddressSpace(t *testing.T) {
	ctx := context.Background()
	s, _ := testCAS(t)

	data := []byte("same bytes, different role")
	raw, err := s.Put(ctx, RawCodec, data)
	require.NoError(t, err)
	node, err := s.Put(ctx, NodeCodec, data)
	require.NoError(t, err)
	require.False(t, raw.Equals(node))
}

func TestCASGetMissing(t *testing.T) {
	ctx := context.Background()
	s, _ := testCAS(t)

	c, err := s.CIDFor(RawCodec, []byte("never stored"))
	require.NoError(t, err)

	_, err = s.Get(ctx, c)
	require.True(t, errors.Is(err, ErrNotFound))

	has, err := s.Has(ctx, c)
	require.NoError(t, err)
	require.False(t, has)
}

func TestCASVerifyDetectsCorruption(t *testing.T) {
	ctx := context.Background()
	s, backend := testCAS(t, WithCacheSize(0))

	data := []byte("pristine bytes")
	c, err := s.Put(ctx, RawCodec, data)
	require.NoError(t, err)

	// corrupt the stored object behind the store's back
	require.NoError(t, backend.Put(ctx, c.String(), bytes.NewReader([]byte("tampered")), storage.OverWrite))

	_, err = s.Get(ctx, c)
	require.True(t, errors.Is(err, ErrCIDMismatch))
}

func TestCASPrefixAndKeys(t *testing.T) {
	ctx := context.Background()
	s, _ := testCAS(t, WithPrefix("blocks/"))

	c1, err := s.Put(ctx, RawCodec, []byte("one"))
	require.NoError(t, err)
	c2, err := s.Put(ctx, NodeCodec, []byte("two"))
	require.NoError(t, err)

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	listed := make([]string, 0, len(keys))
	for _, k := range keys {
		listed = append(listed, k.String())
	}
	require.ElementsMatch(t, []string{c1.String(), c2.String()}, listed)

	got, err := s.Get(ctx, c1)
	require.NoError(t, err)
	require.Equal(t, []byte("one"), got)
}
