package bdgr

import (
	"bytes"
	"context"
	"io/ioutil"
	"testing"

	"github.com/dagfs/dagfs/pkg/errors"
	"github.com/dagfs/dagfs/pkg/storage"
	"github.com/dagfs/dagfs/pkg/storage/status"
	"github.com/stretchr/testify/require"
)

func testStore(t *testing.T) *BadgerStore {
	s := New(t.TempDir())
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestBadgerPutGet(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	content := []byte("badger backed block")
	require.NoError(t, s.Put(ctx, "blocks/one", bytes.NewReader(content), storage.NoOverWrite))

	has, err := s.Has(ctx, "blocks/one")
	require.NoError(t, err)
	require.True(t, has)

	rdr, err := s.Get(ctx, "blocks/one")
	require.NoError(t, err)
	b, err := ioutil.ReadAll(rdr)
	require.NoError(t, err)
	require.NoError(t, rdr.Close())
	require.Equal(t, content, b)
}

func TestBadgerNoOverWrite(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	require.NoError(t, s.Put(ctx, "k", bytes.NewReader([]byte("one")), storage.NoOverWrite))
	err := s.Put(ctx, "k", bytes.NewReader([]byte("two")), storage.NoOverWrite)
	require.True(t, errors.Is(err, status.ErrExists))

	require.NoError(t, s.Put(ctx, "k", bytes.NewReader([]byte("two")), storage.OverWrite))
}

func TestBadgerMissing(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	_, err := s.Get(ctx, "ghost")
	require.True(t, errors.Is(err, status.ErrNotFound))

	has, err := s.Has(ctx, "ghost")
	require.NoError(t, err)
	require.False(t, has)
}

func TestBadgerKeysClear(t *testing.T) {
	ctx := context.Background()
	s := testStore(t)

	require.NoError(t, s.Put(ctx, "a", bytes.NewReader([]byte("1")), storage.NoOverWrite))
	require.NoError(t, s.Put(ctx, "b", bytes.NewReader([]byte("2")), storage.NoOverWrite))

	keys, err := s.Keys(ctx)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"a", "b"}, keys)

	require.NoError(t, s.Clear(ctx))
	keys, err = s.Keys(ctx)
	require.NoError(t, err)
	require.Empty(t, keys)
}
