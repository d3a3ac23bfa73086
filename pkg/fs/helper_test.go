package fs

import (
	"context"
	"io"
	"io/ioutil"
	"testing"

	"github.com/ipfs/go-cid"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/dagfs/dagfs/pkg/cas"
	"github.com/dagfs/dagfs/pkg/chunker"
	"github.com/dagfs/dagfs/pkg/storage"
	"github.com/dagfs/dagfs/pkg/storage/localfs"
)

func testStore(t *testing.T) (*cas.Store, storage.Store) {
	backend := localfs.New(afero.NewMemMapFs())
	store, err := cas.New(backend)
	require.NoError(t, err)
	return store, backend
}

// smallChunks keeps multi-chunk tests cheap
func smallChunks(t *testing.T) Option {
	factory, err := chunker.FixedSize(chunker.MinLeafSize)
	require.NoError(t, err)
	return WithChunker(factory)
}

func writeContent(t *testing.T, f *File, content []byte) {
	w, err := f.OutputStream()
	require.NoError(t, err)
	_, err = w.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
}

func readContent(t *testing.T, ctx context.Context, f *File) []byte {
	r, err := f.InputStream(ctx)
	require.NoError(t, err)
	b, err := ioutil.ReadAll(r)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	return b
}

func mustCid(t *testing.T, s string) cid.Cid {
	c, err := cid.Parse(s)
	require.NoError(t, err)
	return c
}

func backendKeyCount(t *testing.T, ctx context.Context, backend storage.Store) int {
	keys, err := backend.Keys(ctx)
	require.NoError(t, err)
	return len(keys)
}

var _ io.Reader = (*chunkReader)(nil)
