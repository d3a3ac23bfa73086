package fs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dagfs/dagfs/pkg/errors"
)

func TestEnsureDir(t *testing.T) {
	ctx := context.Background()
	store, _ := testStore(t)
	root := NewDir(store)

	d, err := EnsureDir(ctx, root, "a/b/c")
	require.NoError(t, err)

	// all intermediates now exist and ensure is idempotent
	again, err := EnsureDir(ctx, root, "a/b/c")
	require.NoError(t, err)
	assert.Same(t, d, again)

	b, err := ResolveDir(ctx, root, "a/b")
	require.NoError(t, err)
	assert.Equal(t, 1, len(b.Entries()))

	// a file in the way stops descent
	_, err = root.CreateFile("blocked")
	require.NoError(t, err)
	_, err = EnsureDir(ctx, root, "blocked/below")
	assert.True(t, errors.Is(err, ErrNotADir))
}

func TestEnsureFile(t *testing.T) {
	ctx := context.Background()
	store, _ := testStore(t)
	root := NewDir(store)

	f, err := EnsureFile(ctx, root, "logs/2024/app.log")
	require.NoError(t, err)
	writeContent(t, f, []byte("line one"))

	// ensuring again returns the same file, content intact
	same, err := EnsureFile(ctx, root, "logs/2024/app.log")
	require.NoError(t, err)
	assert.Same(t, f, same)
	assert.Equal(t, []byte("line one"), readContent(t, ctx, same))

	// an existing directory at the path is not a file
	_, err = EnsureDir(ctx, root, "logs/2024/archive")
	require.NoError(t, err)
	_, err = EnsureFile(ctx, root, "logs/2024/archive")
	assert.True(t, errors.Is(err, ErrNotAFile))

	// ensure works at the root level too
	_, err = EnsureFile(ctx, root, "top.txt")
	require.NoError(t, err)
	_, err = root.Get(ctx, "top.txt")
	require.NoError(t, err)
}

func TestEnsureFilePersists(t *testing.T) {
	ctx := context.Background()
	store, _ := testStore(t)
	root := NewDir(store)

	f, err := EnsureFile(ctx, root, "nested/deep/data.bin")
	require.NoError(t, err)
	writeContent(t, f, []byte{0x01, 0x02, 0x03})

	r, err := root.Checkpoint(ctx)
	require.NoError(t, err)

	loaded, err := LoadDir(ctx, store, r)
	require.NoError(t, err)
	got, err := ResolveFile(ctx, loaded, "nested/deep/data.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x01, 0x02, 0x03}, readContent(t, ctx, got))
}
