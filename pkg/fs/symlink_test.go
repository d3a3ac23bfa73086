package fs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dagfs/dagfs/pkg/model"
)

func TestSymlinkRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _ := testStore(t)

	root := NewDir(store)
	ln, err := root.CreateSymlink("current", "releases/v1")
	require.NoError(t, err)
	assert.Equal(t, model.KindSymlink, ln.Kind())
	assert.Equal(t, "releases/v1", ln.Target())

	r, err := root.Checkpoint(ctx)
	require.NoError(t, err)
	require.False(t, ln.Dirty())

	loaded, err := LoadDir(ctx, store, r)
	require.NoError(t, err)
	ent, err := loaded.Get(ctx, "current")
	require.NoError(t, err)
	got, ok := ent.(*Symlink)
	require.True(t, ok)
	assert.Equal(t, "releases/v1", got.Target())
}

func TestSymlinkRetarget(t *testing.T) {
	ctx := context.Background()
	store, _ := testStore(t)

	root := NewDir(store)
	ln, err := root.CreateSymlink("current", "releases/v1")
	require.NoError(t, err)
	r1, err := root.Checkpoint(ctx)
	require.NoError(t, err)

	require.NoError(t, ln.SetTarget("releases/v2"))
	require.True(t, ln.Dirty())
	require.True(t, root.Dirty())

	r2, err := root.Checkpoint(ctx)
	require.NoError(t, err)
	require.False(t, r1.Equals(r2))

	// the retargeted link carries its previous version
	chain, err := History(ctx, store, ln.CID())
	require.NoError(t, err)
	assert.Len(t, chain, 2)

	assert.Error(t, ln.SetTarget(""))
}
