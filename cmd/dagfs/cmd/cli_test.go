package cmd

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dagfs/dagfs/pkg/fs"
)

func testRepoFlags(t *testing.T, backend string) {
	dagfsFlags = flagsT{}
	dagfsFlags.repo.Dir = filepath.Join(t.TempDir(), "repo")
	dagfsFlags.repo.Backend = backend
	dagfsFlags.root.logLevel = "none"
}

func testRepoRoundTrip(t *testing.T, backend string) {
	ctx := context.Background()
	testRepoFlags(t, backend)

	repo, err := openRepo()
	require.NoError(t, err)
	defer repo.Close()
	require.False(t, repo.initialized())

	_, err = repo.head()
	require.Error(t, err)

	root := fs.NewDir(repo.store)
	f, err := fs.EnsureFile(ctx, root, "docs/readme.md")
	require.NoError(t, err)
	w, err := f.OutputStream()
	require.NoError(t, err)
	_, err = w.Write([]byte("hello"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	c, err := repo.commitRoot(ctx, root)
	require.NoError(t, err)
	require.True(t, repo.initialized())

	head, err := repo.head()
	require.NoError(t, err)
	assert.True(t, c.Equals(head))

	loaded, err := repo.loadRoot(ctx)
	require.NoError(t, err)
	got, err := fs.ResolveFile(ctx, loaded, "docs/readme.md")
	require.NoError(t, err)
	r, err := got.InputStream(ctx)
	require.NoError(t, err)
	buf := make([]byte, 5)
	_, err = r.Read(buf)
	require.NoError(t, err)
	require.NoError(t, r.Close())
	assert.Equal(t, []byte("hello"), buf)
}

func TestRepoRoundTripLocalFS(t *testing.T) {
	testRepoRoundTrip(t, backendLocalFS)
}

func TestRepoRoundTripBadger(t *testing.T) {
	testRepoRoundTrip(t, backendBadger)
}

func TestRepoUnknownBackend(t *testing.T) {
	testRepoFlags(t, "s3")
	_, err := openRepo()
	require.Error(t, err)
}

func TestSplitParent(t *testing.T) {
	for _, tc := range []struct {
		path   string
		parent string
		name   string
		bad    bool
	}{
		{path: "a", parent: "", name: "a"},
		{path: "a/b", parent: "a", name: "b"},
		{path: "a/b/c", parent: "a/b", name: "c"},
		{path: "/a/b", parent: "a", name: "b"},
		{path: "", bad: true},
		{path: "a//b", bad: true},
	} {
		parent, name, err := splitParent(tc.path)
		if tc.bad {
			require.Error(t, err, "path %q", tc.path)
			continue
		}
		require.NoError(t, err, "path %q", tc.path)
		assert.Equal(t, tc.parent, parent)
		assert.Equal(t, tc.name, name)
	}
}
