package fs

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dagfs/dagfs/pkg/errors"
)

func TestSplitPath(t *testing.T) {
	for _, tc := range []struct {
		path string
		segs []string
		bad  bool
	}{
		{path: "a", segs: []string{"a"}},
		{path: "a/b/c", segs: []string{"a", "b", "c"}},
		{path: "/a/b", segs: []string{"a", "b"}},
		{path: "", bad: true},
		{path: "/", bad: true},
		{path: "a//b", bad: true},
		{path: "a/./b", bad: true},
		{path: "a/../b", bad: true},
	} {
		segs, err := SplitPath(tc.path)
		if tc.bad {
			require.Error(t, err, "path %q", tc.path)
			assert.True(t, errors.Is(err, ErrInvalidPath))
			continue
		}
		require.NoError(t, err, "path %q", tc.path)
		assert.Equal(t, tc.segs, segs)
	}
}

func buildTree(t *testing.T) (context.Context, *Dir) {
	ctx := context.Background()
	store, _ := testStore(t)

	root := NewDir(store)
	docs, err := root.CreateDir("docs")
	require.NoError(t, err)
	f, err := docs.CreateFile("readme.md")
	require.NoError(t, err)
	writeContent(t, f, []byte("# readme"))
	_, err = root.CreateFile("top.txt")
	require.NoError(t, err)
	return ctx, root
}

func TestResolvePaths(t *testing.T) {
	ctx, root := buildTree(t)

	f, err := ResolveFile(ctx, root, "docs/readme.md")
	require.NoError(t, err)
	assert.Equal(t, []byte("# readme"), readContent(t, ctx, f))

	d, err := ResolveDir(ctx, root, "docs")
	require.NoError(t, err)
	assert.Equal(t, 1, len(d.Entries()))

	// leading slash resolves from the same root
	f2, err := ResolveFile(ctx, root, "/docs/readme.md")
	require.NoError(t, err)
	assert.Same(t, f, f2)

	_, err = Resolve(ctx, root, "docs/missing.md")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = Resolve(ctx, root, "top.txt/below")
	assert.True(t, errors.Is(err, ErrNotADir))

	_, err = ResolveDir(ctx, root, "top.txt")
	assert.True(t, errors.Is(err, ErrNotADir))

	_, err = ResolveFile(ctx, root, "docs")
	assert.True(t, errors.Is(err, ErrNotAFile))
}

func TestResolveSymlinks(t *testing.T) {
	ctx, root := buildTree(t)
	docs, err := ResolveDir(ctx, root, "docs")
	require.NoError(t, err)

	// relative target, resolved from the directory holding the link
	_, err = docs.CreateSymlink("alias.md", "readme.md")
	require.NoError(t, err)
	f, err := ResolveFile(ctx, root, "docs/alias.md")
	require.NoError(t, err)
	assert.Equal(t, []byte("# readme"), readContent(t, ctx, f))

	// absolute target restarts from root
	_, err = docs.CreateSymlink("up.txt", "/top.txt")
	require.NoError(t, err)
	_, err = ResolveFile(ctx, root, "docs/up.txt")
	require.NoError(t, err)

	// a link to a directory traverses into it
	_, err = root.CreateSymlink("d", "docs")
	require.NoError(t, err)
	f, err = ResolveFile(ctx, root, "d/readme.md")
	require.NoError(t, err)
	assert.Equal(t, []byte("# readme"), readContent(t, ctx, f))

	// chained links still land on the file
	_, err = root.CreateSymlink("dd", "d")
	require.NoError(t, err)
	_, err = ResolveFile(ctx, root, "dd/readme.md")
	require.NoError(t, err)
}

func TestResolveFollowDepth(t *testing.T) {
	ctx, root := buildTree(t)

	// two links pointing at each other never terminate on their own
	_, err := root.CreateSymlink("ping", "pong")
	require.NoError(t, err)
	_, err = root.CreateSymlink("pong", "ping")
	require.NoError(t, err)

	_, err = Resolve(ctx, root, "ping")
	assert.True(t, errors.Is(err, ErrFollowDepthExceeded))

	// a long but finite chain within the cap still resolves
	_, err = root.CreateSymlink("hop0", "top.txt")
	require.NoError(t, err)
	for i := 1; i < MaxFollowDepth; i++ {
		_, err = root.CreateSymlink(fmt.Sprintf("hop%d", i), fmt.Sprintf("hop%d", i-1))
		require.NoError(t, err)
	}
	_, err = ResolveFile(ctx, root, fmt.Sprintf("hop%d", MaxFollowDepth-1))
	assert.NoError(t, err)
}

func TestResolveSurvivesCheckpoint(t *testing.T) {
	ctx, root := buildTree(t)
	docs, err := ResolveDir(ctx, root, "docs")
	require.NoError(t, err)
	_, err = docs.CreateSymlink("alias.md", "readme.md")
	require.NoError(t, err)

	r, err := root.Checkpoint(ctx)
	require.NoError(t, err)

	loaded, err := LoadDir(ctx, root.store, r)
	require.NoError(t, err)
	f, err := ResolveFile(ctx, loaded, "docs/alias.md")
	require.NoError(t, err)
	assert.Equal(t, []byte("# readme"), readContent(t, ctx, f))
}
