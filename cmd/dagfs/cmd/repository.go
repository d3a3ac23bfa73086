package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	units "github.com/docker/go-units"
	"github.com/ipfs/go-cid"
	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/dagfs/dagfs/pkg/cas"
	"github.com/dagfs/dagfs/pkg/chunker"
	"github.com/dagfs/dagfs/pkg/dlogger"
	"github.com/dagfs/dagfs/pkg/fs"
	"github.com/dagfs/dagfs/pkg/storage"
	"github.com/dagfs/dagfs/pkg/storage/bdgr"
	"github.com/dagfs/dagfs/pkg/storage/localfs"
)

const headFile = "HEAD"

// repository binds a block store and the HEAD anchor under one directory.
type repository struct {
	dir     string
	store   *cas.Store
	logger  *zap.Logger
	fsOpts  []fs.Option
	cleanup func() error
}

func openRepo() (*repository, error) {
	dir := dagfsFlags.repo.Dir
	logger, err := dlogger.GetLogger(dagfsFlags.root.logLevel)
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", dagfsFlags.root.logLevel, err)
	}

	var (
		backend storage.Store
		cleanup func() error
	)
	switch dagfsFlags.repo.Backend {
	case backendLocalFS, "":
		objects := filepath.Join(dir, "objects")
		if err = os.MkdirAll(objects, 0700); err != nil {
			return nil, fmt.Errorf("repository at %s: %w", dir, err)
		}
		backend = localfs.New(afero.NewBasePathFs(afero.NewOsFs(), objects))
	case backendBadger:
		b := bdgr.New(filepath.Join(dir, "badger"))
		backend = b
		cleanup = b.Close
	default:
		return nil, fmt.Errorf("unknown backend %q", dagfsFlags.repo.Backend)
	}

	store, err := cas.New(backend, cas.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	fsOpts := []fs.Option{fs.WithLogger(logger)}
	if dagfsFlags.repo.LeafSize != "" {
		size, err := units.RAMInBytes(dagfsFlags.repo.LeafSize)
		if err != nil {
			return nil, fmt.Errorf("leaf size %q: %w", dagfsFlags.repo.LeafSize, err)
		}
		factory, err := chunker.FixedSize(uint32(size))
		if err != nil {
			return nil, err
		}
		fsOpts = append(fsOpts, fs.WithChunker(factory))
	}
	return &repository{
		dir:     dir,
		store:   store,
		logger:  logger,
		fsOpts:  fsOpts,
		cleanup: cleanup,
	}, nil
}

func (r *repository) Close() {
	if r.cleanup != nil {
		if err := r.cleanup(); err != nil {
			r.logger.Error("closing block store", zap.Error(err))
		}
	}
}

func (r *repository) headPath() string {
	return filepath.Join(r.dir, headFile)
}

func (r *repository) initialized() bool {
	_, err := os.Stat(r.headPath())
	return err == nil
}

// head returns the CID of the current root directory.
func (r *repository) head() (cid.Cid, error) {
	b, err := os.ReadFile(r.headPath())
	if err != nil {
		if os.IsNotExist(err) {
			return cid.Undef, fmt.Errorf("repository at %s is not initialized, run \"dagfs init\"", r.dir)
		}
		return cid.Undef, err
	}
	c, err := cid.Parse(strings.TrimSpace(string(b)))
	if err != nil {
		return cid.Undef, fmt.Errorf("corrupt HEAD in %s: %w", r.dir, err)
	}
	return c, nil
}

// writeHead atomically replaces the HEAD anchor.
func (r *repository) writeHead(c cid.Cid) error {
	tmp := r.headPath() + ".tmp"
	if err := os.WriteFile(tmp, []byte(c.String()+"\n"), 0600); err != nil {
		return err
	}
	return os.Rename(tmp, r.headPath())
}

func (r *repository) loadRoot(ctx context.Context) (*fs.Dir, error) {
	c, err := r.head()
	if err != nil {
		return nil, err
	}
	return fs.LoadDir(ctx, r.store, c, r.fsOpts...)
}

// commitRoot checkpoints the tree and moves HEAD to the new root.
func (r *repository) commitRoot(ctx context.Context, root *fs.Dir) (cid.Cid, error) {
	c, err := root.Checkpoint(ctx)
	if err != nil {
		return cid.Undef, err
	}
	if err = r.writeHead(c); err != nil {
		return cid.Undef, err
	}
	return c, nil
}

// splitParent separates a path into its parent directory path and leaf name.
func splitParent(path string) (parent, name string, err error) {
	segs, err := fs.SplitPath(path)
	if err != nil {
		return "", "", err
	}
	name = segs[len(segs)-1]
	parent = strings.Join(segs[:len(segs)-1], "/")
	return parent, name, nil
}
