// Package localfs implements a Store backed by a local file system,
// mediated through an afero.Fs.
package localfs

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/dagfs/dagfs/pkg/storage"
	"github.com/dagfs/dagfs/pkg/storage/status"
	"github.com/spf13/afero"
)

// New creates a new local file system backed storage model
func New(fs afero.Fs) storage.Store {
	if fs == nil {
		fs = afero.NewBasePathFs(afero.NewOsFs(), filepath.Join(".dagfs", "objects"))
	}
	return &localFS{
		fs: fs,
	}
}

type localFS struct {
	fs afero.Fs
}

func (l *localFS) String() string {
	const localfs = "localfs"
	switch fs := l.fs.(type) {
	case *afero.BasePathFs:
		pp, err := fs.RealPath("")
		if err != nil {
			return localfs
		}
		return localfs + "@" + pp
	default:
		return localfs
	}
}

func (l *localFS) Has(ctx context.Context, key string) (bool, error) {
	fi, err := l.fs.Stat(key)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, status.ErrStoreUnavailable.Wrap(err)
	}
	return !fi.IsDir(), nil
}

type localReader struct {
	objectReader io.ReadCloser
}

func (r localReader) WriteTo(writer io.Writer) (n int64, err error) {
	return storage.PipeIO(writer, r.objectReader)
}

func (r localReader) Close() error {
	return r.objectReader.Close()
}

func (r localReader) Read(p []byte) (n int, err error) {
	return r.objectReader.Read(p)
}

func (l *localFS) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	has, err := l.Has(ctx, key)
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, status.ErrNotFound.WrapMessage("key: %q", key)
	}
	t, err := l.fs.Open(key)
	if err != nil {
		return nil, status.ErrStoreUnavailable.Wrap(err)
	}
	return localReader{
		objectReader: t,
	}, nil
}

func (l *localFS) Put(ctx context.Context, key string, source io.Reader, overwrite bool) error {
	dir := filepath.Dir(key)
	if dir != "" && dir != "." {
		if err := l.fs.MkdirAll(dir, 0700); err != nil {
			return status.ErrStoreUnavailable.Wrap(fmt.Errorf("ensuring directories for %q: %v", key, err))
		}
	}
	flag := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !overwrite {
		flag = os.O_CREATE | os.O_WRONLY | os.O_EXCL
	}
	target, err := l.fs.OpenFile(key, flag, 0600)
	if err != nil {
		if !overwrite && os.IsExist(err) {
			return status.ErrExists.WrapMessage("key: %q", key)
		}
		return status.ErrStoreUnavailable.Wrap(fmt.Errorf("create record for %q: %v", key, err))
	}
	if _, err = storage.PipeIO(target, source); err != nil {
		_ = target.Close()
		return status.ErrStoreUnavailable.Wrap(fmt.Errorf("write record for %q: %v", key, err))
	}
	if err = target.Close(); err != nil {
		return status.ErrStoreUnavailable.Wrap(err)
	}
	return nil
}

func (l *localFS) Delete(ctx context.Context, key string) error {
	if err := l.fs.Remove(key); err != nil && !os.IsNotExist(err) {
		return status.ErrStoreUnavailable.Wrap(fmt.Errorf("removing %q: %v", key, err))
	}
	return nil
}

func (l *localFS) Keys(ctx context.Context) ([]string, error) {
	const root = "."
	var res []string
	e := afero.Walk(l.fs, root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root || info.IsDir() {
			return nil
		}
		res = append(res, path)
		return nil
	})
	if e != nil {
		return nil, status.ErrStoreUnavailable.Wrap(e)
	}
	return res, nil
}

func (l *localFS) Clear(ctx context.Context) error {
	if err := l.fs.RemoveAll("/"); err != nil {
		return status.ErrStoreUnavailable.Wrap(err)
	}
	return nil
}
