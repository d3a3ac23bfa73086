// Package bdgr implements a Store backed by a badger key/value database.
//
// Unlike localfs, a badger store keeps all objects in a single database
// directory and offers transactional writes. It is the preferred backend
// when many small blocks are stored.
package bdgr

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"
	"sync"

	"github.com/dagfs/dagfs/pkg/errors"
	"github.com/dagfs/dagfs/pkg/storage"
	"github.com/dagfs/dagfs/pkg/storage/status"
	badger "github.com/dgraph-io/badger/v4"
)

// New creates a badger backed storage model rooted at baseDir.
//
// The database is opened lazily on first use and must be released
// with Close.
func New(baseDir string) *BadgerStore {
	return &BadgerStore{
		baseDir: baseDir,
	}
}

var _ storage.Store = (*BadgerStore)(nil)

// BadgerStore implements storage.Store over a badger database
type BadgerStore struct {
	baseDir string
	db      *badger.DB
	initErr error
	init    sync.Once
	close   sync.Once
}

func badgerRewriteError(key string, err error) error {
	switch err {
	case nil:
		return nil
	case badger.ErrKeyNotFound:
		return status.ErrNotFound.WrapMessage("key: %q", key)
	case badger.ErrEmptyKey:
		return status.ErrInvalidResource.WrapMessage("key: %q", key)
	default:
		return status.ErrStoreUnavailable.Wrap(err)
	}
}

func (b *BadgerStore) database() (*badger.DB, error) {
	b.init.Do(func() {
		opts := badger.DefaultOptions(b.baseDir).WithLogger(nil)
		b.db, b.initErr = badger.Open(opts)
	})
	if b.initErr != nil {
		return nil, status.ErrStoreUnavailable.Wrap(b.initErr)
	}
	return b.db, nil
}

// Close releases the underlying database
func (b *BadgerStore) Close() error {
	var err error
	b.close.Do(func() {
		if b.db != nil {
			err = b.db.Close()
			b.db = nil
		}
	})
	return err
}

func (b *BadgerStore) String() string {
	return "badger@" + b.baseDir
}

func (b *BadgerStore) Has(ctx context.Context, key string) (bool, error) {
	db, err := b.database()
	if err != nil {
		return false, err
	}
	found := false
	err = db.View(func(txn *badger.Txn) error {
		_, gerr := txn.Get([]byte(key))
		if gerr == badger.ErrKeyNotFound {
			return nil
		}
		if gerr != nil {
			return gerr
		}
		found = true
		return nil
	})
	if err != nil {
		return false, badgerRewriteError(key, err)
	}
	return found, nil
}

func (b *BadgerStore) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	db, err := b.database()
	if err != nil {
		return nil, err
	}
	var value []byte
	err = db.View(func(txn *badger.Txn) error {
		item, gerr := txn.Get([]byte(key))
		if gerr != nil {
			return gerr
		}
		value, gerr = item.ValueCopy(nil)
		return gerr
	})
	if err != nil {
		return nil, badgerRewriteError(key, err)
	}
	return ioutil.NopCloser(bytes.NewReader(value)), nil
}

func (b *BadgerStore) Put(ctx context.Context, key string, source io.Reader, overwrite bool) error {
	db, err := b.database()
	if err != nil {
		return err
	}
	value, err := ioutil.ReadAll(source)
	if err != nil {
		return status.ErrStoreUnavailable.Wrap(err)
	}
	err = db.Update(func(txn *badger.Txn) error {
		if !overwrite {
			_, gerr := txn.Get([]byte(key))
			if gerr == nil {
				return status.ErrExists.WrapMessage("key: %q", key)
			}
			if gerr != badger.ErrKeyNotFound {
				return gerr
			}
		}
		return txn.Set([]byte(key), value)
	})
	if err == nil || errors.Is(err, status.ErrExists) {
		return err
	}
	return badgerRewriteError(key, err)
}

func (b *BadgerStore) Delete(ctx context.Context, key string) error {
	db, err := b.database()
	if err != nil {
		return err
	}
	err = db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return badgerRewriteError(key, err)
	}
	return nil
}

func (b *BadgerStore) Keys(ctx context.Context) ([]string, error) {
	db, err := b.database()
	if err != nil {
		return nil, err
	}
	var keys []string
	err = db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			keys = append(keys, string(it.Item().KeyCopy(nil)))
		}
		return nil
	})
	if err != nil {
		return nil, status.ErrStoreUnavailable.Wrap(err)
	}
	return keys, nil
}

func (b *BadgerStore) Clear(ctx context.Context) error {
	db, err := b.database()
	if err != nil {
		return err
	}
	if err := db.DropAll(); err != nil {
		return status.ErrStoreUnavailable.Wrap(err)
	}
	return nil
}
