package fs

import (
	"bytes"
	"context"
	"io"
	"io/ioutil"

	"github.com/ipfs/go-cid"

	"github.com/dagfs/dagfs/pkg/cas"
)

// OutputStream accumulates written bytes and, on Close, installs them
// as the file's pending content (replacing any prior content
// wholesale). Only one output stream may be open per File at a time.
//
// An abandoned stream is discarded with Abort; nothing written to a
// stream reaches the store, or even the file's pending state, before
// Close.
type OutputStream struct {
	f    *File
	buf  bytes.Buffer
	done bool
}

// OutputStream opens a write stream on the file.
// A second concurrent stream fails with ErrStreamBusy.
func (f *File) OutputStream() (*OutputStream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.streaming {
		return nil, ErrStreamBusy
	}
	f.streaming = true
	return &OutputStream{f: f}, nil
}

var _ io.WriteCloser = (*OutputStream)(nil)

// Write buffers a chunk of bytes
func (w *OutputStream) Write(p []byte) (int, error) {
	if w.done {
		return 0, ErrStreamClosed
	}
	return w.buf.Write(p)
}

// Close commits the buffered bytes as the file's pending content and
// marks the file dirty. Closing an already-finished stream is a no-op.
func (w *OutputStream) Close() error {
	if w.done {
		return nil
	}
	w.done = true

	w.f.mu.Lock()
	defer w.f.mu.Unlock()
	w.f.pending = w.buf.Bytes()
	w.f.dirty = true
	w.f.streaming = false
	return nil
}

// Abort discards the buffered bytes without touching the file's state
func (w *OutputStream) Abort() {
	if w.done {
		return
	}
	w.done = true

	w.f.mu.Lock()
	defer w.f.mu.Unlock()
	w.f.streaming = false
}

// InputStream opens a lazy, single-pass read stream over the file's
// current content. Dirty pending content is served from memory; a
// clean file is read chunk by chunk from the store, fetching each
// chunk on demand. The stream is not restartable: request a new one
// to re-read from the start.
func (f *File) InputStream(ctx context.Context) (io.ReadCloser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.dirty {
		return ioutil.NopCloser(bytes.NewReader(f.pending)), nil
	}

	keys, err := f.payload.ChunkCIDs()
	if err != nil {
		return nil, err
	}
	return &chunkReader{
		ctx:   ctx,
		store: f.store,
		keys:  keys,
	}, nil
}

// chunkReader streams file content one chunk block at a time
type chunkReader struct {
	ctx    context.Context
	store  *cas.Store
	keys   []cid.Cid
	idx    int
	cur    *bytes.Reader
	closed bool
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if r.closed {
		return 0, ErrStreamClosed
	}
	if len(p) == 0 {
		return 0, nil
	}
	for {
		if r.cur == nil {
			if r.idx >= len(r.keys) {
				return 0, io.EOF
			}
			data, err := r.store.Get(r.ctx, r.keys[r.idx])
			if err != nil {
				return 0, err
			}
			r.cur = bytes.NewReader(data)
			r.idx++
		}
		n, err := r.cur.Read(p)
		if n > 0 {
			return n, nil
		}
		if err == io.EOF || err == nil {
			// chunk exhausted, move to the next one
			r.cur = nil
			continue
		}
		return n, err
	}
}

// Close drops the stream; a dropped stream never corrupts the file's
// last-known-good state
func (r *chunkReader) Close() error {
	r.closed = true
	r.cur = nil
	r.keys = nil
	return nil
}
