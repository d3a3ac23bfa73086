package fs

import (
	"bytes"
	"context"
	"io"
	"sync"
	"time"

	"github.com/ipfs/go-cid"
	"go.uber.org/zap"

	"github.com/dagfs/dagfs/pkg/cas"
	"github.com/dagfs/dagfs/pkg/model"
)

// File represents file content as an ordered sequence of content
// chunks plus metadata. Content mutations accumulate in an in-memory
// buffer through an output stream; nothing reaches the store before
// Checkpoint.
type File struct {
	store *cas.Store
	s     settings

	mu        sync.Mutex
	c         cid.Cid
	meta      model.Metadata
	payload   model.FilePayload
	pending   []byte
	dirty     bool
	streaming bool
}

var _ Entity = (*File)(nil)

// NewFile creates a fresh, never-persisted, empty file
func NewFile(store *cas.Store, opts ...Option) *File {
	return newFile(store, applyOptions(opts))
}

func newFile(store *cas.Store, s settings) *File {
	return &File{
		store:   store,
		s:       s,
		meta:    model.NewMetadata(model.KindFile),
		payload: model.FilePayload{Chunks: []string{}},
		// a fresh entity has no persisted version yet, so its first
		// checkpoint must write even without content
		dirty: true,
	}
}

// LoadFile loads a persisted file version from the store
func LoadFile(ctx context.Context, store *cas.Store, c cid.Cid, opts ...Option) (*File, error) {
	ent, err := Load(ctx, store, c, opts...)
	if err != nil {
		return nil, err
	}
	f, ok := ent.(*File)
	if !ok {
		return nil, ErrNotAFile.WrapMessage("cid: %s holds a %s", c, ent.Kind())
	}
	return f, nil
}

func fileFromNode(store *cas.Store, c cid.Cid, node *model.Node, s settings) *File {
	return &File{
		store:   store,
		s:       s,
		c:       c,
		meta:    node.Meta,
		payload: *node.File,
	}
}

// Kind returns model.KindFile
func (f *File) Kind() model.Kind { return model.KindFile }

// Metadata returns the file metadata as of the last checkpoint
func (f *File) Metadata() model.Metadata {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.meta
}

// CID returns the last-checkpointed version, cid.Undef if never persisted
func (f *File) CID() cid.Cid {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.c
}

// Dirty reports whether the file has unpersisted mutations
func (f *File) Dirty() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dirty
}

// Size returns the byte length of the file's current content,
// pending content included
func (f *File) Size() uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.dirty {
		return uint64(len(f.pending))
	}
	return f.payload.Size
}

// ChunkCIDs returns the content chunk CIDs of the last-checkpointed
// version, in order
func (f *File) ChunkCIDs() ([]cid.Cid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.payload.ChunkCIDs()
}

// Checkpoint persists pending content as a new version.
//
// New and changed chunks are stored first, then the node block
// referencing them, with the previous version linked in the metadata.
// A clean file returns its existing CID without writing.
func (f *File) Checkpoint(ctx context.Context) (cid.Cid, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.dirty && f.c.Defined() {
		return f.c, nil
	}

	f.s.l.Debug("checkpointing file", zap.Int("pending_bytes", len(f.pending)))

	payload := model.FilePayload{Chunks: []string{}}
	split := f.s.chunk(bytes.NewReader(f.pending))
	for {
		chunk, err := split.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return cid.Undef, err
		}
		cc, err := f.store.Put(ctx, cas.RawCodec, chunk)
		if err != nil {
			return cid.Undef, err
		}
		payload.Chunks = append(payload.Chunks, cc.String())
		payload.Size += uint64(len(chunk))
	}

	meta := f.meta
	meta.ModifiedAt = time.Now().UTC()
	if f.c.Defined() {
		meta.Previous = f.c.String()
	}

	node := &model.Node{
		Version: model.CurrentNodeVersion,
		Meta:    meta,
		File:    &payload,
	}
	block, err := model.MarshalNode(node)
	if err != nil {
		return cid.Undef, err
	}
	c, err := f.store.Put(ctx, cas.NodeCodec, block)
	if err != nil {
		return cid.Undef, err
	}

	f.c = c
	f.meta = meta
	f.payload = payload
	f.pending = nil
	f.dirty = false

	f.s.l.Debug("checkpointed file", zap.Stringer("cid", c), zap.Uint64("size", payload.Size))
	return c, nil
}
