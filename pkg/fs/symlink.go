package fs

import (
	"context"
	"sync"
	"time"

	"github.com/ipfs/go-cid"

	"github.com/dagfs/dagfs/pkg/cas"
	"github.com/dagfs/dagfs/pkg/model"
)

// Symlink is a named alias for a path. The target is stored verbatim
// and only interpreted at resolution time, relative to the directory
// holding the link (or from the root when it starts with a slash).
type Symlink struct {
	store *cas.Store
	s     settings

	mu     sync.Mutex
	c      cid.Cid
	meta   model.Metadata
	target string
	dirty  bool
}

var _ Entity = (*Symlink)(nil)

func newSymlink(store *cas.Store, target string, s settings) *Symlink {
	return &Symlink{
		store:  store,
		s:      s,
		meta:   model.NewMetadata(model.KindSymlink),
		target: target,
		dirty:  true,
	}
}

func symlinkFromNode(store *cas.Store, c cid.Cid, node *model.Node, s settings) *Symlink {
	return &Symlink{
		store:  store,
		s:      s,
		c:      c,
		meta:   node.Meta,
		target: node.Symlink.Target,
	}
}

// Kind returns model.KindSymlink
func (l *Symlink) Kind() model.Kind { return model.KindSymlink }

// Metadata returns the link metadata as of the last checkpoint
func (l *Symlink) Metadata() model.Metadata {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.meta
}

// CID returns the last-checkpointed version, cid.Undef if never persisted
func (l *Symlink) CID() cid.Cid {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.c
}

// Dirty reports whether the link has unpersisted mutations
func (l *Symlink) Dirty() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dirty
}

// Target returns the link's target path
func (l *Symlink) Target() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.target
}

// SetTarget repoints the link, marking it dirty
func (l *Symlink) SetTarget(target string) error {
	if target == "" {
		return ErrInvalidPath.WrapMessage("empty symlink target")
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.target = target
	l.dirty = true
	return nil
}

// Checkpoint persists the link as a new version; a clean link returns
// its existing CID without writing
func (l *Symlink) Checkpoint(ctx context.Context) (cid.Cid, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.dirty && l.c.Defined() {
		return l.c, nil
	}

	meta := l.meta
	meta.ModifiedAt = time.Now().UTC()
	if l.c.Defined() {
		meta.Previous = l.c.String()
	}

	node := &model.Node{
		Version: model.CurrentNodeVersion,
		Meta:    meta,
		Symlink: &model.SymlinkPayload{Target: l.target},
	}
	block, err := model.MarshalNode(node)
	if err != nil {
		return cid.Undef, err
	}
	c, err := l.store.Put(ctx, cas.NodeCodec, block)
	if err != nil {
		return cid.Undef, err
	}

	l.c = c
	l.meta = meta
	l.dirty = false
	return c, nil
}
