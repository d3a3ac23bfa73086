package fs

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/ipfs/go-cid"
	"go.uber.org/zap"

	"github.com/dagfs/dagfs/pkg/cas"
	"github.com/dagfs/dagfs/pkg/model"
)

// Dir is an ordered mapping from names to child entities. Entries keep
// insertion order, names are unique. Structural mutations (create,
// remove) stay in memory until Checkpoint, which persists dirty
// children first and then the directory's own node block.
type Dir struct {
	store *cas.Store
	s     settings

	mu      sync.Mutex
	c       cid.Cid
	meta    model.Metadata
	entries []*dirent
	index   map[string]*dirent
	dirty   bool
}

var _ Entity = (*Dir)(nil)

// dirent tracks one child: its persisted version (ref) and, when the
// child has been created or loaded in memory, the live instance
type dirent struct {
	name  string
	kind  model.Kind
	ref   cid.Cid
	child Entity
}

// Entry is one row of a directory listing
type Entry struct {
	// Name of the child, unique within the directory
	Name string

	// Kind of the child entity
	Kind model.Kind

	// Ref is the child's persisted version; cid.Undef when the child
	// has never been checkpointed
	Ref cid.Cid
}

// NewDir creates a fresh, never-persisted, empty directory
func NewDir(store *cas.Store, opts ...Option) *Dir {
	return newDir(store, applyOptions(opts))
}

func newDir(store *cas.Store, s settings) *Dir {
	return &Dir{
		store: store,
		s:     s,
		meta:  model.NewMetadata(model.KindDir),
		index: make(map[string]*dirent),
		dirty: true,
	}
}

// LoadDir loads a persisted directory version from the store
func LoadDir(ctx context.Context, store *cas.Store, c cid.Cid, opts ...Option) (*Dir, error) {
	ent, err := Load(ctx, store, c, opts...)
	if err != nil {
		return nil, err
	}
	d, ok := ent.(*Dir)
	if !ok {
		return nil, ErrNotADir.WrapMessage("cid: %s holds a %s", c, ent.Kind())
	}
	return d, nil
}

func dirFromNode(store *cas.Store, c cid.Cid, node *model.Node, s settings) (*Dir, error) {
	d := &Dir{
		store: store,
		s:     s,
		c:     c,
		meta:  node.Meta,
		index: make(map[string]*dirent, len(node.Dir.Entries)),
	}
	for _, e := range node.Dir.Entries {
		ref, err := e.RefCID()
		if err != nil {
			return nil, err
		}
		ent := &dirent{name: e.Name, kind: e.Kind, ref: ref}
		d.entries = append(d.entries, ent)
		d.index[e.Name] = ent
	}
	return d, nil
}

// Kind returns model.KindDir
func (d *Dir) Kind() model.Kind { return model.KindDir }

// Metadata returns the directory metadata as of the last checkpoint
func (d *Dir) Metadata() model.Metadata {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.meta
}

// CID returns the last-checkpointed version, cid.Undef if never persisted
func (d *Dir) CID() cid.Cid {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.c
}

// Dirty reports whether the directory or any loaded child holds
// unpersisted mutations. Dirtiness is transitive: the directory's own
// block embeds child CIDs, so a changed child changes the parent.
func (d *Dir) Dirty() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dirty {
		return true
	}
	for _, e := range d.entries {
		if e.child == nil {
			continue
		}
		if e.child.Dirty() || !e.child.CID().Equals(e.ref) {
			return true
		}
	}
	return false
}

// CreateFile adds a new empty file under name.
// Fails with ErrAlreadyExists when the name is taken.
func (d *Dir) CreateFile(name string) (*File, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.reserveName(name); err != nil {
		return nil, err
	}
	f := newFile(d.store, d.s)
	d.insert(&dirent{name: name, kind: model.KindFile, child: f})
	return f, nil
}

// CreateDir adds a new empty directory under name.
// Fails with ErrAlreadyExists when the name is taken.
func (d *Dir) CreateDir(name string) (*Dir, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.reserveName(name); err != nil {
		return nil, err
	}
	child := newDir(d.store, d.s)
	d.insert(&dirent{name: name, kind: model.KindDir, child: child})
	return child, nil
}

// CreateSymlink adds a symbolic link under name pointing at target,
// a path interpreted relative to this directory when followed.
func (d *Dir) CreateSymlink(name, target string) (*Symlink, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.reserveName(name); err != nil {
		return nil, err
	}
	if strings.TrimSpace(target) == "" {
		return nil, ErrInvalidPath.WrapMessage("empty symlink target")
	}
	link := newSymlink(d.store, target, d.s)
	d.insert(&dirent{name: name, kind: model.KindSymlink, child: link})
	return link, nil
}

// Remove deletes the entry under name.
// Fails with ErrNotFound when the name is absent.
func (d *Dir) Remove(name string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.index[name]; !ok {
		return ErrNotFound.WrapMessage("name: %q", name)
	}
	delete(d.index, name)
	for i, e := range d.entries {
		if e.name == name {
			d.entries = append(d.entries[:i], d.entries[i+1:]...)
			break
		}
	}
	d.dirty = true
	return nil
}

// Get returns the child entity under name, loading it from the store
// on first access. Fails with ErrNotFound when the name is absent.
func (d *Dir) Get(ctx context.Context, name string) (Entity, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e, ok := d.index[name]
	if !ok {
		return nil, ErrNotFound.WrapMessage("name: %q", name)
	}
	if e.child != nil {
		return e.child, nil
	}
	child, err := d.loadChild(ctx, e)
	if err != nil {
		return nil, err
	}
	e.child = child
	return child, nil
}

func (d *Dir) loadChild(ctx context.Context, e *dirent) (Entity, error) {
	data, err := d.store.Get(ctx, e.ref)
	if err != nil {
		return nil, err
	}
	node, err := model.UnmarshalNode(data)
	if err != nil {
		return nil, err
	}
	if node.Meta.Kind != e.kind {
		return nil, model.ErrDecode.WrapMessage("entry %q expects %s, block %s holds %s",
			e.name, e.kind, e.ref, node.Meta.Kind)
	}
	return entityFromNode(d.store, e.ref, node, d.s)
}

// Entries lists the directory in insertion order
func (d *Dir) Entries() []Entry {
	d.mu.Lock()
	defer d.mu.Unlock()
	res := make([]Entry, 0, len(d.entries))
	for _, e := range d.entries {
		ref := e.ref
		if e.child != nil {
			ref = e.child.CID()
		}
		res = append(res, Entry{Name: e.name, Kind: e.kind, Ref: ref})
	}
	return res
}

// Checkpoint persists the directory as a new version.
//
// Children are checkpointed first, post-order: a child must hold a CID
// before the parent block referencing it can be built. A directory
// with no structural change and no changed child returns its existing
// CID without writing.
func (d *Dir) Checkpoint(ctx context.Context) (cid.Cid, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	changed := d.dirty
	for _, e := range d.entries {
		if e.child == nil {
			continue
		}
		ccid, err := e.child.Checkpoint(ctx)
		if err != nil {
			return cid.Undef, err
		}
		if !ccid.Equals(e.ref) {
			e.ref = ccid
			changed = true
		}
	}

	if !changed && d.c.Defined() {
		return d.c, nil
	}

	payload := model.DirPayload{Entries: make([]model.DirEntry, 0, len(d.entries))}
	for _, e := range d.entries {
		payload.Entries = append(payload.Entries, model.DirEntry{
			Name: e.name,
			Ref:  e.ref.String(),
			Kind: e.kind,
		})
	}

	meta := d.meta
	meta.ModifiedAt = time.Now().UTC()
	if d.c.Defined() {
		meta.Previous = d.c.String()
	}

	node := &model.Node{
		Version: model.CurrentNodeVersion,
		Meta:    meta,
		Dir:     &payload,
	}
	block, err := model.MarshalNode(node)
	if err != nil {
		return cid.Undef, err
	}
	c, err := d.store.Put(ctx, cas.NodeCodec, block)
	if err != nil {
		return cid.Undef, err
	}

	d.c = c
	d.meta = meta
	d.dirty = false

	d.s.l.Debug("checkpointed directory",
		zap.Stringer("cid", c), zap.Int("entries", len(d.entries)))
	return c, nil
}

func (d *Dir) reserveName(name string) error {
	if err := validateName(name); err != nil {
		return err
	}
	if _, ok := d.index[name]; ok {
		return ErrAlreadyExists.WrapMessage("name: %q", name)
	}
	return nil
}

func (d *Dir) insert(e *dirent) {
	d.entries = append(d.entries, e)
	d.index[e.name] = e
	d.dirty = true
}

func validateName(name string) error {
	if name == "" || name == "." || name == ".." {
		return ErrInvalidName.WrapMessage("name: %q", name)
	}
	if strings.ContainsRune(name, '/') {
		return ErrInvalidName.WrapMessage("name %q contains a path separator", name)
	}
	return nil
}
