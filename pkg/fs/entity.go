// Package fs implements the dagfs filesystem engine: immutable,
// content-addressed entity versions (files, directories, symlinks)
// assembled into Merkle DAGs, with in-memory mutation and an explicit
// checkpoint protocol that persists a mutated subtree bottom-up.
//
// Entities move between two states. A Clean entity matches its
// last-persisted block and checkpointing it is a no-op returning the
// existing CID. Mutations buffer in memory and mark the entity Dirty;
// checkpointing a Dirty entity writes new blocks through the shared
// content-addressed store and records a backward link to the prior
// version, so no checkpoint ever destroys history.
package fs

import (
	"context"

	"github.com/ipfs/go-cid"

	"github.com/dagfs/dagfs/pkg/cas"
	"github.com/dagfs/dagfs/pkg/model"
)

// Entity is the capability shared by all filesystem variants.
//
// An entity instance assumes a single logical owner: callers mutating
// or checkpointing the same instance concurrently must serialize these
// calls themselves.
type Entity interface {
	// Kind discriminates the variant
	Kind() model.Kind

	// Metadata returns the entity metadata as of the last checkpoint
	Metadata() model.Metadata

	// CID returns the last-checkpointed version, or cid.Undef when the
	// entity has never been persisted
	CID() cid.Cid

	// Dirty reports whether in-memory mutations are not yet persisted
	Dirty() bool

	// Checkpoint persists pending mutations as a new version and
	// returns its CID. With no pending mutations it returns the
	// existing CID without writing.
	Checkpoint(ctx context.Context) (cid.Cid, error)
}

// Load fetches a node block and reconstructs the entity variant it
// describes.
func Load(ctx context.Context, store *cas.Store, c cid.Cid, opts ...Option) (Entity, error) {
	data, err := store.Get(ctx, c)
	if err != nil {
		return nil, err
	}
	node, err := model.UnmarshalNode(data)
	if err != nil {
		return nil, err
	}
	return entityFromNode(store, c, node, applyOptions(opts))
}

func entityFromNode(store *cas.Store, c cid.Cid, node *model.Node, s settings) (Entity, error) {
	switch node.Meta.Kind {
	case model.KindFile:
		return fileFromNode(store, c, node, s), nil
	case model.KindDir:
		return dirFromNode(store, c, node, s)
	case model.KindSymlink:
		return symlinkFromNode(store, c, node, s), nil
	default:
		// unreachable after model validation
		return nil, model.ErrDecode.WrapMessage("unknown kind %q", node.Meta.Kind)
	}
}

// History walks the backward version chain starting at c and returns
// every version CID, most recent first. Each returned CID is
// independently loadable for as long as the store retains its blocks.
func History(ctx context.Context, store *cas.Store, c cid.Cid) ([]cid.Cid, error) {
	var chain []cid.Cid
	seen := make(map[cid.Cid]struct{})

	for c.Defined() {
		if _, dup := seen[c]; dup {
			return nil, model.ErrDecode.WrapMessage("version chain cycle at %s", c)
		}
		seen[c] = struct{}{}
		chain = append(chain, c)

		data, err := store.Get(ctx, c)
		if err != nil {
			return nil, err
		}
		node, err := model.UnmarshalNode(data)
		if err != nil {
			return nil, err
		}
		prev, ok, err := node.Meta.PreviousCID()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		c = prev
	}
	return chain, nil
}
