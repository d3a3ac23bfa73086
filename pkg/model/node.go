package model

import (
	"encoding/json"
	"time"

	"github.com/ipfs/go-cid"

	"github.com/dagfs/dagfs/pkg/errors"
)

// CurrentNodeVersion is the version stamped into every node block.
// Blocks carrying any other version fail decoding.
const CurrentNodeVersion = 1

// ErrDecode indicates a malformed or version-incompatible node block.
// It is always surfaced: a block that fails to decode means store
// corruption or format drift, never an empty entity.
var ErrDecode = errors.New("cannot decode node block")

// Kind discriminates the entity variants
type Kind string

const (
	// KindFile marks a file node
	KindFile Kind = "file"

	// KindDir marks a directory node
	KindDir Kind = "dir"

	// KindSymlink marks a symbolic link node
	KindSymlink Kind = "symlink"
)

func (k Kind) valid() bool {
	switch k {
	case KindFile, KindDir, KindSymlink:
		return true
	}
	return false
}

// Metadata is carried by every entity version.
//
// Previous links a version to its predecessor block, forming the
// backward version chain. It is empty on a never-before-persisted
// entity.
type Metadata struct {
	CreatedAt  time.Time `json:"createdAt" yaml:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt" yaml:"modifiedAt"`
	Kind       Kind      `json:"kind" yaml:"kind"`
	Previous   string    `json:"previous,omitempty" yaml:"previous,omitempty"`
}

// NewMetadata returns metadata for a fresh, never-persisted entity
func NewMetadata(kind Kind) Metadata {
	now := time.Now().UTC()
	return Metadata{
		CreatedAt:  now,
		ModifiedAt: now,
		Kind:       kind,
	}
}

// PreviousCID parses the previous-version link.
// The second return is false when this is the first version.
func (m Metadata) PreviousCID() (cid.Cid, bool, error) {
	if m.Previous == "" {
		return cid.Undef, false, nil
	}
	c, err := cid.Decode(m.Previous)
	if err != nil {
		return cid.Undef, false, ErrDecode.WrapMessage("previous link %q: %v", m.Previous, err)
	}
	return c, true, nil
}

// FilePayload lists the ordered content chunks of a file version
type FilePayload struct {
	Chunks []string `json:"chunks" yaml:"chunks"`
	Size   uint64   `json:"size" yaml:"size"`
}

// ChunkCIDs parses the chunk references in order
func (p *FilePayload) ChunkCIDs() ([]cid.Cid, error) {
	res := make([]cid.Cid, 0, len(p.Chunks))
	for _, s := range p.Chunks {
		c, err := cid.Decode(s)
		if err != nil {
			return nil, ErrDecode.WrapMessage("chunk ref %q: %v", s, err)
		}
		res = append(res, c)
	}
	return res, nil
}

// DirEntry is one (name, child ref, child kind) triple of a directory.
// The kind travels with the reference so a child can be loaded without
// guessing its variant.
type DirEntry struct {
	Name string `json:"name" yaml:"name"`
	Ref  string `json:"ref" yaml:"ref"`
	Kind Kind   `json:"kind" yaml:"kind"`
}

// RefCID parses the child reference
func (e DirEntry) RefCID() (cid.Cid, error) {
	c, err := cid.Decode(e.Ref)
	if err != nil {
		return cid.Undef, ErrDecode.WrapMessage("entry %q ref %q: %v", e.Name, e.Ref, err)
	}
	return c, nil
}

// DirPayload lists directory entries in insertion order
type DirPayload struct {
	Entries []DirEntry `json:"entries" yaml:"entries"`
}

// SymlinkPayload holds the target path of a symbolic link
type SymlinkPayload struct {
	Target string `json:"target" yaml:"target"`
}

// Node is the persisted form of one entity version. Exactly one payload
// is set, matching Meta.Kind.
type Node struct {
	Version int             `json:"v" yaml:"v"`
	Meta    Metadata        `json:"meta" yaml:"meta"`
	File    *FilePayload    `json:"file,omitempty" yaml:"file,omitempty"`
	Dir     *DirPayload     `json:"dir,omitempty" yaml:"dir,omitempty"`
	Symlink *SymlinkPayload `json:"symlink,omitempty" yaml:"symlink,omitempty"`
}

// Validate checks structural consistency of a node
func (n *Node) Validate() error {
	if n.Version != CurrentNodeVersion {
		return ErrDecode.WrapMessage("unsupported node version %d", n.Version)
	}
	if !n.Meta.Kind.valid() {
		return ErrDecode.WrapMessage("unknown kind %q", n.Meta.Kind)
	}
	if n.Meta.CreatedAt.IsZero() || n.Meta.ModifiedAt.IsZero() {
		return ErrDecode.WrapMessage("missing timestamps")
	}
	if _, _, err := n.Meta.PreviousCID(); err != nil {
		return err
	}

	payloads := 0
	if n.File != nil {
		payloads++
		if n.Meta.Kind != KindFile {
			return ErrDecode.WrapMessage("file payload on %q node", n.Meta.Kind)
		}
		if _, err := n.File.ChunkCIDs(); err != nil {
			return err
		}
	}
	if n.Dir != nil {
		payloads++
		if n.Meta.Kind != KindDir {
			return ErrDecode.WrapMessage("dir payload on %q node", n.Meta.Kind)
		}
		seen := make(map[string]struct{}, len(n.Dir.Entries))
		for _, e := range n.Dir.Entries {
			if e.Name == "" {
				return ErrDecode.WrapMessage("empty entry name")
			}
			if _, dup := seen[e.Name]; dup {
				return ErrDecode.WrapMessage("duplicate entry name %q", e.Name)
			}
			seen[e.Name] = struct{}{}
			if !e.Kind.valid() {
				return ErrDecode.WrapMessage("entry %q has unknown kind %q", e.Name, e.Kind)
			}
			if _, err := e.RefCID(); err != nil {
				return err
			}
		}
	}
	if n.Symlink != nil {
		payloads++
		if n.Meta.Kind != KindSymlink {
			return ErrDecode.WrapMessage("symlink payload on %q node", n.Meta.Kind)
		}
		if n.Symlink.Target == "" {
			return ErrDecode.WrapMessage("empty symlink target")
		}
	}
	if payloads != 1 {
		return ErrDecode.WrapMessage("expected exactly one payload, got %d", payloads)
	}
	return nil
}

// MarshalNode produces the canonical block bytes for a node
func MarshalNode(n *Node) ([]byte, error) {
	if err := n.Validate(); err != nil {
		return nil, err
	}
	// struct-driven encoding: field order is fixed, timestamps are UTC
	// RFC3339Nano, so equal states marshal to equal bytes
	return json.Marshal(n)
}

// UnmarshalNode decodes and validates block bytes
func UnmarshalNode(data []byte) (*Node, error) {
	var n Node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, ErrDecode.Wrap(err)
	}
	if err := n.Validate(); err != nil {
		return nil, err
	}
	// normalize to UTC so reloaded metadata compares equal bytewise
	n.Meta.CreatedAt = n.Meta.CreatedAt.UTC()
	n.Meta.ModifiedAt = n.Meta.ModifiedAt.UTC()
	return &n, nil
}
