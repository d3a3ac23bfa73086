package fs

import (
	"context"

	"github.com/dagfs/dagfs/pkg/errors"
)

// EnsureDir resolves a directory path from root, creating any missing
// intermediate directories on the way. Fails with ErrNotADir when an
// existing segment is not a directory.
func EnsureDir(ctx context.Context, root *Dir, path string) (*Dir, error) {
	segs, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	return ensureDirSegments(ctx, root, segs)
}

func ensureDirSegments(ctx context.Context, cur *Dir, segs []string) (*Dir, error) {
	for _, seg := range segs {
		ent, err := cur.Get(ctx, seg)
		switch {
		case err == nil:
			d, ok := ent.(*Dir)
			if !ok {
				return nil, ErrNotADir.WrapMessage("segment: %q", seg)
			}
			cur = d
		case errors.Is(err, ErrNotFound):
			d, cerr := cur.CreateDir(seg)
			if cerr != nil {
				return nil, cerr
			}
			cur = d
		default:
			return nil, err
		}
	}
	return cur, nil
}

// EnsureFile resolves a file path from root, creating missing
// intermediate directories and the file itself when absent. An
// existing file at the path is returned as is.
func EnsureFile(ctx context.Context, root *Dir, path string) (*File, error) {
	segs, err := SplitPath(path)
	if err != nil {
		return nil, err
	}
	name := segs[len(segs)-1]
	parent, err := ensureDirSegments(ctx, root, segs[:len(segs)-1])
	if err != nil {
		return nil, err
	}

	ent, err := parent.Get(ctx, name)
	switch {
	case err == nil:
		f, ok := ent.(*File)
		if !ok {
			return nil, ErrNotAFile.WrapMessage("path: %q", path)
		}
		return f, nil
	case errors.Is(err, ErrNotFound):
		return parent.CreateFile(name)
	default:
		return nil, err
	}
}
