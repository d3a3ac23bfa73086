package fs

import (
	"context"
	"strings"

	"github.com/dagfs/dagfs/pkg/errors"
)

// MaxFollowDepth bounds how many symlinks one resolution may follow
// before giving up on what is assumed to be a link loop.
const MaxFollowDepth = 32

// SplitPath validates a slash-separated path and returns its segments.
// A leading slash is accepted (paths are resolved from a caller-chosen
// root either way); empty paths and empty or invalid segments are not.
func SplitPath(path string) ([]string, error) {
	trimmed := strings.TrimPrefix(path, "/")
	if trimmed == "" {
		return nil, ErrInvalidPath.WrapMessage("path: %q", path)
	}
	segs := strings.Split(trimmed, "/")
	for _, seg := range segs {
		if err := validateName(seg); err != nil {
			return nil, ErrInvalidPath.WrapMessage("path %q: %v", path, err)
		}
	}
	return segs, nil
}

// Resolve walks a path from root and returns the entity it names.
//
// Symlinks are followed as they are encountered, relative to the
// directory holding the link; a target with a leading slash restarts
// from root. Resolution fails with ErrNotFound when a segment is
// missing, ErrNotADir when traversing through a non-directory, and
// ErrFollowDepthExceeded after MaxFollowDepth link hops.
func Resolve(ctx context.Context, root *Dir, path string) (Entity, error) {
	segs, err := SplitPath(path)
	if err != nil {
		return nil, err
	}

	cur := root
	depth := 0
	for len(segs) > 0 {
		seg := segs[0]
		segs = segs[1:]

		ent, err := cur.Get(ctx, seg)
		if err != nil {
			if errors.Is(err, ErrNotFound) {
				return nil, ErrNotFound.WrapMessage("path %q: missing %q", path, seg)
			}
			return nil, err
		}

		if link, ok := ent.(*Symlink); ok {
			depth++
			if depth > MaxFollowDepth {
				return nil, ErrFollowDepthExceeded.WrapMessage("path: %q", path)
			}
			target := link.Target()
			tsegs, err := SplitPath(target)
			if err != nil {
				return nil, err
			}
			if strings.HasPrefix(target, "/") {
				cur = root
			}
			segs = append(tsegs, segs...)
			continue
		}

		if len(segs) == 0 {
			return ent, nil
		}
		d, ok := ent.(*Dir)
		if !ok {
			return nil, ErrNotADir.WrapMessage("path %q: %q is a %s", path, seg, ent.Kind())
		}
		cur = d
	}
	return cur, nil
}

// ResolveDir resolves a path that must name a directory
func ResolveDir(ctx context.Context, root *Dir, path string) (*Dir, error) {
	ent, err := Resolve(ctx, root, path)
	if err != nil {
		return nil, err
	}
	d, ok := ent.(*Dir)
	if !ok {
		return nil, ErrNotADir.WrapMessage("path: %q", path)
	}
	return d, nil
}

// ResolveFile resolves a path that must name a file
func ResolveFile(ctx context.Context, root *Dir, path string) (*File, error) {
	ent, err := Resolve(ctx, root, path)
	if err != nil {
		return nil, err
	}
	f, ok := ent.(*File)
	if !ok {
		return nil, ErrNotAFile.WrapMessage("path: %q", path)
	}
	return f, nil
}
