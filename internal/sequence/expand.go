package sequence

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"seqview/internal/services"
)

// FrameSet is the collection of on-disk files judged to belong to one
// sequence, or to one extension for non-sequence paths.
type FrameSet struct {
	// Paths holds absolute paths sorted lexicographically.
	Paths []string
	// Descriptor is nil for non-sequence paths.
	Descriptor *Descriptor
	// First and Last are the lowest and highest frame numbers found. Both
	// are zero for non-sequence paths.
	First int
	Last  int
}

// Len returns the number of files in the set.
func (s FrameSet) Len() int { return len(s.Paths) }

// IsSequence reports whether the set was built from a frame placeholder.
func (s FrameSet) IsSequence() bool { return s.Descriptor != nil }

// Representative returns the path handed to the viewer: the lexicographically
// first member.
func (s FrameSet) Representative() (string, error) {
	if len(s.Paths) == 0 {
		return "", services.Wrap(services.ErrEmptySequence, "sequence", "representative", "", nil)
	}
	return s.Paths[0], nil
}

// Range renders the frame range as "first-last", or "" for non-sequences.
func (s FrameSet) Range() string {
	if s.Descriptor == nil || len(s.Paths) == 0 {
		return ""
	}
	return fmt.Sprintf("%d-%d", s.First, s.Last)
}

// Expand resolves path into its FrameSet by scanning the containing directory
// (non-recursive). Paths with a % placeholder collect every sibling matching
// the placeholder; other paths collect every sibling with the same extension.
// An empty set is not an error here; callers decide via Representative.
func Expand(path string) (FrameSet, error) {
	desc, isSequence, err := Parse(path)
	if err != nil {
		return FrameSet{}, err
	}

	dir := filepath.Dir(path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return FrameSet{}, services.Wrap(services.ErrEmptySequence, "sequence", "read directory", dir, err)
		}
		return FrameSet{}, services.Wrap(services.ErrFilesystem, "sequence", "read directory", dir, err)
	}

	absDir, err := filepath.Abs(dir)
	if err != nil {
		return FrameSet{}, services.Wrap(services.ErrFilesystem, "sequence", "resolve directory", dir, err)
	}

	set := FrameSet{}
	if isSequence {
		desc.Dir = absDir
		set.Descriptor = &desc
	}
	ext := filepath.Ext(path)
	haveFrame := false

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if isSequence {
			frame, ok := desc.Match(name)
			if !ok {
				continue
			}
			if !haveFrame || frame < set.First {
				set.First = frame
			}
			if !haveFrame || frame > set.Last {
				set.Last = frame
			}
			haveFrame = true
		} else if filepath.Ext(name) != ext {
			continue
		}
		set.Paths = append(set.Paths, filepath.Join(absDir, name))
	}

	sort.Strings(set.Paths)
	return set, nil
}
