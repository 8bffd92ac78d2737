package sequence_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"seqview/internal/sequence"
	"seqview/internal/services"
	"seqview/internal/testsupport"
)

func baseNames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}

func assertNames(t *testing.T, got []string, want ...string) {
	t.Helper()
	names := baseNames(got)
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("got %v, want %v", names, want)
		}
	}
}

func TestExpandSequenceCollectsMatchingFrames(t *testing.T) {
	dir := t.TempDir()
	testsupport.TouchFiles(t, dir, "shot_0002.exr", "shot_0001.exr", "other.txt", "shot_001.exr")

	set, err := sequence.Expand(filepath.Join(dir, "shot_%04d.exr"))
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	assertNames(t, set.Paths, "shot_0001.exr", "shot_0002.exr")
	if !set.IsSequence() {
		t.Fatal("expected sequence frame set")
	}
	if set.First != 1 || set.Last != 2 || set.Range() != "1-2" {
		t.Fatalf("unexpected range: first %d last %d range %q", set.First, set.Last, set.Range())
	}
	for _, p := range set.Paths {
		if !filepath.IsAbs(p) {
			t.Fatalf("expected absolute path, got %q", p)
		}
	}
}

func TestExpandNonSequenceUsesExtension(t *testing.T) {
	dir := t.TempDir()
	testsupport.TouchFiles(t, dir, "note.mov", "final.mov", "final.json")

	set, err := sequence.Expand(filepath.Join(dir, "final.mov"))
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	assertNames(t, set.Paths, "final.mov", "note.mov")
	if set.IsSequence() || set.Range() != "" {
		t.Fatalf("expected non-sequence set, got %+v", set)
	}
}

func TestExpandIsNotRecursive(t *testing.T) {
	dir := t.TempDir()
	testsupport.TouchFiles(t, dir, "shot_0001.exr")
	testsupport.TouchFiles(t, filepath.Join(dir, "nested"), "shot_0002.exr")
	if err := os.Mkdir(filepath.Join(dir, "shot_0003.exr"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	set, err := sequence.Expand(filepath.Join(dir, "shot_%04d.exr"))
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	assertNames(t, set.Paths, "shot_0001.exr")
}

func TestRepresentativeIsLexicographicallyFirst(t *testing.T) {
	dir := t.TempDir()
	testsupport.TouchFiles(t, dir, "shot_1010.exr", "shot_1001.exr", "shot_1005.exr")

	set, err := sequence.Expand(filepath.Join(dir, "shot_%04d.exr"))
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	first, err := set.Representative()
	if err != nil {
		t.Fatalf("Representative returned error: %v", err)
	}
	if filepath.Base(first) != "shot_1001.exr" {
		t.Fatalf("unexpected representative: %q", first)
	}
	if set.First != 1001 || set.Last != 1010 {
		t.Fatalf("unexpected range: %s", set.Range())
	}
}

func TestEmptyFrameSetIsDistinguishable(t *testing.T) {
	dir := t.TempDir()
	testsupport.TouchFiles(t, dir, "other.txt")

	set, err := sequence.Expand(filepath.Join(dir, "shot_%04d.exr"))
	if err != nil {
		t.Fatalf("Expand returned error: %v", err)
	}
	if set.Len() != 0 {
		t.Fatalf("expected empty set, got %v", set.Paths)
	}
	if _, err := set.Representative(); !errors.Is(err, services.ErrEmptySequence) {
		t.Fatalf("expected ErrEmptySequence, got %v", err)
	}
}

func TestExpandMissingDirectory(t *testing.T) {
	_, err := sequence.Expand(filepath.Join(t.TempDir(), "gone", "shot_%04d.exr"))
	if !errors.Is(err, services.ErrEmptySequence) {
		t.Fatalf("expected ErrEmptySequence for missing directory, got %v", err)
	}
}

func TestExpandMalformedPattern(t *testing.T) {
	_, err := sequence.Expand(filepath.Join(t.TempDir(), "shot_%x.exr"))
	if !errors.Is(err, services.ErrInvalidPattern) {
		t.Fatalf("expected ErrInvalidPattern, got %v", err)
	}
}
