//go:build unix

package scanner

import (
	"path/filepath"
	"slices"
	"syscall"
	"testing"
)

func TestRunIgnoresSpecialFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]*string{
		"bad.json": str("\xff\n"),
	})
	if err := syscall.Mkfifo(filepath.Join(root, "pipe.json"), 0o644); err != nil {
		t.Skipf("mkfifo not supported: %v", err)
	}

	rec := &recorder{}
	sum := NewScanner(root, rec).Run()

	want := []string{filepath.Join(root, "bad.json")}
	if got := rec.findingPaths(); !slices.Equal(got, want) {
		t.Errorf("reported paths = %v, want %v", got, want)
	}
	if sum.FilesMatched != 1 {
		t.Errorf("FilesMatched = %d, want 1", sum.FilesMatched)
	}
	if len(rec.errors) != 0 {
		t.Errorf("unexpected errors: %v", rec.errors)
	}
}
