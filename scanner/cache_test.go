package scanner

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/riadafridishibly/jsonascii/cache"
)

func openCache(t *testing.T) *cache.Cache {
	t.Helper()
	c, err := cache.Open(filepath.Join(t.TempDir(), "cache.db"))
	if err != nil {
		t.Fatalf("cache.Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestRunWithCacheReplaysFindings(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]*string{
		"bad.json":  str("{\n\"caf\xc3\xa9\"\n}"),
		"good.json": str("{}\n"),
	})
	c := openCache(t)

	var first, second bytes.Buffer
	sum1 := NewScanner(root, NewConsoleReporter(&first, &first), WithCache(c)).Run()
	sum2 := NewScanner(root, NewConsoleReporter(&second, &second), WithCache(c)).Run()

	if first.String() != second.String() {
		t.Errorf("cached output differs:\nfirst:  %q\nsecond: %q", first.String(), second.String())
	}
	if sum1.FilesScanned != 2 || sum1.FilesCached != 0 {
		t.Errorf("first run scanned/cached = %d/%d, want 2/0", sum1.FilesScanned, sum1.FilesCached)
	}
	if sum2.FilesScanned != 0 || sum2.FilesCached != 2 {
		t.Errorf("second run scanned/cached = %d/%d, want 0/2", sum2.FilesScanned, sum2.FilesCached)
	}
	if sum2.Findings != 1 || sum2.Lines != sum1.Lines {
		t.Errorf("second run findings/lines = %d/%d, want 1/%d", sum2.Findings, sum2.Lines, sum1.Lines)
	}
}

func TestRunWithCacheRescansChangedFile(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "data.json")
	writeTree(t, root, map[string]*string{
		"data.json": str("{}\n"),
	})
	c := openCache(t)

	NewScanner(root, &recorder{}, WithCache(c)).Run()

	if err := os.WriteFile(path, []byte("{\"\xff\"}\n"), 0o644); err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	later := time.Now().Add(time.Minute)
	if err := os.Chtimes(path, later, later); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	rec := &recorder{}
	sum := NewScanner(root, rec, WithCache(c)).Run()

	if sum.FilesScanned != 1 || sum.FilesCached != 0 {
		t.Errorf("scanned/cached = %d/%d, want 1/0", sum.FilesScanned, sum.FilesCached)
	}
	if len(rec.findings) != 1 || rec.findings[0].Line != 1 {
		t.Errorf("expected one finding on line 1, got %+v", rec.findings)
	}
}

func TestRunWithCachePrunesDeletedFiles(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]*string{
		"keep.json": str("{}\n"),
		"gone.json": str("{}\n"),
	})
	c := openCache(t)

	NewScanner(root, &recorder{}, WithCache(c)).Run()
	if err := os.Remove(filepath.Join(root, "gone.json")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	NewScanner(root, &recorder{}, WithCache(c)).Run()

	paths, err := c.Paths()
	if err != nil {
		t.Fatalf("Paths: %v", err)
	}
	abs, _ := filepath.Abs(filepath.Join(root, "keep.json"))
	if !slices.Equal(paths, []string{abs}) {
		t.Errorf("cached paths = %v, want [%s]", paths, abs)
	}
}
