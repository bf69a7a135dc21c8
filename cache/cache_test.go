package cache

import (
	"bytes"
	"errors"
	"path/filepath"
	"slices"
	"testing"
	"time"
)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestPutGet(t *testing.T) {
	c := openTestCache(t)

	mod := time.Unix(1700000000, 123456789)
	entry := &Entry{
		Path:      "/data/a/bad.json",
		Size:      15,
		ModTime:   mod,
		Dev:       42,
		Ino:       1 << 40,
		Lines:     3,
		ScannedAt: time.Unix(1700000100, 0),
		Findings: []Finding{
			{Line: 3, Column: 10, Byte: 0xA9, Content: []byte("{\"k\":\"caf\xc3\xa9\"}")},
			{Line: 1, Column: 2, Byte: 0xC3, Content: []byte("x\xc3\n")},
		},
	}
	if err := c.Put(entry); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := c.Get(entry.Path)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Size != entry.Size || got.Lines != entry.Lines {
		t.Errorf("Get size/lines = %d/%d, want %d/%d", got.Size, got.Lines, entry.Size, entry.Lines)
	}
	if !got.ModTime.Equal(mod) {
		t.Errorf("ModTime = %v, want %v", got.ModTime, mod)
	}
	if got.Dev != entry.Dev || got.Ino != entry.Ino {
		t.Errorf("Dev/Ino = %d/%d, want %d/%d", got.Dev, got.Ino, entry.Dev, entry.Ino)
	}
	if len(got.Findings) != 2 {
		t.Fatalf("expected 2 findings, got %d", len(got.Findings))
	}
	if got.Findings[0].Line != 1 || got.Findings[1].Line != 3 {
		t.Errorf("findings not ordered by line: %+v", got.Findings)
	}
	if got.Findings[0].Byte != 0xC3 {
		t.Errorf("Byte = %#x, want 0xc3", got.Findings[0].Byte)
	}
	if !bytes.Equal(got.Findings[1].Content, entry.Findings[0].Content) {
		t.Errorf("Content = %q, want %q", got.Findings[1].Content, entry.Findings[0].Content)
	}
}

func TestPutReplacesFindings(t *testing.T) {
	c := openTestCache(t)

	entry := &Entry{
		Path:     "/data/x.json",
		Size:     4,
		ModTime:  time.Unix(1, 0),
		Lines:    2,
		Findings: []Finding{{Line: 2, Column: 1, Byte: 0xFF, Content: []byte("\xff")}},
	}
	if err := c.Put(entry); err != nil {
		t.Fatalf("Put: %v", err)
	}

	entry.Findings = nil
	entry.Size = 5
	if err := c.Put(entry); err != nil {
		t.Fatalf("second Put: %v", err)
	}

	got, err := c.Get(entry.Path)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Size != 5 {
		t.Errorf("Size = %d, want 5", got.Size)
	}
	if len(got.Findings) != 0 {
		t.Errorf("expected findings to be replaced, got %+v", got.Findings)
	}
}

func TestGetMissing(t *testing.T) {
	c := openTestCache(t)

	_, err := c.Get("/nope.json")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get missing: err = %v, want ErrNotFound", err)
	}
}

func TestPathsAndDelete(t *testing.T) {
	c := openTestCache(t)

	for _, p := range []string{"/r/a.json", "/r/b.json", "/other/c.json"} {
		if err := c.Put(&Entry{Path: p, ModTime: time.Unix(0, 0)}); err != nil {
			t.Fatalf("Put %s: %v", p, err)
		}
	}

	if err := c.Delete("/r/b.json"); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	paths, err := c.Paths()
	if err != nil {
		t.Fatalf("Paths: %v", err)
	}
	slices.Sort(paths)
	want := []string{"/other/c.json", "/r/a.json"}
	if !slices.Equal(paths, want) {
		t.Errorf("Paths = %v, want %v", paths, want)
	}
}
