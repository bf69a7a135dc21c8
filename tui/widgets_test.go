package tui

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"
	"strings"
	"syscall"
	"testing"

	"github.com/go-logr/logr"
	"github.com/riadafridishibly/jsonascii/scanner"
)

func newTestApp(t *testing.T, root string) *App {
	t.Helper()
	cfg := DefaultConfig()
	cfg.ReplaceHomeWithTilde = false
	return NewApp(root, cfg, nil, logr.Discard())
}

func findingItem(path string, line int) *item {
	return &item{finding: &scanner.Finding{Path: path, Line: line, Column: 1, Byte: 0xC3, Content: []byte("\xc3\xa9\n")}}
}

func TestBuildTableSortsByPathAndLine(t *testing.T) {
	root := filepath.Join(string(filepath.Separator), "data")
	a := newTestApp(t, root)

	b := filepath.Join(root, "b.json")
	c := filepath.Join(root, "c.json")
	errItem := &item{err: &scanner.AccessError{
		Op:   scanner.OpOpenDir,
		Path: filepath.Join(root, "a"),
		Err:  &fs.PathError{Op: "open", Path: filepath.Join(root, "a"), Err: syscall.EACCES},
	}}

	a.addItems([]*item{findingItem(c, 1), findingItem(b, 7), findingItem(b, 2)})
	a.addItems([]*item{errItem})

	if got := a.table.GetRowCount(); got != 4 {
		t.Fatalf("row count = %d, want 4", got)
	}

	var order []string
	for row := 0; row < a.table.GetRowCount(); row++ {
		it, ok := a.table.GetCell(row, 0).GetReference().(*item)
		if !ok {
			t.Fatalf("row %d has no item reference", row)
		}
		order = append(order, fmt.Sprintf("%s:%d", filepath.Base(it.path()), it.line()))
	}
	want := []string{"a:0", "b.json:2", "b.json:7", "c.json:1"}
	if !slices.Equal(order, want) {
		t.Errorf("table order = %v, want %v", order, want)
	}
}

func TestAddItemsIgnoresEmptyBatch(t *testing.T) {
	a := newTestApp(t, "/data")
	a.addItems(nil)
	if len(a.items) != 0 || a.table.GetRowCount() != 0 {
		t.Errorf("expected empty table, got %d items", len(a.items))
	}
}

func TestItemDetail(t *testing.T) {
	finding := &item{finding: &scanner.Finding{
		Path:    "/data/bad.json",
		Line:    3,
		Column:  10,
		Byte:    0xC3,
		Content: []byte("{\"k\":\"caf\xc3\xa9\"}\n"),
	}}

	detail := itemDetail(finding)
	for _, want := range []string{"Path: /data/bad.json", "Line: 3", "Column: 10", "Byte: 0xC3", `caf\u00e9`} {
		if !strings.Contains(detail, want) {
			t.Errorf("detail missing %q:\n%s", want, detail)
		}
	}

	accessErr := &item{err: &scanner.AccessError{
		Op:   scanner.OpOpen,
		Path: "/data/secret.json",
		Err:  &fs.PathError{Op: "open", Path: "/data/secret.json", Err: syscall.EACCES},
	}}
	detail = itemDetail(accessErr)
	for _, want := range []string{"Problem: Error opening file", "Kind: access denied", "permission denied"} {
		if !strings.Contains(detail, want) {
			t.Errorf("detail missing %q:\n%s", want, detail)
		}
	}
}

func TestDisplayPath(t *testing.T) {
	a := newTestApp(t, "/data/assets")
	a.userHomeDir = "/home/me"

	tests := []struct {
		path string
		want string
	}{
		{"/data/assets/a/b.json", filepath.Join("a", "b.json")},
		{"/home/me/other.json", "~/other.json"},
		{"/srv/x.json", "/srv/x.json"},
	}

	for _, tt := range tests {
		if got := a.displayPath(tt.path); got != tt.want {
			t.Errorf("displayPath(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestThemes(t *testing.T) {
	names := ThemeNames()
	if !slices.IsSorted(names) {
		t.Errorf("ThemeNames not sorted: %v", names)
	}
	if !HasTheme(defaultTheme) {
		t.Errorf("default theme %q missing", defaultTheme)
	}
	if HasTheme("solarized-neon") {
		t.Errorf("unexpected theme reported as present")
	}

	a := newTestApp(t, "/data")
	a.switchTheme("dracula")
	if a.currentTheme.Name != "Dracula" {
		t.Errorf("switchTheme: current = %q", a.currentTheme.Name)
	}
	a.switchTheme("nope")
	if a.currentTheme.Name != "Dracula" {
		t.Errorf("unknown theme changed current theme to %q", a.currentTheme.Name)
	}
}
