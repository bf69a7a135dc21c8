package tui

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"codeberg.org/tslocum/cview"
	"github.com/dustin/go-humanize"
	"github.com/riadafridishibly/jsonascii/scanner"
)

// item is one table row: either a finding or an access error.
type item struct {
	finding *scanner.Finding
	err     *scanner.AccessError
}

func (it *item) path() string {
	if it.err != nil {
		return it.err.Path
	}
	return it.finding.Path
}

func (it *item) line() int {
	if it.finding != nil {
		return it.finding.Line
	}
	return 0
}

func compareItems(x, y *item) int {
	if c := cmp.Compare(x.path(), y.path()); c != 0 {
		return c
	}
	return cmp.Compare(x.line(), y.line())
}

func (a *App) startScanning() {
	if !a.scanning.CompareAndSwap(false, true) {
		return
	}

	a.items = a.items[:0]
	a.takePending()
	a.buildTable()

	a.scanner = a.newScanner(a.reporter())
	done := make(chan struct{})

	go func() {
		defer close(done)
		a.scanner.Run()
	}()
	go a.processResultEvents(done)
}

func (a *App) replaceHomeWithTilde(p string) string {
	if a.userHomeDir == "" {
		return p
	}
	if after, ok := strings.CutPrefix(p, a.userHomeDir); ok {
		p = "~" + after
	}
	return p
}

// displayPath shortens p relative to the scan root when possible.
func (a *App) displayPath(p string) string {
	if rel, err := filepath.Rel(a.rootPath, p); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return a.replaceHomeWithTilde(p)
}

func (a *App) addItems(batch []*item) {
	if len(batch) == 0 {
		return
	}
	a.items = append(a.items, batch...)
	a.buildTable()
}

func (a *App) buildTable() *cview.Table {
	theme := a.currentTheme
	table := a.table
	table.Clear()
	slices.SortStableFunc(a.items, compareItems)

	for row, it := range a.items {
		var lineText, byteText string
		color := theme.fg
		if it.err != nil {
			lineText = "-"
			byteText = it.err.Kind().String()
			color = theme.red
		} else {
			lineText = strconv.Itoa(it.finding.Line)
			byteText = fmt.Sprintf("0x%02X @%d", it.finding.Byte, it.finding.Column)
		}

		// Always bind the reference to the 0th column
		lineCell := cview.NewTableCell(fmt.Sprintf(" %s ", lineText))
		lineCell.SetTextColor(theme.yellow)
		lineCell.SetAlign(cview.AlignRight)
		lineCell.SetReference(it)
		table.SetCell(row, 0, lineCell)

		byteCell := cview.NewTableCell(fmt.Sprintf(" %s ", byteText))
		byteCell.SetTextColor(color)
		byteCell.SetAlign(cview.AlignLeft)
		table.SetCell(row, 1, byteCell)

		pathCell := cview.NewTableCell(cview.Escape(a.displayPath(it.path())))
		pathCell.SetTextColor(color)
		pathCell.SetAlign(cview.AlignLeft)
		pathCell.SetExpansion(1)
		table.SetCell(row, 2, pathCell)
	}

	table.SetBorder(false)
	table.SetBorders(false)
	table.SetSelectable(true, false)
	table.SetSeparator(' ')

	return table
}

func (a *App) selectedItem() *item {
	if a.table == nil {
		return nil
	}
	row, _ := a.table.GetSelection()
	cell := a.table.GetCell(row, 0)
	if cell == nil {
		return nil
	}
	it, ok := cell.GetReference().(*item)
	if !ok {
		a.logger.V(1).Info("unexpected table reference", "type", fmt.Sprintf("%T", cell.GetReference()))
		return nil
	}
	return it
}

func (a *App) showItemDetail() {
	it := a.selectedItem()
	if it == nil {
		return
	}
	a.detailModal.SetText(itemDetail(it))
	a.showDetail = true
	a.setRoot(a.detailModal, false)
}

// itemDetail renders the modal text. Line content is quoted with non-ASCII
// bytes escaped so the offending byte is visible.
func itemDetail(it *item) string {
	var detail strings.Builder
	if it.err != nil {
		fmt.Fprintf(&detail, "Path: %s\n", it.err.Path)
		fmt.Fprintf(&detail, "Problem: %s\n", it.err.Label())
		fmt.Fprintf(&detail, "Kind: %s\n", it.err.Kind())
		fmt.Fprintf(&detail, "Error: %v\n", it.err.Err)
		return cview.Escape(detail.String())
	}

	f := it.finding
	fmt.Fprintf(&detail, "Path: %s\n", f.Path)
	fmt.Fprintf(&detail, "Line: %d\n", f.Line)
	fmt.Fprintf(&detail, "Column: %d\n", f.Column)
	fmt.Fprintf(&detail, "Byte: 0x%02X\n", f.Byte)
	fmt.Fprintf(&detail, "Line length: %s\n", humanize.Bytes(uint64(len(f.Content))))
	fmt.Fprintf(&detail, "Content: %s\n", strconv.QuoteToASCII(string(f.Content)))
	return cview.Escape(detail.String())
}
