package tui

import (
	"fmt"
	"time"

	"codeberg.org/tslocum/cview"
	"github.com/dustin/go-humanize"
)

func headerStartupStatus(root string) string {
	return fmt.Sprintf(" Checking JSON files under %s ", cview.Escape(root))
}

func footerStatusMenu() string {
	return " [s/S]: Rescan  ↑/↓: Navigate  i: Details  t: Theme  [q/Q]: Quit "
}

func (a *App) updateStatus() {
	if a.scanner == nil {
		return
	}

	state := "Done"
	if a.IsScanning() {
		state = "Scanning"
	}

	status := fmt.Sprintf(" %s | Files: %s | Findings: %s | Errors: %s | Read: %s | Elapsed: %s ",
		state,
		humanize.Comma(a.scanner.FileCount()),
		humanize.Comma(a.scanner.FindingCount()),
		humanize.Comma(a.scanner.ErrorCount()),
		humanize.Bytes(uint64(a.scanner.BytesScanned())),
		a.scanner.ElapsedTime().Round(time.Millisecond),
	)
	a.header.SetText(status)
	a.header.SetTextAlign(cview.AlignCenter)

	a.footer.SetText(footerStatusMenu())
	a.footer.SetTextAlign(cview.AlignCenter)
}
