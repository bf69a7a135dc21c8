package tui

import (
	"time"

	"codeberg.org/tslocum/cview"
	"github.com/riadafridishibly/jsonascii/scanner"
)

func (a *App) trySendUIUpdate(f func()) {
	select {
	case a.uiUpdates <- f:
	default:
	}
}

// setRoot queues a SetRoot operation to avoid data races
func (a *App) setRoot(primitive cview.Primitive, focus bool) {
	a.app.QueueUpdateDraw(func() {
		a.app.SetRoot(primitive, focus)
	})
}

// reporter collects scan output for the UI. It runs on the scan goroutine.
func (a *App) reporter() scanner.Reporter {
	return scanner.ReporterFunc{
		OnFinding: func(f scanner.Finding) {
			a.enqueue(&item{finding: &f})
		},
		OnError: func(err *scanner.AccessError) {
			a.enqueue(&item{err: err})
		},
	}
}

func (a *App) enqueue(it *item) {
	a.mu.Lock()
	a.pending = append(a.pending, it)
	a.mu.Unlock()
}

func (a *App) takePending() []*item {
	a.mu.Lock()
	defer a.mu.Unlock()
	batch := a.pending
	a.pending = nil
	return batch
}

// processResultEvents moves pending items into the table until the scan
// signals done. Items are never dropped, unlike status updates. The
// scanning flag is cleared on the UI goroutine after the last flush.
func (a *App) processResultEvents(done <-chan struct{}) {
	ticker := time.NewTicker(a.config.ProgressUpdateFreq)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			batch := a.takePending()
			a.app.QueueUpdateDraw(func() {
				a.addItems(batch)
				a.scanning.Store(false)
				a.updateStatus()
			})
			return
		case <-ticker.C:
			batch := a.takePending()
			if len(batch) == 0 {
				a.trySendUIUpdate(a.updateStatus)
				continue
			}
			a.app.QueueUpdateDraw(func() {
				a.addItems(batch)
				a.updateStatus()
			})
		}
	}
}
