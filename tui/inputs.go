package tui

import "github.com/gdamore/tcell/v3"

func (a *App) handleInput(event *tcell.EventKey) *tcell.EventKey {
	if a.showDetail || a.showTheme {
		// vi key binding for modal button selection
		switch event.Str() {
		case "l":
			return tcell.NewEventKey(tcell.KeyRight, tcell.KeyNames[tcell.KeyRight], tcell.ModNone)
		case "h":
			return tcell.NewEventKey(tcell.KeyLeft, tcell.KeyNames[tcell.KeyLeft], tcell.ModNone)
		}

		return event
	}

	switch event.Str() {
	case "s", "S":
		a.startScanning()
		return nil
	case "q", "Q":
		a.Stop()
		return nil
	case "i", "I":
		a.showItemDetail()
		return nil
	case "t", "T":
		a.showThemeSelector()
		return nil
	case "j":
		return tcell.NewEventKey(tcell.KeyDown, tcell.KeyNames[tcell.KeyDown], tcell.ModNone)
	case "k":
		return tcell.NewEventKey(tcell.KeyUp, tcell.KeyNames[tcell.KeyUp], tcell.ModNone)
	}

	return event
}
