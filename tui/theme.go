package tui

import (
	"maps"
	"slices"

	"github.com/gdamore/tcell/v3"
)

type Theme struct {
	Name     string
	bg       tcell.Color
	fg       tcell.Color
	red      tcell.Color
	yellow   tcell.Color
	gray     tcell.Color
	headerBg tcell.Color
	headerFg tcell.Color
	footerBg tcell.Color
	footerFg tcell.Color
	buttonBg tcell.Color
	buttonFg tcell.Color
	modalBg  tcell.Color
	modalFg  tcell.Color
}

var themes = map[string]Theme{
	"gruvbox-dark": {
		Name:     "Gruvbox Dark",
		bg:       tcell.NewRGBColor(40, 40, 40),
		fg:       tcell.NewRGBColor(235, 219, 178),
		red:      tcell.NewRGBColor(204, 36, 29),
		yellow:   tcell.NewRGBColor(215, 153, 33),
		gray:     tcell.NewRGBColor(146, 131, 116),
		headerBg: tcell.NewRGBColor(214, 93, 14),
		headerFg: tcell.NewRGBColor(60, 56, 54),
		footerBg: tcell.NewRGBColor(60, 56, 54),
		footerFg: tcell.NewRGBColor(235, 219, 178),
		buttonBg: tcell.NewRGBColor(214, 93, 14),
		buttonFg: tcell.NewRGBColor(60, 56, 54),
		modalBg:  tcell.NewRGBColor(40, 40, 40),
		modalFg:  tcell.NewRGBColor(235, 219, 178),
	},
	"nord": {
		Name:     "Nord",
		bg:       tcell.NewRGBColor(46, 52, 64),
		fg:       tcell.NewRGBColor(216, 222, 233),
		red:      tcell.NewRGBColor(191, 97, 106),
		yellow:   tcell.NewRGBColor(235, 203, 139),
		gray:     tcell.NewRGBColor(76, 86, 106),
		headerBg: tcell.NewRGBColor(129, 161, 193),
		headerFg: tcell.NewRGBColor(46, 52, 64),
		footerBg: tcell.NewRGBColor(67, 76, 94),
		footerFg: tcell.NewRGBColor(216, 222, 233),
		buttonBg: tcell.NewRGBColor(129, 161, 193),
		buttonFg: tcell.NewRGBColor(46, 52, 64),
		modalBg:  tcell.NewRGBColor(46, 52, 64),
		modalFg:  tcell.NewRGBColor(216, 222, 233),
	},
	"dracula": {
		Name:     "Dracula",
		bg:       tcell.NewRGBColor(40, 42, 54),
		fg:       tcell.NewRGBColor(248, 248, 242),
		red:      tcell.NewRGBColor(255, 85, 85),
		yellow:   tcell.NewRGBColor(241, 250, 140),
		gray:     tcell.NewRGBColor(98, 114, 164),
		headerBg: tcell.NewRGBColor(189, 147, 249),
		headerFg: tcell.NewRGBColor(40, 42, 54),
		footerBg: tcell.NewRGBColor(68, 71, 90),
		footerFg: tcell.NewRGBColor(248, 248, 242),
		buttonBg: tcell.NewRGBColor(189, 147, 249),
		buttonFg: tcell.NewRGBColor(40, 42, 54),
		modalBg:  tcell.NewRGBColor(40, 42, 54),
		modalFg:  tcell.NewRGBColor(248, 248, 242),
	},
}

// ThemeNames returns the selectable theme keys in sorted order.
func ThemeNames() []string {
	return slices.Sorted(maps.Keys(themes))
}

func HasTheme(name string) bool {
	_, ok := themes[name]
	return ok
}
