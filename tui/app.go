package tui

import (
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"codeberg.org/tslocum/cview"
	"github.com/go-logr/logr"
	"github.com/riadafridishibly/jsonascii/scanner"
)

// ScannerFactory builds a scanner for the app's root that delivers to r.
type ScannerFactory func(r scanner.Reporter) *scanner.Scanner

type App struct {
	app     *cview.Application
	scanner *scanner.Scanner

	newScanner ScannerFactory
	config     Config
	logger     logr.Logger

	header      *cview.TextView
	footer      *cview.TextView
	table       *cview.Table
	panels      *cview.Panels
	flex        *cview.Flex
	detailModal *cview.Modal
	themeModal  *cview.Modal

	items      []*item
	rootPath   string
	showDetail bool
	showTheme  bool

	uiUpdates chan func()

	// Items produced by the scan goroutine, waiting for the next UI flush
	mu      sync.Mutex
	pending []*item

	scanning atomic.Bool

	userHomeDir  string
	currentTheme Theme
}

func NewApp(rootPath string, cfg Config, newScanner ScannerFactory, logger logr.Logger) *App {
	app := cview.NewApplication()

	if cfg.ProgressUpdateFreq <= 0 {
		cfg.ProgressUpdateFreq = defaultProgressUpdateFreq
	}
	theme, ok := themes[cfg.Theme]
	if !ok {
		theme = themes[defaultTheme]
	}

	header := cview.NewTextView()
	header.SetDynamicColors(true)

	footer := cview.NewTextView()
	footer.SetDynamicColors(true)

	detailModal := cview.NewModal()
	detailModal.SetText("")
	detailModal.AddButtons([]string{"Okay"})

	themeModal := cview.NewModal()
	themeModal.SetText("")
	themeNames := ThemeNames()
	themeModal.AddButtons(themeNames)

	panels := cview.NewPanels()
	table := cview.NewTable()
	panels.AddPanel("table", table, true, true)

	a := &App{
		app:          app,
		newScanner:   newScanner,
		config:       cfg,
		logger:       logger,
		header:       header,
		footer:       footer,
		detailModal:  detailModal,
		themeModal:   themeModal,
		rootPath:     rootPath,
		panels:       panels,
		table:        table,
		items:        make([]*item, 0),
		uiUpdates:    make(chan func(), 128),
		currentTheme: theme,
	}

	flex := cview.NewFlex()
	flex.SetDirection(cview.FlexRow)
	flex.AddItem(header, 1, 0, false)
	flex.AddItem(panels, 0, 1, true)
	flex.AddItem(footer, 1, 0, false)
	a.flex = flex

	app.SetInputCapture(a.handleInput)

	detailModal.SetDoneFunc(func(_ int, _ string) {
		a.showDetail = false
		a.setRoot(flex, true)
	})

	themeModal.SetDoneFunc(func(buttonIndex int, buttonLabel string) {
		a.showTheme = false
		a.setRoot(flex, true)

		if buttonIndex >= 0 && buttonIndex < len(themeNames) {
			a.switchTheme(buttonLabel)
			a.applyTheme()
		}
	})

	if cfg.ReplaceHomeWithTilde {
		if home, err := os.UserHomeDir(); err == nil {
			a.userHomeDir = home
		}
	}

	header.SetTextAlign(cview.AlignCenter)
	header.SetText(headerStartupStatus(a.replaceHomeWithTilde(a.rootPath)))
	footer.SetTextAlign(cview.AlignCenter)
	footer.SetText(footerStatusMenu())

	a.setRoot(flex, true)

	a.applyTheme()

	return a
}

func (a *App) switchTheme(themeName string) {
	if th, ok := themes[themeName]; ok {
		a.currentTheme = th
	}
}

func (a *App) applyTheme() {
	theme := a.currentTheme

	a.header.SetBackgroundColor(theme.headerBg)
	a.header.SetTextColor(theme.headerFg)

	a.footer.SetBackgroundColor(theme.footerBg)
	a.footer.SetTextColor(theme.footerFg)

	for _, modal := range []*cview.Modal{a.detailModal, a.themeModal} {
		modal.SetBackgroundColor(theme.modalBg)
		modal.SetTextColor(theme.modalFg)
		modal.SetButtonBackgroundColor(theme.buttonBg)
		modal.SetButtonTextColor(theme.buttonFg)
	}

	a.table.SetBackgroundColor(theme.bg)
	a.panels.SetBackgroundColor(theme.bg)

	a.trySendUIUpdate(func() {
		a.buildTable()
		a.updateStatus()
	})
}

func (a *App) showThemeSelector() {
	if a.themeModal == nil {
		return
	}
	text := fmt.Sprintf("Select Theme (Current: %s)", a.currentTheme.Name)
	a.themeModal.SetText(text)
	a.showTheme = true
	a.setRoot(a.themeModal, false)
}

func (a *App) Scanner() *scanner.Scanner {
	return a.scanner
}

func (a *App) IsScanning() bool {
	return a.scanning.Load()
}

// Run starts the scan and blocks until the user quits.
func (a *App) Run() error {
	a.logger.Info("starting interactive mode", "root", a.rootPath, "theme", a.currentTheme.Name)
	go func() {
		for updateFn := range a.uiUpdates {
			a.app.QueueUpdateDraw(updateFn)
		}
	}()
	a.startScanning()
	return a.app.Run()
}

func (a *App) Stop() {
	a.app.Stop()
}
