package ui

import (
	"fmt"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/hexirules/hexirules/config"
	"github.com/hexirules/hexirules/service"
)

// GUI represents the desktop viewer: a monospaced world canvas with
// toolbar controls for stepping and history navigation.
type GUI struct {
	Service *service.WorldService
	App     fyne.App
	Window  fyne.Window

	// View panels
	WorldView   *widget.TextGrid
	LogView     *widget.TextGrid
	RulesEntry  *widget.Entry
	StatusLabel *widget.Label

	// Controls
	Toolbar *widget.Toolbar

	// Display settings
	emptyGlyph string
}

// NewGUI creates the desktop viewer for a world service.
func NewGUI(svc *service.WorldService, cfg *config.Config) *GUI {
	g := &GUI{
		Service:    svc,
		App:        app.New(),
		emptyGlyph: cfg.Display.EmptyGlyph,
	}

	g.Window = g.App.NewWindow("HexiRules")
	g.setupViews()
	g.setupToolbar()
	g.setupLayout()
	g.refresh()

	return g
}

// setupViews creates all view panels
func (g *GUI) setupViews() {
	g.WorldView = widget.NewTextGrid()
	g.LogView = widget.NewTextGrid()
	g.StatusLabel = widget.NewLabel("")

	g.RulesEntry = widget.NewMultiLineEntry()
	g.RulesEntry.SetPlaceHolder("HexiDirect rules, one per line")
}

// setupToolbar creates the control toolbar
func (g *GUI) setupToolbar() {
	g.Toolbar = widget.NewToolbar(
		widget.NewToolbarAction(theme.MediaPlayIcon(), func() {
			if _, err := g.Service.Step(); err != nil {
				g.showError(err)
				return
			}
			g.refresh()
		}),
		widget.NewToolbarAction(theme.MediaSkipPreviousIcon(), func() {
			if err := g.Service.Prev(); err != nil {
				g.showError(err)
				return
			}
			g.refresh()
		}),
		widget.NewToolbarAction(theme.MediaSkipNextIcon(), func() {
			if err := g.Service.Next(); err != nil {
				g.showError(err)
				return
			}
			g.refresh()
		}),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ConfirmIcon(), func() {
			if err := g.Service.SetRules(g.RulesEntry.Text); err != nil {
				g.showError(err)
				return
			}
			g.refresh()
		}),
		widget.NewToolbarAction(theme.DeleteIcon(), func() {
			if err := g.Service.ClearAll(); err != nil {
				g.showError(err)
				return
			}
			g.refresh()
		}),
	)
}

// setupLayout arranges the panels
func (g *GUI) setupLayout() {
	right := container.NewVBox(g.RulesEntry, g.LogView)
	content := container.NewBorder(g.Toolbar, g.StatusLabel, nil, right, g.WorldView)
	g.Window.SetContent(content)
	g.Window.Resize(fyne.NewSize(900, 600))
}

// Run shows the window and blocks until it is closed.
func (g *GUI) Run() {
	g.Window.ShowAndRun()
}

// refresh redraws all panels
func (g *GUI) refresh() {
	info, err := g.Service.CurrentInfo()
	if err != nil {
		g.StatusLabel.SetText(err.Error())
		return
	}

	snap, err := g.Service.Snapshot()
	if err != nil {
		g.showError(err)
		return
	}
	grid, err := snapshotGrid(snap)
	if err != nil {
		g.showError(err)
		return
	}
	g.WorldView.SetText(RenderGrid(grid, g.emptyGlyph))

	if g.RulesEntry.Text == "" {
		g.RulesEntry.SetText(snap.RulesText)
	}

	if entries, err := g.Service.History(); err == nil && len(entries) > 0 {
		if log, err := g.Service.LogAt(len(entries) - 1); err == nil {
			g.LogView.SetText(strings.Join(log, "\n"))
		}
	}

	gen, _ := g.Service.Generation()
	cursor, _ := g.Service.HistoryCursor()
	g.StatusLabel.SetText(fmt.Sprintf("%s | radius %d | %d alive | gen %d | history cursor %d",
		info.Name, info.Radius, info.ActiveCount, gen, cursor))
}

// showError surfaces an engine error in the status line
func (g *GUI) showError(err error) {
	g.StatusLabel.SetText(fmt.Sprintf("error: %v", err))
}
