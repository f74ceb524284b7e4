package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/hexirules/hexirules/config"
	"github.com/hexirules/hexirules/service"
)

// TUI represents the terminal panel: the grid view, the step log, a status
// line and a command input (which also takes rule text through its rules
// command) driving one world service.
type TUI struct {
	Service *service.WorldService
	App     *tview.Application

	// Layout containers
	MainLayout *tview.Flex

	// View panels
	WorldView    *tview.TextView
	LogView      *tview.TextView
	StatusBar    *tview.TextView
	CommandInput *tview.InputField

	// Display settings
	emptyGlyph string
	logLines   int
}

// NewTUI creates the terminal panel for a world service.
func NewTUI(svc *service.WorldService, cfg *config.Config) *TUI {
	t := &TUI{
		Service:    svc,
		App:        tview.NewApplication(),
		emptyGlyph: cfg.Display.EmptyGlyph,
		logLines:   cfg.Display.LogLines,
	}

	t.setupViews()
	t.setupLayout()
	t.setupKeybindings()
	t.refresh()

	return t
}

// setupViews creates all view panels
func (t *TUI) setupViews() {
	t.WorldView = tview.NewTextView().SetWrap(false)
	t.WorldView.SetBorder(true).SetTitle(" World ")

	t.LogView = tview.NewTextView().SetWrap(false).SetScrollable(true)
	t.LogView.SetBorder(true).SetTitle(" Step log ")

	t.StatusBar = tview.NewTextView().SetWrap(false)

	t.CommandInput = tview.NewInputField().SetLabel("> ")
	t.CommandInput.SetDoneFunc(func(key tcell.Key) {
		if key != tcell.KeyEnter {
			return
		}
		cmd := t.CommandInput.GetText()
		t.CommandInput.SetText("")
		t.execute(cmd)
	})
}

// setupLayout arranges the panels
func (t *TUI) setupLayout() {
	t.MainLayout = tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(t.WorldView, 0, 3, false).
		AddItem(t.LogView, t.logLines+2, 0, false).
		AddItem(t.StatusBar, 1, 0, false).
		AddItem(t.CommandInput, 1, 0, true)
}

// setupKeybindings installs global shortcuts
func (t *TUI) setupKeybindings() {
	t.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		// Keys typed into the command line stay there
		if t.App.GetFocus() == t.CommandInput && event.Key() == tcell.KeyRune {
			return event
		}
		switch event.Key() {
		case tcell.KeyCtrlS:
			t.execute("step")
			return nil
		case tcell.KeyCtrlP:
			t.execute("prev")
			return nil
		case tcell.KeyCtrlN:
			t.execute("next")
			return nil
		case tcell.KeyCtrlC:
			t.App.Stop()
			return nil
		}
		return event
	})
}

// Run starts the terminal panel event loop.
func (t *TUI) Run() error {
	return t.App.SetRoot(t.MainLayout, true).Run()
}

// execute runs one command line
func (t *TUI) execute(line string) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return
	}

	var err error
	switch fields[0] {
	case "step", "s":
		_, err = t.Service.Step()
	case "prev", "p":
		err = t.Service.Prev()
	case "next", "n":
		err = t.Service.Next()
	case "go", "g":
		if len(fields) != 2 {
			err = fmt.Errorf("usage: go <index>")
			break
		}
		var i int
		if i, err = strconv.Atoi(fields[1]); err == nil {
			err = t.Service.Go(i)
		}
	case "set":
		err = t.executeSet(fields[1:])
	case "clear":
		err = t.Service.ClearAll()
	case "rand":
		err = t.executeRand(fields[1:])
	case "rules":
		err = t.Service.SetRules(strings.TrimSpace(strings.TrimPrefix(line, "rules")))
	case "seed":
		if len(fields) != 2 {
			err = fmt.Errorf("usage: seed <n>")
			break
		}
		var n int64
		if n, err = strconv.ParseInt(fields[1], 10, 64); err == nil {
			err = t.Service.Reseed(n)
		}
	case "quit", "q":
		t.App.Stop()
		return
	default:
		err = fmt.Errorf("unknown command %q", fields[0])
	}

	if err != nil {
		t.StatusBar.SetText(fmt.Sprintf("[red]%v", err))
		t.refreshWorld()
		return
	}
	t.refresh()
}

// executeSet handles: set q r state [dir]
func (t *TUI) executeSet(args []string) error {
	if len(args) < 3 || len(args) > 4 {
		return fmt.Errorf("usage: set <q> <r> <state> [dir]")
	}
	q, err := strconv.Atoi(args[0])
	if err != nil {
		return err
	}
	r, err := strconv.Atoi(args[1])
	if err != nil {
		return err
	}
	dir := 0
	if len(args) == 4 {
		if dir, err = strconv.Atoi(args[3]); err != nil {
			return err
		}
	}
	return t.Service.SetCell(q, r, args[2], dir)
}

// executeRand handles: rand p state [state ...]
func (t *TUI) executeRand(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: rand <p> <state> [state ...]")
	}
	p, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return err
	}
	return t.Service.Randomize(args[1:], p)
}

// refresh redraws all panels
func (t *TUI) refresh() {
	t.refreshWorld()
	t.refreshLog()
	t.refreshStatus()
}

// refreshWorld redraws the grid panel
func (t *TUI) refreshWorld() {
	info, err := t.Service.CurrentInfo()
	if err != nil {
		t.WorldView.SetText(err.Error())
		return
	}

	snap, err := t.Service.Snapshot()
	if err != nil {
		t.WorldView.SetText(err.Error())
		return
	}

	grid, err := snapshotGrid(snap)
	if err != nil {
		t.WorldView.SetText(err.Error())
		return
	}

	t.WorldView.SetText(RenderGrid(grid, t.emptyGlyph))
	t.WorldView.SetTitle(fmt.Sprintf(" %s (r=%d, %d alive) ", info.Name, info.Radius, info.ActiveCount))
}

// refreshLog shows the latest step log
func (t *TUI) refreshLog() {
	entries, err := t.Service.History()
	if err != nil || len(entries) == 0 {
		t.LogView.SetText("")
		return
	}
	log, err := t.Service.LogAt(len(entries) - 1)
	if err != nil {
		t.LogView.SetText(err.Error())
		return
	}
	t.LogView.SetText(strings.Join(log, "\n"))
	t.LogView.ScrollToEnd()
}

// refreshStatus redraws the status line
func (t *TUI) refreshStatus() {
	gen, err := t.Service.Generation()
	if err != nil {
		t.StatusBar.SetText("create a world to begin")
		return
	}
	cursor, _ := t.Service.HistoryCursor()
	entries, _ := t.Service.History()
	t.StatusBar.SetText(fmt.Sprintf("gen %d | history %d/%d | ^S step ^P prev ^N next", gen, cursor, len(entries)))
}
