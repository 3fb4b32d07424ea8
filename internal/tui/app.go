package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/chronomark/internal/analysis"
	"github.com/sadopc/chronomark/internal/calendar"
	"github.com/sadopc/chronomark/internal/config"
	"github.com/sadopc/chronomark/internal/export"
	"github.com/sadopc/chronomark/internal/store"
	"github.com/sadopc/chronomark/internal/window"
	"github.com/sirupsen/logrus"
)

// Options tunes NewApp. The zero value is a writable, expanded app on the
// system clock.
type Options struct {
	ReadOnly bool
	Compact  bool

	// Window receives compact/expanded signals. Nil means window.Nop.
	Window window.Controller
	// Completer overrides the HTTP analysis client built from settings.
	Completer analysis.Completer

	Clock    calendar.Clock
	Calendar *calendar.Calendar
	Log      logrus.FieldLogger
}

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	opts   Options
	clock  calendar.Clock
	cal    calendar.Calendar
	cfg    config.Config
	shell  *window.Shell
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	today    todayModel
	history  historyModel
	settings settingsModel

	help   help.Model
	status string
}

var exportFormats = []export.Format{export.CSV, export.JSON}

func NewApp(s *store.Store, opts Options) App {
	if opts.Clock == nil {
		opts.Clock = calendar.SystemClock{}
	}
	if opts.Window == nil {
		opts.Window = window.Nop{}
	}
	if opts.Log == nil {
		opts.Log = logrus.StandardLogger()
	}
	cal := calendar.Local()
	if opts.Calendar != nil {
		cal = *opts.Calendar
	}

	mode := window.Expanded
	if opts.Compact {
		mode = window.Compact
	}

	h := help.New()
	h.ShowAll = false

	a := App{
		store:      s,
		opts:       opts,
		clock:      opts.Clock,
		cal:        cal,
		cfg:        config.Load(s, os.Getenv),
		shell:      window.NewShell(opts.Window, mode),
		activeView: viewToday,
		settings:   newSettingsModel(s),
		help:       h,
	}
	a.today = newTodayModel(s, a.cfg, a.clock, cal, opts.ReadOnly, a.analyzer())
	a.history = newHistoryModel(s, a.cfg, a.clock, cal)
	return a
}

func (a App) analyzer() *analysis.Analyzer {
	c := a.opts.Completer
	if c == nil {
		c = analysis.NewClient(context.Background(), a.cfg.AnalysisEndpoint, a.cfg.AnalysisModel, a.cfg.APIKey)
	}
	return analysis.NewAnalyzer(c, a.clock, a.cal, a.opts.Log)
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.loadEntries(),
		tickCmd(),
		nowTickCmd(a.cfg.TickInterval),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func nowTickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return nowTickMsg(t)
	})
}

func (a App) loadEntries() tea.Cmd {
	return func() tea.Msg {
		entries, err := a.store.List()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error loading entries: %v", err), isError: true}
		}
		return entriesMsg{entries: entries}
	}
}

func (a App) compact() bool { return a.shell.Mode() == window.Compact }

func (a *App) resize() {
	contentHeight := a.height - a.chromeHeight()
	a.today.setSize(a.width, contentHeight)
	a.history.setSize(a.width, contentHeight)
	a.settings.setSize(a.width, contentHeight)
}

func (a App) chromeHeight() int {
	return lipgloss.Height(a.renderHeader()) + lipgloss.Height(a.renderFooter())
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		a.resize()
		return a, nil

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case tea.KeyMsg:
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			a.resize()
			return a, nil
		case key.Matches(msg, keys.Compact):
			a.shell.Toggle()
			a.activeView = viewToday
			a.resize()
			return a, nil
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		}

		if a.compact() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewToday
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewHistory
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			if a.activeView == viewSettings {
				return a, a.settings.refresh()
			}
			return a, nil
		}

	case tickMsg:
		a.today.timer.tick()
		return a, tickCmd()

	case nowTickMsg:
		var c1, c2 tea.Cmd
		a.today.timeline, c1 = a.today.timeline.update(msg)
		a.history, c2 = a.history.update(msg)
		return a, tea.Batch(nowTickCmd(a.cfg.TickInterval), c1, c2)

	case entriesMsg:
		a.today.setEntries(msg.entries)
		a.history.setEntries(msg.entries)
		return a, nil

	case analysisMsg:
		a.today.analysis = a.today.analysis.update(msg)
		return a, nil

	case settingsSavedMsg:
		a.cfg = config.Load(a.store, os.Getenv)
		a.today.configure(a.cfg, a.analyzer())
		a.history.configure(a.cfg)
		a.opts.Log.WithField("row_minutes", a.cfg.RowMinutes).Info("settings reloaded")
		a.status = "Settings saved"
		return a, nil

	case statusMsg:
		a.status = msg.text
		if msg.isError {
			a.opts.Log.Warn(msg.text)
		}
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewToday:
		a.today, cmd = a.today.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if a.exportPicking || a.compact() {
		return a, nil
	}
	y := msg.Y - lipgloss.Height(a.renderHeader())
	if y < 0 {
		return a, nil
	}

	var cmd tea.Cmd
	switch a.activeView {
	case viewToday:
		a.today, cmd = a.today.handleMouse(msg, msg.X, y)
	case viewHistory:
		a.history, cmd = a.history.handleMouse(msg, msg.X, y)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewToday:
		return a.today.isFormActive()
	case viewHistory:
		return a.history.isFormActive()
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch {
	case a.compact():
		content = a.today.compactView()
	case a.activeView == viewToday:
		content = a.today.view()
	case a.activeView == viewHistory:
		content = a.history.view()
	case a.activeView == viewSettings:
		content = a.settings.view()
	}

	contentHeight := max(a.height-lipgloss.Height(header)-lipgloss.Height(footer), 1)

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		MaxHeight(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("chronomark")
	if a.compact() {
		return headerStyle.Render(title)
	}

	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	if a.opts.ReadOnly {
		title += warningStyle.Render(" read-only")
	}
	gap := max(a.width-lipgloss.Width(title)-lipgloss.Width(tabRow)-4, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		status = mutedStyle.Render(" " + a.status)
	}

	timerInfo := ""
	if a.today.timer.running() {
		timerInfo = successStyle.Render(" ● " + formatDuration(a.today.timer.currentElapsed()))
	}

	left := footerStyle.Render(helpView)
	right := timerInfo + status

	gap := max(a.width-lipgloss.Width(left)-lipgloss.Width(right)-2, 1)
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	rows := []string{titleStyle.Render("Export Format"), ""}
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+string(f)))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(exportFormats[a.exportCursor])
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(f export.Format) tea.Cmd {
	return func() tea.Msg {
		entries, err := a.store.List()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		home, err := os.UserHomeDir()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		path := filepath.Join(home, export.DefaultFileName(f, a.clock.Now().Format("2006-01-02")))
		if err := export.Write(f, entries, path); err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}
