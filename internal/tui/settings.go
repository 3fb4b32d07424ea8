package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/chronomark/internal/config"
	"github.com/sadopc/chronomark/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form
	fv         *settingsFormValues
}

// settingsFormValues lives behind a pointer so huh's bindings survive
// value copies of the model.
type settingsFormValues struct {
	pixelsPerMinute string
	minBlockHeight  string
	dragThreshold   string
	tickInterval    string
	rowMinutes      string
	endpoint        string
	model           string
}

type settingsDataMsg struct {
	settings []store.Setting
}

func newSettingsModel(s *store.Store) settingsModel {
	return settingsModel{store: s, fv: &settingsFormValues{}}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, err := s.store.GetAllSettings()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Error loading settings: %v", err), isError: true}
		}
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	cfg := config.Load(s.store, nil)
	*s.fv = settingsFormValues{
		pixelsPerMinute: strconv.FormatFloat(cfg.PixelsPerMinute, 'f', -1, 64),
		minBlockHeight:  strconv.FormatFloat(cfg.MinBlockHeight, 'f', -1, 64),
		dragThreshold:   strconv.FormatFloat(cfg.DragThreshold, 'f', -1, 64),
		tickInterval:    strconv.Itoa(int(cfg.TickInterval.Seconds())),
		rowMinutes:      strconv.Itoa(cfg.RowMinutes),
		endpoint:        cfg.AnalysisEndpoint,
		model:           cfg.AnalysisModel,
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Pixels per minute").Value(&s.fv.pixelsPerMinute).Validate(validatePositive),
			huh.NewInput().Title("Minimum block height (px)").Value(&s.fv.minBlockHeight).Validate(validatePositive),
			huh.NewInput().Title("Drag threshold (px)").Value(&s.fv.dragThreshold).Validate(validatePositive),
			huh.NewSelect[string]().Title("Minutes per row").
				Options(
					huh.NewOption("5", "5"),
					huh.NewOption("10", "10"),
					huh.NewOption("15", "15"),
					huh.NewOption("30", "30"),
					huh.NewOption("60", "60"),
				).Value(&s.fv.rowMinutes),
			huh.NewInput().Title("Now cursor refresh (sec)").Value(&s.fv.tickInterval).Validate(validatePositiveInt),
		).Title("Timeline"),
		huh.NewGroup(
			huh.NewInput().Title("Endpoint").Value(&s.fv.endpoint),
			huh.NewInput().Title("Model").Value(&s.fv.model),
		).Title("Analysis").Description("The API key is read from $"+config.APIKeyEnv),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "esc" {
		s.formActive = false
		s.form = nil
		return s, nil
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		s.form = nil
		if err := s.saveSettings(); err != nil {
			return s, errStatus("Error saving settings", err)
		}
		return s, tea.Batch(s.refresh(), func() tea.Msg { return settingsSavedMsg{} })
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	for _, kv := range [][2]string{
		{config.KeyPixelsPerMinute, s.fv.pixelsPerMinute},
		{config.KeyMinBlockHeight, s.fv.minBlockHeight},
		{config.KeyDragThreshold, s.fv.dragThreshold},
		{config.KeyTickInterval, s.fv.tickInterval},
		{config.KeyRowMinutes, s.fv.rowMinutes},
		{config.KeyAnalysisEndpoint, s.fv.endpoint},
		{config.KeyAnalysisModel, s.fv.model},
	} {
		if err := s.store.SetSetting(kv[0], kv[1]); err != nil {
			return err
		}
	}
	return nil
}

func validatePositive(v string) error {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		return fmt.Errorf("must be a positive number")
	}
	return nil
}

func validatePositiveInt(v string) error {
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return fmt.Errorf("must be a whole number above zero")
	}
	return nil
}

func (s settingsModel) view() string {
	w := s.width - 4
	title := titleStyle.Render("Settings")

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", s.form.View()),
		)
	}

	rows := []string{title, ""}
	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}
	rows = append(rows, "", mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case config.KeyPixelsPerMinute:
		return v + " px/min"
	case config.KeyMinBlockHeight, config.KeyDragThreshold:
		return v + " px"
	case config.KeyTickInterval:
		return v + " sec"
	case config.KeyRowMinutes:
		return v + " min/row"
	}
	return v
}
