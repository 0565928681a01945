package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taskdeck/internal/report"
	"github.com/sadopc/taskdeck/internal/store"
)

type settingsDataMsg struct {
	settings  []store.Setting
	roleRates []store.RoleRate
}

type settingsModel struct {
	store  *store.Store
	rates  *report.RateTable
	width  int
	height int

	settings  []store.Setting
	roleRates []store.RoleRate

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	exportDir   *string
	defaultSort *string
	rateInputs  map[string]*string
}

func newSettingsModel(s *store.Store, rates *report.RateTable) settingsModel {
	dir, sortBy := "", ""
	return settingsModel{
		store:       s,
		rates:       rates,
		exportDir:   &dir,
		defaultSort: &sortBy,
		rateInputs:  make(map[string]*string),
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		roleRates, _ := s.store.ListRoleRates()
		return settingsDataMsg{settings: settings, roleRates: roleRates}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		s.roleRates = msg.roleRates
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) getVal(k, fallback string) string {
	v, err := s.store.GetSetting(k)
	if err != nil || v == "" {
		return fallback
	}
	return v
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.exportDir = s.getVal("export_dir", "")
	*s.defaultSort = s.getVal("default_sort", "completed")

	rateFields := make([]huh.Field, 0, len(s.roleRates))
	for _, rr := range s.roleRates {
		v := strconv.FormatFloat(rr.Rate, 'f', 2, 64)
		s.rateInputs[rr.Role] = &v
		rateFields = append(rateFields, huh.NewInput().
			Title(fmt.Sprintf("%s ($/hour)", rr.Role)).
			Value(s.rateInputs[rr.Role]).
			Validate(validateRateInput))
	}

	groups := []*huh.Group{
		huh.NewGroup(
			huh.NewInput().Title("Export directory (empty = home)").Value(s.exportDir),
			huh.NewSelect[string]().Title("Default ranking").
				Options(
					huh.NewOption("Completed tasks", "completed"),
					huh.NewOption("Monthly commission", "commission"),
				).Value(s.defaultSort),
		).Title("General"),
	}
	if len(rateFields) > 0 {
		groups = append(groups, huh.NewGroup(rateFields...).Title("Role default rates"))
	}

	s.form = huh.NewForm(groups...).WithShowHelp(true).WithShowErrors(true)
	s.formActive = true
	return s, s.form.Init()
}

func validateRateInput(v string) error {
	rate, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return fmt.Errorf("not a number")
	}
	if rate <= 0 {
		return fmt.Errorf("must be greater than zero")
	}
	return nil
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		return s, s.save()
	}
	return s, cmd
}

func (s settingsModel) save() tea.Cmd {
	s.store.SetSetting("export_dir", strings.TrimSpace(*s.exportDir))
	s.store.SetSetting("default_sort", *s.defaultSort)

	changed := false
	for role, input := range s.rateInputs {
		rate, err := strconv.ParseFloat(strings.TrimSpace(*input), 64)
		if err != nil || rate <= 0 {
			continue // validated in the form; belt and suspenders
		}
		if err := s.store.SetRoleRate(role, rate); err != nil {
			continue
		}
		s.rates.SetRoleRate(role, rate)
		changed = true
	}

	cmds := []tea.Cmd{s.refresh()}
	if changed {
		cmds = append(cmds, func() tea.Msg { return ratesChangedMsg{} })
	}
	return tea.Batch(cmds...)
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Settings"), "", s.form.View()),
		)
	}

	var rows []string
	rows = append(rows, titleStyle.Render("Settings"))
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := setting.Value
		if value == "" {
			value = "(default)"
		}
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(value)))
	}

	rows = append(rows, "")
	rows = append(rows, titleStyle.Render("Role default rates"))
	rows = append(rows, "")
	for _, rr := range s.roleRates {
		label := lipgloss.NewStyle().Width(24).Render(rr.Role)
		rows = append(rows, fmt.Sprintf("  %s %s", label, highlightStyle.Render(fmt.Sprintf("$%.2f/hour", rr.Rate))))
	}
	rows = append(rows, fmt.Sprintf("  %s %s",
		lipgloss.NewStyle().Width(24).Render("(other roles)"),
		mutedStyle.Render(fmt.Sprintf("$%.2f/hour", report.DefaultHourlyRate)),
	))

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("Press enter to edit settings"))

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
