package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taskdeck/internal/report"
)

type commissionModel struct {
	width  int
	height int

	aggs    []report.UserAggregate
	rates   *report.RateTable
	loaded  bool
	cursor  int
	roles   []string // distinct roles, for the filter cycle
	roleIdx int      // 0 = all

	search       textinput.Model
	searchActive bool

	formActive bool
	form       *huh.Form
	formRate   *string
	editingID  int64
}

func newCommissionModel(rates *report.RateTable) commissionModel {
	ti := textinput.New()
	ti.Placeholder = "search by name"
	ti.CharLimit = 64
	ti.Width = 30

	rate := ""
	return commissionModel{
		rates:    rates,
		search:   ti,
		formRate: &rate,
		roles:    []string{""},
	}
}

func (c *commissionModel) setSize(w, h int) {
	c.width = w
	c.height = h
}

func (c *commissionModel) setData(aggs []report.UserAggregate) {
	c.aggs = aggs
	c.loaded = true

	// Rebuild the role filter cycle from the data.
	seen := map[string]bool{}
	c.roles = []string{""}
	for _, a := range aggs {
		if a.Role != "" && !seen[a.Role] {
			seen[a.Role] = true
			c.roles = append(c.roles, a.Role)
		}
	}
	if c.roleIdx >= len(c.roles) {
		c.roleIdx = 0
	}
	c.clampCursor()
}

// reprice refreshes every row from the rate table, keeping manual
// overrides in effect. Used when role defaults change mid-session.
func (c *commissionModel) reprice() {
	for i := range c.aggs {
		a := &c.aggs[i]
		a.Reprice(c.rates.RateFor(a.UserID, a.Role))
	}
}

// visibleRows is the exported view: search + role filter, ranked by
// monthly commission.
func (c commissionModel) visibleRows() []report.UserAggregate {
	var keep func(report.UserAggregate) bool
	if role := c.roles[c.roleIdx]; role != "" {
		keep = report.ByRole(role)
	}
	rows := report.Filter(c.aggs, c.search.Value(), keep)
	report.SortByCommission(rows)
	return rows
}

func (c *commissionModel) clampCursor() {
	if n := len(c.visibleRows()); c.cursor >= n {
		c.cursor = max(0, n-1)
	}
}

func (c commissionModel) update(msg tea.Msg) (commissionModel, tea.Cmd) {
	if c.formActive && c.form != nil {
		return c.updateForm(msg)
	}
	if c.searchActive {
		return c.updateSearch(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if c.cursor > 0 {
				c.cursor--
			}
		case key.Matches(msg, keys.Down):
			if c.cursor < len(c.visibleRows())-1 {
				c.cursor++
			}
		case key.Matches(msg, keys.Search):
			c.searchActive = true
			c.search.Focus()
			return c, textinput.Blink
		case key.Matches(msg, keys.Filter):
			c.roleIdx = (c.roleIdx + 1) % len(c.roles)
			c.clampCursor()
		case key.Matches(msg, keys.Enter):
			if rows := c.visibleRows(); len(rows) > 0 {
				return c.showRateForm(rows[c.cursor])
			}
		case key.Matches(msg, keys.Clear):
			if rows := c.visibleRows(); len(rows) > 0 {
				return c.clearOverride(rows[c.cursor])
			}
		case key.Matches(msg, keys.Back):
			c.search.SetValue("")
			c.roleIdx = 0
			c.clampCursor()
		}
	}
	return c, nil
}

func (c commissionModel) updateSearch(msg tea.Msg) (commissionModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter", "esc":
			c.searchActive = false
			c.search.Blur()
			c.clampCursor()
			return c, nil
		}
	}
	var cmd tea.Cmd
	c.search, cmd = c.search.Update(msg)
	c.clampCursor()
	return c, cmd
}

func (c commissionModel) showRateForm(row report.UserAggregate) (commissionModel, tea.Cmd) {
	*c.formRate = strconv.FormatFloat(row.HourlyRate, 'f', 2, 64)
	c.editingID = row.UserID

	c.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Hourly rate for %s ($)", row.Username)).
				Value(c.formRate).
				Validate(func(s string) error {
					v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
					if err != nil {
						return fmt.Errorf("not a number")
					}
					if v <= 0 {
						return fmt.Errorf("must be greater than zero")
					}
					return nil
				}),
		),
	).WithShowHelp(true).WithShowErrors(true)

	c.formActive = true
	return c, c.form.Init()
}

func (c commissionModel) updateForm(msg tea.Msg) (commissionModel, tea.Cmd) {
	// Escape cancels the edit; the prior rate stays in effect.
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			c.formActive = false
			c.form = nil
			return c, nil
		}
	}

	form, cmd := c.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		c.form = f
	}

	if c.form.State == huh.StateCompleted {
		c.formActive = false
		return c.applyRate()
	}
	return c, cmd
}

// applyRate records the override and reprices exactly the edited user,
// without refetching anything.
func (c commissionModel) applyRate() (commissionModel, tea.Cmd) {
	rate, err := strconv.ParseFloat(strings.TrimSpace(*c.formRate), 64)
	if err != nil {
		return c, func() tea.Msg { return errorStatus("Invalid rate: %v", err) }
	}
	if err := c.rates.SetOverride(c.editingID, rate); err != nil {
		return c, func() tea.Msg { return errorStatus("Rate rejected: %v", err) }
	}
	for i := range c.aggs {
		if c.aggs[i].UserID == c.editingID {
			c.aggs[i].Reprice(rate)
			break
		}
	}
	return c, func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Rate set to $%.2f/hour", rate)}
	}
}

func (c commissionModel) clearOverride(row report.UserAggregate) (commissionModel, tea.Cmd) {
	if _, ok := c.rates.Override(row.UserID); !ok {
		return c, nil
	}
	c.rates.ClearOverride(row.UserID)
	rate := c.rates.RateFor(row.UserID, row.Role)
	for i := range c.aggs {
		if c.aggs[i].UserID == row.UserID {
			c.aggs[i].Reprice(rate)
			break
		}
	}
	return c, func() tea.Msg {
		return statusMsg{text: fmt.Sprintf("Override cleared, back to $%.2f/hour", rate)}
	}
}

func (c commissionModel) view() string {
	w := c.width - 4

	if c.formActive && c.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				titleStyle.Render("Edit Rate"), "", c.form.View(),
			),
		)
	}

	title := titleStyle.Render("Monthly Commission")
	if !c.loaded {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", mutedStyle.Render("Loading...")),
		)
	}

	filterLabel := "all roles"
	if role := c.roles[c.roleIdx]; role != "" {
		filterLabel = role
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		title, "  ", mutedStyle.Render("ranked by commission · "+filterLabel),
	)

	var rows []string
	rows = append(rows, header)
	if c.searchActive || c.search.Value() != "" {
		rows = append(rows, "  "+c.search.View())
	}
	rows = append(rows, "")

	visible := c.visibleRows()
	if len(visible) == 0 {
		rows = append(rows, mutedStyle.Render("  No members match"))
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	rows = append(rows, mutedStyle.Render(fmt.Sprintf(
		"  %-3s %-20s %-16s %8s %10s %12s",
		"NO", "Name", "Job Position", "Hours", "Rate", "Commission",
	)))

	var totalHours, totalCommission float64
	for i, a := range visible {
		cursor := "  "
		style := normalItemStyle
		if i == c.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rateStr := fmt.Sprintf("%8.2f", a.HourlyRate)
		if _, ok := c.rates.Override(a.UserID); ok {
			rateStr = warningStyle.Render(rateStr + "*")
		} else {
			rateStr += " "
		}
		line := fmt.Sprintf("%s%-3d %-20s %-16s %8.2f %s %12s",
			cursor, i+1, truncate(a.Username, 20), truncate(a.Role, 16),
			a.TotalEstimatedHours, rateStr, formatMoney(a.MonthlyCommission),
		)
		rows = append(rows, style.Render(line))
		totalHours += a.TotalEstimatedHours
		totalCommission += a.MonthlyCommission
	}

	rows = append(rows, "")
	rows = append(rows, highlightStyle.Render(fmt.Sprintf(
		"  %-41s %8.2f %9s %12s", "Total", totalHours, "", formatMoney(totalCommission),
	)))
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: edit rate  c: clear override  /: search  f: role filter  e: export"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
