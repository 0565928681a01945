package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taskdeck/internal/api"
	"github.com/sadopc/taskdeck/internal/report"
)

// statusFilters cycles with the filter key; empty means no filter.
var statusFilters = []api.Status{"", api.StatusTodo, api.StatusInProgress, api.StatusReview, api.StatusCompleted}

type teamModel struct {
	width  int
	height int

	aggs      []report.UserAggregate
	loaded    bool
	cursor    int
	filterIdx int

	search       textinput.Model
	searchActive bool
}

func newTeamModel() teamModel {
	ti := textinput.New()
	ti.Placeholder = "search by name"
	ti.CharLimit = 64
	ti.Width = 30
	return teamModel{search: ti}
}

func (t *teamModel) setSize(w, h int) {
	t.width = w
	t.height = h
}

func (t *teamModel) setData(aggs []report.UserAggregate) {
	t.aggs = aggs
	t.loaded = true
	t.clampCursor()
}

// visibleRows applies the search text and status filter, ranked by
// completed-task count.
func (t teamModel) visibleRows() []report.UserAggregate {
	var keep func(report.UserAggregate) bool
	if s := statusFilters[t.filterIdx]; s != "" {
		keep = report.WithStatus(s)
	}
	rows := report.Filter(t.aggs, t.search.Value(), keep)
	report.SortByCompleted(rows)
	return rows
}

func (t *teamModel) clampCursor() {
	if n := len(t.visibleRows()); t.cursor >= n {
		t.cursor = max(0, n-1)
	}
}

func (t teamModel) update(msg tea.Msg) (teamModel, tea.Cmd) {
	if t.searchActive {
		return t.updateSearch(msg)
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if t.cursor > 0 {
				t.cursor--
			}
		case key.Matches(msg, keys.Down):
			if t.cursor < len(t.visibleRows())-1 {
				t.cursor++
			}
		case key.Matches(msg, keys.Search):
			t.searchActive = true
			t.search.Focus()
			return t, textinput.Blink
		case key.Matches(msg, keys.Filter):
			t.filterIdx = (t.filterIdx + 1) % len(statusFilters)
			t.clampCursor()
		case key.Matches(msg, keys.Back):
			t.search.SetValue("")
			t.filterIdx = 0
			t.clampCursor()
		}
	}
	return t, nil
}

func (t teamModel) updateSearch(msg tea.Msg) (teamModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "enter", "esc":
			t.searchActive = false
			t.search.Blur()
			t.clampCursor()
			return t, nil
		}
	}
	var cmd tea.Cmd
	t.search, cmd = t.search.Update(msg)
	t.clampCursor()
	return t, cmd
}

func (t teamModel) view() string {
	w := t.width - 4
	title := titleStyle.Render("Team Performance")

	if !t.loaded {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", mutedStyle.Render("Loading...")),
		)
	}

	filterLabel := "all statuses"
	if s := statusFilters[t.filterIdx]; s != "" {
		filterLabel = "has " + string(s)
	}
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		title, "  ", mutedStyle.Render("ranked by completed · "+filterLabel),
	)

	var rows []string
	rows = append(rows, header)
	if t.searchActive || t.search.Value() != "" {
		rows = append(rows, "  "+t.search.View())
	}
	rows = append(rows, "")

	visible := t.visibleRows()
	if len(visible) == 0 {
		rows = append(rows, mutedStyle.Render("  No members match"))
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	rows = append(rows, mutedStyle.Render(fmt.Sprintf(
		"  %-3s %-20s %-16s %6s %6s %6s %6s %6s",
		"", "Name", "Role", "To Do", "Prog", "Rev", "Done", "Total",
	)))

	for i, a := range visible {
		cursor := "  "
		style := normalItemStyle
		if i == t.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		line := fmt.Sprintf("%s  %-20s %-16s %6d %6d %6d %6d %6d",
			cursor, truncate(a.Username, 20), truncate(a.Role, 16),
			a.Counts.Todo, a.Counts.InProgress, a.Counts.Review, a.Counts.Completed,
			a.TotalTasks,
		)
		rows = append(rows, style.Render(line))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  /: search  f: cycle status filter  esc: clear"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
