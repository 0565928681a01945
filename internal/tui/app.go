package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taskdeck/internal/api"
	"github.com/sadopc/taskdeck/internal/export"
	"github.com/sadopc/taskdeck/internal/report"
	"github.com/sadopc/taskdeck/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	client *api.Client
	store  *store.Store
	rates  *report.RateTable
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	dashboard   dashboardModel
	team        teamModel
	commission  commissionModel
	assignments assignmentsModel
	settings    settingsModel

	help   help.Model
	status string
}

func NewApp(client *api.Client, s *store.Store, rates *report.RateTable, userID int64) App {
	h := help.New()
	h.ShowAll = false

	return App{
		client:      client,
		store:       s,
		rates:       rates,
		activeView:  viewDashboard,
		dashboard:   newDashboardModel(),
		team:        newTeamModel(),
		commission:  newCommissionModel(rates),
		assignments: newAssignmentsModel(client, userID),
		settings:    newSettingsModel(s, rates),
		help:        h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.loadFeed(),
		a.assignments.refresh(),
		a.settings.refresh(),
	)
}

// loadFeed runs the joined parallel fetch. A single failure fails the
// whole load; the dashboard then falls back to placeholder data.
func (a App) loadFeed() tea.Cmd {
	return func() tea.Msg {
		feed, err := a.client.FetchFeed(context.Background())
		return feedMsg{feed: feed, err: err}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.team.setSize(a.width, contentHeight)
		a.commission.setSize(a.width, contentHeight)
		a.assignments.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (form or search), delegate first.
		if a.isCapturingInput() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Refresh):
			if a.activeView == viewAssignments {
				return a.updateActiveView(msg)
			}
			a.status = "Refreshing..."
			return a, a.loadFeed()
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDashboard
			return a, nil
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewTeam
			return a, nil
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewCommission
			return a, nil
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewAssignments
			return a, a.assignments.refresh()
		case key.Matches(msg, keys.Tab5):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % 5
			return a, a.refreshCurrentView()
		}

	case feedMsg:
		if msg.err != nil {
			a.dashboard.setFallback()
			a.status = fmt.Sprintf("Load failed: %v", msg.err)
			return a, nil
		}
		latest := report.LatestPerTask(msg.feed.Updates)
		aggs := report.BuildAggregates(latest, msg.feed.Users, a.rates)
		a.dashboard.setData(aggs)
		a.team.setData(aggs)
		a.commission.setData(cloneAggregates(aggs))
		a.status = fmt.Sprintf("Loaded %d updates, %d users", len(msg.feed.Updates), len(msg.feed.Users))
		return a, nil

	case ratesChangedMsg:
		a.commission.reprice()
		a.status = "Role rates updated"
		return a, nil

	case statusMsg:
		a.status = msg.text
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
	case viewDashboard:
		// Dashboard has no interactive state of its own.
	case viewTeam:
		a.team, cmd = a.team.update(msg)
	case viewCommission:
		a.commission, cmd = a.commission.update(msg)
	case viewAssignments:
		a.assignments, cmd = a.assignments.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isCapturingInput() bool {
	switch a.activeView {
	case viewTeam:
		return a.team.searchActive
	case viewCommission:
		return a.commission.formActive || a.commission.searchActive
	case viewAssignments:
		return a.assignments.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewAssignments:
		return a.assignments.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewTeam:
		content = a.team.view()
	case viewCommission:
		content = a.commission.view()
	case viewAssignments:
		content = a.assignments.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("taskdeck")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
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

	left := footerStyle.Render(helpView)
	right := status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Commission Report")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

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
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes the commission view as the user currently sees it:
// same filter, same order.
func (a App) doExport(format int) tea.Cmd {
	rows := a.commission.visibleRows()
	return func() tea.Msg {
		dir, err := a.store.GetSetting("export_dir")
		if err != nil || dir == "" {
			dir, _ = os.UserHomeDir()
		}

		name := export.Filename(time.Now())
		var path string
		if format == 0 {
			path = filepath.Join(dir, name)
			if err := export.ToCSV(rows, path); err != nil {
				return errorStatus("CSV error: %v", err)
			}
		} else {
			path = filepath.Join(dir, strings.TrimSuffix(name, ".csv")+".json")
			if err := export.ToJSON(rows, path); err != nil {
				return errorStatus("JSON error: %v", err)
			}
		}

		return exportDoneMsg{path: path}
	}
}

func cloneAggregates(aggs []report.UserAggregate) []report.UserAggregate {
	out := make([]report.UserAggregate, len(aggs))
	copy(out, aggs)
	return out
}
