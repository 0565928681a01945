package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taskdeck/internal/api"
	"github.com/sadopc/taskdeck/internal/report"
)

const maxChartUsers = 6

type dashboardModel struct {
	width  int
	height int

	aggs     []report.UserAggregate
	loaded   bool
	fallback bool

	chart barchart.Model
}

func newDashboardModel() dashboardModel {
	return dashboardModel{
		chart: barchart.New(60, 12),
	}
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
	d.buildChart()
}

func (d *dashboardModel) setData(aggs []report.UserAggregate) {
	d.aggs = aggs
	d.loaded = true
	d.fallback = false
	d.buildChart()
}

// setFallback swaps in static placeholder data so the dashboard still
// renders something when the feed cannot be loaded.
func (d *dashboardModel) setFallback() {
	d.aggs = placeholderAggregates()
	d.loaded = true
	d.fallback = true
	d.buildChart()
}

func (d *dashboardModel) buildChart() {
	chartWidth := d.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 10
	if d.height > 30 {
		chartHeight = 14
	}

	d.chart = barchart.New(chartWidth, chartHeight)

	// Bar per user, most loaded users first, stacked by bucket.
	top := make([]report.UserAggregate, len(d.aggs))
	copy(top, d.aggs)
	sort.SliceStable(top, func(i, j int) bool {
		return top[i].TotalTasks > top[j].TotalTasks
	})
	if len(top) > maxChartUsers {
		top = top[:maxChartUsers]
	}

	var bars []barchart.BarData
	for _, a := range top {
		label := a.Username
		if len(label) > 8 {
			label = label[:8]
		}
		values := []barchart.BarValue{
			{Name: string(api.StatusTodo), Value: float64(a.Counts.Todo), Style: lipgloss.NewStyle().Foreground(colorTodo)},
			{Name: string(api.StatusInProgress), Value: float64(a.Counts.InProgress), Style: lipgloss.NewStyle().Foreground(colorInProgress)},
			{Name: string(api.StatusReview), Value: float64(a.Counts.Review), Style: lipgloss.NewStyle().Foreground(colorReview)},
			{Name: string(api.StatusCompleted), Value: float64(a.Counts.Completed), Style: lipgloss.NewStyle().Foreground(colorCompleted)},
		}
		bars = append(bars, barchart.BarData{Label: label, Values: values})
	}

	if len(bars) == 0 {
		bars = []barchart.BarData{{
			Label:  "-",
			Values: []barchart.BarValue{{Name: "", Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}},
		}}
	}

	d.chart.PushAll(bars)
	d.chart.Draw()
}

func (d dashboardModel) totals() (team int, counts report.StatusCounts, total int) {
	for _, a := range d.aggs {
		counts.Todo += a.Counts.Todo
		counts.InProgress += a.Counts.InProgress
		counts.Review += a.Counts.Review
		counts.Completed += a.Counts.Completed
		total += a.TotalTasks
	}
	return len(d.aggs), counts, total
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 4

	if !d.loaded {
		return panelStyle.Width(w).Render(mutedStyle.Render("Loading team data..."))
	}

	title := titleStyle.Render("Team Overview")
	if d.fallback {
		title += "  " + warningStyle.Render("(placeholder data — feed unavailable)")
	}

	team, counts, total := d.totals()
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		d.renderCard("Members", fmt.Sprintf("%d", team), colorHighlight),
		d.renderCard("Tasks", fmt.Sprintf("%d", total), colorPrimary),
		d.renderCard("To Do", fmt.Sprintf("%d", counts.Todo), colorTodo),
		d.renderCard("In Progress", fmt.Sprintf("%d", counts.InProgress), colorInProgress),
		d.renderCard("Review", fmt.Sprintf("%d", counts.Review), colorReview),
		d.renderCard("Completed", fmt.Sprintf("%d", counts.Completed), colorCompleted),
	)

	legend := strings.Join([]string{
		lipgloss.NewStyle().Foreground(colorTodo).Render("● To Do"),
		lipgloss.NewStyle().Foreground(colorInProgress).Render("● In Progress"),
		lipgloss.NewStyle().Foreground(colorReview).Render("● Review"),
		lipgloss.NewStyle().Foreground(colorCompleted).Render("● Completed"),
	}, "  ")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			title, "", cards, "", d.chart.View(), "", "  "+legend,
		),
	)
}

func (d dashboardModel) renderCard(label, value string, color lipgloss.Color) string {
	inner := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.NewStyle().Bold(true).Foreground(color).Render(value),
		mutedStyle.Render(label),
	)
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorSubtle).
		Padding(0, 2).
		Render(inner)
}

// placeholderAggregates mirrors the static chart the web dashboard shows
// when its analytics fetch fails.
func placeholderAggregates() []report.UserAggregate {
	return []report.UserAggregate{
		{UserID: -1, Username: "team", Role: "", Counts: report.StatusCounts{Todo: 4, InProgress: 3, Review: 2, Completed: 6}, TotalTasks: 15},
	}
}
