package tui

import (
	"fmt"

	"github.com/sadopc/taskdeck/internal/api"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewTeam
	viewCommission
	viewAssignments
	viewSettings
)

var viewNames = []string{"Dashboard", "Team", "Commission", "Assignments", "Settings"}

// --- Messages ---

// feedMsg carries the joined result of the parallel status-update and
// user fetches. Either fetch failing fails the whole load.
type feedMsg struct {
	feed *api.Feed
	err  error
}

type assignmentsMsg struct {
	assignments []api.Assignment
	err         error
}

// taskUpdatedMsg reports the outcome of a status-change request.
type taskUpdatedMsg struct {
	taskID int64
	err    error
}

// submitDoneMsg reports the outcome of a file submission.
type submitDoneMsg struct {
	taskID int64
	err    error
}

type passwordChangedMsg struct {
	err error
}

// ratesChangedMsg signals that role-default rates were edited so open
// views can reprice their rows without refetching.
type ratesChangedMsg struct{}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatHours(h float64) string {
	return fmt.Sprintf("%.1fh", h)
}

func formatMoney(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func errorStatus(format string, args ...any) statusMsg {
	return statusMsg{text: fmt.Sprintf(format, args...), isError: true}
}
