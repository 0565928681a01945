package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/taskdeck/internal/api"
)

type assignmentsModel struct {
	client *api.Client
	userID int64
	width  int
	height int

	assignments []api.Assignment
	loaded      bool
	cursor      int

	formActive bool
	form       *huh.Form
	formType   string // "submit", "password"

	// Form field pointers (survive value copies)
	formFiles    *string
	formPassword *string
	formConfirm  *string

	submittingID int64
}

func newAssignmentsModel(client *api.Client, userID int64) assignmentsModel {
	files, pw, confirm := "", "", ""
	return assignmentsModel{
		client:       client,
		userID:       userID,
		formFiles:    &files,
		formPassword: &pw,
		formConfirm:  &confirm,
	}
}

func (m *assignmentsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m assignmentsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		assignments, err := m.client.ListAssignments(context.Background(), m.userID)
		return assignmentsMsg{assignments: assignments, err: err}
	}
}

func (m assignmentsModel) selected() *api.Assignment {
	if m.cursor >= len(m.assignments) {
		return nil
	}
	return &m.assignments[m.cursor]
}

func (m assignmentsModel) update(msg tea.Msg) (assignmentsModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case assignmentsMsg:
		if msg.err != nil {
			m.loaded = true
			return m, func() tea.Msg { return errorStatus("Could not load assignments: %v", msg.err) }
		}
		m.assignments = msg.assignments
		m.loaded = true
		if m.cursor >= len(m.assignments) {
			m.cursor = max(0, len(m.assignments)-1)
		}
		return m, nil

	case taskUpdatedMsg:
		if msg.err != nil {
			// Local state deliberately untouched: the backend owns task state.
			return m, func() tea.Msg { return errorStatus("Status update failed: %v", msg.err) }
		}
		return m, tea.Batch(
			m.refresh(),
			func() tea.Msg { return statusMsg{text: "Task moved to In Progress"} },
		)

	case submitDoneMsg:
		if msg.err != nil {
			return m, func() tea.Msg { return errorStatus("Submission failed: %v", msg.err) }
		}
		return m, tea.Batch(
			m.refresh(),
			func() tea.Msg { return statusMsg{text: "Task submitted"} },
		)

	case passwordChangedMsg:
		if msg.err != nil {
			return m, func() tea.Msg { return errorStatus("Password change failed: %v", msg.err) }
		}
		return m, func() tea.Msg { return statusMsg{text: "Password updated"} }

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, keys.Down):
			if m.cursor < len(m.assignments)-1 {
				m.cursor++
			}
		case key.Matches(msg, keys.Refresh):
			return m, m.refresh()
		case key.Matches(msg, keys.Start):
			return m.startTask()
		case key.Matches(msg, keys.Submit):
			return m.showSubmitForm()
		case key.Matches(msg, keys.Password):
			return m.showPasswordForm()
		}
	}
	return m, nil
}

// startTask requests To Do → In Progress for the selected assignment.
// Other transitions are out of this view's contract and are rejected
// before any request is sent.
func (m assignmentsModel) startTask() (assignmentsModel, tea.Cmd) {
	a := m.selected()
	if a == nil {
		return m, nil
	}
	if !api.CanTransition(a.Status, api.StatusInProgress) {
		return m, func() tea.Msg {
			return errorStatus("Cannot start a task that is %s", a.Status)
		}
	}
	taskID := a.TaskID
	return m, func() tea.Msg {
		err := m.client.UpdateTaskStatus(context.Background(), taskID, api.StatusInProgress)
		return taskUpdatedMsg{taskID: taskID, err: err}
	}
}

func (m assignmentsModel) showSubmitForm() (assignmentsModel, tea.Cmd) {
	a := m.selected()
	if a == nil {
		return m, nil
	}
	if !api.CanTransition(a.Status, api.StatusCompleted) {
		return m, func() tea.Msg {
			return errorStatus("Task is already %s", a.Status)
		}
	}

	*m.formFiles = ""
	m.formType = "submit"
	m.submittingID = a.TaskID

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Submit %q — attachment paths (comma-separated)", a.Title)).
				Value(m.formFiles),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m assignmentsModel) showPasswordForm() (assignmentsModel, tea.Cmd) {
	*m.formPassword = ""
	*m.formConfirm = ""
	m.formType = "password"

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("New password").EchoMode(huh.EchoModePassword).Value(m.formPassword),
			huh.NewInput().Title("Confirm password").EchoMode(huh.EchoModePassword).Value(m.formConfirm),
		),
	).WithShowHelp(true).WithShowErrors(true)

	m.formActive = true
	return m, m.form.Init()
}

func (m assignmentsModel) updateForm(msg tea.Msg) (assignmentsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		switch m.formType {
		case "submit":
			return m.submitTask()
		case "password":
			return m.changePassword()
		}
	}
	return m, cmd
}

// submitTask validates the attachment list locally; an empty selection
// never reaches the network.
func (m assignmentsModel) submitTask() (assignmentsModel, tea.Cmd) {
	var paths []string
	for _, p := range strings.Split(*m.formFiles, ",") {
		if p = strings.TrimSpace(p); p != "" {
			paths = append(paths, p)
		}
	}
	if len(paths) == 0 {
		return m, func() tea.Msg {
			return errorStatus("Select at least one file to submit")
		}
	}

	taskID := m.submittingID
	return m, func() tea.Msg {
		err := m.client.SubmitTask(context.Background(), taskID, m.userID, paths)
		return submitDoneMsg{taskID: taskID, err: err}
	}
}

func (m assignmentsModel) changePassword() (assignmentsModel, tea.Cmd) {
	pw, confirm := *m.formPassword, *m.formConfirm
	if len(pw) < 6 {
		return m, func() tea.Msg {
			return errorStatus("Password must be at least 6 characters")
		}
	}
	if pw != confirm {
		return m, func() tea.Msg {
			return errorStatus("Passwords do not match")
		}
	}
	return m, func() tea.Msg {
		_, err := m.client.UpdatePassword(context.Background(), m.userID, pw)
		return passwordChangedMsg{err: err}
	}
}

func (m assignmentsModel) view() string {
	w := m.width - 4

	if m.formActive && m.form != nil {
		title := titleStyle.Render("Submit Task")
		if m.formType == "password" {
			title = titleStyle.Render("Change Password")
		}
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View()),
		)
	}

	title := titleStyle.Render("My Assignments")
	if !m.loaded {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", mutedStyle.Render("Loading...")),
		)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	if len(m.assignments) == 0 {
		rows = append(rows, mutedStyle.Render("  No assignments"))
	} else {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf(
			"  %-3s %-28s %-12s %-10s %-12s %6s %5s",
			"", "Title", "Status", "Priority", "Deadline", "Est", "Files",
		)))
		for i, a := range m.assignments {
			cursor := "  "
			style := normalItemStyle
			if i == m.cursor {
				cursor = "> "
				style = selectedItemStyle
			}
			statusStr := lipgloss.NewStyle().Foreground(statusColor(a.Status)).Render(fmt.Sprintf("%-12s", a.Status))
			line := fmt.Sprintf("%s  %-28s ", cursor, truncate(a.Title, 28))
			tail := fmt.Sprintf(" %-10s %-12s %5.1fh %5d",
				truncate(a.Priority, 10), truncate(a.Deadline, 12), a.EstimatedHours, len(a.FileURLs),
			)
			rows = append(rows, style.Render(line)+statusStr+style.Render(tail))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  s: start  u: submit files  p: change password  r: refresh"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
