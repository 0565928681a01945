package report

import (
	"sort"
	"strings"

	"github.com/sadopc/taskdeck/internal/api"
)

// Filter returns the rows whose username contains query
// (case-insensitive) and that satisfy keep. A nil keep accepts
// everything. Order is preserved; an empty result is a valid state.
func Filter(rows []UserAggregate, query string, keep func(UserAggregate) bool) []UserAggregate {
	query = strings.ToLower(strings.TrimSpace(query))
	out := make([]UserAggregate, 0, len(rows))
	for _, r := range rows {
		if query != "" && !strings.Contains(strings.ToLower(r.Username), query) {
			continue
		}
		if keep != nil && !keep(r) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ByRole matches a role exactly.
func ByRole(role string) func(UserAggregate) bool {
	return func(a UserAggregate) bool { return a.Role == role }
}

// WithStatus keeps users that have at least one task in the given
// bucket.
func WithStatus(s api.Status) func(UserAggregate) bool {
	return func(a UserAggregate) bool {
		switch s {
		case api.StatusTodo:
			return a.Counts.Todo > 0
		case api.StatusInProgress:
			return a.Counts.InProgress > 0
		case api.StatusReview:
			return a.Counts.Review > 0
		case api.StatusCompleted:
			return a.Counts.Completed > 0
		}
		return false
	}
}

// SortByCompleted orders rows by completed-task count, highest first.
// The sort is stable so equal counts keep their relative order.
func SortByCompleted(rows []UserAggregate) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Counts.Completed > rows[j].Counts.Completed
	})
}

// SortByCommission orders rows by monthly commission, highest first.
func SortByCommission(rows []UserAggregate) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].MonthlyCommission > rows[j].MonthlyCommission
	})
}
