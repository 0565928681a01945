package report

import "github.com/sadopc/taskdeck/internal/api"

// StatusCounts tallies a user's deduplicated tasks per workflow bucket.
type StatusCounts struct {
	Todo       int
	InProgress int
	Review     int
	Completed  int
}

func (c StatusCounts) Sum() int {
	return c.Todo + c.InProgress + c.Review + c.Completed
}

// UserAggregate is the per-user rollup derived from the deduplicated
// status-update set. It is ephemeral: rebuilt on every fetch and thrown
// away on the next one.
type UserAggregate struct {
	UserID   int64
	Username string
	Role     string

	Counts     StatusCounts
	TotalTasks int // includes tasks whose status is outside the workflow

	// Hours and commission are computed over Completed tasks only.
	TotalEstimatedHours float64
	TotalSpentHours     float64
	HourlyRate          float64
	MonthlyCommission   float64
}

// Reprice recomputes the commission for a new hourly rate without
// touching any fetched data.
func (a *UserAggregate) Reprice(rate float64) {
	a.HourlyRate = rate
	a.MonthlyCommission = a.TotalEstimatedHours * rate
}

// BuildAggregates groups an already-deduplicated update set by user.
// Every known user gets a row, including those with zero tasks, in the
// order the user service returned them; updates from users missing from
// that list get trailing rows in first-encounter order.
func BuildAggregates(updates []api.StatusUpdate, users []api.User, rates *RateTable) []UserAggregate {
	aggs := make([]UserAggregate, 0, len(users))
	index := make(map[int64]int, len(users))
	for _, u := range users {
		index[u.ID] = len(aggs)
		aggs = append(aggs, UserAggregate{
			UserID:   u.ID,
			Username: u.Username,
			Role:     u.Role,
		})
	}

	for _, up := range updates {
		i, ok := index[up.UpdatedBy]
		if !ok {
			i = len(aggs)
			index[up.UpdatedBy] = i
			aggs = append(aggs, UserAggregate{
				UserID:   up.UpdatedBy,
				Username: up.AssignedUserName,
			})
		}
		a := &aggs[i]

		a.TotalTasks++
		switch up.Status {
		case api.StatusTodo:
			a.Counts.Todo++
		case api.StatusInProgress:
			a.Counts.InProgress++
		case api.StatusReview:
			a.Counts.Review++
		case api.StatusCompleted:
			a.Counts.Completed++
			a.TotalEstimatedHours += up.SubTask.EstimatedHours
			a.TotalSpentHours += up.SpentHours()
		}
	}

	for i := range aggs {
		a := &aggs[i]
		a.Reprice(rates.RateFor(a.UserID, a.Role))
	}
	return aggs
}
