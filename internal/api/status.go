package api

// Status is a task's position in the workflow. The workflow is linear:
// To Do → In Progress → Review → Completed.
type Status string

const (
	StatusTodo       Status = "To Do"
	StatusInProgress Status = "In Progress"
	StatusReview     Status = "Review"
	StatusCompleted  Status = "Completed"
)

var statusRank = map[Status]int{
	StatusTodo:       0,
	StatusInProgress: 1,
	StatusReview:     2,
	StatusCompleted:  3,
}

// Known reports whether s is one of the four workflow states. Backends
// occasionally hand back strings outside the workflow; those still count
// toward totals but never toward a bucket.
func (s Status) Known() bool {
	_, ok := statusRank[s]
	return ok
}

// CanTransition reports whether a request to move a task from one status
// to another is valid. Only forward moves are allowed; this covers both
// the explicit To Do → In Progress action and the implicit jump to
// Completed on file submission.
func CanTransition(from, to Status) bool {
	fr, ok := statusRank[from]
	if !ok {
		return false
	}
	tr, ok := statusRank[to]
	if !ok {
		return false
	}
	return tr > fr
}
