package api

import "time"

// StatusUpdate is one backend-recorded change to a task's status by a
// given user at a given time. Many updates may reference the same
// (task, user) pair; reporting only cares about the latest one.
type StatusUpdate struct {
	TaskID           int64   `json:"taskId"`
	UpdatedBy        int64   `json:"updatedByUserId"`
	Status           Status  `json:"status"`
	UpdatedAt        string  `json:"updatedAt"`
	TimeTakenHours   float64 `json:"timeTakenHours"`
	TimeTakenMinutes float64 `json:"timeTakenMinutes"`
	AssignedUserName string  `json:"assignedUserName"`
	ProfileImageURL  string  `json:"profileImageUrl"`
	SubTask          SubTask `json:"subTask"`
}

// SubTask carries the task fields echoed on every status update.
type SubTask struct {
	Title          string  `json:"title"`
	Priority       string  `json:"priority"`
	EstimatedHours float64 `json:"estimatedHours"`
	Description    string  `json:"description"`
	Deadline       string  `json:"deadline"`
}

// Time parses UpdatedAt. Unparsable timestamps yield the zero time so
// they sort as earliest-possible instead of breaking the pipeline.
func (u StatusUpdate) Time() time.Time {
	return parseTimestamp(u.UpdatedAt)
}

// SpentHours folds the hours/minutes pair into fractional hours.
func (u StatusUpdate) SpentHours() float64 {
	return u.TimeTakenHours + u.TimeTakenMinutes/60
}

type User struct {
	ID              int64  `json:"id"`
	Username        string `json:"username"`
	Role            string `json:"role"`
	Email           string `json:"email"`
	ProfileImageURL string `json:"profileImageUrl"`
}

// Assignment is a user's own view of a task, fetched and mutated
// independently of the reporting feed.
type Assignment struct {
	ID             int64    `json:"id"`
	TaskID         int64    `json:"taskId"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Status         Status   `json:"status"`
	Priority       string   `json:"priority"`
	Deadline       string   `json:"deadline"`
	EstimatedHours float64  `json:"estimatedHours"`
	FileURLs       []string `json:"fileUrls"`
}

// Feed is the joined result of the two parallel reporting fetches.
type Feed struct {
	Updates []StatusUpdate
	Users   []User
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseTimestamp(s string) time.Time {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
