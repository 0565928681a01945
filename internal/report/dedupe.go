package report

import (
	"sort"

	"github.com/sadopc/taskdeck/internal/api"
)

type taskKey struct {
	taskID int64
	userID int64
}

// LatestPerTask reduces a raw status-update feed to at most one update
// per (task, user) key: the one with the greatest timestamp. The sort is
// stable and descending, so ties keep their original encounter order and
// unparsable timestamps (zero time) land at the end.
func LatestPerTask(updates []api.StatusUpdate) []api.StatusUpdate {
	sorted := make([]api.StatusUpdate, len(updates))
	copy(sorted, updates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time().After(sorted[j].Time())
	})

	seen := make(map[taskKey]struct{}, len(sorted))
	latest := make([]api.StatusUpdate, 0, len(sorted))
	for _, u := range sorted {
		k := taskKey{u.TaskID, u.UpdatedBy}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		latest = append(latest, u)
	}
	return latest
}
