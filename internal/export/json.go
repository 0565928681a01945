package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/taskdeck/internal/report"
)

type jsonExport struct {
	ExportedAt string     `json:"exported_at"`
	Count      int        `json:"count"`
	Rows       []jsonRow  `json:"rows"`
	Totals     jsonTotals `json:"totals"`
}

type jsonRow struct {
	UserID            int64   `json:"user_id"`
	Name              string  `json:"name"`
	Role              string  `json:"role"`
	Todo              int     `json:"todo"`
	InProgress        int     `json:"in_progress"`
	Review            int     `json:"review"`
	Completed         int     `json:"completed"`
	TotalHours        float64 `json:"total_hours"`
	SpentHours        float64 `json:"spent_hours"`
	HourlyRate        float64 `json:"hourly_rate"`
	MonthlyCommission float64 `json:"monthly_commission"`
}

type jsonTotals struct {
	Hours      float64 `json:"hours"`
	Commission float64 `json:"commission"`
}

// ToJSON writes the same view as ToCSV, with the count buckets included
// since JSON consumers are not bound to the sheet layout.
func ToJSON(rows []report.UserAggregate, path string) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(rows),
	}

	for _, r := range rows {
		out.Rows = append(out.Rows, jsonRow{
			UserID:            r.UserID,
			Name:              r.Username,
			Role:              r.Role,
			Todo:              r.Counts.Todo,
			InProgress:        r.Counts.InProgress,
			Review:            r.Counts.Review,
			Completed:         r.Counts.Completed,
			TotalHours:        r.TotalEstimatedHours,
			SpentHours:        r.TotalSpentHours,
			HourlyRate:        r.HourlyRate,
			MonthlyCommission: r.MonthlyCommission,
		})
		out.Totals.Hours += r.TotalEstimatedHours
		out.Totals.Commission += r.MonthlyCommission
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
