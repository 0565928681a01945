package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/taskdeck/internal/report"
)

// Header matches the commission sheet consumed downstream. Column order
// is load-bearing for whoever imports these files.
var Header = []string{"NO", "Name", "Job Position", "Total Hours", "Rate ($/hour)", "Monthly Commission ($)"}

// ToCSV writes the current filtered/sorted commission view: a header
// row, one row per user, and a trailing totals row with the summed
// hours and commission (non-summable columns stay blank).
func ToCSV(rows []report.UserAggregate, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(Header); err != nil {
		return err
	}

	var totalHours, totalCommission float64
	for i, r := range rows {
		record := []string{
			fmt.Sprintf("%d", i+1),
			r.Username,
			r.Role,
			fmt.Sprintf("%.2f", r.TotalEstimatedHours),
			fmt.Sprintf("%.2f", r.HourlyRate),
			fmt.Sprintf("%.2f", r.MonthlyCommission),
		}
		if err := w.Write(record); err != nil {
			return err
		}
		totalHours += r.TotalEstimatedHours
		totalCommission += r.MonthlyCommission
	}

	totals := []string{
		"", "", "",
		fmt.Sprintf("%.2f", totalHours),
		"",
		fmt.Sprintf("%.2f", totalCommission),
	}
	if err := w.Write(totals); err != nil {
		return err
	}

	return w.Error()
}

// Filename returns the conventional export name for the given month,
// e.g. team_commission_August_2026.csv.
func Filename(now time.Time) string {
	return fmt.Sprintf("team_commission_%s.csv", now.Format("January_2006"))
}
