package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/taskdeck/internal/report"
)

func sampleRows() []report.UserAggregate {
	return []report.UserAggregate{
		{
			UserID: 1, Username: "Alice", Role: "Translator",
			Counts:              report.StatusCounts{Completed: 3},
			TotalEstimatedHours: 12.5, TotalSpentHours: 11,
			HourlyRate: 8, MonthlyCommission: 100,
		},
		{
			UserID: 2, Username: "Bob", Role: "Sound Engineer",
			Counts:              report.StatusCounts{Completed: 1},
			TotalEstimatedHours: 4, TotalSpentHours: 5,
			HourlyRate: 6, MonthlyCommission: 24,
		},
	}
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commission.csv")

	if err := ToCSV(sampleRows(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// header + 2 data rows + totals row
	if len(records) != 4 {
		t.Fatalf("expected 4 rows, got %d", len(records))
	}

	for i, h := range Header {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[0] != "1" || row[1] != "Alice" || row[2] != "Translator" {
		t.Fatalf("first data row wrong: %v", row)
	}
	if row[3] != "12.50" || row[4] != "8.00" || row[5] != "100.00" {
		t.Fatalf("numeric columns wrong: %v", row)
	}
}

func TestToCSVRowCountMatchesView(t *testing.T) {
	rows := sampleRows()
	path := filepath.Join(t.TempDir(), "count.csv")
	if err := ToCSV(rows, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, _ := csv.NewReader(f).ReadAll()

	// data rows + 1 totals row (header excluded)
	if got := len(records) - 1; got != len(rows)+1 {
		t.Fatalf("row count = %d, want %d", got, len(rows)+1)
	}
}

func TestToCSVTotalsRow(t *testing.T) {
	rows := sampleRows()
	path := filepath.Join(t.TempDir(), "totals.csv")
	if err := ToCSV(rows, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, _ := csv.NewReader(f).ReadAll()

	totals := records[len(records)-1]
	if totals[0] != "" || totals[1] != "" || totals[2] != "" || totals[4] != "" {
		t.Fatalf("non-summable columns should be blank: %v", totals)
	}

	var wantHours float64
	for _, rec := range records[1 : len(records)-1] {
		h, err := strconv.ParseFloat(rec[3], 64)
		if err != nil {
			t.Fatalf("bad hours cell %q: %v", rec[3], err)
		}
		wantHours += h
	}
	if totals[3] != "16.50" {
		t.Fatalf("totals hours = %q, want 16.50 (sum of data rows %v)", totals[3], wantHours)
	}
	if totals[5] != "124.00" {
		t.Fatalf("totals commission = %q, want 124.00", totals[5])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, _ := csv.NewReader(f).ReadAll()

	// header + totals row; an empty view still exports cleanly
	if len(records) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(records))
	}
	if records[1][3] != "0.00" || records[1][5] != "0.00" {
		t.Fatalf("empty totals wrong: %v", records[1])
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVDelimiterInName(t *testing.T) {
	rows := []report.UserAggregate{
		{UserID: 1, Username: "Doe, Jane", Role: "Translator", TotalEstimatedHours: 1, HourlyRate: 8, MonthlyCommission: 8},
	}
	path := filepath.Join(t.TempDir(), "comma.csv")
	if err := ToCSV(rows, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("CSV should stay parseable with commas in fields: %v", err)
	}
	if records[1][1] != "Doe, Jane" {
		t.Fatalf("name mangled: %q", records[1][1])
	}
}

func TestFilename(t *testing.T) {
	now := time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)
	if got := Filename(now); got != "team_commission_August_2026.csv" {
		t.Fatalf("Filename = %q", got)
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "commission.json")

	if err := ToJSON(sampleRows(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}

	if result.Count != 2 {
		t.Fatalf("count = %d, want 2", result.Count)
	}
	if result.Rows[0].Name != "Alice" || result.Rows[0].MonthlyCommission != 100 {
		t.Fatalf("first row wrong: %+v", result.Rows[0])
	}
	if result.Totals.Hours != 16.5 || result.Totals.Commission != 124 {
		t.Fatalf("totals wrong: %+v", result.Totals)
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not RFC3339: %q", result.ExportedAt)
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	var result jsonExport
	json.Unmarshal(data, &result)

	if result.Count != 0 || result.Rows != nil {
		t.Fatalf("empty export wrong: %+v", result)
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	ToJSON(sampleRows(), path)

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n") || !strings.Contains(string(data), "  ") {
		t.Fatal("JSON should be indented")
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}
