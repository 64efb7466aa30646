package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/pomotrackr/internal/analytics"
	"github.com/sadopc/pomotrackr/internal/store"
)

func sampleData() []analytics.FilteredTimesheet {
	now := time.Now().UTC()
	return []analytics.FilteredTimesheet{
		{
			TimesheetEntry: store.TimesheetEntry{ID: "e1", ProjectID: "p1", TimerValue: 3600, CreatedAt: now.Add(-time.Hour)},
			ProjectName:    "Project Alpha",
		},
		{
			TimesheetEntry: store.TimesheetEntry{ID: "e2", ProjectID: "p2", TimerValue: 1800, CreatedAt: now.Add(-30 * time.Minute)},
			ProjectName:    "Project Beta",
		},
		{
			TimesheetEntry: store.TimesheetEntry{ID: "e3", ProjectID: "p1", TimerValue: 0, CreatedAt: now},
			ProjectName:    "Project Alpha",
		},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("invalid CSV: %v", err)
	}
	return records
}

func readJSON(t *testing.T, path string) jsonExport {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var result jsonExport
	if err := json.Unmarshal(data, &result); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	return result
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.csv")

	if err := ToCSV(sampleData(), path); err != nil {
		t.Fatalf("ToCSV: %v", err)
	}

	records := readCSV(t, path)
	if len(records) != 4 {
		t.Fatalf("expected 4 rows (1 header + 3 data), got %d", len(records))
	}

	for i, h := range csvHeader {
		if records[0][i] != h {
			t.Fatalf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}

	row := records[1]
	if row[0] != "e1" {
		t.Fatalf("ID = %q, want e1", row[0])
	}
	if row[1] != "Project Alpha" {
		t.Fatalf("Project = %q, want Project Alpha", row[1])
	}
	if row[2] != "p1" {
		t.Fatalf("Project ID = %q, want p1", row[2])
	}
	if row[4] != "3600" {
		t.Fatalf("Duration (s) = %q, want 3600", row[4])
	}
	if row[5] != "01:00:00" {
		t.Fatalf("Duration = %q, want 01:00:00", row[5])
	}
	if _, err := time.Parse(time.RFC3339, row[3]); err != nil {
		t.Fatalf("Created is not RFC3339: %q", row[3])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := ToCSV(nil, path); err != nil {
		t.Fatal(err)
	}

	if records := readCSV(t, path); len(records) != 1 {
		t.Fatalf("expected 1 row (header only), got %d", len(records))
	}
}

func TestToCSVUnknownProject(t *testing.T) {
	rows := []analytics.FilteredTimesheet{
		{TimesheetEntry: store.TimesheetEntry{ID: "e1", ProjectID: "ghost", TimerValue: 60, CreatedAt: time.Now()}},
	}
	path := filepath.Join(t.TempDir(), "unknown.csv")

	if err := ToCSV(rows, path); err != nil {
		t.Fatal(err)
	}

	records := readCSV(t, path)
	if records[1][1] != "Unknown" {
		t.Fatalf("expected 'Unknown' for missing project, got %q", records[1][1])
	}
}

func TestToCSVBadPath(t *testing.T) {
	if err := ToCSV(nil, "/nonexistent/dir/file.csv"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToCSVSpecialCharacters(t *testing.T) {
	rows := []analytics.FilteredTimesheet{
		{
			TimesheetEntry: store.TimesheetEntry{ID: "e1", ProjectID: "p1", TimerValue: 60, CreatedAt: time.Now()},
			ProjectName:    `Project "Special", with commas`,
		},
	}
	path := filepath.Join(t.TempDir(), "special.csv")

	if err := ToCSV(rows, path); err != nil {
		t.Fatal(err)
	}

	records := readCSV(t, path)
	if records[1][1] != `Project "Special", with commas` {
		t.Fatalf("project name mangled: %q", records[1][1])
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.json")

	if err := ToJSON(sampleData(), path); err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	result := readJSON(t, path)
	if result.Count != 3 {
		t.Fatalf("count = %d, want 3", result.Count)
	}
	if len(result.Entries) != 3 {
		t.Fatalf("entries = %d, want 3", len(result.Entries))
	}
	if result.TotalSeconds != 5400 {
		t.Fatalf("total_seconds = %d, want 5400", result.TotalSeconds)
	}
	if _, err := time.Parse(time.RFC3339, result.ExportedAt); err != nil {
		t.Fatalf("exported_at is not valid RFC3339: %q", result.ExportedAt)
	}

	e := result.Entries[0]
	if e.ID != "e1" {
		t.Fatalf("ID = %q, want e1", e.ID)
	}
	if e.Project != "Project Alpha" {
		t.Fatalf("Project = %q, want Project Alpha", e.Project)
	}
	if e.DurationSec != 3600 {
		t.Fatalf("DurationSec = %d, want 3600", e.DurationSec)
	}
	if e.Duration != "01:00:00" {
		t.Fatalf("Duration = %q, want 01:00:00", e.Duration)
	}
	for _, e := range result.Entries {
		if _, err := time.Parse(time.RFC3339, e.CreatedAt); err != nil {
			t.Fatalf("created_at is not valid RFC3339: %q", e.CreatedAt)
		}
	}
}

func TestToJSONEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")

	if err := ToJSON(nil, path); err != nil {
		t.Fatal(err)
	}

	result := readJSON(t, path)
	if result.Count != 0 {
		t.Fatalf("count = %d, want 0", result.Count)
	}
	if result.Entries != nil {
		t.Fatal("entries should be nil/null for empty export")
	}
}

func TestToJSONUnknownProject(t *testing.T) {
	rows := []analytics.FilteredTimesheet{
		{TimesheetEntry: store.TimesheetEntry{ID: "e1", ProjectID: "ghost", TimerValue: 60, CreatedAt: time.Now()}},
	}
	path := filepath.Join(t.TempDir(), "unknown.json")

	if err := ToJSON(rows, path); err != nil {
		t.Fatal(err)
	}

	if got := readJSON(t, path).Entries[0].Project; got != "Unknown" {
		t.Fatalf("expected 'Unknown', got %q", got)
	}
}

func TestToJSONBadPath(t *testing.T) {
	if err := ToJSON(nil, "/nonexistent/dir/file.json"); err == nil {
		t.Fatal("expected error for bad path")
	}
}

func TestToJSONPrettyPrinted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pretty.json")
	if err := ToJSON(nil, path); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "\n  ") {
		t.Fatal("JSON should be pretty-printed and indented")
	}
}

// ============================================================
// formatDuration (internal helper)
// ============================================================

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		secs int64
		want string
	}{
		{0, "00:00:00"},
		{1, "00:00:01"},
		{60, "00:01:00"},
		{1500, "00:25:00"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{90061, "25:01:01"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.secs); got != tt.want {
			t.Errorf("formatDuration(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}
