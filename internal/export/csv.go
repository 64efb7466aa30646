package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/pomotrackr/internal/analytics"
)

var csvHeader = []string{"ID", "Project", "Project ID", "Created", "Duration (s)", "Duration"}

func ToCSV(rows []analytics.FilteredTimesheet, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	if err := w.Write(csvHeader); err != nil {
		return err
	}

	for _, r := range rows {
		rec := []string{
			r.ID,
			projectName(r),
			r.ProjectID,
			r.CreatedAt.Local().Format(time.RFC3339),
			strconv.FormatInt(r.TimerValue, 10),
			formatDuration(r.TimerValue),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func projectName(r analytics.FilteredTimesheet) string {
	if r.ProjectName == "" {
		return "Unknown"
	}
	return r.ProjectName
}

func formatDuration(secs int64) string {
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}
