package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/pomotrackr/internal/analytics"
)

type jsonExport struct {
	ExportedAt   string      `json:"exported_at"`
	Count        int         `json:"count"`
	TotalSeconds int64       `json:"total_seconds"`
	Entries      []jsonEntry `json:"entries"`
}

type jsonEntry struct {
	ID          string `json:"id"`
	Project     string `json:"project"`
	ProjectID   string `json:"project_id"`
	CreatedAt   string `json:"created_at"`
	DurationSec int64  `json:"duration_seconds"`
	Duration    string `json:"duration"`
}

func ToJSON(rows []analytics.FilteredTimesheet, path string) error {
	export := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(rows),
	}

	for _, r := range rows {
		export.TotalSeconds += r.TimerValue
		export.Entries = append(export.Entries, jsonEntry{
			ID:          r.ID,
			Project:     projectName(r),
			ProjectID:   r.ProjectID,
			CreatedAt:   r.CreatedAt.Local().Format(time.RFC3339),
			DurationSec: r.TimerValue,
			Duration:    formatDuration(r.TimerValue),
		})
	}

	data, err := json.MarshalIndent(export, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
