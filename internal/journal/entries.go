package journal

import (
	"fmt"
	"time"

	"github.com/sadopc/pomotrackr/internal/store"
)

// Row is a journaled timesheet entry.
type Row struct {
	store.TimesheetEntry
	DatabaseID  string
	ProjectName string
}

// Filter narrows List and Totals. Zero fields are ignored.
type Filter struct {
	DatabaseID string
	ProjectID  string
	From       *time.Time
	To         *time.Time
	Limit      int
}

// Total is the time logged against one project.
type Total struct {
	DatabaseID  string
	ProjectID   string
	ProjectName string
	Seconds     int64
	Sessions    int
}

func (j *Journal) Record(r Row) error {
	_, err := j.db.Exec(
		`INSERT INTO timesheets (id, database_id, project_id, project_name, timer_value, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.DatabaseID, r.ProjectID, r.ProjectName, r.TimerValue,
		r.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("record timesheet %s: %w", r.ID, err)
	}
	return nil
}

func (f Filter) where() (string, []any) {
	clause := ` WHERE 1=1`
	var args []any
	if f.DatabaseID != "" {
		clause += ` AND database_id = ?`
		args = append(args, f.DatabaseID)
	}
	if f.ProjectID != "" {
		clause += ` AND project_id = ?`
		args = append(args, f.ProjectID)
	}
	if f.From != nil {
		clause += ` AND created_at >= ?`
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if f.To != nil {
		clause += ` AND created_at < ?`
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	return clause, args
}

// List returns journaled entries, newest first.
func (j *Journal) List(f Filter) ([]Row, error) {
	where, args := f.where()
	query := `SELECT id, database_id, project_id, project_name, timer_value, created_at FROM timesheets` +
		where + ` ORDER BY created_at DESC, id`
	if f.Limit > 0 {
		query += fmt.Sprintf(` LIMIT %d`, f.Limit)
	}

	rows, err := j.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list timesheets: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var r Row
		var createdAt string
		if err := rows.Scan(&r.ID, &r.DatabaseID, &r.ProjectID, &r.ProjectName, &r.TimerValue, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Totals sums logged seconds per project.
func (j *Journal) Totals(f Filter) ([]Total, error) {
	where, args := f.where()
	rows, err := j.db.Query(`
		SELECT database_id, project_id, MAX(project_name), COALESCE(SUM(timer_value), 0), COUNT(*)
		FROM timesheets`+where+`
		GROUP BY database_id, project_id
		ORDER BY database_id, project_id`, args...)
	if err != nil {
		return nil, fmt.Errorf("timesheet totals: %w", err)
	}
	defer rows.Close()

	var totals []Total
	for rows.Next() {
		var t Total
		if err := rows.Scan(&t.DatabaseID, &t.ProjectID, &t.ProjectName, &t.Seconds, &t.Sessions); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// Sink journals entries as they are completed. It resolves the database id
// and project title from the project store at write time.
type Sink struct {
	Journal  *Journal
	Projects *store.ProjectStore
}

func (s Sink) AppendTimesheetEntry(e store.TimesheetEntry) error {
	st := s.Projects.State()
	row := Row{TimesheetEntry: e, DatabaseID: st.DatabaseID}
	if p, ok := st.Project(e.ProjectID); ok {
		row.ProjectName = p.Title
	}
	return s.Journal.Record(row)
}
