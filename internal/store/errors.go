package store

import "fmt"

// ValidationError reports a timesheet entry that references a project id the
// store does not know. The entry is still recorded.
type ValidationError struct {
	EntryID   string
	ProjectID string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("timesheet entry %s references unknown project %q", e.EntryID, e.ProjectID)
}
