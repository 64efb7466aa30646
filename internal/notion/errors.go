package notion

import (
	"errors"
	"fmt"
)

// ErrNoToken is returned when the client has no integration token.
var ErrNoToken = errors.New("notion token not configured")

// FetchError reports a failed call to the Notion API.
type FetchError struct {
	Op         string // "query" or "retrieve"
	DatabaseID string
	StatusCode int    // 0 when no response was received
	Code       string // API error code, if the body carried one
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		if e.Code != "" {
			return fmt.Sprintf("notion %s %s: status %d (%s): %v", e.Op, e.DatabaseID, e.StatusCode, e.Code, e.Err)
		}
		return fmt.Sprintf("notion %s %s: status %d: %v", e.Op, e.DatabaseID, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("notion %s %s: %v", e.Op, e.DatabaseID, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
