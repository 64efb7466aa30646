// Package notion is a small client for the Notion database API.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

const (
	DefaultBaseURL = "https://api.notion.com"
	DefaultVersion = "2022-06-28"
	maxPageSize    = 100
)

// Config holds the connection settings for the API.
type Config struct {
	BaseURL string
	Token   string
	Version string
	Timeout time.Duration
}

type Client struct {
	cfg  Config
	http *http.Client
	log  *slog.Logger
}

func NewClient(cfg Config, log *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Client{
		cfg:  cfg,
		http: &http.Client{Timeout: cfg.Timeout},
		log:  log,
	}
}

// QueryDatabase returns every page of the database, following pagination.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string) ([]Page, error) {
	var (
		pages  []Page
		cursor string
	)
	for {
		var resp queryResponse
		body := queryRequest{StartCursor: cursor, PageSize: maxPageSize}
		path := "/v1/databases/" + url.PathEscape(databaseID) + "/query"
		if err := c.do(ctx, http.MethodPost, path, body, &resp); err != nil {
			return nil, c.fetchError("query", databaseID, err)
		}
		pages = append(pages, resp.Results...)
		if !resp.HasMore || resp.NextCursor == nil || *resp.NextCursor == "" {
			break
		}
		if *resp.NextCursor == cursor {
			c.log.Warn("query cursor did not advance", "database", databaseID, "cursor", cursor)
			break
		}
		cursor = *resp.NextCursor
	}
	c.log.Debug("queried database", "database", databaseID, "pages", len(pages))
	return pages, nil
}

// RetrieveDatabase returns the database schema.
func (c *Client) RetrieveDatabase(ctx context.Context, databaseID string) (*Database, error) {
	var db Database
	path := "/v1/databases/" + url.PathEscape(databaseID)
	if err := c.do(ctx, http.MethodGet, path, nil, &db); err != nil {
		return nil, c.fetchError("retrieve", databaseID, err)
	}
	return &db, nil
}

type statusError struct {
	status int
	api    apiError
}

func (e *statusError) Error() string {
	if e.api.Message != "" {
		return e.api.Message
	}
	return http.StatusText(e.status)
}

func (c *Client) fetchError(op, databaseID string, err error) error {
	fe := &FetchError{Op: op, DatabaseID: databaseID, Err: err}
	var se *statusError
	if errors.As(err, &se) {
		fe.StatusCode = se.status
		fe.Code = se.api.Code
	}
	return fe
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if c.cfg.Token == "" {
		return ErrNoToken
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, body)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
	req.Header.Set("Notion-Version", c.cfg.Version)
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}
	c.log.Debug("notion request", "method", method, "path", path,
		"status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode != http.StatusOK {
		se := &statusError{status: resp.StatusCode}
		_ = json.Unmarshal(data, &se.api)
		return se
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
