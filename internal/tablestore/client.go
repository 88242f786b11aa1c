// Package tablestore provides a client for a PostgREST-style table store REST API.
package tablestore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"usersync/internal/logger"
	"usersync/pkg/utils"
)

// Client errors.
var (
	ErrEmptyTable  = errors.New("table name is required")
	ErrRequest     = errors.New("request failed")
	ErrReadBody    = errors.New("failed to read response")
	ErrMarshalRows = errors.New("failed to marshal rows")
)

const (
	restPath        = "/rest/v1/"
	maxResponseSize = 10 * 1024 * 1024
)

// Client defines the interface for table store communication.
type Client interface {
	Insert(ctx context.Context, table string, rows any) (*Response, error)
}

// Ensure HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)

// HTTPClient talks to the table store over HTTP.
type HTTPClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	schema     string
	headers    *utils.HTTPHelper
	logger     *logger.Logger
}

// NewHTTPClient creates a new table store client. No request timeout is set;
// callers bound requests through the context.
func NewHTTPClient(baseURL, apiKey string, log *logger.Logger) *HTTPClient {
	return &HTTPClient{
		httpClient: &http.Client{},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		headers:    utils.NewHTTPHelper(),
		logger:     log,
	}
}

// SetSchema selects a non-default database schema for requests.
func (c *HTTPClient) SetSchema(schema string) {
	c.schema = schema
}

// SetHTTPClient replaces the underlying transport client.
func (c *HTTPClient) SetHTTPClient(hc *http.Client) {
	c.httpClient = hc
}

// From returns a reference to one named table.
func (c *HTTPClient) From(table string) *Table {
	return &Table{client: c, name: table}
}

// Table is a handle to a single table in the store.
type Table struct {
	client Client
	name   string
}

// NewTable binds a table name to any client.
func NewTable(client Client, name string) *Table {
	return &Table{client: client, name: name}
}

// Name returns the table name.
func (t *Table) Name() string {
	return t.name
}

// Insert submits rows to the table as one request.
func (t *Table) Insert(ctx context.Context, rows any) (*Response, error) {
	return t.client.Insert(ctx, t.name, rows)
}

// Insert posts rows as a single JSON array to the table endpoint. A non-2xx
// status is not an error here; it is carried in the response for the caller
// to classify. Only transport and encoding failures return an error.
func (c *HTTPClient) Insert(ctx context.Context, table string, rows any) (*Response, error) {
	if table == "" {
		return nil, ErrEmptyTable
	}

	body, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMarshalRows, err)
	}

	endpoint := c.baseURL + restPath + url.PathEscape(table)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	custom := map[string]string{
		"Content-Type":  "application/json",
		"Prefer":        "return=representation",
		"apikey":        c.apiKey,
		"Authorization": "Bearer " + c.apiKey,
	}
	if c.schema != "" {
		custom["Content-Profile"] = c.schema
	}

	req.Header = c.headers.BuildHeaders(custom)

	if c.logger != nil {
		c.logger.Debug("Posting insert request", "table", table, "bytes", len(body))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRequest, err)
	}
	defer resp.Body.Close()

	// Limit response size to 10MB
	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrReadBody, err)
	}

	if c.logger != nil {
		c.logger.Debug("Insert response received", "status", resp.StatusCode, "bytes", len(payload))
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       payload,
	}, nil
}
