package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	// maxAttempts bounds the requests spent on one call: the original
	// request plus a single retry for the transient class.
	maxAttempts = 2
	// retryDelay is the fixed pause before the retry. No backoff curve.
	retryDelay = 1 * time.Second
	// queryPageSize is the page size used for range queries.
	queryPageSize = 100
)

// Store defines the database operations the reconciler needs. Property names
// are passed by the caller so the store stays free of mirror field naming.
type Store interface {
	// FindByIdentity returns the first non-archived page whose identityProp
	// rich_text equals identity, or nil when there is none.
	FindByIdentity(ctx context.Context, identityProp, identity string) (*Page, error)
	// QueryByDateRange returns every page whose dateProp falls inside
	// [start, end], following pagination until the result set is complete.
	QueryByDateRange(ctx context.Context, dateProp string, start, end time.Time) ([]Page, error)
	// CreatePage inserts a new page into the database.
	CreatePage(ctx context.Context, props Properties) error
	// UpdatePage replaces the given properties on an existing page.
	UpdatePage(ctx context.Context, pageID string, props Properties) error
	// ArchivePage flags a page as archived.
	ArchivePage(ctx context.Context, pageID string) error
	// SchemaFieldNames returns the set of property names the database defines.
	SchemaFieldNames(ctx context.Context) (map[string]struct{}, error)
}

// Client is the HTTP implementation of Store.
type Client struct {
	cfg   Config
	http  *http.Client
	log   *zap.Logger
	pause time.Duration
}

var _ Store = (*Client)(nil)

// NewClient creates a Notion API client from the configuration.
func NewClient(cfg Config, log *zap.Logger) *Client {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	// Custom transport with strict timeouts so a stuck remote cannot hang a run
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	return &Client{
		cfg:   cfg,
		http:  &http.Client{Transport: transport, Timeout: timeoutDuration},
		log:   log,
		pause: retryDelay,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// do sends one API request and decodes the response into out (when non-nil).
// Transient failures are retried exactly once after a fixed pause; everything
// else fails immediately.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + path

	for attempt := 1; ; attempt++ {
		var reqBody io.Reader
		if payload != nil {
			reqBody = bytes.NewReader(payload)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
		req.Header.Set("Notion-Version", c.cfg.Version)
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			// Transport errors are not part of the retryable class
			return fmt.Errorf("notion request failed: %w", err)
		}

		data, err := io.ReadAll(resp.Body)
		_ = resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read notion response: %w", err)
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			if out == nil {
				return nil
			}
			if err := json.Unmarshal(data, out); err != nil {
				return fmt.Errorf("failed to decode notion response: %w", err)
			}
			return nil
		}

		apiErr := newAPIError(resp.StatusCode, data)
		apiErr.Attempts = attempt

		if !apiErr.Transient() || attempt >= maxAttempts {
			return apiErr
		}

		c.log.Warn("Transient notion error, retrying once",
			zap.Int("status", apiErr.Status),
			zap.String("path", path),
		)
		if err := sleepCtx(ctx, c.pause); err != nil {
			return err
		}
	}
}

type queryRequest struct {
	Filter      *filter `json:"filter,omitempty"`
	PageSize    int     `json:"page_size,omitempty"`
	StartCursor string  `json:"start_cursor,omitempty"`
}

// filter is the subset of the query filter language the mirror uses: a
// rich_text equality, a date bound, or a conjunction of filters.
type filter struct {
	And      []filter       `json:"and,omitempty"`
	Property string         `json:"property,omitempty"`
	RichText *textCondition `json:"rich_text,omitempty"`
	Date     *dateCondition `json:"date,omitempty"`
}

type textCondition struct {
	Equals string `json:"equals"`
}

type dateCondition struct {
	OnOrAfter  string `json:"on_or_after,omitempty"`
	OnOrBefore string `json:"on_or_before,omitempty"`
}

type queryResponse struct {
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

func (c *Client) queryPath() string {
	return "/databases/" + c.cfg.DatabaseID + "/query"
}

// FindByIdentity looks up the page carrying the given identity. The query asks
// for a single result; with identities written by this service there is at
// most one non-archived match.
func (c *Client) FindByIdentity(ctx context.Context, identityProp, identity string) (*Page, error) {
	req := queryRequest{
		Filter: &filter{
			Property: identityProp,
			RichText: &textCondition{Equals: identity},
		},
		PageSize: 1,
	}

	var resp queryResponse
	if err := c.do(ctx, http.MethodPost, c.queryPath(), req, &resp); err != nil {
		return nil, fmt.Errorf("failed to query page by identity: %w", err)
	}

	if len(resp.Results) == 0 {
		return nil, nil
	}
	page := resp.Results[0]
	return &page, nil
}

// QueryByDateRange collects every page whose date property lies inside the
// inclusive [start, end] range, walking the cursor chain to the end.
func (c *Client) QueryByDateRange(ctx context.Context, dateProp string, start, end time.Time) ([]Page, error) {
	var pages []Page
	cursor := ""

	for {
		req := queryRequest{
			Filter: &filter{
				And: []filter{
					{Property: dateProp, Date: &dateCondition{OnOrAfter: start.Format(time.RFC3339)}},
					{Property: dateProp, Date: &dateCondition{OnOrBefore: end.Format(time.RFC3339)}},
				},
			},
			PageSize:    queryPageSize,
			StartCursor: cursor,
		}

		var resp queryResponse
		if err := c.do(ctx, http.MethodPost, c.queryPath(), req, &resp); err != nil {
			return nil, fmt.Errorf("failed to query pages by date range: %w", err)
		}

		pages = append(pages, resp.Results...)

		if !resp.HasMore || resp.NextCursor == nil {
			return pages, nil
		}
		cursor = *resp.NextCursor
	}
}

type parentRef struct {
	DatabaseID string `json:"database_id"`
}

type createPageRequest struct {
	Parent     parentRef  `json:"parent"`
	Properties Properties `json:"properties"`
}

type updatePageRequest struct {
	Properties Properties `json:"properties"`
}

type archivePageRequest struct {
	Archived bool `json:"archived"`
}

// CreatePage inserts a new page into the configured database.
func (c *Client) CreatePage(ctx context.Context, props Properties) error {
	req := createPageRequest{
		Parent:     parentRef{DatabaseID: c.cfg.DatabaseID},
		Properties: props,
	}
	if err := c.do(ctx, http.MethodPost, "/pages", req, nil); err != nil {
		return fmt.Errorf("failed to create page: %w", err)
	}
	return nil
}

// UpdatePage replaces the given properties on an existing page.
func (c *Client) UpdatePage(ctx context.Context, pageID string, props Properties) error {
	req := updatePageRequest{Properties: props}
	if err := c.do(ctx, http.MethodPatch, "/pages/"+pageID, req, nil); err != nil {
		return fmt.Errorf("failed to update page %s: %w", pageID, err)
	}
	return nil
}

// ArchivePage flags a page as archived. Archiving an already archived page
// is accepted by the API, so the call stays idempotent.
func (c *Client) ArchivePage(ctx context.Context, pageID string) error {
	req := archivePageRequest{Archived: true}
	if err := c.do(ctx, http.MethodPatch, "/pages/"+pageID, req, nil); err != nil {
		return fmt.Errorf("failed to archive page %s: %w", pageID, err)
	}
	return nil
}

type databaseResponse struct {
	Properties map[string]json.RawMessage `json:"properties"`
}

// SchemaFieldNames fetches the database definition and returns the set of
// property names it declares.
func (c *Client) SchemaFieldNames(ctx context.Context) (map[string]struct{}, error) {
	var resp databaseResponse
	if err := c.do(ctx, http.MethodGet, "/databases/"+c.cfg.DatabaseID, nil, &resp); err != nil {
		return nil, fmt.Errorf("failed to fetch database schema: %w", err)
	}

	names := make(map[string]struct{}, len(resp.Properties))
	for name := range resp.Properties {
		names[name] = struct{}{}
	}
	return names, nil
}
