// Package jortt is a read-only client for the invoicing service's
// internal JSON API, authenticated with the session cookie of a logged
// in browser session.
package jortt

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"uren/internal/core"
	"uren/internal/overview"
)

// Ensure interface conformance
var (
	_ overview.ProjectLister = (*Client)(nil)
	_ overview.StatsReader   = (*Client)(nil)
)

const (
	projectsListPath = "/next_js/page/projects/list"
	projectShowPath  = "/next_js/page/projects/show"
	expensesListPath = "/next_js/page/expenses/list"

	sessionCookieName = "_jortt_session"
	dateParamLayout   = "2006-01-02"
)

// FetchError is a transport failure or a non-2xx response.
type FetchError struct {
	Endpoint   string
	StatusCode int // zero when the request never completed
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("fetch %s: unexpected status %d", e.Endpoint, e.StatusCode)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ParseError is a response body that is not valid JSON or misses a
// required field.
type ParseError struct {
	Endpoint string
	Err      error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s response: %v", e.Endpoint, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

type Client struct {
	baseURL string
	session string
	httpc   *http.Client
}

// NewClient creates a client for the service at baseURL. The session
// value is sent as the service's session cookie on every request.
func NewClient(baseURL, session string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		session: session,
		httpc:   &http.Client{Timeout: timeout},
	}
}

// Wire types. Pointer slices distinguish an absent key from an empty
// list, the only schema defense this client attempts.
type (
	projectsListResponse struct {
		Projects *[]projectRecord `json:"projects"`
	}

	projectRecord struct {
		AggregateID  string  `json:"aggregate_id"`
		Name         string  `json:"name"`
		CustomerName *string `json:"customer_name"`
	}

	projectShowResponse struct {
		Project *projectRecord    `json:"project"`
		Records *[]lineItemRecord `json:"project_line_item_records"`
	}

	lineItemRecord struct {
		Date     string  `json:"date"`
		Quantity float64 `json:"quantity"`
	}

	// ReceiptRecord points at the uploaded receipt for an expense.
	ReceiptRecord struct {
		OriginalURL string `json:"original_url"`
		Description string `json:"description"`
	}

	// Expense is one booked expense in the yearly listing.
	Expense struct {
		LedgerAccountName string         `json:"ledger_account_name"`
		Description       string         `json:"description"`
		ReceiptRecord     *ReceiptRecord `json:"receipt_record"`
	}

	// ExpensePage is one page of the paginated expense listing.
	ExpensePage struct {
		Expenses   []Expense `json:"expenses"`
		TotalPages int       `json:"total_pages"`
	}
)

// ListProjects enumerates the active projects.
func (c *Client) ListProjects(ctx context.Context) ([]core.Project, error) {
	var resp projectsListResponse
	if err := c.getJSON(ctx, projectsListPath, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Projects == nil {
		return nil, &ParseError{Endpoint: projectsListPath, Err: fmt.Errorf("missing projects field")}
	}
	projects := make([]core.Project, 0, len(*resp.Projects))
	for _, rec := range *resp.Projects {
		projects = append(projects, rec.toCore())
	}
	slog.DebugContext(ctx, "Listed projects", "count", len(projects))
	return projects, nil
}

// ReadProjectMonth fetches one project's time entry records for the
// month containing the anchor date.
func (c *Client) ReadProjectMonth(ctx context.Context, aggregateID string, anchor time.Time) (core.ProjectMonth, error) {
	query := url.Values{
		"period_cycle": {"month"},
		"period_date":  {anchor.Format(dateParamLayout)},
		"aggregate_id": {aggregateID},
	}
	var resp projectShowResponse
	if err := c.getJSON(ctx, projectShowPath, query, &resp); err != nil {
		return core.ProjectMonth{}, err
	}
	if resp.Project == nil || resp.Records == nil {
		return core.ProjectMonth{}, &ParseError{Endpoint: projectShowPath, Err: fmt.Errorf("missing project or record fields")}
	}
	pm := core.ProjectMonth{Project: resp.Project.toCore()}
	pm.Project.AggregateID = aggregateID
	for _, rec := range *resp.Records {
		pm.Records = append(pm.Records, core.LineItem{Date: rec.Date, Quantity: rec.Quantity})
	}
	return pm, nil
}

// ListExpensePage fetches one page of the expense listing for a year.
func (c *Client) ListExpensePage(ctx context.Context, year, page int) (ExpensePage, error) {
	query := url.Values{
		"period_date":  {fmt.Sprintf("%d-01-01", year)},
		"period_cycle": {"year"},
		"current_page": {strconv.Itoa(page)},
	}
	var resp ExpensePage
	if err := c.getJSON(ctx, expensesListPath, query, &resp); err != nil {
		return ExpensePage{}, err
	}
	return resp, nil
}

// DownloadReceipt streams a receipt file. Receipt URLs in the expense
// listing may be relative to the service or absolute storage URLs.
func (c *Client) DownloadReceipt(ctx context.Context, rawURL string) (io.ReadCloser, error) {
	target, err := c.resolve(rawURL)
	if err != nil {
		return nil, &FetchError{Endpoint: rawURL, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &FetchError{Endpoint: rawURL, Err: err}
	}
	c.authorize(req)
	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, &FetchError{Endpoint: rawURL, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, &FetchError{Endpoint: rawURL, StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}

func (rec projectRecord) toCore() core.Project {
	p := core.Project{AggregateID: rec.AggregateID, Name: rec.Name}
	if rec.CustomerName != nil {
		p.CustomerName = *rec.CustomerName
	}
	return p
}

func (c *Client) resolve(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.IsAbs() {
		return raw, nil
	}
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(u).String(), nil
}

func (c *Client) authorize(req *http.Request) {
	if c.session != "" {
		req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: c.session})
	}
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return &FetchError{Endpoint: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	c.authorize(req)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return &FetchError{Endpoint: path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &FetchError{Endpoint: path, StatusCode: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &ParseError{Endpoint: path, Err: err}
	}
	return nil
}
