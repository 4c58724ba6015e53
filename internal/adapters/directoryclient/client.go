// Package directoryclient reads the directory HTTP API.
// Client satisfies accumulator.Fetcher, so list views can page a remote directory.
package directoryclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"directory/internal/application/accumulator"
	"directory/internal/application/listutil"
	"directory/internal/application/projections"
	"directory/internal/domain/member"
)

// ErrNotFound is returned when the server answers 404.
var ErrNotFound = errors.New("directoryclient: not found")

// StatusError reports a non-success response.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("directoryclient: status %d: %s", e.Code, e.Message)
}

// Client calls the directory API at BaseURL.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client // nil selects a client with a 10s timeout
}

// New creates a Client for baseURL.
func New(baseURL string) *Client {
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 10 * time.Second},
	}
}

var _ accumulator.Fetcher = (*Client)(nil)

// memberPage mirrors the fields of the member list response the client reads.
type memberPage struct {
	Rows []member.Member  `json:"rows"`
	Info listutil.PageInfo `json:"page_info"`
}

// FetchMembers requests one window of the member list.
// PRE: page >= 0, pageSize > 0
// POST: Rows are in server order; Total is the server's match count
func (c *Client) FetchMembers(ctx context.Context, q accumulator.Query, page, pageSize int) (accumulator.Page, error) {
	filter := listutil.MemberFilter{Search: q.Search, Genders: q.Genders, Profession: q.Profession}
	values := filter.Values(listutil.PageParams{Page: page, PageSize: pageSize})

	var resp memberPage
	if err := c.getJSON(ctx, "/api/members", values, &resp); err != nil {
		return accumulator.Page{}, fmt.Errorf("fetch members page %d: %w", page, err)
	}
	return accumulator.Page{Rows: resp.Rows, Total: resp.Info.Total}, nil
}

// Member fetches one member with its card and contact links.
// POST: Returns ErrNotFound for an unknown id
func (c *Client) Member(ctx context.Context, id string) (projections.GetMemberDetailResult, error) {
	var resp projections.GetMemberDetailResult
	if err := c.getJSON(ctx, "/api/members/"+url.PathEscape(id), nil, &resp); err != nil {
		return projections.GetMemberDetailResult{}, err
	}
	return resp, nil
}

// Family lists the members sharing familyNo, head first.
func (c *Client) Family(ctx context.Context, familyNo string) (projections.GetFamilyResult, error) {
	var resp projections.GetFamilyResult
	if err := c.getJSON(ctx, "/api/families/"+url.PathEscape(familyNo), nil, &resp); err != nil {
		return projections.GetFamilyResult{}, err
	}
	return resp, nil
}

func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	target := c.BaseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	httpClient := c.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	start := time.Now()
	resp, err := httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", path, err)
	}
	defer resp.Body.Close()
	slog.Debug("directory_request", "path", path, "status", resp.StatusCode, "duration_ms", time.Since(start).Milliseconds())

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return &StatusError{Code: resp.StatusCode, Message: readMessage(resp.Body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// readMessage extracts the server's error text, falling back to the raw body.
func readMessage(r io.Reader) string {
	raw, _ := io.ReadAll(io.LimitReader(r, 4096))
	var body struct {
		Error string `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil && body.Error != "" {
		return body.Error
	}
	return strings.TrimSpace(string(raw))
}
