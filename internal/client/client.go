// Package client is a typed HTTP client for the incident API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/bissquit/incident-tracker/internal/domain"
	"github.com/bissquit/incident-tracker/internal/incidents"
	"github.com/bissquit/incident-tracker/internal/pkg/nullable"
)

// DefaultBaseURL is where a locally started server listens.
const DefaultBaseURL = "http://localhost:5000"

// APIError is returned for any non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// Client talks to a single incident-tracker server.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a client for baseURL, e.g. "http://localhost:5000".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListParams are the list query parameters. Zero values are omitted so the
// server applies its defaults.
type ListParams struct {
	Page     int
	Limit    int
	Search   string
	Severity string
	Status   string
	SortBy   string
	Order    string
}

func (p ListParams) values() url.Values {
	v := url.Values{}
	if p.Page > 0 {
		v.Set("page", strconv.Itoa(p.Page))
	}
	if p.Limit > 0 {
		v.Set("limit", strconv.Itoa(p.Limit))
	}
	for key, val := range map[string]string{
		"search":   p.Search,
		"severity": p.Severity,
		"status":   p.Status,
		"sortBy":   p.SortBy,
		"order":    p.Order,
	} {
		if val != "" {
			v.Set(key, val)
		}
	}
	return v
}

// CreateParams is the body of a create request.
type CreateParams struct {
	Title    string  `json:"title"`
	Service  string  `json:"service"`
	Severity string  `json:"severity"`
	Status   string  `json:"status"`
	Owner    *string `json:"owner,omitempty"`
	Summary  *string `json:"summary,omitempty"`
}

// UpdateParams is the body of a partial update. Only set fields are sent;
// nullable.Null clears owner or summary.
type UpdateParams struct {
	Status  nullable.String `json:"status,omitzero"`
	Owner   nullable.String `json:"owner,omitzero"`
	Summary nullable.String `json:"summary,omitzero"`
}

// ListIncidents fetches one page of incidents.
func (c *Client) ListIncidents(ctx context.Context, params ListParams) (*incidents.ListResult, error) {
	path := "/api/incidents"
	if q := params.values().Encode(); q != "" {
		path += "?" + q
	}

	var result incidents.ListResult
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetIncident fetches a single incident.
func (c *Client) GetIncident(ctx context.Context, id string) (*domain.Incident, error) {
	var incident domain.Incident
	if err := c.do(ctx, http.MethodGet, "/api/incidents/"+url.PathEscape(id), nil, &incident); err != nil {
		return nil, err
	}
	return &incident, nil
}

// CreateIncident creates an incident and returns the stored record.
func (c *Client) CreateIncident(ctx context.Context, params CreateParams) (*domain.Incident, error) {
	var incident domain.Incident
	if err := c.do(ctx, http.MethodPost, "/api/incidents", params, &incident); err != nil {
		return nil, err
	}
	return &incident, nil
}

// UpdateIncident applies a partial update and returns the stored record.
func (c *Client) UpdateIncident(ctx context.Context, id string, params UpdateParams) (*domain.Incident, error) {
	var incident domain.Incident
	if err := c.do(ctx, http.MethodPatch, "/api/incidents/"+url.PathEscape(id), params, &incident); err != nil {
		return nil, err
	}
	return &incident, nil
}

// Health calls GET /health and returns the reported status.
func (c *Client) Health(ctx context.Context) (string, error) {
	var body struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/health", nil, &body); err != nil {
		return "", err
	}
	return body.Status, nil
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body struct {
		Error string `json:"error"`
	}
	msg := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &body); err == nil && body.Error != "" {
		msg = body.Error
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
