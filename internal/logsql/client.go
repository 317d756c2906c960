// Package logsql is a client for a LogsQL log-analytics backend. It builds
// per-endpoint request parameters from shared inputs, issues one HTTP GET
// per call, decodes the NDJSON response body line by line, and wraps the
// outcome in a uniform result envelope. Query strings are opaque to it.
package logsql

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/vlquery/vlq/internal/model"
)

// Doer issues a single HTTP request. *http.Client satisfies it; tests
// substitute their own.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Querier is the query facade implemented by *Client and by test doubles.
type Querier interface {
	Do(ctx context.Context, req model.QueryRequest) *model.Result
}

var _ Querier = (*Client)(nil)

const userAgent = "vlq/1.0"

// maxErrorBody bounds the body excerpt carried in a backend-error message.
const maxErrorBody = 200

// Client dispatches query requests against one backend base URL. It holds
// no per-call state, so a single Client is safe for concurrent use.
type Client struct {
	baseURL *url.URL
	http    Doer
	timeout time.Duration
}

// Option adjusts a Client at construction time.
type Option func(*Client)

// WithTimeout bounds each call. Zero or negative keeps the default.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithDoer substitutes the HTTP transport, usually with a test double. The
// caller owns connection pooling on whatever it passes in.
func WithDoer(d Doer) Option {
	return func(c *Client) {
		if d != nil {
			c.http = d
		}
	}
}

// New builds a Client for the given base URL. An empty URL falls back to
// the local-instance default; a bare host:port gets an http scheme.
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := parseBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	c := &Client{
		baseURL: base,
		timeout: model.DefaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		c.http = &http.Client{Timeout: c.timeout}
	}
	return c, nil
}

// BaseURL reports the resolved backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// Do runs one query end to end: build parameters, dispatch, decode,
// envelope. It never returns a Go error; every failure mode comes back as
// an error envelope with its failure class.
func (c *Client) Do(ctx context.Context, req model.QueryRequest) *model.Result {
	params, err := buildParams(req, time.Now())
	if err != nil {
		return model.Errorf(model.ErrClassValidation, "%v", err)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	endpoint := c.baseURL.ResolveReference(&url.URL{Path: EndpointPath(req.Kind), RawQuery: params.Encode()})
	httpReq, err := http.NewRequestWithContext(callCtx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return model.Errorf(model.ErrClassTransport, "Failed to build request for %s: %v", c.baseURL, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || callCtx.Err() == context.DeadlineExceeded {
			return model.Errorf(model.ErrClassTransport, "Request to %s timed out after %s", c.baseURL, c.timeout)
		}
		return model.Errorf(model.ErrClassTransport, "Failed to connect to %s: %v", c.baseURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Errorf(model.ErrClassTransport, "Failed to read response from %s: %v", c.baseURL, err)
	}
	if resp.StatusCode >= 400 {
		return model.Errorf(model.ErrClassProtocol, "HTTP %d: %s", resp.StatusCode, truncate(strings.TrimSpace(string(body)), maxErrorBody))
	}
	return model.Success(decodeBody(body))
}

// Search returns raw records matching the query.
func (c *Client) Search(ctx context.Context, req model.QueryRequest) *model.Result {
	return c.Do(ctx, req.WithKind(model.KindSearch))
}

// Stats evaluates a stats query at a single instant.
func (c *Client) Stats(ctx context.Context, req model.QueryRequest) *model.Result {
	return c.Do(ctx, req.WithKind(model.KindStats))
}

// StatsRange evaluates a stats query over a stepped time range.
func (c *Client) StatsRange(ctx context.Context, req model.QueryRequest) *model.Result {
	return c.Do(ctx, req.WithKind(model.KindStatsRange))
}

// Hits returns time-bucketed counts of matching records.
func (c *Client) Hits(ctx context.Context, req model.QueryRequest) *model.Result {
	return c.Do(ctx, req.WithKind(model.KindHits))
}

// Facets returns the most frequent values per field.
func (c *Client) Facets(ctx context.Context, req model.QueryRequest) *model.Result {
	return c.Do(ctx, req.WithKind(model.KindFacets))
}

// FieldNames lists field names seen on matching records.
func (c *Client) FieldNames(ctx context.Context, req model.QueryRequest) *model.Result {
	return c.Do(ctx, req.WithKind(model.KindFieldNames))
}

// FieldValues lists values of one field on matching records.
func (c *Client) FieldValues(ctx context.Context, req model.QueryRequest) *model.Result {
	return c.Do(ctx, req.WithKind(model.KindFieldValues))
}

// Streams lists matching log streams.
func (c *Client) Streams(ctx context.Context, req model.QueryRequest) *model.Result {
	return c.Do(ctx, req.WithKind(model.KindStreams))
}

// StreamIDs lists matching stream identifiers.
func (c *Client) StreamIDs(ctx context.Context, req model.QueryRequest) *model.Result {
	return c.Do(ctx, req.WithKind(model.KindStreamIDs))
}

// StreamFieldNames lists stream label names on matching streams.
func (c *Client) StreamFieldNames(ctx context.Context, req model.QueryRequest) *model.Result {
	return c.Do(ctx, req.WithKind(model.KindStreamFieldNames))
}

// StreamFieldValues lists values of one stream label.
func (c *Client) StreamFieldValues(ctx context.Context, req model.QueryRequest) *model.Result {
	return c.Do(ctx, req.WithKind(model.KindStreamFieldValues))
}

// Tenants lists tenants with data on the backend.
func (c *Client) Tenants(ctx context.Context, req model.QueryRequest) *model.Result {
	return c.Do(ctx, req.WithKind(model.KindTenants))
}

// parseBaseURL normalizes a configured base URL, defaulting the scheme and
// stripping any path so endpoint paths resolve against the root.
func parseBaseURL(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		trimmed = model.DefaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse base url %q: %w", raw, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
