// Package fetch is the single upstream HTTP capability the caption sources
// consume: a GET with caller-supplied headers that returns the status code
// and body text. Sources decide what a given status or body means; this
// package only errors on transport failures.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single upstream request when the caller does not
// configure one.
const DefaultTimeout = 20 * time.Second

// maxBodyBytes caps how much of an upstream body is read. Caption payloads
// are small; anything larger is not a caption payload.
const maxBodyBytes = 10 << 20

// Response is the status and body text of one upstream GET.
type Response struct {
	Status int
	Body   string
}

// OK reports whether the response carries a success status.
func (r *Response) OK() bool {
	return r.Status >= 200 && r.Status < 300
}

// Getter performs an HTTP GET with custom headers. Implementations return
// an error only for transport-level failures; a non-2xx status is returned
// as a Response for the caller to judge.
type Getter interface {
	Get(ctx context.Context, url string, headers map[string]string) (*Response, error)
}

// Client is the production Getter backed by net/http.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a Client with the given per-request timeout.
func NewClient(timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Timeout reports the per-request timeout the client was built with.
func (c *Client) Timeout() time.Duration {
	return c.httpClient.Timeout
}

// Get performs the request and reads the full body.
func (c *Client) Get(ctx context.Context, url string, headers map[string]string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", url, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return &Response{Status: resp.StatusCode, Body: string(body)}, nil
}

// BrowserHeaders returns the fixed browser-like header set sent with every
// upstream request. The origin/referer point at the platform so requests
// are less likely to be rejected by anti-automation checks.
func BrowserHeaders() map[string]string {
	return map[string]string{
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
		"Accept-Language": "en-US,en;q=0.9",
		"Origin":          "https://www.youtube.com",
		"Referer":         "https://www.youtube.com/",
	}
}
