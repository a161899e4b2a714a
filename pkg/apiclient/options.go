package apiclient

import (
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultBasePath is the route prefix the backend is mounted under.
	DefaultBasePath = "/db"
	defaultTimeout  = 30 * time.Second
)

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the scheme and host requests are sent to
// (e.g. "http://localhost:8000"). An empty base URL keeps paths relative,
// which is only useful with a custom transport.
func WithBaseURL(raw string) Option {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(strings.TrimSpace(raw), "/")
	}
}

// WithBasePath overrides the route prefix (default "/db"). Pass "/" to
// disable the prefix.
func WithBasePath(path string) Option {
	return func(c *Client) {
		c.basePath = normalizeBasePath(path)
	}
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithHeader adds a header sent on every request, e.g. an auth token.
func WithHeader(key, value string) Option {
	return func(c *Client) {
		key = strings.TrimSpace(key)
		if key == "" {
			return
		}
		c.headers.Set(key, value)
	}
}

func normalizeBasePath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" || path == "/" {
		return ""
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return strings.TrimRight(path, "/")
}
