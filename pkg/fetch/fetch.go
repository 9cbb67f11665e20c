// Package fetch supplies raw document bytes to the pipeline. It is the
// transport collaborator: it moves bytes and nothing else, with no retry
// or backoff.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	DefaultUserAgent = "blockrender/1.0 (compatible; Go)"
	DefaultTimeout   = 30 * time.Second
	// DefaultMaxBytes caps a response body.
	DefaultMaxBytes = 32 << 20
)

// Fetcher retrieves resources by URL.
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (body []byte, contentType string, err error)
}

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	Code int
	URL  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d fetching %s", e.Code, e.URL)
}

// Options configures an HTTPFetcher. Zero values select the defaults.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// BaseURL resolves relative URLs passed to Fetch.
	BaseURL  string
	MaxBytes int64
	// Client replaces the HTTP client; Timeout is then ignored.
	Client *http.Client
}

// HTTPFetcher fetches resources over HTTP and HTTPS.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	baseURL   string
	maxBytes  int64
}

func NewHTTPFetcher(opts Options) *HTTPFetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: opts.Timeout}
	}
	return &HTTPFetcher{
		client:    client,
		userAgent: opts.UserAgent,
		baseURL:   opts.BaseURL,
		maxBytes:  opts.MaxBytes,
	}
}

// Fetch retrieves the resource at rawURL, resolving it against the base URL
// first when it is relative.
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	resolved := rawURL
	if !IsNetworkURL(rawURL) && f.baseURL != "" {
		resolved = ResolveURL(f.baseURL, rawURL)
	}
	if !IsNetworkURL(resolved) {
		return nil, "", fmt.Errorf("cannot fetch non-network URL: %s", resolved)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, resolved, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("fetching %s: %w", resolved, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", &StatusError{Code: resp.StatusCode, URL: resolved}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("reading response body: %w", err)
	}
	if int64(len(body)) > f.maxBytes {
		return nil, "", fmt.Errorf("response from %s exceeds %d bytes", resolved, f.maxBytes)
	}
	return body, resp.Header.Get("Content-Type"), nil
}

// FetchCSS fetches a stylesheet and returns its text. Responses that do not
// look like text are rejected.
func FetchCSS(ctx context.Context, f Fetcher, rawURL string) (string, error) {
	body, contentType, err := f.Fetch(ctx, rawURL)
	if err != nil {
		return "", err
	}
	ct := strings.ToLower(contentType)
	if ct != "" && !strings.HasPrefix(ct, "text/") && !strings.Contains(ct, "css") {
		return "", fmt.Errorf("unexpected content type for CSS: %s", contentType)
	}
	return string(body), nil
}

// ReadSource loads a document from a URL through f, or from the local
// file system otherwise. Local files carry no content type.
func ReadSource(ctx context.Context, f Fetcher, target string) ([]byte, string, error) {
	if IsNetworkURL(target) {
		return f.Fetch(ctx, target)
	}
	path := strings.TrimPrefix(target, "file://")
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", path, err)
	}
	return body, "", nil
}

// ResolveURL resolves a possibly-relative URI against a base URL.
// If ref is already absolute, it is returned as-is.
func ResolveURL(base, ref string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return ref
	}
	refURL, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return baseURL.ResolveReference(refURL).String()
}

// IsNetworkURL returns true if the string looks like an HTTP or HTTPS URL.
func IsNetworkURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
