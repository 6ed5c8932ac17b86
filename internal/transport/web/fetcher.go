// Package web implements the page fetch capability.
package web

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/html/charset"

	"github.com/kailas-cloud/pricecheck/internal/transport/httpx"
)

// Defaults.
const (
	DefaultUserAgent    = "Mozilla/5.0 (compatible; pricecheck/1.0)"
	DefaultMaxBodyBytes = 2 << 20
)

// Config holds fetch settings.
type Config struct {
	UserAgent    string
	MaxBodyBytes int64
	RetryMax     int
}

// Fetcher downloads pages and decodes them to UTF-8.
type Fetcher struct {
	client    *retryablehttp.Client
	userAgent string
	maxBody   int64
}

// NewFetcher creates a page fetcher.
func NewFetcher(cfg Config) *Fetcher {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	return &Fetcher{
		client:    httpx.NewClient(httpx.Options{RetryMax: cfg.RetryMax}),
		userAgent: cfg.UserAgent,
		maxBody:   cfg.MaxBodyBytes,
	}
}

// Fetch returns the page body as UTF-8, truncated to the body cap.
// Non-2xx statuses and non-text content are errors.
func (f *Fetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build fetch request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,text/plain;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("fetch %s: HTTP %d", pageURL, resp.StatusCode)
	}
	contentType := resp.Header.Get("Content-Type")
	if !isText(contentType) {
		return nil, fmt.Errorf("fetch %s: unsupported content type %q", pageURL, contentType)
	}

	r, err := charset.NewReader(io.LimitReader(resp.Body, f.maxBody), contentType)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", pageURL, err)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", pageURL, err)
	}
	return body, nil
}

// isText accepts HTML and plain text. A missing content type is sniffed by the decoder.
func isText(contentType string) bool {
	if contentType == "" {
		return true
	}
	media, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return strings.HasPrefix(media, "text/") || media == "application/xhtml+xml"
}
