// Package bing implements the search capability over the Bing Web Search v7 API.
package bing

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"

	"github.com/kailas-cloud/pricecheck/internal/domain"
	"github.com/kailas-cloud/pricecheck/internal/domain/evidence"
	"github.com/kailas-cloud/pricecheck/internal/metrics"
	"github.com/kailas-cloud/pricecheck/internal/transport/httpx"
)

// Defaults.
const (
	DefaultEndpoint = "https://api.bing.microsoft.com/v7.0/search"
	Provider        = "bing"

	maxResponseBytes = 2 << 20
)

// Config holds the Bing settings.
type Config struct {
	APIKey   string
	Endpoint string
	Market   string
	SetLang  string
	RetryMax int
}

// Searcher queries Bing Web Search.
type Searcher struct {
	client   *retryablehttp.Client
	apiKey   string
	endpoint string
	market   string
	setLang  string
}

// NewSearcher creates a Bing searcher.
func NewSearcher(cfg Config) *Searcher {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &Searcher{
		client:   httpx.NewClient(httpx.Options{RetryMax: cfg.RetryMax}),
		apiKey:   cfg.APIKey,
		endpoint: endpoint,
		market:   cfg.Market,
		setLang:  cfg.SetLang,
	}
}

// Search returns up to count ranked web hits for query.
// A missing key fails before any network call; non-2xx responses are ProviderErrors.
func (s *Searcher) Search(ctx context.Context, query string, count int) ([]evidence.Hit, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("%s: %w", Provider, domain.ErrMissingCredentials)
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.url(query, count), nil)
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Ocp-Apim-Subscription-Key", s.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(Provider, "error").Inc()
		return nil, domain.NewProviderError(domain.CapabilitySearch, Provider, 0, err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(Provider, "error").Inc()
		return nil, domain.NewProviderError(domain.CapabilitySearch, Provider, resp.StatusCode, err.Error())
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.SearchRequestsTotal.WithLabelValues(Provider, "error").Inc()
		return nil, domain.NewProviderError(domain.CapabilitySearch, Provider, resp.StatusCode, string(body))
	}

	metrics.SearchRequestsTotal.WithLabelValues(Provider, "success").Inc()
	return parseHits(body, count), nil
}

// HealthCheck reports missing credentials without calling the API.
func (s *Searcher) HealthCheck(_ context.Context) error {
	if s.apiKey == "" {
		return fmt.Errorf("%s: %w", Provider, domain.ErrMissingCredentials)
	}
	return nil
}

func (s *Searcher) url(query string, count int) string {
	q := url.Values{}
	q.Set("q", query)
	if count > 0 {
		q.Set("count", strconv.Itoa(count))
	}
	if s.market != "" {
		q.Set("mkt", s.market)
	}
	if s.setLang != "" {
		q.Set("setLang", s.setLang)
	}
	return s.endpoint + "?" + q.Encode()
}

func parseHits(body []byte, count int) []evidence.Hit {
	var hits []evidence.Hit
	gjson.GetBytes(body, "webPages.value").ForEach(func(_, v gjson.Result) bool {
		u := v.Get("url").String()
		if u == "" {
			return true
		}
		hits = append(hits, evidence.Hit{
			Title:      v.Get("name").String(),
			URL:        u,
			Snippet:    v.Get("snippet").String(),
			DisplayURL: v.Get("displayUrl").String(),
		})
		return count <= 0 || len(hits) < count
	})
	return hits
}
