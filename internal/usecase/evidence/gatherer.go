package evidence

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/pricecheck/internal/domain/evidence"
	logpkg "github.com/kailas-cloud/pricecheck/internal/logger"
	"github.com/kailas-cloud/pricecheck/internal/metrics"
)

// Default gathering budgets.
const (
	DefaultResultsPerQuery  = 5
	DefaultMaxDocs          = 8
	DefaultPerPageChars     = 6000
	DefaultMinDocChars      = 400
	DefaultTotalCorpusChars = 24000
)

// Config holds the gathering budgets. Per-page and total-corpus caps are independent.
type Config struct {
	ResultsPerQuery  int
	MaxDocs          int
	PerPageChars     int
	MinDocChars      int
	TotalCorpusChars int
	SearchTimeout    time.Duration
	FetchTimeout     time.Duration
}

func (c Config) withDefaults() Config {
	if c.ResultsPerQuery <= 0 {
		c.ResultsPerQuery = DefaultResultsPerQuery
	}
	if c.MaxDocs <= 0 {
		c.MaxDocs = DefaultMaxDocs
	}
	if c.PerPageChars <= 0 {
		c.PerPageChars = DefaultPerPageChars
	}
	if c.MinDocChars <= 0 {
		c.MinDocChars = DefaultMinDocChars
	}
	if c.TotalCorpusChars <= 0 {
		c.TotalCorpusChars = DefaultTotalCorpusChars
	}
	return c
}

// Gatherer assembles a bounded evidence corpus from web search results.
// Queries and page fetches run sequentially with early exit once the document cap is reached.
type Gatherer struct {
	searcher Searcher
	fetcher  Fetcher
	cfg      Config
}

// NewGatherer creates an evidence gatherer.
func NewGatherer(searcher Searcher, fetcher Fetcher, cfg Config) *Gatherer {
	return &Gatherer{searcher: searcher, fetcher: fetcher, cfg: cfg.withDefaults()}
}

// Gather executes queries in order and returns the budgeted corpus.
// A search failure aborts gathering and no partial evidence is returned;
// page fetch failures only degrade the corpus.
func (g *Gatherer) Gather(ctx context.Context, queries []string) ([]evidence.Document, error) {
	logger := logpkg.FromContext(ctx)
	budget := NewBudget(g.cfg.MaxDocs)

	for _, q := range queries {
		if budget.Full() {
			break
		}

		hits, err := g.search(ctx, q)
		if err != nil {
			return nil, fmt.Errorf("search %q: %w", q, err)
		}
		logger.Debug("search completed", zap.String("query", q), zap.Int("hits", len(hits)))

		for _, hit := range hits {
			if budget.Full() {
				break
			}
			if !isHTTP(hit.URL) || budget.Seen(hit.URL) {
				metrics.FetchPagesTotal.WithLabelValues("skipped").Inc()
				continue
			}

			text, ok := g.fetchText(ctx, hit.URL)
			if !ok {
				continue
			}
			if len([]rune(text)) < g.cfg.MinDocChars {
				metrics.FetchPagesTotal.WithLabelValues("short").Inc()
				continue
			}

			budget.Accept(evidence.Document{URL: hit.URL, Excerpt: text})
			metrics.FetchPagesTotal.WithLabelValues("accepted").Inc()
		}
	}

	docs := SelectPrefix(budget.Documents(), g.cfg.TotalCorpusChars)
	metrics.EvidenceDocuments.Observe(float64(len(docs)))

	logger.Debug("evidence gathered",
		zap.Int("queries", len(queries)),
		zap.Int("accepted", budget.Count()),
		zap.Int("accepted_chars", budget.Chars()),
		zap.Int("kept", len(docs)),
	)
	return docs, nil
}

func (g *Gatherer) search(ctx context.Context, q string) ([]evidence.Hit, error) {
	if g.cfg.SearchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.SearchTimeout)
		defer cancel()
	}
	hits, err := g.searcher.Search(ctx, q, g.cfg.ResultsPerQuery)
	if err != nil {
		return nil, err //nolint:wrapcheck // wrapped by caller with the query
	}
	return hits, nil
}

// fetchText downloads and cleans one page. Failures are absorbed and reported as !ok.
func (g *Gatherer) fetchText(ctx context.Context, pageURL string) (string, bool) {
	if g.cfg.FetchTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.cfg.FetchTimeout)
		defer cancel()
	}

	body, err := g.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		metrics.FetchPagesTotal.WithLabelValues("error").Inc()
		logpkg.FromContext(ctx).Debug("page fetch failed", zap.String("url", pageURL), zap.Error(err))
		return "", false
	}
	return CleanHTML(body, g.cfg.PerPageChars), true
}

func isHTTP(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}
