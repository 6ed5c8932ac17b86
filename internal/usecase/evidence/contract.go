package evidence

import (
	"context"

	"github.com/kailas-cloud/pricecheck/internal/domain/evidence"
)

// Searcher runs one web search query. Non-2xx responses and missing credentials are hard errors.
type Searcher interface {
	Search(ctx context.Context, query string, count int) ([]evidence.Hit, error)
}

// Fetcher downloads a page body. Errors are absorbed by the gatherer.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}
