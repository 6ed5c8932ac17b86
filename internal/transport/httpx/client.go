// Package httpx builds the retrying HTTP clients used by the search and fetch adapters.
package httpx

import (
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Options configure a client. RetryMax 0 sends each request exactly once.
type Options struct {
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

// NewClient returns a retryablehttp client that hands the final response back to
// the caller instead of swallowing non-2xx statuses, so adapters can report them.
func NewClient(opts Options) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.Logger = nil
	c.RetryMax = max(opts.RetryMax, 0)
	if opts.RetryWaitMin > 0 {
		c.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		c.RetryWaitMax = opts.RetryWaitMax
	}
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	return c
}
