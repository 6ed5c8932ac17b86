package pricecheck

import (
	"github.com/kailas-cloud/pricecheck/internal/domain/basket"
	"github.com/kailas-cloud/pricecheck/internal/domain/envelope"
	"github.com/kailas-cloud/pricecheck/internal/domain/evidence"
	"github.com/kailas-cloud/pricecheck/internal/domain/store"
)

// Request is one comparison request.
type Request struct {
	Address  string
	RadiusKM float64
	ListText string
	UseWeb   bool
	// Provider selects a registered model provider; empty uses the default.
	Provider string
}

// Envelope is the comparison outcome.
type Envelope = envelope.Envelope

// Status is the envelope status.
type Status = envelope.Status

// Envelope statuses.
const (
	StatusOK        = envelope.StatusOK
	StatusNoResults = envelope.StatusNoResults
	StatusError     = envelope.StatusError
	StatusNeedInput = envelope.StatusNeedInput
)

// StoreResult is one ranked store.
type StoreResult = store.Result

// BasketLine is one priced item of a store basket.
type BasketLine = basket.Line

// SearchHit is one web search result.
type SearchHit = evidence.Hit
