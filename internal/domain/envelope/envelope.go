package envelope

import (
	"encoding/json"

	"github.com/kailas-cloud/pricecheck/internal/domain/store"
)

// Status is the outcome of a compare request.
type Status string

const (
	// StatusOK carries ranked results.
	StatusOK Status = "ok"
	// StatusNoResults signals parseable output with nothing usable.
	StatusNoResults Status = "no_results"
	// StatusError signals a hard failure.
	StatusError Status = "error"
	// StatusNeedInput signals missing request fields.
	StatusNeedInput Status = "need_input"
)

// IsValid reports whether s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusOK, StatusNoResults, StatusError, StatusNeedInput:
		return true
	}
	return false
}

// Envelope is the only shape returned to callers.
type Envelope struct {
	Status  Status          `json:"status"`
	Results []store.Result  `json:"results,omitempty"`
	Needed  []string        `json:"needed,omitempty"`
	Message string          `json:"message,omitempty"`
	Details any             `json:"details,omitempty"`
	Raw     json.RawMessage `json:"raw,omitempty"`
}

// OK wraps ranked results.
func OK(results []store.Result) Envelope {
	return Envelope{Status: StatusOK, Results: results}
}

// NoResults builds a no_results outcome with an optional message and raw diagnostic payload.
func NoResults(message string, raw json.RawMessage) Envelope {
	return Envelope{Status: StatusNoResults, Message: message, Raw: raw}
}

// NeedInput names the missing request fields.
func NeedInput(needed []string) Envelope {
	return Envelope{Status: StatusNeedInput, Needed: needed}
}

// Error builds an error outcome.
func Error(message string, details any) Envelope {
	return Envelope{Status: StatusError, Message: message, Details: details}
}
