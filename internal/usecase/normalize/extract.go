// Package normalize turns raw model output into canonical store results.
package normalize

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/kailas-cloud/pricecheck/internal/domain"
)

// Extract returns the substring between the first '{' and the last '}',
// or the trimmed input when no such object is delimited.
// A valid top-level array that opens before any object is kept whole.
func Extract(raw string) string {
	obj := strings.Index(raw, "{")
	if arr := strings.Index(raw, "["); arr >= 0 && (obj < 0 || arr < obj) {
		if end := strings.LastIndex(raw, "]"); end > arr && gjson.Valid(raw[arr:end+1]) {
			return raw[arr : end+1]
		}
	}
	end := strings.LastIndex(raw, "}")
	if obj >= 0 && end > obj {
		return raw[obj : end+1]
	}
	return strings.TrimSpace(raw)
}

// Parse extracts and parses the model output. Unparseable output is ErrModelNonJSON.
func Parse(raw string) (gjson.Result, error) {
	text := Extract(raw)
	if text == "" || !gjson.Valid(text) {
		return gjson.Result{}, fmt.Errorf("%w: %s", domain.ErrModelNonJSON, domain.Truncate(text, 200))
	}
	return gjson.Parse(text), nil
}
