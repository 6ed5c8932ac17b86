package normalize

import (
	"encoding/json"

	"github.com/kailas-cloud/pricecheck/internal/domain/envelope"
	"github.com/kailas-cloud/pricecheck/internal/domain/store"
)

// Outcome is the normalized model output.
// Raw holds the parsed payload whenever Status is no_results.
type Outcome struct {
	Status  envelope.Status
	Message string
	Stores  []store.Result
	Raw     json.RawMessage
}

// Normalize extracts, parses and coerces raw model output.
// Only unparseable output is an error; unusable shapes become no_results.
func Normalize(raw string) (Outcome, error) {
	parsed, err := Parse(raw)
	if err != nil {
		return Outcome{}, err
	}

	canonical, ok := Coerce(parsed)
	if !ok {
		return Outcome{Status: envelope.StatusNoResults, Raw: json.RawMessage(parsed.Raw)}, nil
	}
	if canonical.Status != string(envelope.StatusOK) {
		return Outcome{
			Status:  envelope.StatusNoResults,
			Message: canonical.Message,
			Raw:     json.RawMessage(parsed.Raw),
		}, nil
	}

	return Outcome{Status: envelope.StatusOK, Stores: DecodeStores(canonical.Results)}, nil
}
