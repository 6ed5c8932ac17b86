package basket

import (
	"encoding/json"
	"strings"
)

// noteSeparator joins notes into the single display string.
const noteSeparator = "; "

// Notes is an ordered list of distinct human-readable notes attached to a basket line.
// It serializes as one joined string.
type Notes []string

// Add appends note unless it is blank or already present. Reports whether it was added.
func (n *Notes) Add(note string) bool {
	note = strings.TrimSpace(note)
	if note == "" || n.Has(note) {
		return false
	}
	*n = append(*n, note)
	return true
}

// Has reports whether note is already present.
func (n Notes) Has(note string) bool {
	for _, existing := range n {
		if existing == note {
			return true
		}
	}
	return false
}

// String joins the notes for display.
func (n Notes) String() string {
	return strings.Join(n, noteSeparator)
}

// MarshalJSON renders the notes as a single string.
func (n Notes) MarshalJSON() ([]byte, error) {
	return json.Marshal(n.String())
}

// ParseNotes splits a model-supplied notes string into distinct notes.
func ParseNotes(s string) Notes {
	var out Notes
	for _, part := range strings.Split(s, ";") {
		out.Add(part)
	}
	return out
}
